package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "unknown waybill",
			err:      errs.NewObjectNotFoundError("shipmentId", "AWB404"),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: AWB404",
		},
		{
			name: "order lookup failed in the store",
			err: errs.NewObjectNotFoundErrorWithCause("order", "7f1c",
				errors.New("record not found")),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: param is: order, ID is: 7f1c (cause: record not found)",
		},
		{
			name:     "line item quantity below one",
			err:      errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 0 is quantity, min value is 1, max value is 100",
		},
		{
			name:     "stale payment window",
			err:      errs.NewValueIsOutOfRangeError("window", "0s", "1ns", "unbounded"),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 0s is window, min value is 1ns, max value is unbounded",
		},
		{
			name:     "callback without gateway order id",
			err:      errs.NewValueIsRequiredError("gatewayOrderId"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: gatewayOrderId",
		},
		{
			name: "unknown gateway outcome",
			err: errs.NewValueIsInvalidErrorWithCause("outcome is invalid",
				errors.New(`"chargeback" is not a valid gateway outcome`)),
			sentinel: errs.ErrValueIsInvalid,
			message:  `value is invalid: outcome is invalid (cause: "chargeback" is not a valid gateway outcome)`,
		},
		{
			name: "waybill already booked on another order",
			err: errs.NewValueIsDuplicateErrorWithCause("order",
				errors.New("duplicated key not allowed")),
			sentinel: errs.ErrValueIsDuplicate,
			message:  "value is duplicate: order (cause: duplicated key not allowed)",
		},
		{
			name:     "concurrent order update",
			err:      errs.NewVersionConflictError("7f1c", 3),
			sentinel: errs.ErrVersionConflict,
			message:  "version conflict: 7f1c, expected version 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
		errs.ErrValueIsDuplicate,
		errs.ErrVersionConflict,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}

	// Out of range keeps the "value is invalid" prefix but is its own kind.
	err := errs.NewValueIsOutOfRangeError("limit", 1000, 0, 500)
	assert.NotErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestVersionConflictSurvivesWrapping(t *testing.T) {
	conflict := errs.NewVersionConflictError("7f1c", 5)
	wrapped := fmt.Errorf("apply payment result: %w", conflict)

	var target *errs.VersionConflictError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "7f1c", target.ID)
	assert.Equal(t, int64(5), target.Expected)
	assert.ErrorIs(t, wrapped, errs.ErrVersionConflict)
}

func TestJoinedSetterErrors(t *testing.T) {
	err := errors.Join(
		errs.NewValueIsRequiredError("shippingAddress.city"),
		errs.NewValueIsOutOfRangeError("estimatedDays", -1, 0, 60),
		nil,
	)

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)

	var outOfRange *errs.ValueIsOutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
	assert.Equal(t, "estimatedDays", outOfRange.ParamName)
}

func TestMetadataValuesStayOnOneLine(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("event.metadata.remarks", "left at\r\ngate", 0, 256)

	assert.Contains(t, err.Error(), "left at  gate")
	assert.NotContains(t, err.Error(), "\n")
	assert.NotContains(t, err.Error(), "\r")
}
