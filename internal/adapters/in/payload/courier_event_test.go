package payload_test

import (
	"testing"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/in/payload"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)

func TestCourierEvent_Validation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	tests := []struct {
		name    string
		event   payload.CourierEvent
		wantErr bool
	}{
		{"shipment id", payload.CourierEvent{ShipmentID: "AWB1", Code: "delivered", At: at}, false},
		{"order id", payload.CourierEvent{OrderID: "0b6b4f1e-8c4a-4a53-9d7e-2f3c1a5b6d7e", Code: "delivered", At: at}, false},
		{"no target", payload.CourierEvent{Code: "delivered", At: at}, true},
		{"bad order id", payload.CourierEvent{OrderID: "not-a-uuid", Code: "delivered", At: at}, true},
		{"no code", payload.CourierEvent{ShipmentID: "AWB1", At: at}, true},
		{"no timestamp", payload.CourierEvent{ShipmentID: "AWB1", Code: "delivered"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.event)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCourierEvent_ToCommand(t *testing.T) {
	eta := at.Add(24 * time.Hour)
	cmd, err := payload.CourierEvent{
		OrderID:          "0b6b4f1e-8c4a-4a53-9d7e-2f3c1a5b6d7e",
		Code:             " Out_For_Delivery ",
		At:               at,
		Location:         "Pune",
		ExpectedDelivery: &eta,
		Metadata:         map[string]string{"hub": "PNQ-01"},
	}.ToCommand()

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	require.NotNil(t, cmd.OrderID())
	assert.Equal(t, "0b6b4f1e-8c4a-4a53-9d7e-2f3c1a5b6d7e", cmd.OrderID().String())
	assert.Empty(t, cmd.ShipmentID())
	assert.Equal(t, order.EventOutForDelivery, cmd.Event().Code())
	assert.Equal(t, "Pune", cmd.Event().Location())
}

func TestCourierEvent_ToCommand_InvalidOrderID(t *testing.T) {
	_, err := payload.CourierEvent{OrderID: "nope", Code: "delivered", At: at}.ToCommand()

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestTrackingOutcome(t *testing.T) {
	assert.Equal(t, "duplicate", payload.TrackingOutcome(order.TrackingResult{Duplicate: true}))
	assert.Equal(t, "review", payload.TrackingOutcome(order.TrackingResult{ReviewRequired: &order.ReviewRequiredWarning{}}))
	assert.Equal(t, "recorded", payload.TrackingOutcome(order.TrackingResult{}))
	assert.Equal(t, "applied", payload.TrackingOutcome(order.TrackingResult{Transitioned: []order.Status{order.Delivered}}))
}
