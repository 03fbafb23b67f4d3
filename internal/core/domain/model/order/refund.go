package order

import (
	"fmt"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

type RefundStatus int

const (
	RefundUnknown RefundStatus = iota
	RefundRequested
	RefundProcessing
	RefundCompleted
	RefundFailed
)

var refundStatusNames = map[RefundStatus]string{
	RefundUnknown:    "unknown",
	RefundRequested:  "requested",
	RefundProcessing: "processing",
	RefundCompleted:  "completed",
	RefundFailed:     "failed",
}

func ParseRefundStatus(s string) (RefundStatus, error) {
	for st, name := range refundStatusNames {
		if st != RefundUnknown && name == s {
			return st, nil
		}
	}
	return RefundUnknown, errs.NewValueIsInvalidErrorWithCause(
		"refund status is invalid", fmt.Errorf("%q is not a valid refund status", s))
}

func (s RefundStatus) String() string {
	if name, ok := refundStatusNames[s]; ok {
		return name
	}
	return refundStatusNames[RefundUnknown]
}

// IsOpen reports whether the request still awaits a gateway outcome.
func (s RefundStatus) IsOpen() bool {
	return s == RefundRequested || s == RefundProcessing
}

// RefundRequest is the customer's or operator's refund demand.
type RefundRequest struct {
	reason      string
	status      RefundStatus
	requestedAt time.Time
	updatedAt   time.Time
}

func (r RefundRequest) Reason() string {
	return r.reason
}

func (r RefundRequest) Status() RefundStatus {
	return r.status
}

func (r RefundRequest) RequestedAt() time.Time {
	return r.requestedAt
}

func (r RefundRequest) UpdatedAt() time.Time {
	return r.updatedAt
}
