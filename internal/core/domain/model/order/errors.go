package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned for a status change that the
	// transition tables do not permit. State is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPaymentCorrelation is returned when gateway identifiers do not match
	// the order. It is treated as a possible replayed or forged callback.
	ErrPaymentCorrelation = errors.New("payment correlation mismatch")

	// ErrReviewRequired marks soft warnings: the mutation was applied but a
	// follow-up step was skipped and the order is flagged for manual review.
	ErrReviewRequired = errors.New("review required")

	// ErrInvariantViolated is returned when a mutation would break a
	// monetary or history invariant. It is never recovered from silently.
	ErrInvariantViolated = errors.New("order invariant violated")

	// ErrOrderIsNotConstructed is returned for orders not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrEventIsNotConstructed = errors.New("DeliveryEvent must be created via NewDeliveryEvent constructor")
)

const (
	axisOrder   = "order status"
	axisPayment = "payment status"
	axisRefund  = "refund"
)

// InvalidTransitionError describes a rejected change on one status axis.
type InvalidTransitionError struct {
	Axis   string
	From   string
	To     string
	Reason string
}

func newInvalidTransitionError(axis, from, to, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{Axis: axis, From: from, To: to, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s %s -> %s", ErrInvalidTransition, e.Axis, e.From, e.To)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PaymentCorrelationError names the identifier that failed to match.
// The recorded value is deliberately not part of the message.
type PaymentCorrelationError struct {
	OrderID string
	Field   string
	Got     string
}

func (e *PaymentCorrelationError) Error() string {
	return fmt.Sprintf("%s: %s %q does not match order %s", ErrPaymentCorrelation, e.Field, e.Got, e.OrderID)
}

func (e *PaymentCorrelationError) Unwrap() error {
	return ErrPaymentCorrelation
}

// ReviewRequiredWarning is returned inside results, never as the error value.
type ReviewRequiredWarning struct {
	OrderID string
	Reason  string
}

func (w *ReviewRequiredWarning) Error() string {
	return fmt.Sprintf("%s: order %s: %s", ErrReviewRequired, w.OrderID, w.Reason)
}

func (w *ReviewRequiredWarning) Unwrap() error {
	return ErrReviewRequired
}

func invariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolated, fmt.Sprintf(format, args...))
}
