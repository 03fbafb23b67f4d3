package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// ActorPaymentGateway is recorded for transitions caused by gateway callbacks.
const ActorPaymentGateway = "payment-gateway"

const refundFailedReview = "refund failed at gateway"

// GatewayOutcome is the result reported by the payment gateway.
type GatewayOutcome int

const (
	OutcomeUnknown GatewayOutcome = iota
	OutcomePaid
	OutcomeFailed
	OutcomeRefunded
	OutcomeRefundFailed
)

var gatewayOutcomeNames = map[GatewayOutcome]string{
	OutcomeUnknown:      "unknown",
	OutcomePaid:         "paid",
	OutcomeFailed:       "failed",
	OutcomeRefunded:     "refunded",
	OutcomeRefundFailed: "refund_failed",
}

func ParseGatewayOutcome(s string) (GatewayOutcome, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for outcome, name := range gatewayOutcomeNames {
		if outcome != OutcomeUnknown && name == tag {
			return outcome, nil
		}
	}
	return OutcomeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"outcome is invalid", fmt.Errorf("%q is not a valid gateway outcome", s))
}

func (g GatewayOutcome) String() string {
	if name, ok := gatewayOutcomeNames[g]; ok {
		return name
	}
	return gatewayOutcomeNames[OutcomeUnknown]
}

// GatewayResult is one gateway callback after signature verification.
type GatewayResult struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	Outcome        GatewayOutcome
}

// ReconcileResult tells the caller what a callback did.
type ReconcileResult struct {
	// Duplicate is set when the callback was already applied.
	Duplicate bool
	// Ignored is set for stale callbacks, such as failed after paid.
	Ignored bool
	// Confirmed is set when the callback confirmed the order.
	Confirmed bool

	ReviewRequired *ReviewRequiredWarning
}

// ApplyGatewayResult reconciles a payment gateway callback with the order.
//
// The gateway order id must match the one recorded at checkout, otherwise a
// PaymentCorrelationError is returned and nothing changes. Callbacks are
// idempotent: re-applying an outcome already reflected for the same payment
// id returns Duplicate without side effects.
//
// A first paid outcome marks the payment paid and confirms a processing
// order, which assigns the order code. Paid outcomes for orders that already
// left processing are recorded and flagged for review. A failed outcome
// forces payment_failed on Prepaid orders only. Refund outcomes never change
// the order status.
func (o *Order) ApplyGatewayResult(r GatewayResult, at time.Time) (ReconcileResult, error) {
	if err := o.verifyCorrelation(r.GatewayOrderID); err != nil {
		return ReconcileResult{}, err
	}

	r.PaymentID = strings.TrimSpace(r.PaymentID)
	switch r.Outcome {
	case OutcomePaid:
		return o.applyPaid(r, at)
	case OutcomeFailed:
		return o.applyFailed(r, at)
	case OutcomeRefunded:
		return o.applyRefunded(r, at)
	case OutcomeRefundFailed:
		return o.applyRefundFailed(r, at)
	default:
		return ReconcileResult{}, errs.NewValueIsInvalidErrorWithCause(
			"outcome is invalid", fmt.Errorf("%d is not a valid gateway outcome", r.Outcome))
	}
}

func (o *Order) verifyCorrelation(gatewayOrderID string) error {
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)
	if o.payment.gatewayOrderID == "" || gatewayOrderID != o.payment.gatewayOrderID {
		return &PaymentCorrelationError{OrderID: o.id.String(), Field: "gatewayOrderId", Got: gatewayOrderID}
	}
	return nil
}

func (o *Order) applyPaid(r GatewayResult, at time.Time) (ReconcileResult, error) {
	if r.PaymentID == "" {
		return ReconcileResult{}, errs.NewValueIsRequiredError("paymentId")
	}

	if o.payment.status.IsSettled() {
		if r.PaymentID == o.payment.paymentID {
			return ReconcileResult{Duplicate: true}, nil
		}
		warning := o.flagForReview(fmt.Sprintf("second payment %s captured for settled payment %s",
			r.PaymentID, o.payment.paymentID), at)
		return ReconcileResult{ReviewRequired: warning}, nil
	}

	previous := o.payment
	o.payment.status = PaymentPaid
	o.payment.paymentID = r.PaymentID
	o.payment.signature = r.Signature
	o.touch(at)

	if o.status != Processing {
		warning := o.flagForReview(fmt.Sprintf("payment captured while order is %s", o.status), at)
		return ReconcileResult{ReviewRequired: warning}, o.CheckInvariants()
	}

	if err := o.Transition(Confirmed, ActorPaymentGateway, "payment captured", at); err != nil {
		o.payment = previous
		return ReconcileResult{}, err
	}
	return ReconcileResult{Confirmed: true}, nil
}

func (o *Order) applyFailed(r GatewayResult, at time.Time) (ReconcileResult, error) {
	if o.payment.status.IsSettled() {
		return ReconcileResult{Ignored: true}, nil
	}
	if o.payment.status == PaymentStatusFailed && r.PaymentID == o.payment.paymentID {
		return ReconcileResult{Duplicate: true}, nil
	}

	o.payment.status = PaymentStatusFailed
	o.payment.paymentID = r.PaymentID
	o.payment.signature = r.Signature
	o.touch(at)

	if o.payment.method == Prepaid && o.status.CanTransitionTo(PaymentFailed) {
		if err := o.Transition(PaymentFailed, ActorPaymentGateway, "payment failed", at); err != nil {
			return ReconcileResult{}, err
		}
	}
	return ReconcileResult{}, o.CheckInvariants()
}

func (o *Order) applyRefunded(r GatewayResult, at time.Time) (ReconcileResult, error) {
	if o.payment.status == PaymentRefunded && r.PaymentID == o.payment.paymentID {
		return ReconcileResult{Duplicate: true}, nil
	}
	if o.payment.status != PaymentPaid && o.payment.status != PaymentRefundFailed {
		return ReconcileResult{}, newInvalidTransitionError(axisPayment,
			o.payment.status.String(), PaymentRefunded.String(), "")
	}
	if r.PaymentID != o.payment.paymentID {
		return ReconcileResult{}, &PaymentCorrelationError{OrderID: o.id.String(), Field: "paymentId", Got: r.PaymentID}
	}

	o.payment.status = PaymentRefunded
	o.settleRefund(RefundCompleted, "refunded by gateway", at)
	if o.review != nil && o.review.Reason == refundFailedReview {
		o.review = nil
	}
	o.touch(at)
	return ReconcileResult{}, o.CheckInvariants()
}

func (o *Order) applyRefundFailed(r GatewayResult, at time.Time) (ReconcileResult, error) {
	if o.payment.status == PaymentRefundFailed && r.PaymentID == o.payment.paymentID {
		return ReconcileResult{Duplicate: true}, nil
	}
	// A refund that already went through outranks any failure report for it.
	if o.payment.status == PaymentRefunded && r.PaymentID == o.payment.paymentID {
		return ReconcileResult{Ignored: true}, nil
	}
	if o.payment.status != PaymentPaid {
		return ReconcileResult{}, newInvalidTransitionError(axisPayment,
			o.payment.status.String(), PaymentRefundFailed.String(), "")
	}
	if r.PaymentID != o.payment.paymentID {
		return ReconcileResult{}, &PaymentCorrelationError{OrderID: o.id.String(), Field: "paymentId", Got: r.PaymentID}
	}

	o.payment.status = PaymentRefundFailed
	o.settleRefund(RefundFailed, "refund initiated by gateway", at)
	warning := o.flagForReview(refundFailedReview, at)
	return ReconcileResult{ReviewRequired: warning}, o.CheckInvariants()
}

// settleRefund closes the refund request, opening one first when the gateway
// refunded without a request on record.
func (o *Order) settleRefund(status RefundStatus, reason string, at time.Time) {
	if o.refund == nil {
		o.refund = &RefundRequest{reason: reason, requestedAt: at.UTC()}
	}
	o.refund.status = status
	o.refund.updatedAt = at.UTC()
}
