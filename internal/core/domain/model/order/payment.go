package order

import (
	"fmt"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// PaymentMethod is how the customer pays.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	// COD is collected at handover; payment status is informational only.
	COD
	// Prepaid is collected through the gateway before fulfillment.
	Prepaid
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentMethodUnknown: "unknown",
	COD:                  "COD",
	Prepaid:              "Prepaid",
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for m, name := range paymentMethodNames {
		if m != PaymentMethodUnknown && strings.EqualFold(name, strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment method is invalid", fmt.Errorf("%q is not a valid payment method", s))
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return paymentMethodNames[PaymentMethodUnknown]
}

func (m PaymentMethod) Validate() error {
	if m != COD && m != Prepaid {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment method is invalid", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// PaymentStatus is the payment axis of the order state.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentStatusFailed
	PaymentRefunded
	PaymentRefundFailed
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentUnknown:      "unknown",
	PaymentPending:      "pending",
	PaymentPaid:         "paid",
	PaymentStatusFailed: "failed",
	PaymentRefunded:     "refunded",
	PaymentRefundFailed: "refund_failed",
}

func (s PaymentStatus) String() string {
	if name, ok := paymentStatusNames[s]; ok {
		return name
	}
	return paymentStatusNames[PaymentUnknown]
}

func (s PaymentStatus) Validate() error {
	if _, ok := paymentStatusNames[s]; !ok || s == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// IsSettled reports whether the gateway already captured money for the order.
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentPaid || s == PaymentRefunded || s == PaymentRefundFailed
}

// Payment is the payment record embedded in the order.
type Payment struct {
	method         PaymentMethod
	status         PaymentStatus
	gatewayOrderID string
	paymentID      string
	signature      string
}

func newPayment(method PaymentMethod) (Payment, error) {
	if err := method.Validate(); err != nil {
		return Payment{}, err
	}
	return Payment{method: method, status: PaymentPending}, nil
}

func (p Payment) Method() PaymentMethod {
	return p.method
}

func (p Payment) Status() PaymentStatus {
	return p.status
}

// GatewayOrderID is the correlation id issued by the gateway at checkout.
func (p Payment) GatewayOrderID() string {
	return p.gatewayOrderID
}

func (p Payment) PaymentID() string {
	return p.paymentID
}

func (p Payment) Signature() string {
	return p.signature
}
