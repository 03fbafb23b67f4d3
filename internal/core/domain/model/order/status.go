package order

import (
	"fmt"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// Status is the overall order status.
//
//	processing ─> confirmed ─> ready_to_ship ─> shipped ─> out_for_delivery ─> delivered
//	     │             │              │             │               │              │
//	     ├─────────────┴──────────────┴─> cancelled └───────────────┴─> rto ───────┴─> returned
//	     └─────────────┴──────────────┴─> shipment_failed | payment_failed
//
// delivered, cancelled and returned are terminal, except delivered -> returned.
type Status int

const (
	Unknown Status = iota
	Processing
	Confirmed
	ReadyToShip
	Shipped
	OutForDelivery
	Delivered
	ShipmentFailed
	PaymentFailed
	Cancelled
	RTO
	Returned
)

var statusNames = map[Status]string{
	Unknown:        "unknown",
	Processing:     "processing",
	Confirmed:      "confirmed",
	ReadyToShip:    "ready_to_ship",
	Shipped:        "shipped",
	OutForDelivery: "out_for_delivery",
	Delivered:      "delivered",
	ShipmentFailed: "shipment_failed",
	PaymentFailed:  "payment_failed",
	Cancelled:      "cancelled",
	RTO:            "rto",
	Returned:       "returned",
}

// transitions lists every allowed target per source status.
var transitions = map[Status][]Status{
	Processing:     {Confirmed, Cancelled, ShipmentFailed, PaymentFailed},
	Confirmed:      {ReadyToShip, Cancelled, ShipmentFailed, PaymentFailed},
	ReadyToShip:    {Shipped, Cancelled, ShipmentFailed, PaymentFailed},
	Shipped:        {OutForDelivery, RTO},
	OutForDelivery: {Delivered, RTO},
	Delivered:      {Returned},
	RTO:            {Returned},
}

// ParseStatus maps a status tag such as "ready_to_ship" to its Status.
func ParseStatus(s string) (Status, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for status, name := range statusNames {
		if status != Unknown && name == tag {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transitions exist other than a return.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}

// HasPassedConfirmation reports whether an order in this status went through confirmed.
// Cancelled and the failure branches are ambiguous and answered by the ledger instead.
func (s Status) HasPassedConfirmation() bool {
	switch s {
	case Confirmed, ReadyToShip, Shipped, OutForDelivery, Delivered, RTO, Returned:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether target is reachable in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError unless s -> target is allowed.
func (s Status) ValidateTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(target) {
		return newInvalidTransitionError(axisOrder, s.String(), target.String(), "")
	}
	return nil
}

// AllowedTransitions returns the targets reachable from s.
func (s Status) AllowedTransitions() []Status {
	return append([]Status(nil), transitions[s]...)
}
