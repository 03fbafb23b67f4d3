package order

import (
	"fmt"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// DeliveryMode tells whether fulfillment is booked by staff, by the courier
// integration, or by one falling back to the other.
type DeliveryMode int

const (
	DeliveryModeUnknown DeliveryMode = iota
	DeliveryManual
	DeliveryAutomatic
	DeliveryManualThenAutomatic
	DeliveryAutomaticThenManual
)

var deliveryModeNames = map[DeliveryMode]string{
	DeliveryModeUnknown:         "unknown",
	DeliveryManual:              "manual",
	DeliveryAutomatic:           "automatic",
	DeliveryManualThenAutomatic: "manual+automatic",
	DeliveryAutomaticThenManual: "automatic+manual",
}

func ParseDeliveryMode(s string) (DeliveryMode, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for m, name := range deliveryModeNames {
		if m != DeliveryModeUnknown && name == tag {
			return m, nil
		}
	}
	return DeliveryModeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"delivery mode is invalid", fmt.Errorf("%q is not a valid delivery mode", s))
}

func (m DeliveryMode) String() string {
	if name, ok := deliveryModeNames[m]; ok {
		return name
	}
	return deliveryModeNames[DeliveryModeUnknown]
}

func (m DeliveryMode) Validate() error {
	if _, ok := deliveryModeNames[m]; !ok || m == DeliveryModeUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery mode is invalid", fmt.Errorf("%d is not a valid delivery mode", m))
	}
	return nil
}

// MaxEstimatedDeliveryDays caps the delivery estimate shown to customers.
const MaxEstimatedDeliveryDays = 60

// DeliveryInfo is the fulfillment plan of an order. ShipmentID is the
// courier waybill and is unique across orders once set.
type DeliveryInfo struct {
	mode          DeliveryMode
	cost          kernel.Money
	estimatedDays int
	shipmentID    string
	labelRef      string
}

func NewDeliveryInfo(mode DeliveryMode, cost kernel.Money, estimatedDays int) (DeliveryInfo, error) {
	if err := mode.Validate(); err != nil {
		return DeliveryInfo{}, err
	}
	if err := cost.Validate(); err != nil {
		return DeliveryInfo{}, err
	}
	if estimatedDays < 0 || estimatedDays > MaxEstimatedDeliveryDays {
		return DeliveryInfo{}, errs.NewValueIsOutOfRangeError("estimatedDays", estimatedDays, 0, MaxEstimatedDeliveryDays)
	}
	return DeliveryInfo{mode: mode, cost: cost, estimatedDays: estimatedDays}, nil
}

func (d DeliveryInfo) Mode() DeliveryMode {
	return d.mode
}

func (d DeliveryInfo) Cost() kernel.Money {
	return d.cost
}

func (d DeliveryInfo) EstimatedDays() int {
	return d.estimatedDays
}

// ShipmentID is the waybill, empty until a shipment is booked.
func (d DeliveryInfo) ShipmentID() string {
	return d.shipmentID
}

// LabelRef references the shipping label document.
func (d DeliveryInfo) LabelRef() string {
	return d.labelRef
}

func (d DeliveryInfo) withShipment(shipmentID, labelRef string) DeliveryInfo {
	d.shipmentID = shipmentID
	d.labelRef = labelRef
	return d
}
