package commands

import (
	"errors"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrAssignShipmentCommandIsNotConstructed = errors.New(
	"AssignShipmentCommand must be created via NewAssignShipmentCommand constructor",
)

// AssignShipmentCommand records the waybill booked with the courier.
type AssignShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	shipmentID string
	labelRef   string

	guard guard.ConstructorGuard
}

func NewAssignShipmentCommand(orderID kernel.UUID, shipmentID, labelRef string) (AssignShipmentCommand, error) {
	shipmentID = strings.TrimSpace(shipmentID)

	var shipmentErr error
	if shipmentID == "" {
		shipmentErr = errs.NewValueIsRequiredError("shipmentId")
	}
	if err := errors.Join(orderID.Validate(), shipmentErr); err != nil {
		return AssignShipmentCommand{}, err
	}

	return AssignShipmentCommand{
		orderID:    orderID,
		shipmentID: shipmentID,
		labelRef:   strings.TrimSpace(labelRef),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignShipmentCommand) Validate() error {
	return c.guard.Validate(ErrAssignShipmentCommandIsNotConstructed)
}

func (c AssignShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignShipmentCommand) ShipmentID() string {
	return c.shipmentID
}

func (c AssignShipmentCommand) LabelRef() string {
	return c.labelRef
}
