package commands

import (
	"errors"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrRecordDeliveryEventCommandIsNotConstructed = errors.New(
	"RecordDeliveryEventCommand must be created via NewRecordDeliveryEventCommand constructor",
)

// RecordDeliveryEventCommand carries one courier event. The order is
// addressed by waybill, or by order id when the courier echoes it back.
type RecordDeliveryEventCommand struct { //nolint:recvcheck //using for validation
	shipmentID string
	orderID    *kernel.UUID
	event      order.DeliveryEvent

	guard guard.ConstructorGuard
}

func NewRecordDeliveryEventCommand(
	shipmentID string,
	orderID *kernel.UUID,
	params order.DeliveryEventParams,
) (RecordDeliveryEventCommand, error) {
	shipmentID = strings.TrimSpace(shipmentID)

	var targetErr error
	if shipmentID == "" && orderID == nil {
		targetErr = errs.NewValueIsRequiredError("shipmentId")
	}
	if orderID != nil {
		targetErr = orderID.Validate()
	}

	event, eventErr := order.NewDeliveryEvent(params)
	if err := errors.Join(targetErr, eventErr); err != nil {
		return RecordDeliveryEventCommand{}, err
	}

	cmd := RecordDeliveryEventCommand{
		shipmentID: shipmentID,
		event:      event,
		guard:      guard.NewConstructorGuard(),
	}
	if orderID != nil {
		id := *orderID
		cmd.orderID = &id
	}
	return cmd, nil
}

func (c RecordDeliveryEventCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryEventCommandIsNotConstructed)
}

func (c RecordDeliveryEventCommand) ShipmentID() string {
	return c.shipmentID
}

func (c RecordDeliveryEventCommand) OrderID() *kernel.UUID {
	return c.orderID
}

func (c RecordDeliveryEventCommand) Event() order.DeliveryEvent {
	return c.event
}
