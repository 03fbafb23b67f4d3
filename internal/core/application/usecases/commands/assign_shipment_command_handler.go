package commands

import (
	"context"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

// AssignShipmentCommandHandler stores the waybill. A waybill already used by
// another order is rejected by the store with errs.ErrValueIsDuplicate.
type AssignShipmentCommandHandler struct {
	executor Executor
}

func NewAssignShipmentCommandHandler(executor Executor) AssignShipmentCommandHandler {
	return AssignShipmentCommandHandler{executor: executor}
}

func (h AssignShipmentCommandHandler) Handle(ctx context.Context, cmd AssignShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.executor.mutate(ctx, "assign_shipment", byID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		return o.AssignShipment(cmd.ShipmentID(), cmd.LabelRef(), now)
	})
}
