package commands

import (
	"context"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

type UpdateShippingAddressCommandHandler struct {
	executor Executor
}

func NewUpdateShippingAddressCommandHandler(executor Executor) UpdateShippingAddressCommandHandler {
	return UpdateShippingAddressCommandHandler{executor: executor}
}

func (h UpdateShippingAddressCommandHandler) Handle(ctx context.Context, cmd UpdateShippingAddressCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.executor.mutate(ctx, "update_shipping_address", byID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		return o.UpdateShippingAddress(cmd.Address(), now)
	})
}
