package commands

import (
	"context"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler applies a status change through the
// transition table. Rejected changes leave the order untouched.
type ChangeOrderStatusCommandHandler struct {
	executor Executor
}

func NewChangeOrderStatusCommandHandler(executor Executor) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{executor: executor}
}

func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.executor.mutate(ctx, "change_order_status", byID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		return o.Transition(cmd.Target(), cmd.Actor(), cmd.Remarks(), now)
	})
}
