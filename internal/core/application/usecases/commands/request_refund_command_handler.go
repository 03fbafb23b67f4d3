package commands

import (
	"context"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

// RequestRefundCommandHandler opens a refund request. The gateway outcome
// arrives later as a payment callback.
type RequestRefundCommandHandler struct {
	executor Executor
}

func NewRequestRefundCommandHandler(executor Executor) RequestRefundCommandHandler {
	return RequestRefundCommandHandler{executor: executor}
}

func (h RequestRefundCommandHandler) Handle(ctx context.Context, cmd RequestRefundCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.executor.mutate(ctx, "request_refund", byID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		return o.RequestRefund(cmd.Reason(), now)
	})
}
