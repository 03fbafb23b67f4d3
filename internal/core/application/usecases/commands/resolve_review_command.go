package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrResolveReviewCommandIsNotConstructed = errors.New(
	"ResolveReviewCommand must be created via NewResolveReviewCommand constructor",
)

// ResolveReviewCommand clears the review flag after an operator handled it.
type ResolveReviewCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewResolveReviewCommand(orderID kernel.UUID) (ResolveReviewCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ResolveReviewCommand{}, err
	}
	return ResolveReviewCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ResolveReviewCommand) Validate() error {
	return c.guard.Validate(ErrResolveReviewCommandIsNotConstructed)
}

func (c ResolveReviewCommand) OrderID() kernel.UUID {
	return c.orderID
}

type ResolveReviewCommandHandler struct {
	executor Executor
}

func NewResolveReviewCommandHandler(executor Executor) ResolveReviewCommandHandler {
	return ResolveReviewCommandHandler{executor: executor}
}

func (h ResolveReviewCommandHandler) Handle(ctx context.Context, cmd ResolveReviewCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.executor.mutate(ctx, "resolve_review", byID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		o.ClearReview(now)
		return nil
	})
}
