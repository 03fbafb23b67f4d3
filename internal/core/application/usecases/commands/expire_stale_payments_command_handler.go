package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

// errStillFresh stops the write when the order changed since it was listed.
var errStillFresh = errors.New("order no longer awaits payment")

// ExpireStalePaymentsCommandHandler is run by the stale payment job.
type ExpireStalePaymentsCommandHandler struct {
	executor Executor
}

func NewExpireStalePaymentsCommandHandler(executor Executor) ExpireStalePaymentsCommandHandler {
	return ExpireStalePaymentsCommandHandler{executor: executor}
}

// Handle returns the number of orders moved to payment_failed. Each order
// is expired in its own transaction so one failure does not block the rest.
func (h ExpireStalePaymentsCommandHandler) Handle(ctx context.Context, cmd ExpireStalePaymentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.executor.now().Add(-cmd.Window())
	ids, err := h.listStale(ctx, cutoff, cmd.Limit())
	if err != nil {
		return 0, err
	}

	expired := 0
	var errList []error
	for _, id := range ids {
		err := h.executor.mutate(ctx, "expire_stale_payment", byID(id), func(o *order.Order, now time.Time) error {
			if o.Status() != order.Processing || o.Payment().Status() != order.PaymentPending ||
				o.Payment().Method() != order.Prepaid {
				return errStillFresh
			}
			return o.Transition(order.PaymentFailed, order.ActorSystem, "payment window expired", now)
		})
		switch {
		case errors.Is(err, errStillFresh):
		case err != nil:
			h.executor.logger.ErrorContext(ctx, "failed to expire stale payment", "orderId", id.String(), "error", err)
			errList = append(errList, err)
		default:
			expired++
		}
	}

	return expired, errors.Join(errList...)
}

func (h ExpireStalePaymentsCommandHandler) listStale(ctx context.Context, cutoff time.Time, limit int) ([]kernel.UUID, error) {
	uow := h.executor.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetStalePending(ctx, cutoff, limit)
}
