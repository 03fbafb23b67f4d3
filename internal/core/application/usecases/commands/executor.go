package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/retry"
)

// Executor runs the read-modify-write cycle shared by all order commands.
// Each attempt opens its own transaction; version conflicts are retried
// with backoff up to the configured bound and then surfaced.
type Executor struct {
	uowFactory OrderUoWFactory
	retry      retry.Config
	logger     *slog.Logger
	now        func() time.Time
}

type ExecutorOption func(*Executor)

// WithClock overrides the time source used for history and event timestamps.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.now = now
	}
}

func WithRetry(cfg retry.Config) ExecutorOption {
	return func(e *Executor) {
		e.retry = cfg
	}
}

func NewExecutor(uowFactory OrderUoWFactory, logger *slog.Logger, opts ...ExecutorOption) Executor {
	e := Executor{
		uowFactory: uowFactory,
		retry:      retry.DefaultConfig,
		logger:     logger.With("component", "order_commands"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

type loadFunc func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error)

type applyFunc func(o *order.Order, now time.Time) error

// mutate loads an order, applies fn and writes it back conditioned on the
// loaded version. fn is called once per attempt with a freshly loaded order.
func (e Executor) mutate(ctx context.Context, command string, load loadFunc, fn applyFunc) error {
	return retry.OnVersionConflict(ctx, e.retry, func(ctx context.Context) error {
		uow := e.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := uow.OrderRepository()
		o, err := load(ctx, repo)
		if err != nil {
			return err
		}

		if err = fn(o, e.now()); err != nil {
			return err
		}

		if err = repo.Update(ctx, o); err != nil {
			return err
		}

		return uow.Commit(ctx)
	}, func(attempt int, err error) {
		metrics.VersionConflictRetries.WithLabelValues(command).Inc()
		e.logger.DebugContext(ctx, "retrying after version conflict",
			"command", command, "attempt", attempt, "error", err)
	})
}

// create persists a new order in its own transaction.
func (e Executor) create(ctx context.Context, o *order.Order) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func byID(id kernel.UUID) loadFunc {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.Get(ctx, id)
	}
}
