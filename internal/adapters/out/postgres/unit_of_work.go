// Package postgres provides the GORM implementation of the unit of work.
//
// A unit of work wraps one database transaction. Repositories obtained from
// it run inside that transaction and report every aggregate they write.
// After a successful commit the notifications queued by those aggregates are
// handed to the notifier; a rollback drops them.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	repo := uow.OrderRepository()
//	o, err := repo.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if err = o.Transition(order.Cancelled, actor, remarks, now); err != nil {
//	    return err
//	}
//	if err = repo.Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each goroutine must use its own unit of work.
package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/postgres/orderrepo"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"

	"gorm.io/gorm"
)

// notifyTimeout bounds each notifier call made after commit.
const notifyTimeout = 2 * time.Second

// notificationSource is implemented by aggregates that queue notifications.
type notificationSource interface {
	PullNotifications() []order.NotificationRequest
}

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates unit of work instances sharing one
// connection pool and notifier.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewGormUnitOfWorkFactory(db *gorm.DB, notifier ports.Notifier, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:       db,
		notifier: notifier,
		logger:   logger.With("component", "unit_of_work"),
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		notifier:          f.notifier,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and the aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	notifier          ports.Notifier
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling it again while one is active is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and then publishes the notifications of
// every tracked aggregate. Notification failures are logged and counted;
// they never fail the commit.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publish(ctx)
	return nil
}

// Rollback discards the transaction and any queued notifications.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository returns a repository bound to the active transaction, or
// to the pool when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate is called by repositories for every aggregate they write.
// An aggregate written twice is tracked once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	for _, tracked := range uow.trackedAggregates {
		if tracked.ID.IsEqual(id) {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) publish(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	for _, t := range tracked {
		source, ok := t.Aggregate.(notificationSource)
		if !ok {
			continue
		}
		for _, request := range source.PullNotifications() {
			metrics.StatusTransitions.WithLabelValues(request.Status.String()).Inc()
			if uow.notifier == nil {
				continue
			}
			if err := uow.notify(ctx, request); err != nil {
				metrics.NotificationFailures.Inc()
				uow.logger.WarnContext(ctx, "notification failed",
					"orderId", request.OrderID.String(), "status", request.Status.String(), "error", err)
			}
		}
	}
}

func (uow *GormUnitOfWork) notify(ctx context.Context, request order.NotificationRequest) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	return uow.notifier.Notify(ctx, request)
}
