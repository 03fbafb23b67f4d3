package orderrepo

import (
	"context"
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives every aggregate written through the repository
// so the unit of work can drain its notifications after commit.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new order with its line items, history and events.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return translateError(err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order row conditioned on the version it was loaded
// with and appends history entries and events added since. On success the
// aggregate's version is bumped so it can be written again.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version = expected + 1

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return translateError(result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionConflictError(aggregate.ID().String(), expected)
	}

	if err := r.appendHistory(db, dto); err != nil {
		return err
	}
	if err := r.appendEvents(db, dto); err != nil {
		return err
	}

	aggregate.BumpVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) appendHistory(db *gorm.DB, dto OrderDTO) error {
	var stored int64
	if err := db.Model(&StatusHistoryDTO{}).Where("order_id = ?", dto.ID).Count(&stored).Error; err != nil {
		return err
	}
	if int(stored) >= len(dto.History) {
		return nil
	}

	rows := dto.History[stored:]
	return translateError(db.Create(&rows).Error)
}

func (r *GormOrderRepository) appendEvents(db *gorm.DB, dto OrderDTO) error {
	var lastSeq int64
	if err := db.Model(&DeliveryEventDTO{}).
		Where("order_id = ?", dto.ID).
		Select("COALESCE(MAX(seq), -1)").
		Scan(&lastSeq).Error; err != nil {
		return err
	}

	var rows []DeliveryEventDTO
	for _, e := range dto.Events {
		if e.Seq > lastSeq {
			rows = append(rows, e)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return translateError(db.Create(&rows).Error)
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "order", id.String(), "id = ?", id.Bytes())
}

// GetByGatewayOrderID finds the order a payment callback refers to.
func (r *GormOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error) {
	if gatewayOrderID == "" {
		return nil, errs.NewValueIsRequiredError("gatewayOrderId")
	}
	return r.first(ctx, "gatewayOrderId", gatewayOrderID, "gateway_order_id = ?", gatewayOrderID)
}

// GetByShipmentID finds the order a courier event refers to.
func (r *GormOrderRepository) GetByShipmentID(ctx context.Context, shipmentID string) (*order.Order, error) {
	if shipmentID == "" {
		return nil, errs.NewValueIsRequiredError("shipmentId")
	}
	return r.first(ctx, "shipmentId", shipmentID, "shipment_id = ?", shipmentID)
}

// GetStalePending lists Prepaid orders still awaiting payment that were
// placed before createdBefore, oldest first.
func (r *GormOrderRepository) GetStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]kernel.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("status = ? AND payment_method = ? AND payment_status = ? AND created_at < ?",
			int(order.Processing), int(order.Prepaid), int(order.PaymentPending), createdBefore.UTC()).
		Order("created_at").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	result := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		result = append(result, orderID)
	}
	return result, nil
}

func (r *GormOrderRepository) first(ctx context.Context, param string, value any, query string, args ...any) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where(query, args...).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, value)
		}
		return nil, err
	}

	return toDomain(dto)
}

// translateError maps unique violations to ValueIsDuplicate. It relies on
// gorm.Config.TranslateError being enabled.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewValueIsDuplicateErrorWithCause("order", err)
	}
	return err
}
