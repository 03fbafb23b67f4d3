// Package ports defines the outbound contracts of the order core: storage,
// catalog lookups and notifications. Adapters implement them; use cases and
// tests depend only on these interfaces.
package ports

import (
	"context"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Order codes, waybills and gateway order ids are unique across orders;
// violations surface as errs.ErrValueIsDuplicate.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate conditioned on the version it was loaded
	// with and bumps the version. A concurrent write surfaces as
	// errs.ErrVersionConflict and the caller must reload and retry.
	//
	// Example:
	//   o, _ := repo.Get(ctx, id)
	//   _ = o.Transition(order.Cancelled, "admin", "", time.Now())
	//   if err := repo.Update(ctx, o); errors.Is(err, errs.ErrVersionConflict) {
	//       // reload and apply again
	//   }
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order with its history and tracking log.
	// Unknown ids surface as errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByGatewayOrderID resolves a payment callback to its order.
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error)

	// GetByShipmentID resolves a courier callback to its order.
	GetByShipmentID(ctx context.Context, shipmentID string) (*order.Order, error)

	// GetStalePending returns ids of Prepaid orders still waiting for payment
	// that were created before the cutoff, oldest first.
	GetStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]kernel.UUID, error)
}
