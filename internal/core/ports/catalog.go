package ports

import (
	"context"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
)

// Catalog is the read-only price lookup used when an order is placed.
// Existing orders never consult it again.
type Catalog interface {
	// UnitPrice returns the current price of a product variant.
	// Unknown variants surface as errs.ErrObjectNotFound.
	UnitPrice(ctx context.Context, productID kernel.UUID, sku string) (kernel.Money, error)
}
