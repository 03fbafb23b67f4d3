// Package catalogrepo reads product prices from the catalog_prices table.
// Prices are read once when an order is placed and snapshotted into its
// line items.
package catalogrepo

import (
	"github.com/google/uuid"
)

// PriceDTO is one sellable product variant.
type PriceDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU       string    `gorm:"type:varchar(64);primaryKey"`
	UnitPrice int64     `gorm:"not null"`
	Active    bool      `gorm:"not null"`
}

func (PriceDTO) TableName() string {
	return "catalog_prices"
}
