package catalogrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalog implements ports.Catalog using GORM.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// UnitPrice returns the price of an active variant. Inactive and unknown
// variants are both reported as not found.
func (c *GormCatalog) UnitPrice(ctx context.Context, productID kernel.UUID, sku string) (kernel.Money, error) {
	if err := productID.Validate(); err != nil {
		return kernel.Money{}, err
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return kernel.Money{}, errs.NewValueIsRequiredError("sku")
	}

	var dto PriceDTO
	err := c.db.WithContext(ctx).
		Where("product_id = ? AND sku = ? AND active", productID.Bytes(), sku).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.Money{}, errs.NewObjectNotFoundError("sku", productID.String()+"/"+sku)
		}
		return kernel.Money{}, err
	}

	return kernel.NewMoney(dto.UnitPrice)
}

// Upsert creates or reprices a variant.
func (c *GormCatalog) Upsert(ctx context.Context, productID kernel.UUID, sku string, price kernel.Money, active bool) error {
	if err := errors.Join(productID.Validate(), price.Validate()); err != nil {
		return err
	}

	dto := PriceDTO{ProductID: productID.Bytes(), SKU: strings.TrimSpace(sku), UnitPrice: price.Minor(), Active: active}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit_price", "active"}),
	}).Create(&dto).Error
}
