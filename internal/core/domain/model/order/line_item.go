package order

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// MaxLineItemQuantity bounds a single line to keep totals far from overflow.
const MaxLineItemQuantity = 10000

// Customization is the optional personalisation payload of a line item.
type Customization struct {
	Fields      map[string]string
	Attachments []string
}

func (c Customization) clone() Customization {
	return Customization{
		Fields:      maps.Clone(c.Fields),
		Attachments: append([]string(nil), c.Attachments...),
	}
}

func (c Customization) IsEmpty() bool {
	return len(c.Fields) == 0 && len(c.Attachments) == 0
}

// LineItem is one purchased product variant. The unit price is the catalog
// price at checkout and is never re-read.
type LineItem struct {
	productID     kernel.UUID
	sku           string
	quantity      int
	unitPrice     kernel.Money
	customization Customization
}

// NewLineItem validates and builds a line item.
func NewLineItem(
	productID kernel.UUID,
	sku string,
	quantity int,
	unitPrice kernel.Money,
	customization Customization,
) (LineItem, error) {
	sku = strings.TrimSpace(sku)

	var skuErr, quantityErr error
	if sku == "" {
		skuErr = errs.NewValueIsRequiredError("sku")
	}
	if quantity < 1 || quantity > MaxLineItemQuantity {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxLineItemQuantity)
	}

	if err := errors.Join(productID.Validate(), skuErr, quantityErr, unitPrice.Validate()); err != nil {
		return LineItem{}, fmt.Errorf("line item %s: %w", sku, err)
	}

	return LineItem{
		productID:     productID,
		sku:           sku,
		quantity:      quantity,
		unitPrice:     unitPrice,
		customization: customization.clone(),
	}, nil
}

func (li LineItem) ProductID() kernel.UUID {
	return li.productID
}

func (li LineItem) SKU() string {
	return li.sku
}

func (li LineItem) Quantity() int {
	return li.quantity
}

func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

func (li LineItem) Customization() Customization {
	return li.customization.clone()
}

// Total is unit price times quantity.
func (li LineItem) Total() kernel.Money {
	return li.unitPrice.MulInt(int64(li.quantity))
}
