package commands

import (
	"errors"
	"fmt"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderItem is one requested line. Prices are never accepted from the
// client; they are read from the catalog when the order is placed.
type PlaceOrderItem struct {
	ProductID     kernel.UUID
	SKU           string
	Quantity      int
	Customization order.Customization
}

// CouponInput is the coupon as presented at checkout.
type CouponInput struct {
	Code  string
	Kind  string
	Value decimal.Decimal
}

// PlaceOrderParams groups the checkout input.
type PlaceOrderParams struct {
	OrderID        kernel.UUID
	UserID         kernel.UUID
	Items          []PlaceOrderItem
	Address        order.Address
	DeliveryMode   order.DeliveryMode
	DeliveryCost   kernel.Money
	EstimatedDays  int
	PaymentMethod  order.PaymentMethod
	GatewayOrderID string
	Coupon         *CouponInput
}

// PlaceOrderCommand represents a checkout.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(PlaceOrderParams{
//	    OrderID:       kernel.NewUUID(),
//	    UserID:        userID,
//	    Items:         []PlaceOrderItem{{ProductID: productID, SKU: "MUG-RED", Quantity: 2}},
//	    Address:       address,
//	    DeliveryMode:  order.DeliveryAutomatic,
//	    PaymentMethod: order.COD,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	params PlaceOrderParams

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(p PlaceOrderParams) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.OrderID.Validate(),
		cmd.validateItems(p.Items),
		p.DeliveryMode.Validate(),
		p.PaymentMethod.Validate(),
		p.DeliveryCost.Validate(),
		cmd.validateGateway(p),
	); err != nil {
		return PlaceOrderCommand{}, err
	}
	if err := p.UserID.Validate(); err != nil {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("userId", err)
	}

	p.Items = append([]PlaceOrderItem(nil), p.Items...)
	cmd.params = p
	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) Params() PlaceOrderParams {
	return c.params
}

func (c *PlaceOrderCommand) validateItems(items []PlaceOrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].productId", i), err)
		}
	}
	return nil
}

func (c *PlaceOrderCommand) validateGateway(p PlaceOrderParams) error {
	if p.PaymentMethod == order.Prepaid && p.GatewayOrderID == "" {
		return errs.NewValueIsRequiredError("gatewayOrderId")
	}
	return nil
}
