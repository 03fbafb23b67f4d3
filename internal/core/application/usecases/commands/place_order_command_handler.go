package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
)

// PlaceOrderCommandHandler snapshots catalog prices, resolves the coupon
// server side and persists the new order in processing status.
type PlaceOrderCommandHandler struct {
	executor Executor
	catalog  ports.Catalog
	discount order.DiscountResolver
}

func NewPlaceOrderCommandHandler(executor Executor, catalog ports.Catalog, discount order.DiscountResolver) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		executor: executor,
		catalog:  catalog,
		discount: discount,
	}
}

// Handle returns the created order. Catalog lookups happen before the
// transaction is opened.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	p := cmd.Params()
	now := h.executor.now()

	items := make([]order.LineItem, 0, len(p.Items))
	for _, requested := range p.Items {
		price, err := h.catalog.UnitPrice(ctx, requested.ProductID, requested.SKU)
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", requested.SKU, err)
		}
		item, err := order.NewLineItem(requested.ProductID, requested.SKU, requested.Quantity, price, requested.Customization)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	address, err := order.NewShippingAddress(p.Address)
	if err != nil {
		return nil, err
	}

	delivery, err := order.NewDeliveryInfo(p.DeliveryMode, p.DeliveryCost, p.EstimatedDays)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(p.OrderID, p.UserID, items, address, delivery, p.PaymentMethod, now)
	if err != nil {
		return nil, err
	}

	if p.Coupon != nil {
		if err = h.applyCoupon(o, *p.Coupon, now); err != nil {
			return nil, err
		}
	}

	if p.GatewayOrderID != "" {
		if err = o.AttachGatewayOrder(p.GatewayOrderID, now); err != nil {
			return nil, err
		}
	}

	if err = h.executor.create(ctx, o); err != nil {
		return nil, err
	}

	h.executor.logger.InfoContext(ctx, "order placed",
		"orderId", o.ID().String(), "total", o.Total().String(), "paymentMethod", o.Payment().Method().String())
	return o, nil
}

func (h PlaceOrderCommandHandler) applyCoupon(o *order.Order, input CouponInput, at time.Time) error {
	coupon, err := order.NewCoupon(input.Code, order.DiscountKindFromString(input.Kind), input.Value)
	if err != nil {
		return err
	}
	return o.ApplyCoupon(coupon, h.discount, at)
}
