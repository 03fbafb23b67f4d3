package order_test

import (
	"testing"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func validAddress() order.Address {
	return order.Address{
		Name:       "Asha Rao",
		Phone:      "+919800000000",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "IN",
	}
}

func newItem(t *testing.T, sku string, qty int, unitMinor int64) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), sku, qty, kernel.MustMoney(unitMinor), order.Customization{})
	require.NoError(t, err)
	return item
}

type orderOpts struct {
	method       order.PaymentMethod
	items        []order.LineItem
	deliveryCost int64
}

func newOrder(t *testing.T, opts orderOpts) *order.Order {
	t.Helper()

	if opts.method == order.PaymentMethodUnknown {
		opts.method = order.Prepaid
	}
	if opts.items == nil {
		opts.items = []order.LineItem{newItem(t, "MUG-RED", 2, 25000), newItem(t, "TEE-M", 1, 49900)}
	}

	address, err := order.NewShippingAddress(validAddress())
	require.NoError(t, err)
	delivery, err := order.NewDeliveryInfo(order.DeliveryAutomatic, kernel.MustMoney(opts.deliveryCost), 5)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), opts.items, address, delivery, opts.method, baseTime)
	require.NoError(t, err)
	return o
}

// paidOrder returns a Prepaid order confirmed by gateway payment pay_1.
func paidOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newOrder(t, orderOpts{deliveryCost: 5000})
	require.NoError(t, o.AttachGatewayOrder("gw_1", baseTime))
	_, err := o.ApplyGatewayResult(order.GatewayResult{
		GatewayOrderID: "gw_1",
		PaymentID:      "pay_1",
		Signature:      "sig",
		Outcome:        order.OutcomePaid,
	}, baseTime.Add(time.Minute))
	require.NoError(t, err)
	return o
}

// shippedOrder returns a paid order moved to shipped.
func shippedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := paidOrder(t)
	require.NoError(t, o.Transition(order.ReadyToShip, "admin", "", baseTime.Add(time.Hour)))
	require.NoError(t, o.AssignShipment("AWB123", "labels/AWB123.pdf", baseTime.Add(time.Hour)))
	require.NoError(t, o.Transition(order.Shipped, "admin", "", baseTime.Add(2*time.Hour)))
	return o
}

func event(t *testing.T, code string, at time.Time, location string) order.DeliveryEvent {
	t.Helper()
	e, err := order.NewDeliveryEvent(order.DeliveryEventParams{Code: code, At: at, Location: location})
	require.NoError(t, err)
	return e
}

type fixedResolver struct {
	discount kernel.Money
	err      error
}

func (r fixedResolver) Resolve(kernel.Money, order.Coupon) (kernel.Money, error) {
	return r.discount, r.err
}

func testCoupon(t *testing.T) order.Coupon {
	t.Helper()
	c, err := order.NewCoupon("save10", order.DiscountPercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	return c
}
