// Package queries contains read-only use cases. They never mutate orders
// and run outside command transactions.
package queries

import (
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches the full view of one order.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderView is the read model returned to clients. Amounts are rendered
// with two fraction digits.
type OrderView struct {
	ID            kernel.UUID
	CustomOrderID string
	UserID        kernel.UUID
	Status        string
	PaymentMethod string
	PaymentStatus string
	Items         []LineItemView
	Address       order.Address
	DeliveryMode  string
	DeliveryCost  string
	EstimatedDays int
	ShipmentID    string
	LabelRef      string
	Subtotal      string
	Discount      string
	Total         string
	CouponCode    string
	Summary       order.DeliverySummary
	History       []HistoryView
	Events        []EventView
	Refund        *RefundView
	Review        *order.ReviewFlag
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type LineItemView struct {
	ProductID     kernel.UUID
	SKU           string
	Quantity      int
	UnitPrice     string
	Total         string
	Customization order.Customization
}

type HistoryView struct {
	Status  string
	At      time.Time
	Remarks string
	Actor   string
}

type EventView struct {
	Code             string
	Status           string
	At               time.Time
	Location         string
	Description      string
	ExpectedDelivery *time.Time
	UpdatedBy        string
	Source           string
	Metadata         map[string]string
}

type RefundView struct {
	Reason      string
	Status      string
	RequestedAt time.Time
	UpdatedAt   time.Time
}
