package order

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// LineItemSnapshot is the persisted form of a LineItem.
type LineItemSnapshot struct {
	ProductID     kernel.UUID
	SKU           string
	Quantity      int
	UnitPrice     kernel.Money
	Customization Customization
}

// HistorySnapshot is the persisted form of a StatusHistoryEntry.
type HistorySnapshot struct {
	Status  Status
	At      time.Time
	Remarks string
	Actor   string
}

// EventSnapshot is the persisted form of a DeliveryEvent.
type EventSnapshot struct {
	Seq    int64
	Params DeliveryEventParams
}

// CouponSnapshot is the persisted form of a CouponApplication.
type CouponSnapshot struct {
	Coupon   Coupon
	Discount kernel.Money
}

// RefundSnapshot is the persisted form of a RefundRequest.
type RefundSnapshot struct {
	Reason      string
	Status      RefundStatus
	RequestedAt time.Time
	UpdatedAt   time.Time
}

// Snapshot carries everything needed to rebuild an Order from storage.
type Snapshot struct {
	ID             kernel.UUID
	UserID         kernel.UUID
	Items          []LineItemSnapshot
	Address        Address
	DeliveryMode   DeliveryMode
	DeliveryCost   kernel.Money
	EstimatedDays  int
	ShipmentID     string
	LabelRef       string
	PaymentMethod  PaymentMethod
	PaymentStatus  PaymentStatus
	GatewayOrderID string
	PaymentID      string
	Signature      string
	Status         Status
	CustomOrderID  string
	Coupon         *CouponSnapshot
	Refund         *RefundSnapshot
	Total          kernel.Money
	History        []HistorySnapshot
	Events         []EventSnapshot
	Review         *ReviewFlag
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RestoreOrder rebuilds an order from storage. The stored total is checked
// against the recomputed one, so a tampered row surfaces as an invariant
// error instead of being trusted.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:        s.Status,
		customOrderID: s.CustomOrderID,
		version:       s.Version,
		createdAt:     s.CreatedAt.UTC(),
		updatedAt:     s.UpdatedAt.UTC(),
		isConstructed: true,
	}

	items := make([]LineItem, 0, len(s.Items))
	for _, is := range s.Items {
		item, err := NewLineItem(is.ProductID, is.SKU, is.Quantity, is.UnitPrice, is.Customization)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	address, err := NewShippingAddress(s.Address)
	if err != nil {
		return nil, err
	}

	delivery, err := NewDeliveryInfo(s.DeliveryMode, s.DeliveryCost, s.EstimatedDays)
	if err != nil {
		return nil, err
	}
	delivery = delivery.withShipment(s.ShipmentID, s.LabelRef)

	if err := errors.Join(
		o.setID(s.ID),
		o.setUserID(s.UserID),
		o.setItems(items),
		o.setAddress(address),
		o.setDelivery(delivery),
		o.setPayment(s.PaymentMethod),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}
	o.payment.status = s.PaymentStatus
	o.payment.gatewayOrderID = s.GatewayOrderID
	o.payment.paymentID = s.PaymentID
	o.payment.signature = s.Signature

	if s.Coupon != nil {
		o.coupon = &CouponApplication{coupon: s.Coupon.Coupon, discount: s.Coupon.Discount}
	}
	if s.Refund != nil {
		o.refund = &RefundRequest{
			reason:      s.Refund.Reason,
			status:      s.Refund.Status,
			requestedAt: s.Refund.RequestedAt.UTC(),
			updatedAt:   s.Refund.UpdatedAt.UTC(),
		}
	}
	if s.Review != nil {
		review := *s.Review
		o.review = &review
	}

	for _, h := range s.History {
		o.ledger.append(StatusHistoryEntry{status: h.Status, at: h.At.UTC(), remarks: h.Remarks, actor: h.Actor})
	}

	if err := o.restoreEvents(s.Events); err != nil {
		return nil, err
	}

	o.recalculate()
	if !o.total.IsEqual(s.Total) {
		return nil, invariantError("stored total %s differs from recomputed %s for order %s", s.Total, o.total, s.ID)
	}
	if err := o.CheckInvariants(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Order) restoreEvents(snapshots []EventSnapshot) error {
	for _, es := range snapshots {
		e, err := NewDeliveryEvent(es.Params)
		if err != nil {
			return fmt.Errorf("restore event %d: %w", es.Seq, err)
		}
		if es.Seq < 0 {
			return errs.NewValueIsOutOfRangeError("event.seq", es.Seq, 0, "unbounded")
		}
		e.seq = es.Seq
		o.tracking.events = append(o.tracking.events, e)
		if es.Seq >= o.tracking.nextSeq {
			o.tracking.nextSeq = es.Seq + 1
		}
	}
	slices.SortStableFunc(o.tracking.events, func(a, b DeliveryEvent) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return nil
}

// Snapshot exports the order for storage.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:             o.id,
		UserID:         o.userID,
		Address:        o.address.Address(),
		DeliveryMode:   o.delivery.mode,
		DeliveryCost:   o.delivery.cost,
		EstimatedDays:  o.delivery.estimatedDays,
		ShipmentID:     o.delivery.shipmentID,
		LabelRef:       o.delivery.labelRef,
		PaymentMethod:  o.payment.method,
		PaymentStatus:  o.payment.status,
		GatewayOrderID: o.payment.gatewayOrderID,
		PaymentID:      o.payment.paymentID,
		Signature:      o.payment.signature,
		Status:         o.status,
		CustomOrderID:  o.customOrderID,
		Total:          o.total,
		Review:         o.Review(),
		Version:        o.version,
		CreatedAt:      o.createdAt,
		UpdatedAt:      o.updatedAt,
	}

	for _, item := range o.items {
		s.Items = append(s.Items, LineItemSnapshot{
			ProductID:     item.productID,
			SKU:           item.sku,
			Quantity:      item.quantity,
			UnitPrice:     item.unitPrice,
			Customization: item.customization.clone(),
		})
	}
	if o.coupon != nil {
		s.Coupon = &CouponSnapshot{Coupon: o.coupon.coupon, Discount: o.coupon.discount}
	}
	if o.refund != nil {
		s.Refund = &RefundSnapshot{
			Reason:      o.refund.reason,
			Status:      o.refund.status,
			RequestedAt: o.refund.requestedAt,
			UpdatedAt:   o.refund.updatedAt,
		}
	}
	for _, e := range o.ledger.entries {
		s.History = append(s.History, HistorySnapshot{Status: e.status, At: e.at, Remarks: e.remarks, Actor: e.actor})
	}
	for _, e := range o.tracking.events {
		s.Events = append(s.Events, EventSnapshot{
			Seq: e.seq,
			Params: DeliveryEventParams{
				Code:             e.code,
				Status:           e.status,
				At:               e.at,
				Location:         e.location,
				Description:      e.description,
				ExpectedDelivery: e.ExpectedDelivery(),
				UpdatedBy:        e.updatedBy,
				Source:           e.source,
				Metadata:         maps.Clone(e.metadata),
			},
		})
	}
	return s
}
