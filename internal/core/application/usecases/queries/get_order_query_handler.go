package queries

import (
	"context"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

// OrderReader loads one order aggregate.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// GetOrderQueryHandler builds the order view from the aggregate so the
// delivery summary is always derived from the stored event log.
type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	return newOrderView(o), nil
}

func newOrderView(o *order.Order) OrderView {
	delivery := o.Delivery()
	payment := o.Payment()

	view := OrderView{
		ID:            o.ID(),
		CustomOrderID: o.CustomOrderID(),
		UserID:        o.UserID(),
		Status:        o.Status().String(),
		PaymentMethod: payment.Method().String(),
		PaymentStatus: payment.Status().String(),
		Address:       o.Address().Address(),
		DeliveryMode:  delivery.Mode().String(),
		DeliveryCost:  delivery.Cost().String(),
		EstimatedDays: delivery.EstimatedDays(),
		ShipmentID:    delivery.ShipmentID(),
		LabelRef:      delivery.LabelRef(),
		Subtotal:      o.Subtotal().String(),
		Discount:      o.Discount().String(),
		Total:         o.Total().String(),
		Summary:       o.DeliverySummary(),
		Review:        o.Review(),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}

	if c := o.Coupon(); c != nil {
		view.CouponCode = c.Coupon().Code()
	}
	if r := o.Refund(); r != nil {
		view.Refund = &RefundView{
			Reason:      r.Reason(),
			Status:      r.Status().String(),
			RequestedAt: r.RequestedAt(),
			UpdatedAt:   r.UpdatedAt(),
		}
	}

	for _, item := range o.Items() {
		view.Items = append(view.Items, LineItemView{
			ProductID:     item.ProductID(),
			SKU:           item.SKU(),
			Quantity:      item.Quantity(),
			UnitPrice:     item.UnitPrice().String(),
			Total:         item.Total().String(),
			Customization: item.Customization(),
		})
	}
	for _, entry := range o.History().Entries() {
		view.History = append(view.History, HistoryView{
			Status:  entry.Status().String(),
			At:      entry.At(),
			Remarks: entry.Remarks(),
			Actor:   entry.Actor(),
		})
	}
	for _, e := range o.Tracking().Events() {
		view.Events = append(view.Events, EventView{
			Code:             e.Code(),
			Status:           e.Status(),
			At:               e.At(),
			Location:         e.Location(),
			Description:      e.Description(),
			ExpectedDelivery: e.ExpectedDelivery(),
			UpdatedBy:        e.UpdatedBy(),
			Source:           e.Source(),
			Metadata:         e.Metadata(),
		})
	}
	return view
}
