package http

import (
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/queries"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type AddressRequest struct {
	Name         string `json:"name"         validate:"max=128"`
	Phone        string `json:"phone"        validate:"max=32"`
	Email        string `json:"email"        validate:"omitempty,email"`
	Relationship string `json:"relationship" validate:"max=64"`
	Line1        string `json:"line1"        validate:"max=256"`
	Line2        string `json:"line2"        validate:"max=256"`
	City         string `json:"city"         validate:"max=128"`
	State        string `json:"state"        validate:"max=128"`
	PostalCode   string `json:"postalCode"   validate:"max=16"`
	Country      string `json:"country"      validate:"max=64"`
}

func (a AddressRequest) toDomain() order.Address {
	return order.Address(a)
}

type CustomizationRequest struct {
	Fields      map[string]string `json:"fields"`
	Attachments []string          `json:"attachments" validate:"dive,required"`
}

type PlaceOrderItemRequest struct {
	ProductID     string               `json:"productId"     validate:"required,uuid"`
	SKU           string               `json:"sku"           validate:"required,max=64"`
	Quantity      int                  `json:"quantity"      validate:"required,min=1"`
	Customization CustomizationRequest `json:"customization"`
}

type DeliveryRequest struct {
	Mode          string `json:"mode"          validate:"required"`
	Cost          string `json:"cost"          validate:"required,numeric"`
	EstimatedDays int    `json:"estimatedDays" validate:"min=0"`
}

type CouponRequest struct {
	Code  string `json:"code"  validate:"required,max=64"`
	Kind  string `json:"kind"  validate:"required"`
	Value string `json:"value" validate:"required,numeric"`
}

type PlaceOrderRequest struct {
	OrderID         string                  `json:"orderId"         validate:"omitempty,uuid"`
	UserID          string                  `json:"userId"          validate:"required,uuid"`
	Items           []PlaceOrderItemRequest `json:"items"           validate:"required,min=1,dive"`
	ShippingAddress AddressRequest          `json:"shippingAddress"`
	Delivery        DeliveryRequest         `json:"delivery"`
	PaymentMethod   string                  `json:"paymentMethod"   validate:"required"`
	GatewayOrderID  string                  `json:"gatewayOrderId"  validate:"max=128"`
	Coupon          *CouponRequest          `json:"coupon"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"  validate:"required"`
	Actor   string `json:"actor"   validate:"required,max=128"`
	Remarks string `json:"remarks" validate:"max=1024"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"required,max=1024"`
}

type ShipmentRequest struct {
	ShipmentID string `json:"shipmentId" validate:"required,max=64"`
	LabelRef   string `json:"labelRef"   validate:"max=512"`
}

type PaymentWebhookRequest struct {
	GatewayOrderID string `json:"gatewayOrderId" validate:"required,max=128"`
	PaymentID      string `json:"paymentId"      validate:"max=128"`
	Signature      string `json:"signature"      validate:"max=512"`
	Outcome        string `json:"outcome"        validate:"required"`
}

// WebhookResponse tells the sender what the callback did. Review reports a
// soft warning; the callback itself was accepted.
type WebhookResponse struct {
	Result       string   `json:"result"`
	Confirmed    bool     `json:"confirmed,omitempty"`
	Transitioned []string `json:"transitioned,omitempty"`
	Review       string   `json:"review,omitempty"`
}

type CreatedResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Total         string `json:"total"`
	Version       int64  `json:"version"`
	CustomOrderID string `json:"customOrderId,omitempty"`
}

type LineItemResponse struct {
	ProductID   string            `json:"productId"`
	SKU         string            `json:"sku"`
	Quantity    int               `json:"quantity"`
	UnitPrice   string            `json:"unitPrice"`
	Total       string            `json:"total"`
	Fields      map[string]string `json:"fields,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
}

type HistoryResponse struct {
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
	Remarks string    `json:"remarks,omitempty"`
	Actor   string    `json:"actor"`
}

type EventResponse struct {
	Code             string            `json:"code"`
	Status           string            `json:"status,omitempty"`
	At               time.Time         `json:"at"`
	Location         string            `json:"location,omitempty"`
	Description      string            `json:"description,omitempty"`
	ExpectedDelivery *time.Time        `json:"expectedDelivery,omitempty"`
	UpdatedBy        string            `json:"updatedBy,omitempty"`
	Source           string            `json:"source,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type SummaryResponse struct {
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actualDeliveryDate,omitempty"`
	LastMileStatus       string     `json:"lastMileStatus,omitempty"`
	LastLocation         string     `json:"lastLocation,omitempty"`
	DeliveryAttempts     int        `json:"deliveryAttempts"`
	LastUpdatedAt        *time.Time `json:"lastUpdatedAt,omitempty"`
}

type RefundResponse struct {
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ReviewResponse struct {
	Reason    string    `json:"reason"`
	FlaggedAt time.Time `json:"flaggedAt"`
}

type OrderResponse struct {
	ID              string             `json:"id"`
	CustomOrderID   string             `json:"customOrderId,omitempty"`
	UserID          string             `json:"userId"`
	Status          string             `json:"status"`
	PaymentMethod   string             `json:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus"`
	Items           []LineItemResponse `json:"items"`
	ShippingAddress AddressRequest     `json:"shippingAddress"`
	DeliveryMode    string             `json:"deliveryMode"`
	DeliveryCost    string             `json:"deliveryCost"`
	EstimatedDays   int                `json:"estimatedDays"`
	ShipmentID      string             `json:"shipmentId,omitempty"`
	LabelRef        string             `json:"labelRef,omitempty"`
	Subtotal        string             `json:"subtotal"`
	Discount        string             `json:"discount"`
	Total           string             `json:"total"`
	CouponCode      string             `json:"couponCode,omitempty"`
	Summary         SummaryResponse    `json:"deliverySummary"`
	History         []HistoryResponse  `json:"statusHistory"`
	Events          []EventResponse    `json:"deliveryEvents"`
	Refund          *RefundResponse    `json:"refund,omitempty"`
	Review          *ReviewResponse    `json:"review,omitempty"`
	Version         int64              `json:"version"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type ReviewQueueItemResponse struct {
	ID            string    `json:"id"`
	CustomOrderID string    `json:"customOrderId,omitempty"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Reason        string    `json:"reason"`
	FlaggedAt     time.Time `json:"flaggedAt"`
}

type ReviewQueueResponse struct {
	Total int64                     `json:"total"`
	Items []ReviewQueueItemResponse `json:"items"`
}

func newOrderResponse(v queries.OrderView) OrderResponse {
	resp := OrderResponse{
		ID:              v.ID.String(),
		CustomOrderID:   v.CustomOrderID,
		UserID:          v.UserID.String(),
		Status:          v.Status,
		PaymentMethod:   v.PaymentMethod,
		PaymentStatus:   v.PaymentStatus,
		Items:           make([]LineItemResponse, len(v.Items)),
		ShippingAddress: AddressRequest(v.Address),
		DeliveryMode:    v.DeliveryMode,
		DeliveryCost:    v.DeliveryCost,
		EstimatedDays:   v.EstimatedDays,
		ShipmentID:      v.ShipmentID,
		LabelRef:        v.LabelRef,
		Subtotal:        v.Subtotal,
		Discount:        v.Discount,
		Total:           v.Total,
		CouponCode:      v.CouponCode,
		Summary:         SummaryResponse(v.Summary),
		History:         make([]HistoryResponse, len(v.History)),
		Events:          make([]EventResponse, len(v.Events)),
		Version:         v.Version,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	for i, item := range v.Items {
		resp.Items[i] = LineItemResponse{
			ProductID:   item.ProductID.String(),
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			Fields:      item.Customization.Fields,
			Attachments: item.Customization.Attachments,
		}
	}
	for i, h := range v.History {
		resp.History[i] = HistoryResponse(h)
	}
	for i, e := range v.Events {
		resp.Events[i] = EventResponse(e)
	}
	if v.Refund != nil {
		r := RefundResponse(*v.Refund)
		resp.Refund = &r
	}
	if v.Review != nil {
		resp.Review = &ReviewResponse{Reason: v.Review.Reason, FlaggedAt: v.Review.FlaggedAt}
	}
	return resp
}

func newReviewQueueResponse(q queries.ReviewQueue) ReviewQueueResponse {
	resp := ReviewQueueResponse{Total: q.Total, Items: make([]ReviewQueueItemResponse, len(q.Items))}
	for i, item := range q.Items {
		resp.Items[i] = ReviewQueueItemResponse{
			ID:            item.ID.String(),
			CustomOrderID: item.CustomOrderID,
			Status:        item.Status,
			PaymentStatus: item.PaymentStatus,
			Reason:        item.Reason,
			FlaggedAt:     item.FlaggedAt,
		}
	}
	return resp
}
