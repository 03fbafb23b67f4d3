// Package orderrepo persists order aggregates with GORM. An order is stored
// as one row in orders plus append-only child rows for line items, status
// history and courier events.
package orderrepo

import (
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Money columns hold minor units. Nullable
// unique columns stay NULL until the identifier is known, so Postgres
// enforces global uniqueness only for assigned values.
type OrderDTO struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID   `gorm:"type:uuid;not null;index"`
	CustomOrderID  *string     `gorm:"uniqueIndex"`
	Status         int         `gorm:"not null;index:idx_orders_stale,priority:1"`
	PaymentMethod  int         `gorm:"not null;index:idx_orders_stale,priority:2"`
	PaymentStatus  int         `gorm:"not null;index:idx_orders_stale,priority:3"`
	GatewayOrderID *string     `gorm:"uniqueIndex"`
	PaymentID      string
	Signature      string
	Address        AddressDTO  `gorm:"embedded;embeddedPrefix:address_"`
	Delivery       DeliveryDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	ShipmentID     *string     `gorm:"uniqueIndex"`
	Coupon         CouponDTO   `gorm:"embedded;embeddedPrefix:coupon_"`
	Refund         RefundDTO   `gorm:"embedded;embeddedPrefix:refund_"`
	Total          int64       `gorm:"not null"`
	ReviewReason   *string
	ReviewFlagged  *time.Time  `gorm:"index"`
	Version        int64       `gorm:"not null;default:0"`
	CreatedAt      time.Time   `gorm:"not null;autoCreateTime:false;index:idx_orders_stale,priority:4"`
	UpdatedAt      time.Time   `gorm:"not null;autoUpdateTime:false"`

	Items   []LineItemDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []StatusHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Events  []DeliveryEventDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is embedded into orders with the address_ prefix.
type AddressDTO struct {
	Name         string
	Phone        string
	Email        string
	Relationship string
	Line1        string
	Line2        string
	City         string
	State        string
	PostalCode   string
	Country      string
}

type DeliveryDTO struct {
	Mode          int
	Cost          int64
	EstimatedDays int
	LabelRef      string
}

// CouponDTO is zero when no coupon was applied.
type CouponDTO struct {
	Code     string
	Kind     int
	Value    decimal.Decimal `gorm:"type:numeric(12,4)"`
	Discount int64
}

// RefundDTO is zero when no refund was requested.
type RefundDTO struct {
	Reason      string
	Status      int
	RequestedAt *time.Time
	ChangedAt   *time.Time
}

// LineItemDTO is immutable once the order is placed.
type LineItemDTO struct {
	ID            uint64                 `gorm:"primaryKey"`
	OrderID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	Position      int                    `gorm:"not null"`
	ProductID     uuid.UUID              `gorm:"type:uuid;not null"`
	SKU           string                 `gorm:"not null"`
	Quantity      int                    `gorm:"not null"`
	UnitPrice     int64                  `gorm:"not null"`
	Customization *LineItemCustomization `gorm:"type:jsonb;serializer:json"`
}

func (LineItemDTO) TableName() string {
	return "order_line_items"
}

type LineItemCustomization struct {
	Fields      map[string]string `json:"fields,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
}

// StatusHistoryDTO is one ledger row. Seq is the position in the ledger.
type StatusHistoryDTO struct {
	ID      uint64    `gorm:"primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_order_seq,priority:1"`
	Seq     int       `gorm:"not null;uniqueIndex:idx_history_order_seq,priority:2"`
	Status  int       `gorm:"not null"`
	At      time.Time `gorm:"not null"`
	Remarks string
	Actor   string
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// DeliveryEventDTO is one courier event. The dedup index mirrors the
// aggregate's duplicate key.
type DeliveryEventDTO struct {
	ID               uint64            `gorm:"primaryKey"`
	OrderID          uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_events_dedup,priority:1;uniqueIndex:idx_events_order_seq,priority:1"`
	Seq              int64             `gorm:"not null;uniqueIndex:idx_events_order_seq,priority:2"`
	Code             string            `gorm:"not null;uniqueIndex:idx_events_dedup,priority:2"`
	At               time.Time         `gorm:"not null;uniqueIndex:idx_events_dedup,priority:3"`
	Location         string            `gorm:"not null;default:'';uniqueIndex:idx_events_dedup,priority:4"`
	Status           string
	Description      string
	ExpectedDelivery *time.Time
	UpdatedBy        string
	Source           string
	Metadata         map[string]string `gorm:"type:jsonb;serializer:json"`
}

func (DeliveryEventDTO) TableName() string {
	return "order_delivery_events"
}

// Models lists every table owned by this package, in migration order.
func Models() []any {
	return []any{&OrderDTO{}, &LineItemDTO{}, &StatusHistoryDTO{}, &DeliveryEventDTO{}}
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	a := s.Address

	dto := OrderDTO{
		ID:             s.ID.Bytes(),
		UserID:         s.UserID.Bytes(),
		CustomOrderID:  nullable(s.CustomOrderID),
		Status:         int(s.Status),
		PaymentMethod:  int(s.PaymentMethod),
		PaymentStatus:  int(s.PaymentStatus),
		GatewayOrderID: nullable(s.GatewayOrderID),
		PaymentID:      s.PaymentID,
		Signature:      s.Signature,
		Address: AddressDTO{
			Name:         a.Name,
			Phone:        a.Phone,
			Email:        a.Email,
			Relationship: a.Relationship,
			Line1:        a.Line1,
			Line2:        a.Line2,
			City:         a.City,
			State:        a.State,
			PostalCode:   a.PostalCode,
			Country:      a.Country,
		},
		Delivery: DeliveryDTO{
			Mode:          int(s.DeliveryMode),
			Cost:          s.DeliveryCost.Minor(),
			EstimatedDays: s.EstimatedDays,
			LabelRef:      s.LabelRef,
		},
		ShipmentID: nullable(s.ShipmentID),
		Total:      s.Total.Minor(),
		Version:    s.Version,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}

	if s.Coupon != nil {
		dto.Coupon = CouponDTO{
			Code:     s.Coupon.Coupon.Code(),
			Kind:     int(s.Coupon.Coupon.Kind()),
			Value:    s.Coupon.Coupon.Value(),
			Discount: s.Coupon.Discount.Minor(),
		}
	}
	if s.Refund != nil {
		requested, updated := s.Refund.RequestedAt, s.Refund.UpdatedAt
		dto.Refund = RefundDTO{
			Reason:      s.Refund.Reason,
			Status:      int(s.Refund.Status),
			RequestedAt: &requested,
			ChangedAt:   &updated,
		}
	}
	if s.Review != nil {
		reason, flagged := s.Review.Reason, s.Review.FlaggedAt
		dto.ReviewReason = &reason
		dto.ReviewFlagged = &flagged
	}

	for i, item := range s.Items {
		li := LineItemDTO{
			OrderID:   dto.ID,
			Position:  i,
			ProductID: item.ProductID.Bytes(),
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Minor(),
		}
		if !item.Customization.IsEmpty() {
			li.Customization = &LineItemCustomization{
				Fields:      item.Customization.Fields,
				Attachments: item.Customization.Attachments,
			}
		}
		dto.Items = append(dto.Items, li)
	}
	for i, h := range s.History {
		dto.History = append(dto.History, StatusHistoryDTO{
			OrderID: dto.ID,
			Seq:     i,
			Status:  int(h.Status),
			At:      h.At,
			Remarks: h.Remarks,
			Actor:   h.Actor,
		})
	}
	for _, e := range s.Events {
		p := e.Params
		dto.Events = append(dto.Events, DeliveryEventDTO{
			OrderID:          dto.ID,
			Seq:              e.Seq,
			Code:             p.Code,
			At:               p.At,
			Location:         p.Location,
			Status:           p.Status,
			Description:      p.Description,
			ExpectedDelivery: p.ExpectedDelivery,
			UpdatedBy:        p.UpdatedBy,
			Source:           p.Source,
			Metadata:         p.Metadata,
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	deliveryCost, err := kernel.NewMoney(dto.Delivery.Cost)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	a := dto.Address
	s := order.Snapshot{
		ID:     id,
		UserID: userID,
		Address: order.Address{
			Name:         a.Name,
			Phone:        a.Phone,
			Email:        a.Email,
			Relationship: a.Relationship,
			Line1:        a.Line1,
			Line2:        a.Line2,
			City:         a.City,
			State:        a.State,
			PostalCode:   a.PostalCode,
			Country:      a.Country,
		},
		DeliveryMode:   order.DeliveryMode(dto.Delivery.Mode),
		DeliveryCost:   deliveryCost,
		EstimatedDays:  dto.Delivery.EstimatedDays,
		ShipmentID:     deref(dto.ShipmentID),
		LabelRef:       dto.Delivery.LabelRef,
		PaymentMethod:  order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus:  order.PaymentStatus(dto.PaymentStatus),
		GatewayOrderID: deref(dto.GatewayOrderID),
		PaymentID:      dto.PaymentID,
		Signature:      dto.Signature,
		Status:         order.Status(dto.Status),
		CustomOrderID:  deref(dto.CustomOrderID),
		Total:          total,
		Version:        dto.Version,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}

	if dto.Coupon.Code != "" {
		coupon, couponErr := order.NewCoupon(dto.Coupon.Code, order.DiscountKind(dto.Coupon.Kind), dto.Coupon.Value)
		if couponErr != nil {
			return nil, couponErr
		}
		discount, moneyErr := kernel.NewMoney(dto.Coupon.Discount)
		if moneyErr != nil {
			return nil, moneyErr
		}
		s.Coupon = &order.CouponSnapshot{Coupon: coupon, Discount: discount}
	}
	if dto.Refund.Status != 0 {
		s.Refund = &order.RefundSnapshot{
			Reason:      dto.Refund.Reason,
			Status:      order.RefundStatus(dto.Refund.Status),
			RequestedAt: derefTime(dto.Refund.RequestedAt),
			UpdatedAt:   derefTime(dto.Refund.ChangedAt),
		}
	}
	if dto.ReviewFlagged != nil {
		s.Review = &order.ReviewFlag{Reason: deref(dto.ReviewReason), FlaggedAt: dto.ReviewFlagged.UTC()}
	}

	for _, li := range dto.Items {
		productID, idErr := kernel.UUIDFromBytes(li.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		unitPrice, moneyErr := kernel.NewMoney(li.UnitPrice)
		if moneyErr != nil {
			return nil, moneyErr
		}
		item := order.LineItemSnapshot{ProductID: productID, SKU: li.SKU, Quantity: li.Quantity, UnitPrice: unitPrice}
		if li.Customization != nil {
			item.Customization = order.Customization{
				Fields:      li.Customization.Fields,
				Attachments: li.Customization.Attachments,
			}
		}
		s.Items = append(s.Items, item)
	}
	for _, h := range dto.History {
		s.History = append(s.History, order.HistorySnapshot{
			Status:  order.Status(h.Status),
			At:      h.At,
			Remarks: h.Remarks,
			Actor:   h.Actor,
		})
	}
	for _, e := range dto.Events {
		s.Events = append(s.Events, order.EventSnapshot{
			Seq: e.Seq,
			Params: order.DeliveryEventParams{
				Code:             e.Code,
				Status:           e.Status,
				At:               e.At,
				Location:         e.Location,
				Description:      e.Description,
				ExpectedDelivery: e.ExpectedDelivery,
				UpdatedBy:        e.UpdatedBy,
				Source:           e.Source,
				Metadata:         e.Metadata,
			},
		})
	}

	return order.RestoreOrder(s)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
