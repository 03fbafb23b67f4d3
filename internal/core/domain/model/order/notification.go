package order

import (
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// NotificationType of a status change notification.
const NotificationTypeOrderStatus = "order_status"

// NotificationRequest asks the notification collaborator to inform the
// customer. Delivery is best effort.
type NotificationRequest struct {
	UserID   kernel.UUID
	OrderID  kernel.UUID
	Type     string
	Priority Priority
	Status   Status
	At       time.Time
}

func priorityFor(s Status) Priority {
	switch s {
	case PaymentFailed, ShipmentFailed, Cancelled, RTO:
		return PriorityHigh
	case Confirmed, Shipped, Delivered, Returned:
		return PriorityNormal
	default:
		return PriorityLow
	}
}
