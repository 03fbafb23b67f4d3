// Package payload holds the wire shape of courier events shared by the
// webhook endpoint and the Kafka consumer.
package payload

import (
	"fmt"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// CourierEvent is one tracking update pushed by the courier integration.
// Either ShipmentID or OrderID must be set.
type CourierEvent struct {
	ShipmentID       string            `json:"shipmentId"       validate:"required_without=OrderID,max=64"`
	OrderID          string            `json:"orderId"          validate:"omitempty,uuid"`
	Code             string            `json:"code"             validate:"required,max=64"`
	Status           string            `json:"status"           validate:"max=128"`
	At               time.Time         `json:"at"               validate:"required"`
	Location         string            `json:"location"         validate:"max=256"`
	Description      string            `json:"description"      validate:"max=1024"`
	ExpectedDelivery *time.Time        `json:"expectedDelivery"`
	UpdatedBy        string            `json:"updatedBy"        validate:"max=128"`
	Source           string            `json:"source"           validate:"max=64"`
	Metadata         map[string]string `json:"metadata"`
}

// ToCommand converts the payload into a RecordDeliveryEventCommand.
func (e CourierEvent) ToCommand() (commands.RecordDeliveryEventCommand, error) {
	var orderID *kernel.UUID
	if e.OrderID != "" {
		id, err := kernel.UUIDFromString(e.OrderID)
		if err != nil {
			return commands.RecordDeliveryEventCommand{}, errs.NewValueIsInvalidErrorWithCause(
				"orderId is invalid", fmt.Errorf("parse %q: %w", e.OrderID, err))
		}
		orderID = &id
	}

	return commands.NewRecordDeliveryEventCommand(e.ShipmentID, orderID, order.DeliveryEventParams{
		Code:             e.Code,
		Status:           e.Status,
		At:               e.At,
		Location:         e.Location,
		Description:      e.Description,
		ExpectedDelivery: e.ExpectedDelivery,
		UpdatedBy:        e.UpdatedBy,
		Source:           e.Source,
		Metadata:         e.Metadata,
	})
}

// TrackingOutcome names what a delivered event did for metrics and
// responses.
func TrackingOutcome(r order.TrackingResult) string {
	switch {
	case r.Duplicate:
		return "duplicate"
	case r.ReviewRequired != nil:
		return "review"
	case len(r.Transitioned) == 0:
		return "recorded"
	default:
		return "applied"
	}
}
