package commands

import (
	"context"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"
)

// RecordDeliveryEventCommandHandler appends courier events to the tracking
// log. Courier feeds are at least once, so duplicates are expected and
// reported as success.
type RecordDeliveryEventCommandHandler struct {
	executor Executor
}

func NewRecordDeliveryEventCommandHandler(executor Executor) RecordDeliveryEventCommandHandler {
	return RecordDeliveryEventCommandHandler{executor: executor}
}

func (h RecordDeliveryEventCommandHandler) Handle(ctx context.Context, cmd RecordDeliveryEventCommand) (order.TrackingResult, error) {
	if err := cmd.Validate(); err != nil {
		return order.TrackingResult{}, err
	}

	load := func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		if id := cmd.OrderID(); id != nil {
			return repo.Get(ctx, *id)
		}
		return repo.GetByShipmentID(ctx, cmd.ShipmentID())
	}

	var result order.TrackingResult
	err := h.executor.mutate(ctx, "record_delivery_event", load, func(o *order.Order, now time.Time) error {
		var err error
		result, err = o.RecordDeliveryEvent(cmd.Event(), now)
		return err
	})
	if err != nil {
		metrics.WebhooksReceived.WithLabelValues("courier", "failed").Inc()
		return order.TrackingResult{}, err
	}

	logger := h.executor.logger.With("shipmentId", cmd.ShipmentID(), "code", cmd.Event().Code())
	switch {
	case result.Duplicate:
		logger.DebugContext(ctx, "duplicate courier event ignored")
		metrics.WebhooksReceived.WithLabelValues("courier", "duplicate").Inc()
	case result.ReviewRequired != nil:
		logger.WarnContext(ctx, "courier event requires review", "reason", result.ReviewRequired.Reason)
		metrics.WebhooksReceived.WithLabelValues("courier", "review").Inc()
		metrics.ReviewFlags.Inc()
	default:
		metrics.WebhooksReceived.WithLabelValues("courier", "applied").Inc()
	}
	return result, nil
}
