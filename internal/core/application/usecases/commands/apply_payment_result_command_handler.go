package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"
)

// ApplyPaymentResultCommandHandler reconciles gateway callbacks with orders.
//
// Example:
//
//	cmd, _ := NewApplyPaymentResultCommand("order_Nx1", "pay_Q2", signature, order.OutcomePaid)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrPaymentCorrelation):
//	    // Reject: unknown or forged callback
//	case result.ReviewRequired != nil:
//	    // Accepted, order flagged for an operator
//	}
type ApplyPaymentResultCommandHandler struct {
	executor Executor
}

func NewApplyPaymentResultCommandHandler(executor Executor) ApplyPaymentResultCommandHandler {
	return ApplyPaymentResultCommandHandler{executor: executor}
}

// Handle applies the callback. A gateway order id that matches no order is
// reported as a correlation error, not as not found.
func (h ApplyPaymentResultCommandHandler) Handle(ctx context.Context, cmd ApplyPaymentResultCommand) (order.ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return order.ReconcileResult{}, err
	}
	r := cmd.Result()

	load := func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		o, err := repo.GetByGatewayOrderID(ctx, r.GatewayOrderID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, &order.PaymentCorrelationError{Field: "gatewayOrderId", Got: r.GatewayOrderID}
		}
		return o, err
	}

	var result order.ReconcileResult
	err := h.executor.mutate(ctx, "apply_payment_result", load, func(o *order.Order, now time.Time) error {
		var err error
		result, err = o.ApplyGatewayResult(r, now)
		return err
	})

	logger := h.executor.logger.With("gatewayOrderId", r.GatewayOrderID, "outcome", r.Outcome.String())
	switch {
	case errors.Is(err, order.ErrPaymentCorrelation):
		logger.WarnContext(ctx, "payment callback rejected: correlation mismatch", "error", err)
		metrics.WebhooksReceived.WithLabelValues("payment", "rejected").Inc()
		return order.ReconcileResult{}, err
	case err != nil:
		metrics.WebhooksReceived.WithLabelValues("payment", "failed").Inc()
		return order.ReconcileResult{}, err
	}

	switch {
	case result.Duplicate:
		logger.InfoContext(ctx, "duplicate payment callback ignored")
		metrics.WebhooksReceived.WithLabelValues("payment", "duplicate").Inc()
	case result.Ignored:
		logger.InfoContext(ctx, "stale payment callback ignored")
		metrics.WebhooksReceived.WithLabelValues("payment", "ignored").Inc()
	case result.ReviewRequired != nil:
		logger.WarnContext(ctx, "payment callback requires review", "reason", result.ReviewRequired.Reason)
		metrics.WebhooksReceived.WithLabelValues("payment", "review").Inc()
		metrics.ReviewFlags.Inc()
	default:
		metrics.WebhooksReceived.WithLabelValues("payment", "applied").Inc()
	}
	return result, nil
}
