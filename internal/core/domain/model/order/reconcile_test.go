package order_test

import (
	"testing"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatewayResult(outcome order.GatewayOutcome, paymentID string) order.GatewayResult {
	return order.GatewayResult{GatewayOrderID: "gw_1", PaymentID: paymentID, Signature: "sig", Outcome: outcome}
}

func attachedOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	o := newOrder(t, orderOpts{method: method, deliveryCost: 5000})
	require.NoError(t, o.AttachGatewayOrder("gw_1", baseTime))
	return o
}

func TestOrder_ApplyGatewayResult_Paid(t *testing.T) {
	t.Run("should confirm order and assign code on first paid outcome", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomePaid, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.True(t, result.Confirmed)
		assert.Equal(t, order.PaymentPaid, o.Payment().Status())
		assert.Equal(t, "pay_1", o.Payment().PaymentID())
		assert.Equal(t, order.Confirmed, o.Status())
		assert.NotEmpty(t, o.CustomOrderID())
		assert.Equal(t, 1, o.History().Len())
	})

	t.Run("should be idempotent for duplicate paid callbacks", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomePaid, "pay_1"), baseTime)
		require.NoError(t, err)
		first := o.Snapshot()
		o.PullNotifications()

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomePaid, "pay_1"), baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, first, o.Snapshot())
		assert.Empty(t, o.PullNotifications())
	})

	t.Run("should flag a second payment id for review", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomePaid, "pay_1"), baseTime)
		require.NoError(t, err)

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomePaid, "pay_2"), baseTime)

		require.NoError(t, err)
		require.NotNil(t, result.ReviewRequired)
		assert.ErrorIs(t, result.ReviewRequired, order.ErrReviewRequired)
		assert.Equal(t, "pay_1", o.Payment().PaymentID())
		assert.NotNil(t, o.Review())
	})

	t.Run("should flag late payment after payment window expired", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeFailed, "pay_1"), baseTime)
		require.NoError(t, err)
		require.Equal(t, order.PaymentFailed, o.Status())

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomePaid, "pay_2"), baseTime)

		require.NoError(t, err)
		assert.NotNil(t, result.ReviewRequired)
		assert.Equal(t, order.PaymentPaid, o.Payment().Status())
		assert.Equal(t, order.PaymentFailed, o.Status())
		assert.Empty(t, o.CustomOrderID())
	})

	t.Run("should require a payment id", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)

		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomePaid, ""), baseTime)

		require.Error(t, err)
		assert.Equal(t, order.PaymentPending, o.Payment().Status())
	})
}

func TestOrder_ApplyGatewayResult_Correlation(t *testing.T) {
	t.Run("should reject mismatched gateway order id", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)
		r := gatewayResult(order.OutcomePaid, "pay_1")
		r.GatewayOrderID = "gw_forged"

		_, err := o.ApplyGatewayResult(r, baseTime)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrPaymentCorrelation)
		var correlationErr *order.PaymentCorrelationError
		require.ErrorAs(t, err, &correlationErr)
		assert.Equal(t, "gatewayOrderId", correlationErr.Field)
		assert.Equal(t, order.PaymentPending, o.Payment().Status())
		assert.Equal(t, order.Processing, o.Status())
	})

	t.Run("should reject callbacks for orders without gateway order", func(t *testing.T) {
		o := newOrder(t, orderOpts{method: order.COD})

		_, err := o.ApplyGatewayResult(order.GatewayResult{Outcome: order.OutcomePaid, PaymentID: "x"}, baseTime)

		assert.ErrorIs(t, err, order.ErrPaymentCorrelation)
	})

	t.Run("should reject refund for a different payment id", func(t *testing.T) {
		o := paidOrder(t)

		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefunded, "pay_other"), baseTime)

		assert.ErrorIs(t, err, order.ErrPaymentCorrelation)
		assert.Equal(t, order.PaymentPaid, o.Payment().Status())
	})
}

func TestOrder_ApplyGatewayResult_Failed(t *testing.T) {
	t.Run("should force payment_failed for prepaid orders", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)

		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeFailed, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusFailed, o.Payment().Status())
		assert.Equal(t, order.PaymentFailed, o.Status())
		assert.Equal(t, 1, o.History().Len())
	})

	t.Run("should keep order status for COD orders", func(t *testing.T) {
		o := attachedOrder(t, order.COD)

		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeFailed, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusFailed, o.Payment().Status())
		assert.Equal(t, order.Processing, o.Status())
		assert.Zero(t, o.History().Len())
	})

	t.Run("should ignore a failed outcome after paid", func(t *testing.T) {
		o := paidOrder(t)

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeFailed, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.True(t, result.Ignored)
		assert.Equal(t, order.PaymentPaid, o.Payment().Status())
		assert.Equal(t, order.Confirmed, o.Status())
	})

	t.Run("should treat a repeated failure as duplicate", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeFailed, "pay_1"), baseTime)
		require.NoError(t, err)

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeFailed, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, 1, o.History().Len())
	})

	t.Run("should block shipping of a prepaid order whose payment failed", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeFailed, "pay_1"), baseTime)
		require.NoError(t, err)

		for _, target := range []order.Status{order.Confirmed, order.ReadyToShip, order.Delivered} {
			assert.ErrorIs(t, o.Transition(target, "admin", "", baseTime), order.ErrInvalidTransition)
		}
	})
}

func TestOrder_ApplyGatewayResult_Refund(t *testing.T) {
	deliveredOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o := shippedOrder(t)
		require.NoError(t, o.Transition(order.OutForDelivery, "courier", "", baseTime))
		require.NoError(t, o.Transition(order.Delivered, "courier", "", baseTime))
		require.NoError(t, o.RequestRefund("damaged", baseTime))
		return o
	}

	t.Run("should complete refund without changing order status", func(t *testing.T) {
		o := deliveredOrder(t)

		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefunded, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.PaymentRefunded, o.Payment().Status())
		assert.Equal(t, order.RefundCompleted, o.Refund().Status())
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("should mark refund failed and flag review", func(t *testing.T) {
		o := deliveredOrder(t)

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefundFailed, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.NotNil(t, result.ReviewRequired)
		assert.Equal(t, order.PaymentRefundFailed, o.Payment().Status())
		assert.Equal(t, order.RefundFailed, o.Refund().Status())
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("should accept a refund after refund failure", func(t *testing.T) {
		o := deliveredOrder(t)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefundFailed, "pay_1"), baseTime)
		require.NoError(t, err)

		_, err = o.ApplyGatewayResult(gatewayResult(order.OutcomeRefunded, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.PaymentRefunded, o.Payment().Status())
		assert.Equal(t, order.RefundCompleted, o.Refund().Status())
	})

	t.Run("should ignore a refund failure reported after the refund", func(t *testing.T) {
		o := deliveredOrder(t)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefundFailed, "pay_1"), baseTime)
		require.NoError(t, err)
		_, err = o.ApplyGatewayResult(gatewayResult(order.OutcomeRefunded, "pay_1"), baseTime.Add(time.Minute))
		require.NoError(t, err)

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefundFailed, "pay_1"), baseTime.Add(2*time.Minute))

		require.NoError(t, err)
		assert.True(t, result.Ignored)
		assert.Nil(t, result.ReviewRequired)
		assert.Equal(t, order.PaymentRefunded, o.Payment().Status())
		assert.Equal(t, order.RefundCompleted, o.Refund().Status())
	})

	t.Run("should converge on refunded regardless of arrival order", func(t *testing.T) {
		failedFirst := deliveredOrder(t)
		refundedFirst := deliveredOrder(t)
		failed := gatewayResult(order.OutcomeRefundFailed, "pay_1")
		refunded := gatewayResult(order.OutcomeRefunded, "pay_1")

		for _, r := range []order.GatewayResult{failed, refunded} {
			_, err := failedFirst.ApplyGatewayResult(r, baseTime)
			require.NoError(t, err)
		}
		for _, r := range []order.GatewayResult{refunded, failed} {
			_, err := refundedFirst.ApplyGatewayResult(r, baseTime)
			require.NoError(t, err)
		}

		for _, o := range []*order.Order{failedFirst, refundedFirst} {
			assert.Equal(t, order.PaymentRefunded, o.Payment().Status())
			assert.Equal(t, order.RefundCompleted, o.Refund().Status())
			assert.Equal(t, order.Delivered, o.Status())
			assert.Nil(t, o.Review())
		}
	})

	t.Run("should treat repeated refund as duplicate", func(t *testing.T) {
		o := deliveredOrder(t)
		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefunded, "pay_1"), baseTime)
		require.NoError(t, err)

		result, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefunded, "pay_1"), baseTime)

		require.NoError(t, err)
		assert.True(t, result.Duplicate)
	})

	t.Run("should reject refund of a pending payment", func(t *testing.T) {
		o := attachedOrder(t, order.Prepaid)

		_, err := o.ApplyGatewayResult(gatewayResult(order.OutcomeRefunded, ""), baseTime)

		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestParseGatewayOutcome(t *testing.T) {
	outcome, err := order.ParseGatewayOutcome("REFUND_FAILED")

	require.NoError(t, err)
	assert.Equal(t, order.OutcomeRefundFailed, outcome)

	_, err = order.ParseGatewayOutcome("chargeback")
	assert.Error(t, err)
}
