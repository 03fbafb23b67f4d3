package commands

import (
	"errors"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrApplyPaymentResultCommandIsNotConstructed = errors.New(
	"ApplyPaymentResultCommand must be created via NewApplyPaymentResultCommand constructor",
)

// ApplyPaymentResultCommand carries one verified payment gateway callback.
type ApplyPaymentResultCommand struct { //nolint:recvcheck //using for validation
	result order.GatewayResult

	guard guard.ConstructorGuard
}

func NewApplyPaymentResultCommand(
	gatewayOrderID, paymentID, signature string,
	outcome order.GatewayOutcome,
) (ApplyPaymentResultCommand, error) {
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)

	var gatewayErr, outcomeErr error
	if gatewayOrderID == "" {
		gatewayErr = errs.NewValueIsRequiredError("gatewayOrderId")
	}
	if outcome == order.OutcomeUnknown {
		outcomeErr = errs.NewValueIsRequiredError("outcome")
	}
	if err := errors.Join(gatewayErr, outcomeErr); err != nil {
		return ApplyPaymentResultCommand{}, err
	}

	return ApplyPaymentResultCommand{
		result: order.GatewayResult{
			GatewayOrderID: gatewayOrderID,
			PaymentID:      strings.TrimSpace(paymentID),
			Signature:      signature,
			Outcome:        outcome,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyPaymentResultCommand) Validate() error {
	return c.guard.Validate(ErrApplyPaymentResultCommandIsNotConstructed)
}

func (c ApplyPaymentResultCommand) Result() order.GatewayResult {
	return c.result
}
