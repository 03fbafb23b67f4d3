package commands

import (
	"errors"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrRequestRefundCommandIsNotConstructed = errors.New(
	"RequestRefundCommand must be created via NewRequestRefundCommand constructor",
)

type RequestRefundCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewRequestRefundCommand(orderID kernel.UUID, reason string) (RequestRefundCommand, error) {
	reason = strings.TrimSpace(reason)

	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}
	if err := errors.Join(orderID.Validate(), reasonErr); err != nil {
		return RequestRefundCommand{}, err
	}

	return RequestRefundCommand{orderID: orderID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c RequestRefundCommand) Validate() error {
	return c.guard.Validate(ErrRequestRefundCommandIsNotConstructed)
}

func (c RequestRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestRefundCommand) Reason() string {
	return c.reason
}
