package commands

import (
	"errors"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand is an operator or customer driven status change,
// such as a cancellation or marking an order ready to ship.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   string
	remarks string

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(orderID kernel.UUID, target order.Status, actor, remarks string) (ChangeOrderStatusCommand, error) {
	actor = strings.TrimSpace(actor)

	var actorErr error
	if actor == "" {
		actorErr = errs.NewValueIsRequiredError("actor")
	}
	if err := errors.Join(orderID.Validate(), target.Validate(), actorErr); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		target:  target,
		actor:   actor,
		remarks: strings.TrimSpace(remarks),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

func (c ChangeOrderStatusCommand) Actor() string {
	return c.actor
}

func (c ChangeOrderStatusCommand) Remarks() string {
	return c.remarks
}
