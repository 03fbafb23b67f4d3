package commands

import (
	"errors"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrUpdateShippingAddressCommandIsNotConstructed = errors.New(
	"UpdateShippingAddressCommand must be created via NewUpdateShippingAddressCommand constructor",
)

type UpdateShippingAddressCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	address order.ShippingAddress

	guard guard.ConstructorGuard
}

func NewUpdateShippingAddressCommand(orderID kernel.UUID, address order.Address) (UpdateShippingAddressCommand, error) {
	shipping, addressErr := order.NewShippingAddress(address)
	if err := errors.Join(orderID.Validate(), addressErr); err != nil {
		return UpdateShippingAddressCommand{}, err
	}

	return UpdateShippingAddressCommand{orderID: orderID, address: shipping, guard: guard.NewConstructorGuard()}, nil
}

func (c UpdateShippingAddressCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShippingAddressCommandIsNotConstructed)
}

func (c UpdateShippingAddressCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateShippingAddressCommand) Address() order.ShippingAddress {
	return c.address
}
