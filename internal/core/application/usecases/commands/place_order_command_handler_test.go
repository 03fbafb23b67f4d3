package commands_test

import (
	"errors"
	"testing"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/services"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placeOrderParams(productID kernel.UUID) commands.PlaceOrderParams {
	return commands.PlaceOrderParams{
		OrderID:        kernel.NewUUID(),
		UserID:         kernel.NewUUID(),
		Items:          []commands.PlaceOrderItem{{ProductID: productID, SKU: "MUG-RED", Quantity: 2}},
		Address:        testAddress(),
		DeliveryMode:   order.DeliveryAutomatic,
		DeliveryCost:   kernel.MustMoney(4900),
		EstimatedDays:  4,
		PaymentMethod:  order.Prepaid,
		GatewayOrderID: "gw_1",
		Coupon:         &commands.CouponInput{Code: "save10", Kind: "percentage", Value: decimal.NewFromInt(10)},
	}
}

func TestPlaceOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(placeOrderParams(productID))
	require.NoError(t, err)

	catalog := new(MockCatalog)
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)

	catalog.On("UnitPrice", ctx, productID, "MUG-RED").Return(kernel.MustMoney(49950), nil).Once()
	factory.On("Create").Return(uow).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewPlaceOrderCommandHandler(newExecutor(factory), catalog, services.NewDiscountEngine())
	o, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "999.00", o.Subtotal().String())
	assert.Equal(t, "99.90", o.Discount().String())
	assert.Equal(t, "948.10", o.Total().String())
	assert.Equal(t, "gw_1", o.Payment().GatewayOrderID())
	assert.Equal(t, now, o.CreatedAt())
	catalog.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_CatalogFailure(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(placeOrderParams(productID))
	require.NoError(t, err)

	catalog := new(MockCatalog)
	factory := new(MockOrderUoWFactory)
	catalog.On("UnitPrice", ctx, productID, "MUG-RED").
		Return(kernel.Money{}, errs.NewObjectNotFoundError("sku", "MUG-RED")).Once()

	handler := commands.NewPlaceOrderCommandHandler(newExecutor(factory), catalog, services.NewDiscountEngine())
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_InvalidCoupon(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	params := placeOrderParams(productID)
	params.Coupon.Kind = "bogo"
	cmd, err := commands.NewPlaceOrderCommand(params)
	require.NoError(t, err)

	catalog := new(MockCatalog)
	factory := new(MockOrderUoWFactory)
	catalog.On("UnitPrice", ctx, productID, "MUG-RED").Return(kernel.MustMoney(100), nil).Once()

	handler := commands.NewPlaceOrderCommandHandler(newExecutor(factory), catalog, services.NewDiscountEngine())
	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, services.ErrInvalidCoupon)
	factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_DuplicateOrder(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(placeOrderParams(productID))
	require.NoError(t, err)

	catalog := new(MockCatalog)
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)

	catalog.On("UnitPrice", ctx, productID, "MUG-RED").Return(kernel.MustMoney(100), nil).Once()
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Add", ctx, mock.Anything).Return(errs.NewValueIsDuplicateError("orderId")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewPlaceOrderCommandHandler(newExecutor(factory), catalog, services.NewDiscountEngine())
	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrValueIsDuplicate)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestPlaceOrderCommandHandler_Handle_NotConstructed(t *testing.T) {
	handler := commands.NewPlaceOrderCommandHandler(newExecutor(new(MockOrderUoWFactory)), new(MockCatalog), services.NewDiscountEngine())

	_, err := handler.Handle(t.Context(), commands.PlaceOrderCommand{})

	assert.True(t, errors.Is(err, commands.ErrPlaceOrderCommandIsNotConstructed))
}
