package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByShipmentID(ctx context.Context, shipmentID string) (*order.Order, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, createdBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) UnitPrice(ctx context.Context, productID kernel.UUID, sku string) (kernel.Money, error) {
	args := m.Called(ctx, productID, sku)
	return args.Get(0).(kernel.Money), args.Error(1)
}

func newExecutor(factory commands.OrderUoWFactory) commands.Executor {
	return commands.NewExecutor(factory, slog.New(slog.NewTextHandler(io.Discard, nil)),
		commands.WithClock(func() time.Time { return now }),
		commands.WithRetry(retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	)
}

// expectTx registers one committed transaction on uow.
func expectTx(ctx context.Context, uow *MockOrderUoW, repo *MockOrderRepository) {
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

func testAddress() order.Address {
	return order.Address{
		Name:       "Asha Rao",
		Phone:      "+919800000000",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "IN",
	}
}

// pendingPrepaidOrder returns a Prepaid order attached to gateway order gw_1.
func pendingPrepaidOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), "MUG", 1, kernel.MustMoney(50000), order.Customization{})
	require.NoError(t, err)
	address, err := order.NewShippingAddress(testAddress())
	require.NoError(t, err)
	delivery, err := order.NewDeliveryInfo(order.DeliveryAutomatic, kernel.MustMoney(0), 4)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{item}, address, delivery, order.Prepaid, now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, o.AttachGatewayOrder("gw_1", now.Add(-time.Hour)))
	return o
}

func restoredCopy(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	c, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	return c
}
