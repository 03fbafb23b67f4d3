package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireStalePaymentsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	stale := pendingPrepaidOrder(t)
	paidMeanwhile := pendingPrepaidOrder(t)
	_, err := paidMeanwhile.ApplyGatewayResult(
		order.GatewayResult{GatewayOrderID: "gw_1", PaymentID: "pay_9", Outcome: order.OutcomePaid}, now)
	require.NoError(t, err)

	cmd, err := commands.NewExpireStalePaymentsCommand(30*time.Minute, 100)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	listing := new(MockOrderUoW)
	expiring := new(MockOrderUoW)
	skipped := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(listing).Once()
	factory.On("Create").Return(expiring).Once()
	factory.On("Create").Return(skipped).Once()

	listing.On("Begin", ctx).Return(nil).Once()
	listing.On("OrderRepository").Return(repo).Once()
	listing.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetStalePending", ctx, now.Add(-30*time.Minute), 100).
		Return([]kernel.UUID{stale.ID(), paidMeanwhile.ID()}, nil).Once()

	expectTx(ctx, expiring, repo)
	repo.On("Get", ctx, stale.ID()).Return(stale, nil).Once()
	repo.On("Update", ctx, stale).Return(nil).Once()

	skipped.On("Begin", ctx).Return(nil).Once()
	skipped.On("OrderRepository").Return(repo).Once()
	skipped.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, paidMeanwhile.ID()).Return(paidMeanwhile, nil).Once()

	expired, err := commands.NewExpireStalePaymentsCommandHandler(newExecutor(factory)).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, order.PaymentFailed, stale.Status())
	assert.Equal(t, order.PaymentPending, stale.Payment().Status())
	assert.Equal(t, order.ActorSystem, stale.History().Entries()[0].Actor())
	assert.Equal(t, order.Confirmed, paidMeanwhile.Status())
	repo.AssertExpectations(t)
	skipped.AssertNotCalled(t, "Commit", ctx)
}

func TestExpireStalePaymentsCommandHandler_Handle_ListFailure(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewExpireStalePaymentsCommand(time.Hour, 10)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetStalePending", ctx, now.Add(-time.Hour), 10).Return(nil, errors.New("connection reset")).Once()

	expired, err := commands.NewExpireStalePaymentsCommandHandler(newExecutor(factory)).Handle(ctx, cmd)

	require.Error(t, err)
	assert.Zero(t, expired)
}

func TestNewExpireStalePaymentsCommand_Validation(t *testing.T) {
	_, err := commands.NewExpireStalePaymentsCommand(0, 10)
	assert.Error(t, err)

	_, err = commands.NewExpireStalePaymentsCommand(time.Minute, 0)
	assert.Error(t, err)

	_, err = commands.NewExpireStalePaymentsCommand(time.Minute, 501)
	assert.Error(t, err)

	_, err = commands.NewExpireStalePaymentsCommand(time.Minute, 500)
	assert.NoError(t, err)
}
