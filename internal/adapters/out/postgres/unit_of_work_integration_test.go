package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	postgres_adapter "github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/postgres"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/postgres/orderrepo"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu       sync.Mutex
	requests []order.NotificationRequest
	fail     bool
}

func (n *recordingNotifier) Notify(_ context.Context, request order.NotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, request)
	if n.fail {
		return errors.New("push gateway unavailable")
	}
	return nil
}

func (n *recordingNotifier) sent() []order.NotificationRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]order.NotificationRequest(nil), n.requests...)
}

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	notifier  *recordingNotifier
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(orderrepo.Models()...))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)
	suite.notifier = &recordingNotifier{}
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.db, suite.notifier,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "nested Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx), "rollback after commit has no transaction")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
	suite.Require().Error(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPublishesNotifications() {
	ctx := context.Background()
	o := newOrder(suite.T())
	suite.persist(o)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Transition(order.Confirmed, "ops", "cod order verified", time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))

	suite.Empty(suite.notifier.sent(), "nothing is sent before commit")
	suite.Require().NoError(uow.Commit(ctx))

	sent := suite.notifier.sent()
	suite.Require().Len(sent, 1)
	suite.Equal(order.Confirmed, sent[0].Status)
	suite.Equal(o.ID(), sent[0].OrderID)
	suite.Equal(order.PriorityNormal, sent[0].Priority)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChanges() {
	ctx := context.Background()
	o := newOrder(suite.T())
	suite.persist(o)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Transition(order.Cancelled, "user", "", time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(suite.notifier.sent())

	check := suite.factory.Create()
	stored, err := check.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Processing, stored.Status())
	suite.Zero(stored.History().Len())
	suite.Equal(int64(0), stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_NotificationFailureDoesNotFailCommit() {
	ctx := context.Background()
	suite.notifier.fail = true
	o := newOrder(suite.T())
	suite.persist(o)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Transition(order.Cancelled, "user", "", time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))

	suite.Require().NoError(uow.Commit(ctx))
	suite.Len(suite.notifier.sent(), 1)

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, stored.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentWritersConflict() {
	ctx := context.Background()
	o := newOrder(suite.T())
	suite.persist(o)

	first := suite.factory.Create()
	second := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	suite.Require().NoError(second.Begin(ctx))

	a, err := first.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	b, err := second.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(a.Transition(order.Confirmed, "ops", "", time.Now()))
	suite.Require().NoError(first.OrderRepository().Update(ctx, a))
	suite.Require().NoError(first.Commit(ctx))

	suite.Require().NoError(b.Transition(order.Cancelled, "user", "", time.Now()))
	err = second.OrderRepository().Update(ctx, b)
	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
	suite.Require().NoError(second.Rollback(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, stored.Status())
	suite.Equal(1, stored.History().Len())
}

func (suite *UnitOfWorkIntegrationTestSuite) persist(o *order.Order) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), "TEE-M", 2, kernel.MustMoney(79900), order.Customization{})
	if err != nil {
		t.Fatal(err)
	}
	address, err := order.NewShippingAddress(order.Address{
		Name: "Ravi Iyer", Phone: "+919811111111", Line1: "4 Park Street",
		City: "Kolkata", State: "WB", PostalCode: "700016", Country: "IN",
	})
	if err != nil {
		t.Fatal(err)
	}
	delivery, err := order.NewDeliveryInfo(order.DeliveryManual, kernel.MustMoney(0), 5)
	if err != nil {
		t.Fatal(err)
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{item}, address, delivery,
		order.COD, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestUnitOfWorkIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
