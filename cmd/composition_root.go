package cmd

import (
	"log/slog"

	httpadapter "github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/in/http"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/in/kafka"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/notifier"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/postgres"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/postgres/catalogrepo"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/queries"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/services"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/ports"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/jobs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/retry"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	notifier   ports.Notifier
	uowFactory *postgres.GormUnitOfWorkFactory
	executor   commands.Executor
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	var n ports.Notifier = notifier.NewLogNotifier(logger)
	if config.KafkaEnabled() {
		n = notifier.NewKafkaNotifier(config.KafkaBrokers, config.KafkaNotificationsTopic)
	}

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB, n, logger)
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return uowFactory.Create()
	})

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		notifier:   n,
		uowFactory: uowFactory,
		executor: commands.NewExecutor(f, logger, commands.WithRetry(retry.Config{
			MaxAttempts: config.RetryMaxAttempts,
		})),
	}
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.executor, catalogrepo.NewGormCatalog(c.gormDB), services.NewDiscountEngine())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateApplyPaymentResultCommandHandler() commands.ApplyPaymentResultCommandHandler {
	return commands.NewApplyPaymentResultCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateRecordDeliveryEventCommandHandler() commands.RecordDeliveryEventCommandHandler {
	return commands.NewRecordDeliveryEventCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateAssignShipmentCommandHandler() commands.AssignShipmentCommandHandler {
	return commands.NewAssignShipmentCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateUpdateShippingAddressCommandHandler() commands.UpdateShippingAddressCommandHandler {
	return commands.NewUpdateShippingAddressCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateRequestRefundCommandHandler() commands.RequestRefundCommandHandler {
	return commands.NewRequestRefundCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateResolveReviewCommandHandler() commands.ResolveReviewCommandHandler {
	return commands.NewResolveReviewCommandHandler(c.executor)
}

func (c *CompositionRoot) CreateExpireStalePaymentsCommandHandler() commands.ExpireStalePaymentsCommandHandler {
	return commands.NewExpireStalePaymentsCommandHandler(c.executor)
}

// CreateGetOrderQueryHandler reads through a repository bound to the pool;
// reads never open a transaction.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateGetReviewQueueQueryHandler() queries.GetReviewQueueQueryHandler {
	return queries.NewGetReviewQueueQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		PlaceOrder:            c.CreatePlaceOrderCommandHandler(),
		ChangeOrderStatus:     c.CreateChangeOrderStatusCommandHandler(),
		RequestRefund:         c.CreateRequestRefundCommandHandler(),
		AssignShipment:        c.CreateAssignShipmentCommandHandler(),
		UpdateShippingAddress: c.CreateUpdateShippingAddressCommandHandler(),
		ResolveReview:         c.CreateResolveReviewCommandHandler(),
		ApplyPaymentResult:    c.CreateApplyPaymentResultCommandHandler(),
		RecordDeliveryEvent:   c.CreateRecordDeliveryEventCommandHandler(),
		GetOrder:              c.CreateGetOrderQueryHandler(),
		GetReviewQueue:        c.CreateGetReviewQueueQueryHandler(),
	}, c.config.PaymentWebhookSecret, c.logger)
}

// CreateCourierConsumer returns nil when no broker is configured.
func (c *CompositionRoot) CreateCourierConsumer() *kafka.CourierConsumer {
	if !c.config.KafkaEnabled() {
		return nil
	}
	return kafka.NewCourierConsumer(kafka.Config{
		Brokers: c.config.KafkaBrokers,
		Topic:   c.config.KafkaCourierEventsTopic,
		GroupID: c.config.KafkaConsumerGroup,
	}, c.CreateRecordDeliveryEventCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewStalePaymentJob(c.CreateExpireStalePaymentsCommandHandler(),
			c.config.StalePaymentSpec, c.config.StalePaymentWindow, c.config.StalePaymentBatch, c.logger),
		jobs.NewReviewBacklogJob(c.CreateGetReviewQueueQueryHandler(), c.config.ReviewBacklogSpec, c.logger),
	)
}

// Close releases the notifier's broker connection, if any.
func (c *CompositionRoot) Close() error {
	if closer, ok := c.notifier.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
