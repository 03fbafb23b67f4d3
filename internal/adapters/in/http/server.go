package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/queries"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Use cases the server depends on. The command and query handlers of the
// application layer satisfy them.
type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
	}
	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) error
	}
	RequestRefundHandler interface {
		Handle(ctx context.Context, cmd commands.RequestRefundCommand) error
	}
	AssignShipmentHandler interface {
		Handle(ctx context.Context, cmd commands.AssignShipmentCommand) error
	}
	UpdateShippingAddressHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateShippingAddressCommand) error
	}
	ResolveReviewHandler interface {
		Handle(ctx context.Context, cmd commands.ResolveReviewCommand) error
	}
	ApplyPaymentResultHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyPaymentResultCommand) (order.ReconcileResult, error)
	}
	RecordDeliveryEventHandler interface {
		Handle(ctx context.Context, cmd commands.RecordDeliveryEventCommand) (order.TrackingResult, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
	GetReviewQueueHandler interface {
		Handle(ctx context.Context, query queries.GetReviewQueueQuery) (queries.ReviewQueue, error)
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	PlaceOrder            PlaceOrderHandler
	ChangeOrderStatus     ChangeOrderStatusHandler
	RequestRefund         RequestRefundHandler
	AssignShipment        AssignShipmentHandler
	UpdateShippingAddress UpdateShippingAddressHandler
	ResolveReview         ResolveReviewHandler
	ApplyPaymentResult    ApplyPaymentResultHandler
	RecordDeliveryEvent   RecordDeliveryEventHandler
	GetOrder              GetOrderHandler
	GetReviewQueue        GetReviewQueueHandler
}

// Server serves the order API and the payment and courier webhooks.
type Server struct {
	handlers      Handlers
	webhookSecret []byte
	logger        *slog.Logger
}

// NewServer creates the HTTP server. An empty webhookSecret disables
// signature checks on the payment webhook.
func NewServer(handlers Handlers, webhookSecret string, logger *slog.Logger) *Server {
	return &Server{
		handlers:      handlers,
		webhookSecret: []byte(webhookSecret),
		logger:        logger.With("component", "http"),
	}
}

// Register installs middleware and routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = NewRequestValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"status", v.Status,
				"method", v.Method,
				"uri", v.URI,
				"request_id", v.RequestID,
				"duration", v.Latency.String(),
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/refund", s.RequestRefund)
	api.POST("/orders/:id/shipment", s.AssignShipment)
	api.PUT("/orders/:id/address", s.UpdateShippingAddress)
	api.POST("/orders/:id/review/resolve", s.ResolveReview)
	api.GET("/reviews", s.GetReviewQueue)

	webhooks := e.Group("/webhooks")
	webhooks.POST("/payment", s.PaymentWebhook)
	webhooks.POST("/courier", s.CourierWebhook)
}
