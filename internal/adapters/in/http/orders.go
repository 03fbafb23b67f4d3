package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/queries"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	params, err := placeOrderParams(req)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewPlaceOrderCommand(params)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.PlaceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedResponse{
		ID:            o.ID().String(),
		Status:        o.Status().String(),
		Total:         o.Total().String(),
		Version:       o.Version(),
		CustomOrderID: o.CustomOrderID(),
	})
}

func placeOrderParams(req PlaceOrderRequest) (commands.PlaceOrderParams, error) {
	orderID := kernel.NewUUID()
	if req.OrderID != "" {
		id, err := parseUUID("orderId", req.OrderID)
		if err != nil {
			return commands.PlaceOrderParams{}, err
		}
		orderID = id
	}
	userID, err := parseUUID("userId", req.UserID)
	if err != nil {
		return commands.PlaceOrderParams{}, err
	}

	items := make([]commands.PlaceOrderItem, len(req.Items))
	for i, item := range req.Items {
		productID, idErr := parseUUID(fmt.Sprintf("items[%d].productId", i), item.ProductID)
		if idErr != nil {
			return commands.PlaceOrderParams{}, idErr
		}
		items[i] = commands.PlaceOrderItem{
			ProductID: productID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			Customization: order.Customization{
				Fields:      item.Customization.Fields,
				Attachments: item.Customization.Attachments,
			},
		}
	}

	mode, err := order.ParseDeliveryMode(req.Delivery.Mode)
	if err != nil {
		return commands.PlaceOrderParams{}, err
	}
	cost, err := kernel.ParseMoney(req.Delivery.Cost)
	if err != nil {
		return commands.PlaceOrderParams{}, errs.NewValueIsInvalidErrorWithCause("delivery.cost", err)
	}
	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return commands.PlaceOrderParams{}, err
	}

	params := commands.PlaceOrderParams{
		OrderID:        orderID,
		UserID:         userID,
		Items:          items,
		Address:        req.ShippingAddress.toDomain(),
		DeliveryMode:   mode,
		DeliveryCost:   cost,
		EstimatedDays:  req.Delivery.EstimatedDays,
		PaymentMethod:  method,
		GatewayOrderID: req.GatewayOrderID,
	}
	if req.Coupon != nil {
		value, valueErr := decimal.NewFromString(req.Coupon.Value)
		if valueErr != nil {
			return commands.PlaceOrderParams{}, errs.NewValueIsInvalidErrorWithCause("coupon.value", valueErr)
		}
		params.Coupon = &commands.CouponInput{Code: req.Coupon.Code, Kind: req.Coupon.Kind, Value: value}
	}
	return params, nil
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newOrderResponse(view))
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req ChangeStatusRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, req.Actor, req.Remarks)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ChangeOrderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RequestRefund handles POST /api/v1/orders/:id/refund.
func (s *Server) RequestRefund(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req RefundRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRequestRefundCommand(orderID, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.RequestRefund.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

// AssignShipment handles POST /api/v1/orders/:id/shipment.
func (s *Server) AssignShipment(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req ShipmentRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignShipmentCommand(orderID, req.ShipmentID, req.LabelRef)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.AssignShipment.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateShippingAddress handles PUT /api/v1/orders/:id/address.
func (s *Server) UpdateShippingAddress(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	var req AddressRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateShippingAddressCommand(orderID, req.toDomain())
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.UpdateShippingAddress.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ResolveReview handles POST /api/v1/orders/:id/review/resolve.
func (s *Server) ResolveReview(c echo.Context) error {
	orderID, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewResolveReviewCommand(orderID)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ResolveReview.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReviewQueue handles GET /api/v1/reviews?limit=N.
func (s *Server) GetReviewQueue(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "limit must be an integer")
		}
		limit = n
	}

	query, err := queries.NewGetReviewQueueQuery(limit)
	if err != nil {
		return s.fail(c, err)
	}
	queue, err := s.handlers.GetReviewQueue.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newReviewQueueResponse(queue))
}

// bind decodes and validates the request body. Failures are reported as
// ValueIsInvalid.
func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}

func parseUUID(param, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}
