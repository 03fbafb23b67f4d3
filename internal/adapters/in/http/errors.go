package http

import (
	"errors"
	"net/http"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/services"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps use case errors to HTTP status codes. Anything unknown,
// including invariant violations, is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrPaymentCorrelation):
		return http.StatusForbidden
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, errs.ErrValueIsDuplicate):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCoupon):
		return http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrInvariantViolated):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an ErrorResponse. Server errors are logged and their
// details are not exposed.
func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(code, ErrorResponse{Code: code, Message: "internal server error"})
	}
	return c.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: message})
}
