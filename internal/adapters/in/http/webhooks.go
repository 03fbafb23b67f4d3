package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/in/payload"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw payment webhook body.
const SignatureHeader = "X-Webhook-Signature"

const maxWebhookBody = 64 << 10

// PaymentWebhook handles POST /webhooks/payment.
//
// The body is authenticated before it is parsed when a secret is
// configured. Redelivered callbacks answer 200 with result "duplicate"; a
// callback that needs manual follow-up answers 202 with the review reason.
func (s *Server) PaymentWebhook(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return bodyError(c, err)
	}
	if !s.verifySignature(body, c.Request().Header.Get(SignatureHeader)) {
		metrics.WebhooksReceived.WithLabelValues("payment", "unauthorized").Inc()
		s.logger.WarnContext(c.Request().Context(), "payment webhook signature mismatch",
			"remote", c.RealIP())
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: http.StatusUnauthorized, Message: "invalid signature"})
	}

	var req PaymentWebhookRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	outcome, err := order.ParseGatewayOutcome(req.Outcome)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewApplyPaymentResultCommand(req.GatewayOrderID, req.PaymentID, req.Signature, outcome)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.ApplyPaymentResult.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	resp := WebhookResponse{Result: reconcileOutcome(result), Confirmed: result.Confirmed}
	if result.ReviewRequired != nil {
		resp.Review = result.ReviewRequired.Reason
		return c.JSON(http.StatusAccepted, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// CourierWebhook handles POST /webhooks/courier.
func (s *Server) CourierWebhook(c echo.Context) error {
	if _, err := readBody(c); err != nil {
		return bodyError(c, err)
	}

	var req payload.CourierEvent
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	cmd, err := req.ToCommand()
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.RecordDeliveryEvent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	resp := WebhookResponse{Result: payload.TrackingOutcome(result)}
	for _, status := range result.Transitioned {
		resp.Transitioned = append(resp.Transitioned, status.String())
	}
	if result.ReviewRequired != nil {
		resp.Review = result.ReviewRequired.Reason
		return c.JSON(http.StatusAccepted, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// readBody reads at most maxWebhookBody bytes and leaves the body in place
// for binding.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		return nil, err
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func bodyError(c echo.Context, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return c.JSON(http.StatusRequestEntityTooLarge,
			ErrorResponse{Code: http.StatusRequestEntityTooLarge, Message: "request body too large"})
	}
	return badRequest(c, "Invalid request body")
}

func (s *Server) verifySignature(body []byte, signature string) bool {
	if len(s.webhookSecret) == 0 {
		return true
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.webhookSecret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

func reconcileOutcome(r order.ReconcileResult) string {
	switch {
	case r.Duplicate:
		return "duplicate"
	case r.Ignored:
		return "ignored"
	case r.ReviewRequired != nil:
		return "review"
	default:
		return "applied"
	}
}
