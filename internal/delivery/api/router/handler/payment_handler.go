package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/delivery/api/response"
	"portal/internal/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PaymentHandlerParams holds dependencies for PaymentHandler, injected by Fx.
type PaymentHandlerParams struct {
	fx.In

	PaymentUC usecase.PaymentUsecase
	Pager     *Pager
	Logger    *slog.Logger
}

// PaymentHandler serves the payments and payouts pages
type PaymentHandler struct {
	paymentUC usecase.PaymentUsecase
	pager     *Pager
	logger    *slog.Logger
}

// NewPaymentHandler is the constructor for PaymentHandler
func NewPaymentHandler(params PaymentHandlerParams) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: params.PaymentUC,
		pager:     params.Pager,
		logger:    params.Logger,
	}
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	return serveList(c, h.pager, pagePayments, h.paymentUC.ListPayments)
}

// GetPayment handles GET /api/payments/:id
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	payment, err := h.paymentUC.GetPayment(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payment)
}

// ListPayouts handles GET /api/payouts
func (h *PaymentHandler) ListPayouts(c echo.Context) error {
	return serveList(c, h.pager, pagePayouts, h.paymentUC.ListPayouts)
}

// ExecutePayout handles POST /api/payouts/:id/execute
func (h *PaymentHandler) ExecutePayout(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	result, err := h.paymentUC.ExecutePayout(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	h.logger.Info("Payout executed", slog.Int64("payout_id", id))

	return response.Success(c, http.StatusOK, result)
}
