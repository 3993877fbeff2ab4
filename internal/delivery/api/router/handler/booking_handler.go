package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/delivery/api/response"
	"portal/internal/domain/entity"
	"portal/internal/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// BookingHandlerParams holds dependencies for BookingHandler, injected by Fx.
type BookingHandlerParams struct {
	fx.In

	BookingUC usecase.BookingUsecase
	Pager     *Pager
	Logger    *slog.Logger
}

// BookingHandler serves the bookings page
type BookingHandler struct {
	bookingUC usecase.BookingUsecase
	pager     *Pager
	logger    *slog.Logger
}

// NewBookingHandler is the constructor for BookingHandler
func NewBookingHandler(params BookingHandlerParams) *BookingHandler {
	return &BookingHandler{
		bookingUC: params.BookingUC,
		pager:     params.Pager,
		logger:    params.Logger,
	}
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(c echo.Context) error {
	return serveList(c, h.pager, pageBookings, h.bookingUC.ListBookings)
}

// GetBooking handles GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	detail, err := h.bookingUC.GetBooking(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, detail)
}

// ApproveBooking handles POST /api/bookings/:id/approve
func (h *BookingHandler) ApproveBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	result, err := h.bookingUC.ApproveBooking(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// RejectBooking handles POST /api/bookings/:id/reject
func (h *BookingHandler) RejectBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	result, err := h.bookingUC.RejectBooking(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// AssignVendor handles POST /api/bookings/:id/assign
func (h *BookingHandler) AssignVendor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	var req entity.AssignVendor
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assignment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.bookingUC.AssignVendor(c.Request().Context(), id, req)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}
