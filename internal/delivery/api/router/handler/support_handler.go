package handler

import (
	"context"
	"net/http"

	"portal/internal/delivery/api/response"
	"portal/internal/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SupportHandler serves tickets, vendor applications and ratings
type SupportHandler struct {
	supportUC usecase.SupportUsecase
	pager     *Pager
}

// NewSupportHandler is the constructor for SupportHandler
func NewSupportHandler(supportUC usecase.SupportUsecase, pager *Pager) *SupportHandler {
	return &SupportHandler{
		supportUC: supportUC,
		pager:     pager,
	}
}

// ListTickets handles GET /api/tickets
func (h *SupportHandler) ListTickets(c echo.Context) error {
	return serveList(c, h.pager, pageTickets, h.supportUC.ListTickets)
}

// DeleteTicket handles DELETE /api/tickets/:id
func (h *SupportHandler) DeleteTicket(c echo.Context) error {
	return h.act(c, h.supportUC.DeleteTicket)
}

// ListVendorApplications handles GET /api/vendor-applications
func (h *SupportHandler) ListVendorApplications(c echo.Context) error {
	return serveList(c, h.pager, pageApplications, h.supportUC.ListVendorApplications)
}

// ApproveVendorApplication handles POST /api/vendor-applications/:id/approve
func (h *SupportHandler) ApproveVendorApplication(c echo.Context) error {
	return h.act(c, h.supportUC.ApproveVendorApplication)
}

// RejectVendorApplication handles POST /api/vendor-applications/:id/reject
func (h *SupportHandler) RejectVendorApplication(c echo.Context) error {
	return h.act(c, h.supportUC.RejectVendorApplication)
}

// ListRatings handles GET /api/ratings
func (h *SupportHandler) ListRatings(c echo.Context) error {
	return serveList(c, h.pager, pageRatings, h.supportUC.ListRatings)
}

func (h *SupportHandler) act(c echo.Context, action func(context.Context, int64) (*usecase.ActionResult, error)) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	result, err := action(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}
