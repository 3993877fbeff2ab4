package handler

import (
	"context"
	"time"

	"portal/internal/calendar"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CalendarHandler serves the month view of bookings
type CalendarHandler struct {
	calendarUC usecase.CalendarUsecase
	pager      *Pager
	now        func() time.Time
}

// NewCalendarHandler is the constructor for CalendarHandler
func NewCalendarHandler(calendarUC usecase.CalendarUsecase, pager *Pager) *CalendarHandler {
	return &CalendarHandler{
		calendarUC: calendarUC,
		pager:      pager,
		now:        time.Now,
	}
}

// Month handles GET /api/calendar?month=YYYY-MM. No month selects the current one.
func (h *CalendarHandler) Month(c echo.Context) error {
	year, month, err := calendar.ParseMonth(c.QueryParam("month"), h.now())
	if err != nil {
		return domainerrors.ErrInvalidMonth.WrapMessage(err.Error())
	}

	return serveLatest(c, h.pager, pageCalendar, "", func(ctx context.Context) (*calendar.Month, error) {
		return h.calendarUC.Month(ctx, year, month)
	})
}
