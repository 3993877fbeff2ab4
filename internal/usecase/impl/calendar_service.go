package impl

import (
	"context"
	"time"

	"portal/config"
	"portal/internal/calendar"
	"portal/internal/domain/entity"
	"portal/internal/usecase"

	"go.uber.org/fx"
)

// calendarService implements the CalendarUsecase interface.
type calendarService struct {
	api       UpstreamClient
	path      string
	weekStart time.Weekday
	now       func() time.Time
}

// CalendarServiceParams holds dependencies for CalendarService, injected by Fx.
type CalendarServiceParams struct {
	fx.In

	Tenant entity.Tenant
	API    UpstreamClient
	Config *config.Config
}

// NewCalendarService is the constructor for calendarService.
func NewCalendarService(params CalendarServiceParams) usecase.CalendarUsecase {
	return &calendarService{
		api:       params.API,
		path:      pathsFor(params.Tenant).Calendar,
		weekStart: params.Config.Listing.FirstWeekday(),
		now:       time.Now,
	}
}

// Month lays the session's bookings out on the grid of year/month.
func (srv *calendarService) Month(ctx context.Context, year int, month time.Month) (*calendar.Month, error) {
	bookings, err := fetchList[entity.Booking](ctx, srv.api, srv.path, "bookings")
	if err != nil {
		return nil, err
	}

	grid := calendar.Build(year, month, srv.weekStart, bookings, srv.now())

	return &grid, nil
}
