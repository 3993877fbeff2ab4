package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"portal/config"
	"portal/internal/delivery/api/middleware"
	"portal/internal/delivery/api/response"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/errors"
	"portal/internal/infra/metrics"
	"portal/internal/listing"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// idleSequenceTTL is how long an idle (session, page) key is remembered.
const idleSequenceTTL = 10 * time.Minute

// Page names used as sequencing keys and metric labels.
const (
	pageBookings     = "bookings"
	pagePayments     = "payments"
	pagePayouts      = "payouts"
	pageTickets      = "tickets"
	pageApplications = "vendor-applications"
	pageRatings      = "ratings"
	pageCalendar     = "calendar"
)

type supersededRecorder interface {
	Superseded(tenant, page string)
}

// PagerParams holds dependencies for Pager, injected by Fx.
type PagerParams struct {
	fx.In

	Config  *config.Config
	Tenant  entity.Tenant
	Metrics *metrics.Collector `optional:"true"`
	Logger  *slog.Logger
}

// Pager serves list pages with latest-wins ordering and debounced search per
// (session, page).
type Pager struct {
	sequencer *listing.Sequencer
	debouncer *listing.Debouncer
	cfg       *config.ListingConfig
	tenant    entity.Tenant
	recorder  supersededRecorder
	logger    *slog.Logger
}

// NewPager creates a Pager from the listing configuration.
func NewPager(params PagerParams) *Pager {
	p := &Pager{
		sequencer: listing.NewSequencer(idleSequenceTTL),
		debouncer: listing.NewDebouncer(params.Config.Listing.SearchDebounce),
		cfg:       params.Config.Listing,
		tenant:    params.Tenant,
		logger:    params.Logger,
	}
	if params.Metrics != nil {
		p.recorder = params.Metrics
	}

	return p
}

func (p *Pager) parseQuery(c echo.Context) (listing.Query, error) {
	var q listing.Query
	err := echo.QueryParamsBinder(c).
		String("status", &q.Status).
		String("search", &q.Search).
		Time("from", &q.From, time.DateOnly).
		Time("to", &q.To, time.DateOnly).
		Int("page", &q.Page).
		Int("pageSize", &q.PageSize).
		BindError()
	if err != nil {
		return listing.Query{}, errors.WithStack(err)
	}

	return q.Normalize(p.cfg.DefaultPageSize, p.cfg.MaxPageSize), nil
}

// serveList answers one list request of page.
func serveList[T any](c echo.Context, p *Pager, page string, fetch func(context.Context, listing.Query) (listing.Page[T], error)) error {
	q, err := p.parseQuery(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_QUERY", "Invalid list query parameters")
	}

	return serveLatest(c, p, page, q.Search, func(ctx context.Context) (listing.Page[T], error) {
		return fetch(ctx, q)
	})
}

// serveLatest runs fetch under the (session, page) sequence. A request overtaken by a
// newer one for the same key is answered as superseded, whatever its own outcome.
func serveLatest[T any](c echo.Context, p *Pager, page, search string, fetch func(context.Context) (T, error)) error {
	key := middleware.SessionKey(c) + "|" + page
	ctx, ticket, done := p.sequencer.Begin(c.Request().Context(), key)
	defer done()

	if err := p.debouncer.Wait(ctx, key, search); err != nil {
		if errors.Is(err, listing.ErrSuperseded) || !p.sequencer.Latest(ticket) {
			return p.superseded(c, page)
		}

		return errors.WithStack(err)
	}

	result, err := fetch(ctx)
	if !p.sequencer.Latest(ticket) {
		return p.superseded(c, page)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

func (p *Pager) superseded(c echo.Context, page string) error {
	deliverycontext.LoggerFrom(c.Request().Context(), p.logger).
		Debug("List response superseded", slog.String("page", page))
	if p.recorder != nil {
		p.recorder.Superseded(p.tenant.String(), page)
	}

	return response.Superseded(c)
}

// pathID reads the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64("id", &id).BindError(); err != nil {
		return 0, errors.WithStack(err)
	}
	if id <= 0 {
		return 0, errors.Errorf("id %d out of range", id)
	}

	return id, nil
}

func invalidID(c echo.Context) error {
	return response.BadRequest(c, "INVALID_ID", "id must be a positive integer")
}
