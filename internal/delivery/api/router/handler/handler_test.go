package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"portal/config"
	"portal/internal/delivery/api/middleware"
	apivalidator "portal/internal/delivery/api/validator"
	"portal/internal/delivery/api/view"
	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/listing"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = apivalidator.New()
	e.Renderer = view.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(discardLogger()).HandleHTTPError

	return e
}

func withSession(session usecase.SessionUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetSession(c, session)

			return next(c)
		}
	}
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func newTestPager(debounce time.Duration) *Pager {
	return NewPager(PagerParams{
		Config: &config.Config{Listing: &config.ListingConfig{
			SearchDebounce:  debounce,
			DefaultPageSize: 10,
			MaxPageSize:     100,
		}},
		Tenant: entity.TenantAdmin,
		Logger: discardLogger(),
	})
}

// stubSession is a SessionUsecase with canned answers.
type stubSession struct {
	mu sync.Mutex

	token       string
	state       entity.SessionState
	loginResult entity.Result
	creds       entity.Credentials
	loggedOut   bool
	registered  *entity.VendorRegistration
}

func authenticatedSession(name string) *stubSession {
	return &stubSession{
		token: "token-" + name,
		state: entity.SessionState{
			IsAuthenticated: true,
			CurrentUser:     entity.Admin{AdminID: 1, Identity: entity.Identity{Name: name, Role: "admin"}},
		},
	}
}

func (s *stubSession) Token() string { return s.token }

func (s *stubSession) State() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *stubSession) Init(context.Context) {}

func (s *stubSession) Login(_ context.Context, creds entity.Credentials) entity.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
	if s.loginResult.Success {
		s.state = entity.SessionState{
			IsAuthenticated: true,
			CurrentUser:     entity.Admin{AdminID: 9, Identity: entity.Identity{Name: "Ada"}},
		}
	} else {
		s.state.Error = s.loginResult.Error
	}

	return s.loginResult
}

func (s *stubSession) Logout(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loggedOut = true
	s.state = entity.SessionState{}
}

func (s *stubSession) RequestPasswordReset(context.Context, string) entity.Result {
	return entity.Succeeded()
}

func (s *stubSession) VerifyResetCode(context.Context, string, string) entity.Result {
	return entity.Succeeded()
}

func (s *stubSession) ResetPassword(context.Context, string, string) entity.Result {
	return entity.Succeeded()
}

func (s *stubSession) Register(_ context.Context, form entity.VendorRegistration) entity.Result {
	s.registered = &form

	return entity.Succeeded()
}

type stubProvider struct {
	tenant   entity.Tenant
	register bool
}

func (p stubProvider) Tenant() entity.Tenant { return p.tenant }

func (p stubProvider) LoginRoute() string { return "/login" }

func (p stubProvider) SupportsRegistration() bool { return p.register }

func (p stubProvider) Mount(repository.ScopePair) usecase.SessionUsecase { return &stubSession{} }

// stubResetFlows records the flow IDs it was called with.
type stubResetFlows struct {
	requestFlowID string
	verifyFlowID  string
	resetFlowID   string
	result        entity.Result
}

func (s *stubResetFlows) Request(_ context.Context, _ usecase.SessionUsecase, flowID, _ string) (string, entity.Result) {
	s.requestFlowID = flowID
	if flowID == "" {
		flowID = "flow-1"
	}

	return flowID, s.result
}

func (s *stubResetFlows) Verify(_ context.Context, _ usecase.SessionUsecase, flowID, _, _ string) entity.Result {
	s.verifyFlowID = flowID

	return s.result
}

func (s *stubResetFlows) Reset(_ context.Context, _ usecase.SessionUsecase, flowID, _ string) entity.Result {
	s.resetFlowID = flowID

	return s.result
}

// stubBookings serves bookings through a replaceable list function.
type stubBookings struct {
	list     func(ctx context.Context, q listing.Query) (listing.Page[entity.Booking], error)
	approved []int64
	assigned entity.AssignVendor
}

func (s *stubBookings) ListBookings(ctx context.Context, q listing.Query) (listing.Page[entity.Booking], error) {
	return s.list(ctx, q)
}

func (s *stubBookings) GetBooking(_ context.Context, id int64) (*usecase.BookingDetail, error) {
	return &usecase.BookingDetail{Booking: entity.Booking{BookingID: id}}, nil
}

func (s *stubBookings) ApproveBooking(_ context.Context, id int64) (*usecase.ActionResult, error) {
	s.approved = append(s.approved, id)

	return &usecase.ActionResult{Message: "Booking approved"}, nil
}

func (s *stubBookings) RejectBooking(context.Context, int64) (*usecase.ActionResult, error) {
	return &usecase.ActionResult{}, nil
}

func (s *stubBookings) AssignVendor(_ context.Context, _ int64, req entity.AssignVendor) (*usecase.ActionResult, error) {
	s.assigned = req

	return &usecase.ActionResult{Message: "assigned"}, nil
}
