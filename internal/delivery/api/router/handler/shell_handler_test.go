package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal/internal/calendar"
	"portal/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellHandler_Dashboard(t *testing.T) {
	h := NewShellHandler(entity.TenantEmployee)
	e := newTestEcho()
	e.GET("/*", h.Dashboard, withSession(authenticatedSession("Grace")))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/calendar", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, Grace")
	assert.Contains(t, body, "Employees Portal")
	assert.Contains(t, body, `href="/calendar"`)
	assert.NotContains(t, body, `href="/payouts"`)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShellHandler_DashboardEscapesName(t *testing.T) {
	h := NewShellHandler(entity.TenantAdmin)
	e := newTestEcho()
	e.GET("/", h.Dashboard, withSession(authenticatedSession("<script>x</script>")))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>x</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestShellHandler_Me(t *testing.T) {
	h := NewShellHandler(entity.TenantAdmin)
	e := newTestEcho()
	e.GET("/api/me", h.Me, withSession(authenticatedSession("Ann")))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isAuthenticated":true`)
	assert.Contains(t, rec.Body.String(), `"name":"Ann"`)
}

func TestShellHandler_MeWithoutSession(t *testing.T) {
	h := NewShellHandler(entity.TenantAdmin)
	e := newTestEcho()
	e.GET("/api/me", h.Me)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNoTenant(t *testing.T) {
	e := newTestEcho()
	e.Any("/*", NoTenant)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No portal is configured")
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))

	rec = serve(e, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "TENANT_NOT_RESOLVED")
}

type stubCalendar struct {
	year  int
	month time.Month
}

func (s *stubCalendar) Month(_ context.Context, year int, month time.Month) (*calendar.Month, error) {
	s.year, s.month = year, month
	m := calendar.Build(year, month, time.Sunday, nil, time.Time{})

	return &m, nil
}

func TestCalendarHandler_Month(t *testing.T) {
	cal := &stubCalendar{}
	h := NewCalendarHandler(cal, newTestPager(time.Millisecond))
	h.now = func() time.Time { return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC) }
	e := newTestEcho()
	e.GET("/api/calendar", h.Month, withSession(authenticatedSession("ann")))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/calendar?month=2026-02", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2026, cal.year)
	assert.Equal(t, time.February, cal.month)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/calendar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.October, cal.month)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/calendar?month=2026-13", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_MONTH")
}
