package handler

import (
	"net/http"
	"strings"

	"portal/internal/delivery/api/response"
	"portal/internal/delivery/api/view"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/errors"

	"github.com/labstack/echo/v4"
)

// ShellHandler serves the protected dashboard shell
type ShellHandler struct {
	tenant entity.Tenant
}

// NewShellHandler is the constructor for ShellHandler
func NewShellHandler(tenant entity.Tenant) *ShellHandler {
	return &ShellHandler{tenant: tenant}
}

// Dashboard handles GET / and every client-side route of the shell.
func (h *ShellHandler) Dashboard(c echo.Context) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return errors.WithStack(domainerrors.ErrNotFound)
	}

	session, err := currentSession(c)
	if err != nil {
		return err
	}

	page := view.DashboardPage{
		Title: tenantTitle(h.tenant),
		Nav:   navFor(h.tenant),
	}
	if user := session.State().CurrentUser; user != nil {
		page.Name = user.DisplayName()
		page.Role = string(user.RoleName())
	}

	return c.Render(http.StatusOK, view.Dashboard, page)
}

// Me handles GET /api/me
func (h *ShellHandler) Me(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, session.State())
}

// NoTenant answers every route of a process that could not resolve its tenant.
func NoTenant(c echo.Context) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return errors.WithStack(domainerrors.ErrTenantNotResolved)
	}

	return c.Render(http.StatusNotFound, view.NoTenant, nil)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

func tenantTitle(t entity.Tenant) string {
	switch t {
	case entity.TenantAdmin:
		return "Central Administration"
	case entity.TenantVendor:
		return "Professionals Portal"
	case entity.TenantEmployee:
		return "Employees Portal"
	default:
		return "Portal"
	}
}

func navFor(t entity.Tenant) []view.NavItem {
	bookings := view.NavItem{Label: "Bookings", Path: "/bookings"}
	ratings := view.NavItem{Label: "Ratings", Path: "/ratings"}
	calendarItem := view.NavItem{Label: "Calendar", Path: "/calendar"}

	switch t {
	case entity.TenantAdmin:
		return []view.NavItem{
			bookings,
			{Label: "Payments", Path: "/payments"},
			{Label: "Payouts", Path: "/payouts"},
			{Label: "Tickets", Path: "/tickets"},
			{Label: "Vendor applications", Path: "/vendor-applications"},
			ratings,
		}
	case entity.TenantVendor:
		return []view.NavItem{bookings, calendarItem, {Label: "Payments", Path: "/payments"}, ratings}
	default:
		return []view.NavItem{bookings, calendarItem, ratings}
	}
}
