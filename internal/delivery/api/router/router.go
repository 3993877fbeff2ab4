// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"portal/config"
	"portal/internal/delivery/api/middleware"
	"portal/internal/delivery/api/router/handler"
	"portal/internal/infra/metrics"
	"portal/internal/tenant"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

// RouterParams holds the handlers to mount. Tenant handlers are absent when the
// process could not resolve its tenant.
type RouterParams struct {
	fx.In

	Selection tenant.Selection
	Config    *config.Config
	Metrics   *metrics.Collector `optional:"true"`

	Provider          usecase.SessionProvider       `optional:"true"`
	SessionMiddleware *middleware.SessionMiddleware `optional:"true"`
	AuthHandler       *handler.AuthHandler          `optional:"true"`
	ShellHandler      *handler.ShellHandler         `optional:"true"`
	BookingHandler    *handler.BookingHandler       `optional:"true"`
	PaymentHandler    *handler.PaymentHandler       `optional:"true"`
	SupportHandler    *handler.SupportHandler       `optional:"true"`
	CalendarHandler   *handler.CalendarHandler      `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up the route tree of the resolved tenant.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)
	if p.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(p.Metrics.Handler()))
	}

	if !p.Selection.Resolved || p.Provider == nil {
		e.Any("/*", handler.NoTenant)

		return
	}

	loginRoute := p.Provider.LoginRoute()
	guard := middleware.NewGuard(loginRoute)

	// Public routes: the session is mounted but not required
	e.GET(loginRoute, p.AuthHandler.LoginPage, p.SessionMiddleware.Handle)

	authGroup := e.Group("/api/auth", p.SessionMiddleware.Handle)
	{
		authGroup.GET("/session", p.AuthHandler.Session)
		authGroup.POST("/logout", p.AuthHandler.Logout)

		limited := authGroup.Group("")
		if p.Config.Auth.RateLimit > 0 {
			limited.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStoreWithConfig(
				echomiddleware.RateLimiterMemoryStoreConfig{
					Rate:  rate.Limit(p.Config.Auth.RateLimit),
					Burst: p.Config.Auth.RateBurst,
				},
			)))
		}
		limited.POST("/login", p.AuthHandler.Login)
		limited.POST("/password/request", p.AuthHandler.RequestPasswordReset)
		limited.POST("/password/verify", p.AuthHandler.VerifyResetCode)
		limited.POST("/password/reset", p.AuthHandler.ResetPassword)
		limited.POST("/register", p.AuthHandler.Register)
	}

	// Protected routes
	protected := e.Group("", p.SessionMiddleware.Handle, guard.Handle)
	{
		protected.GET("/api/me", p.ShellHandler.Me)

		protected.GET("/api/bookings", p.BookingHandler.ListBookings)
		protected.GET("/api/bookings/:id", p.BookingHandler.GetBooking)
		protected.POST("/api/bookings/:id/approve", p.BookingHandler.ApproveBooking)
		protected.POST("/api/bookings/:id/reject", p.BookingHandler.RejectBooking)
		protected.POST("/api/bookings/:id/assign", p.BookingHandler.AssignVendor)

		protected.GET("/api/payments", p.PaymentHandler.ListPayments)
		protected.GET("/api/payments/:id", p.PaymentHandler.GetPayment)
		protected.GET("/api/payouts", p.PaymentHandler.ListPayouts)
		protected.POST("/api/payouts/:id/execute", p.PaymentHandler.ExecutePayout)

		protected.GET("/api/tickets", p.SupportHandler.ListTickets)
		protected.DELETE("/api/tickets/:id", p.SupportHandler.DeleteTicket)
		protected.GET("/api/vendor-applications", p.SupportHandler.ListVendorApplications)
		protected.POST("/api/vendor-applications/:id/approve", p.SupportHandler.ApproveVendorApplication)
		protected.POST("/api/vendor-applications/:id/reject", p.SupportHandler.RejectVendorApplication)
		protected.GET("/api/ratings", p.SupportHandler.ListRatings)

		protected.GET("/api/calendar", p.CalendarHandler.Month)

		// The shell owns every other page
		protected.GET("/", p.ShellHandler.Dashboard)
		protected.GET("/*", p.ShellHandler.Dashboard)
	}
}
