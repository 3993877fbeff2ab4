package middleware

import (
	"net/http"
	"strings"

	"portal/internal/delivery/api/response"
	"portal/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// Decision is what the route guard does with a request.
type Decision int

const (
	// DecisionLoading holds the request until the session settles.
	DecisionLoading Decision = iota
	// DecisionRender lets the request through.
	DecisionRender
	// DecisionRedirect sends the visitor to the login route.
	DecisionRedirect
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRender:
		return "render"
	case DecisionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decide is a pure function of the two session flags. Loading wins over everything.
func Decide(state entity.SessionState) Decision {
	switch {
	case state.Loading:
		return DecisionLoading
	case state.IsAuthenticated:
		return DecisionRender
	default:
		return DecisionRedirect
	}
}

// Guard protects a route subtree of one tenant.
type Guard struct {
	loginRoute string
}

// NewGuard creates a guard redirecting to loginRoute.
func NewGuard(loginRoute string) *Guard {
	return &Guard{loginRoute: loginRoute}
}

// Handle gates next on the request's session.
func (g *Guard) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var state entity.SessionState
		if session, ok := GetSession(c); ok {
			state = session.State()
		}

		switch Decide(state) {
		case DecisionRender:
			return next(c)
		case DecisionLoading:
			c.Response().Header().Set("Retry-After", "1")

			return c.JSON(http.StatusServiceUnavailable, map[string]bool{"loading": true})
		default:
			if wantsHTML(c.Request()) {
				return c.Redirect(http.StatusSeeOther, g.loginRoute)
			}

			return response.RedirectRequired(c, g.loginRoute)
		}
	}
}

// wantsHTML reports whether the request is a browser navigation rather than an API call.
func wantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}

	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
