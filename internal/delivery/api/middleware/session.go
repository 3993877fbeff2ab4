package middleware

import (
	"log/slog"

	"portal/internal/infra/apiclient"
	"portal/internal/infra/storage"
	"portal/internal/usecase"
	"portal/internal/util"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const keySession = "session"

// SessionMiddlewareParams holds dependencies for SessionMiddleware, injected by Fx.
type SessionMiddlewareParams struct {
	fx.In

	Factory  *storage.Factory
	Provider usecase.SessionProvider
	Logger   *slog.Logger
}

// SessionMiddleware mounts the tenant session on the browser's storage for every request.
type SessionMiddleware struct {
	factory  *storage.Factory
	provider usecase.SessionProvider
	logger   *slog.Logger
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(params SessionMiddlewareParams) *SessionMiddleware {
	return &SessionMiddleware{
		factory:  params.Factory,
		provider: params.Provider,
		logger:   params.Logger,
	}
}

// Handle restores the session and makes its token the bearer of every upstream call
// issued while serving the request.
func (m *SessionMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		scopes := m.factory.ForRequest(c.Response(), c.Request())
		session := m.provider.Mount(scopes)

		ctx := c.Request().Context()
		session.Init(ctx)

		ctx = apiclient.WithTokenSource(ctx, session)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set(keySession, session)

		return next(c)
	}
}

// GetSession returns the session mounted for the request.
func GetSession(c echo.Context) (usecase.SessionUsecase, bool) {
	session, ok := c.Get(keySession).(usecase.SessionUsecase)

	return session, ok
}

// SetSession attaches a session to the request. Used by tests and alternative mounts.
func SetSession(c echo.Context, session usecase.SessionUsecase) {
	c.Set(keySession, session)
}

// SessionKey identifies the signed-in browser without exposing its token.
func SessionKey(c echo.Context) string {
	session, ok := GetSession(c)
	if !ok {
		return ""
	}

	return util.Fingerprint(session.Token())
}
