package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware writes one access log line per request. Failed requests are always
// logged; successful ones only in debug mode. Probe paths are never logged.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
	quiet  map[string]struct{}
}

// NewLoggerMiddleware creates a new logger middleware. quietPaths are exact paths
// excluded from logging, typically /health and /metrics.
func NewLoggerMiddleware(logger *slog.Logger, cfg *config.Config, quietPaths ...string) *LoggerMiddleware {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return &LoggerMiddleware{
		logger: logger,
		debug:  cfg.Env.Debug,
		quiet:  quiet,
	}
}

// Handle commits errors through the HTTP error handler before logging, so the
// recorded status is the one the browser received.
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := m.quiet[c.Request().URL.Path]; ok {
			return next(c)
		}

		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		m.logRequest(c, time.Since(start), err)

		return nil
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, latency time.Duration, err error) {
	req := c.Request()
	res := c.Response()

	level := slog.LevelInfo
	switch {
	case res.Status >= http.StatusInternalServerError:
		level = slog.LevelError
	case res.Status >= http.StatusBadRequest:
		level = slog.LevelWarn
	case !m.debug:
		return
	}

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.String("route", c.Path()),
		slog.Int("status", res.Status),
		slog.Int64("bytes_out", res.Size),
		slog.Duration("latency", latency),
		slog.String("remote_ip", c.RealIP()),
	}
	if req.URL.RawQuery != "" {
		attrs = append(attrs, slog.String("query", req.URL.RawQuery))
	}
	if m.debug {
		attrs = append(attrs, slog.String("user_agent", req.UserAgent()))
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}

	deliverycontext.LoggerFrom(req.Context(), m.logger).LogAttrs(req.Context(), level, "HTTP Request", attrs...)
}
