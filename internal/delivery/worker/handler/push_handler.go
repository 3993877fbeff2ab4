package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/service"
	"portal/internal/infra/metrics"
	"portal/internal/infra/pubsub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

const envDevelop = "develop"

// TokenValidator checks the OIDC token Pub/Sub attaches to push requests
type TokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type eventRecorder interface {
	SessionEvent(tenant, eventType string)
}

// PushHandler handles Pub/Sub push messages carrying session audit events
type PushHandler struct {
	verifyPushAuth bool
	validate       TokenValidator
	recorder       eventRecorder
	logger         *slog.Logger
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config  *config.Config
	Metrics *metrics.Collector `optional:"true"`
	Logger  *slog.Logger
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	h := &PushHandler{
		verifyPushAuth: PushAuthRequired(params.Config),
		validate:       idtoken.Validate,
		logger:         params.Logger,
	}
	if params.Metrics != nil {
		h.recorder = params.Metrics
	}

	return h
}

// PushAuthRequired reports whether push requests must carry a Google-signed OIDC token:
// only for the google provider, and never in the develop environment.
func PushAuthRequired(cfg *config.Config) bool {
	return cfg.PubSub != nil &&
		cfg.PubSub.Provider == pubsub.ProviderGoogle &&
		cfg.Env.Env != envDevelop
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Parse Pub/Sub message
	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := decodeEvent(&pushMsg)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode session event", slog.Any("error", err))

		// Malformed messages are acknowledged, never retried
		return c.NoContent(http.StatusOK)
	}

	requestID := extractRequestID(ctx, &pushMsg, event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	reqLogger.Info("[Worker] Session event",
		slog.String("event_id", event.EventID),
		slog.String("type", string(event.Type)),
		slog.String("tenant", event.Tenant.String()),
		slog.Int64("subject_id", event.SubjectID),
		slog.String("role", string(event.Role)),
		slog.String("scope", string(event.Scope)),
		slog.Time("occurred_at", event.OccurredAt),
		slog.String("message_id", pushMsg.Message.MessageID),
	)

	if h.recorder != nil {
		h.recorder.SessionEvent(event.Tenant.String(), string(event.Type))
	}

	return c.NoContent(http.StatusOK)
}

func decodeEvent(pushMsg *pubsub.PushMessage) (*service.SessionEvent, error) {
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decode message data")
	}

	var event service.SessionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "parse session event")
	}
	if event.EventID == "" || event.Type == "" {
		return nil, errors.New("session event is missing its id or type")
	}

	return &event, nil
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *service.SessionEvent) string {
	// 1. Try message attributes (from Pub/Sub)
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Try event field (from JSON payload)
	if event.RequestID != "" {
		return event.RequestID
	}

	// 3. Try existing context (from RequestIDMiddleware via X-Request-Id header)
	if requestID := deliverycontext.RequestIDFrom(ctx); requestID != "" {
		return requestID
	}

	// 4. Generate new UUID as fallback
	return uuid.New().String()
}

func (h *PushHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := h.validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
