package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/domain/service"
	"portal/internal/infra/pubsub"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

type eventCount struct {
	tenant    string
	eventType string
}

type countingRecorder struct {
	events []eventCount
}

func (r *countingRecorder) SessionEvent(tenant, eventType string) {
	r.events = append(r.events, eventCount{tenant: tenant, eventType: eventType})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pushBody(t *testing.T, event any, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg pubsub.PushMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "m-1"
	msg.Subscription = "projects/local/subscriptions/session-events"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func push(h *PushHandler, body string, header http.Header) *httptest.ResponseRecorder {
	e := echo.New()
	e.POST("/push", h.HandlePush)

	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func loginEvent() service.SessionEvent {
	return service.SessionEvent{
		EventID:    "e-1",
		Type:       entity.SessionEventLogin,
		Tenant:     entity.TenantVendor,
		SubjectID:  42,
		Scope:      entity.ScopeDurable,
		OccurredAt: time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewPushHandler_VerifiesOnlyGoogleOutsideDevelop(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		provider string
		want     bool
	}{
		{name: "google in production", env: "production", provider: pubsub.ProviderGoogle, want: true},
		{name: "google in develop", env: "develop", provider: pubsub.ProviderGoogle, want: false},
		{name: "local in production", env: "production", provider: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: tt.provider}}
			cfg.Env.Env = tt.env
			h := NewPushHandler(PushHandlerParams{Config: cfg, Logger: discardLogger()})

			assert.Equal(t, tt.want, h.verifyPushAuth)
		})
	}
}

func TestPushHandler_RecordsSessionEvent(t *testing.T) {
	recorder := &countingRecorder{}
	h := &PushHandler{validate: idtoken.Validate, recorder: recorder, logger: discardLogger()}

	rec := push(h, pushBody(t, loginEvent(), nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []eventCount{{tenant: "vendor", eventType: "login"}}, recorder.events)
}

func TestPushHandler_MalformedEventIsAcknowledged(t *testing.T) {
	recorder := &countingRecorder{}
	h := &PushHandler{recorder: recorder, logger: discardLogger()}

	rec := push(h, pushBody(t, map[string]string{"tenant": "admin"}, nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = push(h, `{"message":{"data":"%%%"}}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, recorder.events)
}

func TestPushHandler_InvalidEnvelope(t *testing.T) {
	h := &PushHandler{logger: discardLogger()}

	rec := push(h, `{"message":`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPushHandler_TokenVerification(t *testing.T) {
	var audience string
	validate := func(_ context.Context, token, aud string) (*idtoken.Payload, error) {
		audience = aud
		if token != "good" {
			return nil, errors.New("bad signature")
		}

		return &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}}, nil
	}
	recorder := &countingRecorder{}
	h := &PushHandler{verifyPushAuth: true, validate: validate, recorder: recorder, logger: discardLogger()}
	body := pushBody(t, loginEvent(), nil)

	rec := push(h, body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = push(h, body, http.Header{"Authorization": {"Token good"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = push(h, body, http.Header{"Authorization": {"Bearer bad"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = push(h, body, http.Header{"Authorization": {"Bearer good"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com/push", audience)
	assert.Len(t, recorder.events, 1)
}

func TestPushHandler_RejectsForeignIssuer(t *testing.T) {
	validate := func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Issuer: "https://evil.example"}, nil
	}
	h := &PushHandler{verifyPushAuth: true, validate: validate, logger: discardLogger()}

	rec := push(h, pushBody(t, loginEvent(), nil), http.Header{"Authorization": {"Bearer good"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractRequestID(t *testing.T) {
	event := loginEvent()
	event.RequestID = "from-event"

	var msg pubsub.PushMessage
	msg.Message.Attributes = map[string]string{"request_id": "from-attributes"}
	assert.Equal(t, "from-attributes", extractRequestID(context.Background(), &msg, &event))

	msg.Message.Attributes = nil
	assert.Equal(t, "from-event", extractRequestID(context.Background(), &msg, &event))

	event.RequestID = ""
	ctx := deliverycontext.WithRequestID(context.Background(), "from-context")
	assert.Equal(t, "from-context", extractRequestID(ctx, &msg, &event))

	assert.NotEmpty(t, extractRequestID(context.Background(), &msg, &event))
}
