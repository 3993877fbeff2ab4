package apiclient

import (
	"encoding/json"
	"net/http"
	"strings"

	"portal/internal/errors"
)

// ErrTransport marks failures that never produced an upstream response.
var ErrTransport = errors.New("upstream unreachable")

// Error is a non-2xx upstream response.
type Error struct {
	Status int

	// Message is the server-provided message, empty when the body carried none.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return http.StatusText(e.Status)
}

// IsStatus reports whether err is an upstream response with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := errors.AsType[*Error](err)

	return ok && apiErr.Status == status
}

// MessageOf returns the server-provided message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	if apiErr, ok := errors.AsType[*Error](err); ok && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}

// messageFromBody looks for message, then error, in a JSON error body.
func messageFromBody(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, field := range []string{"message", "error"} {
		if s, ok := payload[field].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}

	// {"error":{"message":"..."}}
	if nested, ok := payload["error"].(map[string]any); ok {
		if s, ok := nested["message"].(string); ok {
			return s
		}
	}

	return ""
}
