package service

import (
	"context"
	"time"

	"portal/internal/domain/entity"
)

// SessionEvent is an audit record of a session lifecycle change
type SessionEvent struct {
	RequestID  string                  `json:"request_id,omitempty"` // For distributed tracing
	EventID    string                  `json:"event_id"`
	Type       entity.SessionEventType `json:"type"`
	Tenant     entity.Tenant           `json:"tenant"`
	SubjectID  int64                   `json:"subject_id,omitempty"`
	Role       entity.Role             `json:"role,omitempty"`
	Scope      entity.StorageScope     `json:"scope,omitempty"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishSessionEvent publishes a session event for downstream consumers
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
