package repository

import (
	"context"

	"portal/internal/domain/entity"
)

// StorageScope is one browser key-value storage area. Save and Remove apply all entries together.
type StorageScope interface {
	Load(ctx context.Context, keys ...string) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
	Remove(ctx context.Context, keys ...string) error
}

// ScopePair is the durable and ephemeral storage of one browser.
type ScopePair struct {
	Durable   StorageScope
	Ephemeral StorageScope
}

// Get returns the scope for s.
func (p ScopePair) Get(s entity.StorageScope) StorageScope {
	if s == entity.ScopeEphemeral {
		return p.Ephemeral
	}

	return p.Durable
}
