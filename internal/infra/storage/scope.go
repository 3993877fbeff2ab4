// Package storage implements the two per-browser key-value scopes a session is mirrored in.
package storage

import (
	"time"

	"portal/internal/domain/repository"

	"github.com/golang-jwt/jwt/v5"
)

var (
	_ repository.StorageScope = (*Memory)(nil)
	_ repository.StorageScope = (*Redis)(nil)
	_ repository.StorageScope = (*cookieScope)(nil)
)

// NewMemoryPair returns a pair of empty in-memory scopes.
func NewMemoryPair() repository.ScopePair {
	return repository.ScopePair{Durable: NewMemory(), Ephemeral: NewMemory()}
}

// expiredLifetime is what an already expired JWT is kept for.
const expiredLifetime = time.Second

// TokenLifetime returns the time left before a JWT's exp claim, or fallback when the
// value is not a JWT or carries no exp. An expired JWT gets expiredLifetime.
func TokenLifetime(value string, fallback time.Duration, now time.Time) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(value, claims); err != nil {
		return fallback
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}

	left := exp.Sub(now)
	if left < expiredLifetime {
		return expiredLifetime
	}

	return left
}

// lifetimeOf picks the shortest token lifetime among entries so a pair expires together.
func lifetimeOf(entries map[string]string, fallback time.Duration, now time.Time) time.Duration {
	lifetime := fallback
	for _, v := range entries {
		if l := TokenLifetime(v, fallback, now); l < lifetime {
			lifetime = l
		}
	}

	return lifetime
}
