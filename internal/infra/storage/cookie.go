package storage

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"portal/internal/domain/repository"

	"github.com/google/uuid"
)

const (
	durablePrefix   = "local."
	ephemeralPrefix = "session."

	// DeviceCookie identifies a browser for the Redis-backed durable scope.
	DeviceCookie = "portal_device"

	deviceCookieMaxAge = 400 * 24 * time.Hour
)

// CookieJar tracks the cookies of one request so that writes are visible to later reads.
type CookieJar struct {
	mu      sync.Mutex
	req     *http.Request
	w       http.ResponseWriter
	secure  bool
	now     func() time.Time
	pending map[string]*http.Cookie
}

// NewCookieJar wraps the request and response of one exchange.
func NewCookieJar(w http.ResponseWriter, r *http.Request, secure bool) *CookieJar {
	return &CookieJar{
		req:     r,
		w:       w,
		secure:  secure,
		now:     time.Now,
		pending: make(map[string]*http.Cookie),
	}
}

// Durable returns a scope of persistent cookies. Lifetime follows a stored JWT's exp, else maxAge.
func (j *CookieJar) Durable(maxAge time.Duration) repository.StorageScope {
	return &cookieScope{jar: j, prefix: durablePrefix, maxAge: maxAge}
}

// Ephemeral returns a scope of session cookies.
func (j *CookieJar) Ephemeral() repository.StorageScope {
	return &cookieScope{jar: j, prefix: ephemeralPrefix}
}

// DeviceID returns the browser's device identifier, issuing one when absent.
func (j *CookieJar) DeviceID() string {
	if v, ok := j.get(DeviceCookie); ok {
		if _, err := uuid.Parse(v); err == nil {
			return v
		}
	}

	id := uuid.NewString()
	j.set(&http.Cookie{
		Name:     DeviceCookie,
		Value:    id,
		MaxAge:   int(deviceCookieMaxAge.Seconds()),
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func (j *CookieJar) get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if c, ok := j.pending[name]; ok {
		if c.MaxAge < 0 {
			return "", false
		}

		return c.Value, true
	}

	c, err := j.req.Cookie(name)
	if err != nil {
		return "", false
	}

	return c.Value, true
}

func (j *CookieJar) set(c *http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pending[c.Name] = c
	http.SetCookie(j.w, c)
}

type cookieScope struct {
	jar    *CookieJar
	prefix string
	maxAge time.Duration
}

func (s *cookieScope) Load(_ context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		raw, ok := s.jar.get(s.prefix + k)
		if !ok {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(raw)
		if err != nil {
			continue
		}
		out[k] = string(decoded)
	}

	return out, nil
}

func (s *cookieScope) Save(_ context.Context, entries map[string]string) error {
	maxAge := 0
	if s.maxAge > 0 {
		maxAge = int(lifetimeOf(entries, s.maxAge, s.jar.now()).Seconds())
	}

	for k, v := range entries {
		s.jar.set(&http.Cookie{
			Name:     s.prefix + k,
			Value:    base64.RawURLEncoding.EncodeToString([]byte(v)),
			MaxAge:   maxAge,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.jar.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return nil
}

func (s *cookieScope) Remove(_ context.Context, keys ...string) error {
	for _, k := range keys {
		if _, ok := s.jar.get(s.prefix + k); !ok {
			continue
		}
		s.jar.set(&http.Cookie{
			Name:     s.prefix + k,
			Value:    "",
			MaxAge:   -1,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.jar.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return nil
}
