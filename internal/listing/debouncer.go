package listing

import (
	"context"
	"sync"
	"time"

	"portal/internal/errors"
)

// ErrSuperseded is returned to a request overtaken by a newer one for the same key.
var ErrSuperseded = errors.New("request superseded")

type pending struct {
	gen        uint64
	superseded chan struct{}
	committed  string
}

const maxDebounceKeys = 10000

// Debouncer delays free-text search changes until the input settles.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pending
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pending),
	}
}

// Wait returns immediately when search equals the last search committed for key
// (initially the empty search).
// Otherwise it waits for the quiet period and returns ErrSuperseded if a newer
// search for key arrived meanwhile.
func (d *Debouncer) Wait(ctx context.Context, key, search string) error {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok {
		if len(d.pending) >= maxDebounceKeys {
			d.evictIdle()
		}
		p = &pending{}
		d.pending[key] = p
	}
	if p.superseded == nil && p.committed == search {
		d.mu.Unlock()

		return nil
	}
	if p.superseded != nil {
		close(p.superseded)
	}

	p.gen++
	gen := p.gen
	superseded := make(chan struct{})
	p.superseded = superseded
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-superseded:
		return errors.WithStack(ErrSuperseded)
	case <-ctx.Done():
		d.release(key, gen)

		return errors.WithStack(ctx.Err())
	case <-timer.C:
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p.gen != gen {
		return errors.WithStack(ErrSuperseded)
	}
	p.superseded = nil
	p.committed = search

	return nil
}

func (d *Debouncer) release(key string, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok && p.gen == gen {
		p.superseded = nil
	}
}

func (d *Debouncer) evictIdle() {
	for key, p := range d.pending {
		if p.superseded == nil {
			delete(d.pending, key)
		}
	}
}
