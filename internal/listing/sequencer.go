package listing

import (
	"context"
	"sync"
	"time"
)

const pruneEvery = 256

// Ticket tags one list request.
type Ticket struct {
	key string
	seq uint64
}

type slot struct {
	seq     uint64
	cancel  context.CancelFunc
	touched time.Time
}

// Sequencer applies latest-wins ordering to list requests sharing a key.
// Beginning a request cancels the in-flight one it supersedes.
type Sequencer struct {
	mu    sync.Mutex
	slots map[string]*slot
	ttl   time.Duration
	now   func() time.Time
	calls int
}

// NewSequencer creates a Sequencer. Idle keys are forgotten after ttl.
func NewSequencer(ttl time.Duration) *Sequencer {
	return &Sequencer{
		slots: make(map[string]*slot),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Begin tags a new request for key. The returned context is cancelled when a newer
// request for the same key begins; done must be called when the request finishes.
func (s *Sequencer) Begin(ctx context.Context, key string) (context.Context, Ticket, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls%pruneEvery == 0 {
		s.prune()
	}

	sl, ok := s.slots[key]
	if !ok {
		sl = &slot{}
		s.slots[key] = sl
	}
	if sl.cancel != nil {
		sl.cancel()
	}

	sl.seq++
	sl.touched = s.now()
	reqCtx, cancel := context.WithCancel(ctx)
	sl.cancel = cancel
	ticket := Ticket{key: key, seq: sl.seq}

	done := func() {
		s.mu.Lock()
		if cur, ok := s.slots[key]; ok && cur.seq == ticket.seq {
			cur.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}

	return reqCtx, ticket, done
}

// Latest reports whether t is still the newest request for its key.
func (s *Sequencer) Latest(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[t.key]

	return ok && sl.seq == t.seq
}

func (s *Sequencer) prune() {
	cutoff := s.now().Add(-s.ttl)
	for key, sl := range s.slots {
		if sl.cancel == nil && sl.touched.Before(cutoff) {
			delete(s.slots, key)
		}
	}
}
