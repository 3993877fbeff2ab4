package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_LatestWins(t *testing.T) {
	s := NewSequencer(time.Minute)

	ctx1, first, done1 := s.Begin(context.Background(), "session:bookings")
	defer done1()
	_, second, done2 := s.Begin(context.Background(), "session:bookings")
	defer done2()

	assert.False(t, s.Latest(first))
	assert.True(t, s.Latest(second))
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
}

func TestSequencer_KeysAreIndependent(t *testing.T) {
	s := NewSequencer(time.Minute)

	_, a, doneA := s.Begin(context.Background(), "a:bookings")
	defer doneA()
	_, b, doneB := s.Begin(context.Background(), "a:payments")
	defer doneB()

	assert.True(t, s.Latest(a))
	assert.True(t, s.Latest(b))
}

func TestSequencer_DoneKeepsLatest(t *testing.T) {
	s := NewSequencer(time.Minute)

	ctx, ticket, done := s.Begin(context.Background(), "k")
	done()

	assert.True(t, s.Latest(ticket))
	assert.Error(t, ctx.Err())

	_, next, doneNext := s.Begin(context.Background(), "k")
	defer doneNext()
	assert.False(t, s.Latest(ticket))
	assert.True(t, s.Latest(next))
}

func TestSequencer_PrunesIdleKeys(t *testing.T) {
	s := NewSequencer(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	_, old, done := s.Begin(context.Background(), "old")
	done()

	now = now.Add(2 * time.Minute)
	for i := 0; i < pruneEvery; i++ {
		_, _, d := s.Begin(context.Background(), "busy")
		d()
	}

	assert.False(t, s.Latest(old))
}

func TestDebouncer_UnchangedSearchPassesImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour)

	require.NoError(t, d.Wait(context.Background(), "k", ""))
}

func TestDebouncer_NewerSearchSupersedes(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- d.Wait(context.Background(), "k", "cle")
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, d.Wait(context.Background(), "k", "clean"))

	err := <-firstErr
	assert.True(t, errors.Is(err, ErrSuperseded))

	start := time.Now()
	require.NoError(t, d.Wait(context.Background(), "k", "clean"))
	assert.Less(t, time.Since(start), 40*time.Millisecond)
}

func TestDebouncer_ContextCancel(t *testing.T) {
	d := NewDebouncer(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := d.Wait(ctx, "k", "x")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
