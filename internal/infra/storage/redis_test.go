package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHashClient struct {
	hashes  map[string]map[string]string
	ttls    map[string]time.Duration
	execErr error
}

func newFakeHashClient() *fakeHashClient {
	return &fakeHashClient{
		hashes: make(map[string]map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeHashClient) HMGet(_ context.Context, key string, fields ...string) *redis.SliceCmd {
	values := make([]any, len(fields))
	for i, field := range fields {
		if v, ok := f.hashes[key][field]; ok {
			values[i] = v
		}
	}

	return redis.NewSliceResult(values, nil)
}

func (f *fakeHashClient) HDel(_ context.Context, key string, fields ...string) *redis.IntCmd {
	for _, field := range fields {
		delete(f.hashes[key], field)
	}

	return redis.NewIntResult(int64(len(fields)), nil)
}

// TxPipelined queues the commands and applies them only when EXEC succeeds.
func (f *fakeHashClient) TxPipelined(_ context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	pipe := &fakeTx{}
	if err := fn(pipe); err != nil {
		return nil, err
	}
	if f.execErr != nil {
		return nil, f.execErr
	}
	for _, apply := range pipe.queued {
		apply(f)
	}

	return nil, nil
}

// fakeTx records the HSET and EXPIRE calls of one transaction.
type fakeTx struct {
	redis.Pipeliner

	queued []func(*fakeHashClient)
}

func (p *fakeTx) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	p.queued = append(p.queued, func(f *fakeHashClient) {
		if f.hashes[key] == nil {
			f.hashes[key] = make(map[string]string)
		}
		for i := 0; i+1 < len(values); i += 2 {
			f.hashes[key][values[i].(string)] = values[i+1].(string)
		}
	})

	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (p *fakeTx) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	p.queued = append(p.queued, func(f *fakeHashClient) {
		f.ttls[key] = expiration
	})

	return redis.NewBoolResult(true, nil)
}

func TestRedisScope_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeHashClient()
	scope := NewRedis(client, "device-1", time.Hour)

	require.NoError(t, scope.Save(ctx, map[string]string{"vendorToken": "abc", "vendorData": "{}"}))

	got, err := scope.Load(ctx, "vendorToken", "vendorData", "other")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"vendorToken": "abc", "vendorData": "{}"}, got)
	assert.Equal(t, time.Hour, client.ttls["portal:storage:device-1"])

	require.NoError(t, scope.Remove(ctx, "vendorToken", "vendorData"))
	got, err = scope.Load(ctx, "vendorToken", "vendorData")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisScope_DevicesAreIsolated(t *testing.T) {
	ctx := context.Background()
	client := newFakeHashClient()

	require.NoError(t, NewRedis(client, "a", time.Hour).Save(ctx, map[string]string{"adminToken": "t"}))

	got, err := NewRedis(client, "b", time.Hour).Load(ctx, "adminToken")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisScope_SaveErrorIsWrapped(t *testing.T) {
	client := newFakeHashClient()
	client.execErr = errors.New("connection refused")

	err := NewRedis(client, "a", time.Hour).Save(context.Background(), map[string]string{"adminToken": "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis save")
	assert.Empty(t, client.hashes)
}

func TestRedisScope_FailedSaveLeavesPreviousPair(t *testing.T) {
	ctx := context.Background()
	client := newFakeHashClient()
	scope := NewRedis(client, "device-1", time.Hour)

	require.NoError(t, scope.Save(ctx, map[string]string{"adminToken": "t0", "adminData": `{"admin_id":1}`}))

	client.execErr = errors.New("i/o timeout")
	err := scope.Save(ctx, map[string]string{"adminToken": "t1", "adminData": `{"admin_id":5}`})
	require.Error(t, err)

	got, err := scope.Load(ctx, "adminToken", "adminData")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"adminToken": "t0", "adminData": `{"admin_id":1}`}, got)
	assert.Equal(t, time.Hour, client.ttls["portal:storage:device-1"])
}

func TestMemoryScope(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Save(ctx, map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, m.Remove(ctx, "a", "missing"))

	got, err := m.Load(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, got)
	assert.Equal(t, 1, m.Len())
}
