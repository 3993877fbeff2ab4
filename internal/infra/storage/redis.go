package storage

import (
	"context"
	"time"

	"portal/internal/errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "portal:storage:"

// HashClient is the subset of the Redis API the durable scope needs.
type HashClient interface {
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// Redis is a durable Scope stored as one hash per device.
type Redis struct {
	client HashClient
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedis returns the scope of deviceID. The hash expires ttl after the last save.
func NewRedis(client HashClient, deviceID string, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		key:    redisKeyPrefix + deviceID,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Redis) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := s.client.HMGet(ctx, s.key, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis hmget")
	}

	for i, v := range values {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}

	return out, nil
}

// Save writes all entries and refreshes the hash TTL in one MULTI/EXEC.
func (s *Redis) Save(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, 0, len(entries)*2)
	for k, v := range entries {
		values = append(values, k, v)
	}

	ttl := lifetimeOf(entries, s.ttl, s.now())
	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, values...)
		pipe.Expire(ctx, s.key, ttl)

		return nil
	}); err != nil {
		return errors.Wrap(err, "redis save")
	}

	return nil
}

func (s *Redis) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.HDel(ctx, s.key, keys...).Err(); err != nil {
		return errors.Wrap(err, "redis hdel")
	}

	return nil
}
