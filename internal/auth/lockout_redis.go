package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockoutKeyPrefix = "auth:failures:"

// RedisLockoutStore shares failure counters across instances. This is the
// recommended implementation for multi-node deployments.
type RedisLockoutStore struct {
	client *redis.Client
	window time.Duration
}

func NewRedisLockoutStore(client *redis.Client, window time.Duration) *RedisLockoutStore {
	return &RedisLockoutStore{client: client, window: window}
}

// RecordFailure increments the counter and refreshes its expiry so the
// window slides with each consecutive failure.
func (s *RedisLockoutStore) RecordFailure(ctx context.Context, username string, _ time.Time) (int, error) {
	key := lockoutKeyPrefix + username
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisLockoutStore) FailureCount(ctx context.Context, username string, _ time.Time) (int, error) {
	count, err := s.client.Get(ctx, lockoutKeyPrefix+username).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RedisLockoutStore) Clear(ctx context.Context, username string) error {
	return s.client.Del(ctx, lockoutKeyPrefix+username).Err()
}
