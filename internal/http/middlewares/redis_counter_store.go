package middlewares

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore implements CounterStore on Redis so the limit is shared
// across replicas. Fixed window: INCR plus an expiry set on the first hit.
type RedisCounterStore struct {
	client    redis.Cmdable
	keyPrefix string
}

func NewRedisCounterStore(client redis.Cmdable, keyPrefix string) *RedisCounterStore {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}

	return &RedisCounterStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	redisKey := s.keyPrefix + key

	n, err := s.client.Incr(ctx, redisKey).Result()

	if err != nil {
		return 0, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	if n == 1 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("rate limit expire: %w", err)
		}
		return int(n), window, nil
	}

	ttl, err := s.client.PTTL(ctx, redisKey).Result()

	if err != nil {
		return 0, 0, fmt.Errorf("rate limit pttl: %w", err)
	}

	// key lost its expiry somehow; reattach one so it cannot grow forever
	if ttl < 0 {
		_ = s.client.PExpire(ctx, redisKey, window).Err()
		ttl = window
	}

	return int(n), ttl, nil
}
