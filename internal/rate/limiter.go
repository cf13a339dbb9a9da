package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces fixed-window request budgets using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a [Limiter] backed by the given Redis client. prefix
// namespaces the counter keys so several deployments can share a Redis.
func New(redisClient redis.UniversalClient, prefix string) *Limiter {
	return &Limiter{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Allow records one attempt of action by client and reports whether the
// attempt is within the window budget. The counter is incremented even when
// the budget is exhausted.
func (l *Limiter) Allow(ctx context.Context, action, client string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	count, err := l.incrementWithTTL(ctx, l.key(action, client), window)
	if err != nil {
		return false, err
	}

	return count <= int64(limit), nil
}

// Attempts returns the current counter for action and client. Missing keys
// return zero.
func (l *Limiter) Attempts(ctx context.Context, action, client string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(action, client)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

// Reset clears the counter for action and client.
func (l *Limiter) Reset(ctx context.Context, action, client string) error {
	if err := l.redis.Del(ctx, l.key(action, client)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) key(action, client string) string {
	return l.prefix + ":rl:" + action + ":" + client
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
