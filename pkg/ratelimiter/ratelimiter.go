package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitError is returned when a caller exceeds its allowance.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// Limiter is a fixed-window counter stored in Redis. A nil client allows everything.
type Limiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func New(rdb *redis.Client, limit int64, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow counts one hit for key and reports a RateLimitError once the window is full.
func (l *Limiter) Allow(ctx context.Context, scope, key string) error {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return nil
	}

	redisKey := fmt.Sprintf("rate_limit:%s:%s", scope, key)

	// The first hit of a window creates the key with its expiry.
	pipe := l.rdb.TxPipeline()
	pipe.SetNX(ctx, redisKey, 0, l.window)
	incr := pipe.Incr(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	if incr.Val() <= l.limit {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return &RateLimitError{
		Message:    "too many requests, please try again later",
		RetryAfter: ttl,
	}
}
