// Package ratelimit bounds how often a phone number may request a new OTP, using Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp"

// Limiter enforces a cooldown between two requests for one phone and a cap on requests per window.
// Exceeding the cap blocks the phone for one further window.
type Limiter struct {
	rdb         redis.Cmdable
	cooldown    time.Duration
	window      time.Duration
	maxInWindow int
}

// NewLimiter returns a Limiter over rdb.
func NewLimiter(rdb redis.Cmdable, cooldown, window time.Duration, maxInWindow int) *Limiter {
	return &Limiter{rdb: rdb, cooldown: cooldown, window: window, maxInWindow: maxInWindow}
}

// Allow records a request for phone. It returns 0 when the request may proceed, or how long the caller
// should wait. Redis failures are returned as errors; the caller decides whether to fail open.
func (l *Limiter) Allow(ctx context.Context, phone string) (time.Duration, error) {
	blockKey := fmt.Sprintf("%s:block:%s", keyPrefix, phone)
	lastKey := fmt.Sprintf("%s:last:%s", keyPrefix, phone)
	countKey := fmt.Sprintf("%s:count:%s", keyPrefix, phone)

	if ttl, err := l.rdb.PTTL(ctx, blockKey).Result(); err != nil {
		return 0, fmt.Errorf("ratelimit: block ttl: %w", err)
	} else if ttl > 0 {
		return ttl, nil
	}

	set, err := l.rdb.SetNX(ctx, lastKey, "1", l.cooldown).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: cooldown: %w", err)
	}
	if !set {
		ttl, err := l.rdb.PTTL(ctx, lastKey).Result()
		if err != nil {
			return 0, fmt.Errorf("ratelimit: cooldown ttl: %w", err)
		}
		if ttl <= 0 {
			ttl = l.cooldown
		}
		return ttl, nil
	}

	count, err := l.rdb.Incr(ctx, countKey).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: count: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, countKey, l.window).Err(); err != nil {
			return 0, fmt.Errorf("ratelimit: count expiry: %w", err)
		}
	}
	if int(count) > l.maxInWindow {
		if err := l.rdb.Set(ctx, blockKey, "1", l.window).Err(); err != nil {
			return 0, fmt.Errorf("ratelimit: block: %w", err)
		}
		return l.window, nil
	}
	return 0, nil
}
