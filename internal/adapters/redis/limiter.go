// Package redis
package redis

import (
	"context"
	"fmt"
	"time"

	"casetrack/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter used to throttle OTP issuance per email.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(rdb *redis.Client, limit int, window time.Duration) domain.RateLimiter {
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "otp_requests:" + key

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("limiter incr failed: %w", err)
	}

	// The window starts with the first request in it.
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("limiter expire failed: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}
