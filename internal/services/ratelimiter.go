package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter is a fixed window request counter backed by Redis. It is a
// non-blocking admission check, never a queue.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		limit:  limit,
		window: window,
	}
}

// Allow records one request for key and reports whether it falls within the
// window limit, along with the remaining allowance. The increment and TTL
// read run as one MULTI/EXEC step so concurrent callers on the same key
// cannot interleave between them.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	counterKey := "rate:" + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rl.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, counterKey)
		ttl = pipe.TTL(ctx, counterKey)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check for %q: %w", key, err)
	}

	count := incr.Val()

	// TTL reports -1 for a key without expiry and -2 for a missing key.
	// Either way the window needs (re)arming; redundant EXPIRE calls on the
	// same key are harmless.
	if ttl.Val() < 0 {
		if err := rl.redis.Expire(ctx, counterKey, rl.window).Err(); err != nil {
			log.Printf("[RATELIMIT] failed to set expiry on %s: %v", counterKey, err)
		}
	}

	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.limit, remaining, nil
}
