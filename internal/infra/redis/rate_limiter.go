package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis.
// Keys are stored as: INCR {namespace}:ratelimit:{userID}
// The first increment in a window arms the key's expiry; INCR itself is atomic,
// so concurrent callers for the same user never lose updates.
type RateLimiter struct {
	client    *redis.Client
	namespace string
	max       int64
	window    time.Duration
}

func NewRateLimiter(client *redis.Client, namespace string, max int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:    client,
		namespace: namespace,
		max:       max,
		window:    window,
	}
}

// Allow increments the user's counter and reports whether the request is
// within quota. A store error is returned as-is; the caller decides how to
// surface it (never as an implicit allow or deny).
func (l *RateLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := l.key(userID)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= l.max, nil
}

func (l *RateLimiter) key(userID string) string {
	return l.namespace + ":ratelimit:" + userID
}
