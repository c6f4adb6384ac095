package memory

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is an in-memory fixed-window counter, used for redis-less
// deployments and tests. Semantics mirror the Redis implementation: the first
// increment in a window arms the expiry, and the post-increment count decides.
type RateLimiter struct {
	max    int64
	window time.Duration
	clock  func() time.Time

	mu      sync.Mutex
	windows map[string]*counterWindow
}

type counterWindow struct {
	count   int64
	resetAt time.Time
}

func NewRateLimiter(max int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		clock:   time.Now,
		windows: make(map[string]*counterWindow),
	}
}

// NewRateLimiterWithClock is test-only for deterministic windows.
func NewRateLimiterWithClock(max int64, window time.Duration, clock func() time.Time) *RateLimiter {
	limiter := NewRateLimiter(max, window)
	limiter.clock = clock
	return limiter
}

func (l *RateLimiter) Allow(_ context.Context, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	win, ok := l.windows[userID]
	if !ok || !win.resetAt.After(now) {
		win = &counterWindow{resetAt: now.Add(l.window)}
		l.windows[userID] = win
	}
	win.count++
	return win.count <= l.max, nil
}
