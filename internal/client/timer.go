package client

import (
	"context"
	"sync"
	"time"
)

// QuizDuration is the fixed time limit for one quiz.
const QuizDuration = 5 * time.Minute

// Countdown ticks down once per second from a fixed number of seconds and
// fires the finish callback exactly once on reaching zero. It is inert once
// the session reports over, and after Stop.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	fired     bool
	stopped   bool
	over      func() bool
	finish    func()
}

// NewCountdown builds a countdown. over reports whether the session already
// ended (the tick is then a no-op); finish is invoked once on expiry.
func NewCountdown(duration time.Duration, over func() bool, finish func()) *Countdown {
	return &Countdown{
		remaining: int(duration / time.Second),
		over:      over,
		finish:    finish,
	}
}

// Tick consumes one second and returns the remaining seconds. On the tick
// that reaches zero it fires the finish callback; later ticks do nothing.
func (c *Countdown) Tick() int {
	c.mu.Lock()
	if c.stopped || c.fired || (c.over != nil && c.over()) {
		remaining := c.remaining
		c.mu.Unlock()
		return remaining
	}
	if c.remaining > 0 {
		c.remaining--
	}
	var finish func()
	if c.remaining == 0 {
		c.fired = true
		finish = c.finish
	}
	remaining := c.remaining
	c.mu.Unlock()

	// Fired outside the lock; finish typically re-enters session state.
	if finish != nil {
		finish()
	}
	return remaining
}

// Remaining returns the seconds left without consuming a tick.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Stop disarms the countdown. Must be called on unmount or key switch so a
// leaked tick never finishes a stale session.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

// Run drives the countdown with a wall-clock ticker until it fires, is
// stopped, or ctx is cancelled.
func (c *Countdown) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return
		case <-ticker.C:
			c.Tick()
			c.mu.Lock()
			done := c.stopped || c.fired
			c.mu.Unlock()
			if done {
				return
			}
		}
	}
}
