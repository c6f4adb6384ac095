package memory

import (
	"context"
	"sync"
	"time"

	"tutorial-quiz-service/internal/domain"
)

// ResultCache is an in-memory TTL cache of generated assessments.
type ResultCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedAssessment
}

type cachedAssessment struct {
	assessment domain.Assessment
	expiresAt  time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]cachedAssessment),
	}
}

// NewResultCacheWithClock is test-only for deterministic expiry.
func NewResultCacheWithClock(ttl time.Duration, clock func() time.Time) *ResultCache {
	cache := NewResultCache(ttl)
	cache.clock = clock
	return cache
}

func (c *ResultCache) Get(_ context.Context, tutorialID string) (domain.Assessment, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[tutorialID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.Assessment{}, false, nil
	}
	return entry.assessment, true, nil
}

func (c *ResultCache) Put(_ context.Context, tutorialID string, assessment domain.Assessment) error {
	now := c.clock()
	assessment.CachedAt = &now

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tutorialID] = cachedAssessment{
		assessment: assessment,
		expiresAt:  now.Add(c.ttl),
	}
	return nil
}
