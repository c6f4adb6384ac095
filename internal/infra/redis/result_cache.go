package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"tutorial-quiz-service/internal/domain"
)

// ResultCache stores generated assessments in Redis with a TTL.
// Entries are stored as: SET {namespace}:quiz:tutorial:{tutorialID} {json} EX ttl
type ResultCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	clock     func() time.Time
}

func NewResultCache(client *redis.Client, namespace string, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		clock:     time.Now,
	}
}

func (c *ResultCache) Get(ctx context.Context, tutorialID string) (domain.Assessment, bool, error) {
	raw, err := c.client.Get(ctx, c.key(tutorialID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Assessment{}, false, nil
	}
	if err != nil {
		return domain.Assessment{}, false, err
	}
	var assessment domain.Assessment
	if err := json.Unmarshal([]byte(raw), &assessment); err != nil {
		// A corrupt entry behaves as a miss; it will be overwritten.
		return domain.Assessment{}, false, err
	}
	return assessment, true, nil
}

func (c *ResultCache) Put(ctx context.Context, tutorialID string, assessment domain.Assessment) error {
	now := c.clock()
	assessment.CachedAt = &now
	data, err := json.Marshal(assessment)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(tutorialID), data, c.ttl).Err()
}

func (c *ResultCache) key(tutorialID string) string {
	return c.namespace + ":quiz:tutorial:" + tutorialID
}
