package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"tutorial-quiz-service/internal/domain"
)

// RateLimiter bounds how often a user may request quiz generation.
type RateLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// ResultCache maps a tutorial id to a previously generated assessment.
type ResultCache interface {
	Get(ctx context.Context, tutorialID string) (domain.Assessment, bool, error)
	Put(ctx context.Context, tutorialID string, assessment domain.Assessment) error
}

// ContentProvider returns raw tutorial markup for an id.
type ContentProvider interface {
	FetchContent(ctx context.Context, tutorialID string) (string, error)
}

// PreferencesProvider returns a user's display preferences.
type PreferencesProvider interface {
	FetchPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}

// QuestionGenerator produces a structured assessment from cleaned tutorial text.
type QuestionGenerator interface {
	Generate(ctx context.Context, cleanText string) (domain.Assessment, error)
}

// AssessmentResult is the composed response for one assessment request.
type AssessmentResult struct {
	Assessment  domain.Assessment      `json:"assessment"`
	Preferences domain.UserPreferences `json:"userPreferences"`
	FromCache   bool                   `json:"fromCache"`
}

// OrchestratorDeps collects the orchestrator's collaborators.
type OrchestratorDeps struct {
	Limiter     RateLimiter
	Cache       ResultCache
	Content     ContentProvider
	Preferences PreferencesProvider
	Generator   QuestionGenerator
	// ExtractText turns raw tutorial markup into clean text for the
	// generator. Defaults to the identity function.
	ExtractText func(string) string
	// Logger receives fire-and-forget failures (cache writes). Defaults to
	// the standard logger.
	Logger *log.Logger
}

// Orchestrator composes rate limiting, result caching, upstream fetches, and
// question generation behind a single use case.
type Orchestrator struct {
	limiter   RateLimiter
	cache     ResultCache
	content   ContentProvider
	prefs     PreferencesProvider
	generator QuestionGenerator
	extract   func(string) string
	logger    *log.Logger
	sf        singleflight.Group
}

const cacheWriteTimeout = 5 * time.Second

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	extract := deps.ExtractText
	if extract == nil {
		extract = func(s string) string { return s }
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		limiter:   deps.Limiter,
		cache:     deps.Cache,
		content:   deps.Content,
		prefs:     deps.Preferences,
		generator: deps.Generator,
		extract:   extract,
		logger:    logger,
	}
}

// GetAssessment returns the quiz for a tutorial together with the user's
// current preferences. Question content is served cache-aside; preferences are
// always fetched fresh because they change often and are cheap to refetch.
func (o *Orchestrator) GetAssessment(ctx context.Context, tutorialID, userID string) (AssessmentResult, error) {
	if tutorialID == "" || userID == "" {
		return AssessmentResult{}, fmt.Errorf("%w: tutorial_id and user_id are required", domain.ErrInvalidInput)
	}

	allowed, err := o.limiter.Allow(ctx, userID)
	if err != nil {
		return AssessmentResult{}, fmt.Errorf("%w: %v", domain.ErrRateLimiterUnavailable, err)
	}
	if !allowed {
		return AssessmentResult{}, domain.ErrRateLimited
	}

	cached, hit, err := o.cache.Get(ctx, tutorialID)
	if err != nil {
		// A broken cache read degrades to a miss; the value is regenerable.
		o.logger.Printf("result cache read failed for tutorial %s: %v", tutorialID, err)
		hit = false
	}
	if hit {
		prefs, err := o.prefs.FetchPreferences(ctx, userID)
		if err != nil {
			return AssessmentResult{}, fmt.Errorf("%w: preferences: %v", domain.ErrUpstreamUnavailable, err)
		}
		return AssessmentResult{Assessment: cached, Preferences: prefs, FromCache: true}, nil
	}

	var raw string
	var prefs domain.UserPreferences
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content, err := o.content.FetchContent(gctx, tutorialID)
		if err != nil {
			return fmt.Errorf("tutorial content: %w", err)
		}
		raw = content
		return nil
	})
	g.Go(func() error {
		p, err := o.prefs.FetchPreferences(gctx, userID)
		if err != nil {
			return fmt.Errorf("preferences: %w", err)
		}
		prefs = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return AssessmentResult{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	// Overlapping misses for the same tutorial share one generation call.
	result, err, _ := o.sf.Do(tutorialID, func() (interface{}, error) {
		return o.generator.Generate(ctx, o.extract(raw))
	})
	if err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) || errors.Is(err, domain.ErrUpstreamUnavailable) {
			return AssessmentResult{}, err
		}
		return AssessmentResult{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	assessment := result.(domain.Assessment)

	o.populateCache(tutorialID, assessment)

	return AssessmentResult{Assessment: assessment, Preferences: prefs, FromCache: false}, nil
}

// GetPreferences serves the initial-load path before any quiz is requested.
func (o *Orchestrator) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	if userID == "" {
		return domain.UserPreferences{}, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	prefs, err := o.prefs.FetchPreferences(ctx, userID)
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("%w: preferences: %v", domain.ErrUpstreamUnavailable, err)
	}
	return prefs, nil
}

// populateCache writes the generated assessment from a detached goroutine so
// the request path never waits on it. Failures are logged, never propagated.
func (o *Orchestrator) populateCache(tutorialID string, assessment domain.Assessment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := o.cache.Put(ctx, tutorialID, assessment); err != nil {
			o.logger.Printf("cache write failed for tutorial %s: %v", tutorialID, err)
		}
	}()
}
