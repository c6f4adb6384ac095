package domain

import "errors"

var (
	// ErrInvalidInput is returned for missing or malformed identifiers.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited is returned when a user exceeded the generation quota.
	ErrRateLimited = errors.New("quiz generation rate limit exceeded")
	// ErrRateLimiterUnavailable is returned when the shared counter store is
	// unreachable. Distinct from ErrRateLimited so callers never mistake an
	// outage for fail-open or fail-closed limiting.
	ErrRateLimiterUnavailable = errors.New("rate limiter unavailable")
	// ErrUpstreamUnavailable indicates the tutorial content or preferences
	// provider failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrGenerationFailed indicates the question generator returned empty or
	// malformed output.
	ErrGenerationFailed = errors.New("question generation failed")
	// ErrTutorialNotFound indicates there is no stored content for the id.
	ErrTutorialNotFound = errors.New("tutorial not found")
)
