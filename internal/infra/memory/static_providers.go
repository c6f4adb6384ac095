package memory

import (
	"context"

	"tutorial-quiz-service/internal/domain"
)

// StaticContentProvider serves tutorial markup from an in-memory map (useful
// for tests/demos).
type StaticContentProvider struct {
	tutorials map[string]string
}

func NewStaticContentProvider(tutorials map[string]string) *StaticContentProvider {
	return &StaticContentProvider{tutorials: tutorials}
}

func (p *StaticContentProvider) FetchContent(_ context.Context, tutorialID string) (string, error) {
	if markup, ok := p.tutorials[tutorialID]; ok {
		return markup, nil
	}
	return "", domain.ErrTutorialNotFound
}

// StaticPreferencesProvider serves preferences from an in-memory map, falling
// back to defaults for unknown users.
type StaticPreferencesProvider struct {
	prefs map[string]domain.UserPreferences
}

func NewStaticPreferencesProvider(prefs map[string]domain.UserPreferences) *StaticPreferencesProvider {
	return &StaticPreferencesProvider{prefs: prefs}
}

func (p *StaticPreferencesProvider) FetchPreferences(_ context.Context, userID string) (domain.UserPreferences, error) {
	if prefs, ok := p.prefs[userID]; ok {
		return prefs.Normalize(), nil
	}
	return domain.DefaultPreferences(), nil
}
