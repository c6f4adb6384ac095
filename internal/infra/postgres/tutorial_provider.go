package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutorial-quiz-service/internal/domain"
)

// TutorialProvider loads raw tutorial markup from Postgres.
type TutorialProvider struct {
	pool *pgxpool.Pool
}

func NewTutorialProvider(pool *pgxpool.Pool) *TutorialProvider {
	return &TutorialProvider{pool: pool}
}

func (p *TutorialProvider) FetchContent(ctx context.Context, tutorialID string) (string, error) {
	var markup string
	err := p.pool.QueryRow(ctx, `SELECT markup FROM tutorials WHERE id=$1`, tutorialID).Scan(&markup)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", domain.ErrTutorialNotFound, tutorialID)
	}
	if err != nil {
		return "", fmt.Errorf("load tutorial: %w", err)
	}
	return markup, nil
}
