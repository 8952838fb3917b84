package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// ProgressRepository implements repository.Progress for PostgreSQL
type ProgressRepository struct {
	db *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// SetMSQProgress upserts the progress of one expansion
func (r *ProgressRepository) SetMSQProgress(ctx context.Context, p *domain.MSQProgress) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO msq_progress (character_id, expansion, progress, completed, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (character_id, expansion)
		DO UPDATE SET progress = EXCLUDED.progress, completed = EXCLUDED.completed, updated_at = NOW()
		RETURNING updated_at`,
		p.CharacterID, p.Expansion, p.Progress, p.Completed,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetProgress, err)
	}
	return nil
}

// GetMSQProgress returns every recorded expansion for a character
func (r *ProgressRepository) GetMSQProgress(ctx context.Context, characterID int64) ([]domain.MSQProgress, error) {
	rows, err := r.db.Query(ctx, `
		SELECT character_id, expansion, progress, completed, updated_at
		FROM msq_progress
		WHERE character_id = $1`, characterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProgress, err)
	}
	defer rows.Close()

	progress := []domain.MSQProgress{}
	for rows.Next() {
		var p domain.MSQProgress
		if err := rows.Scan(&p.CharacterID, &p.Expansion, &p.Progress, &p.Completed, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProgress, err)
		}
		progress = append(progress, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProgress, err)
	}

	sortByExpansion(progress)
	return progress, nil
}
