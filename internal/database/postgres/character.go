package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

const characterColumns = `id, discord_user_id, name, server, lodestone_id, is_primary, created_at`

// CharacterRepository implements repository.Character for PostgreSQL
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func scanCharacter(row pgx.Row) (*domain.Character, error) {
	var c domain.Character
	if err := row.Scan(&c.ID, &c.DiscordUserID, &c.Name, &c.Server, &c.LodestoneID, &c.IsPrimary, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCharacters(rows pgx.Rows) ([]domain.Character, error) {
	defer rows.Close()

	characters := []domain.Character{}
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, *c)
	}
	return characters, rows.Err()
}

// AddCharacter inserts c and fills its id and created_at
func (r *CharacterRepository) AddCharacter(ctx context.Context, c *domain.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if c.IsPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE characters SET is_primary = FALSE WHERE discord_user_id = $1 AND is_primary`,
			c.DiscordUserID); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToClearPrimary, err)
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO characters (discord_user_id, name, server, lodestone_id, is_primary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		c.DiscordUserID, c.Name, c.Server, c.LodestoneID, c.IsPrimary,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrCharacterExists, c.LodestoneID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertCharacter, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// GetPrimary returns the user's primary character
func (r *CharacterRepository) GetPrimary(ctx context.Context, discordUserID string) (*domain.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE discord_user_id = $1 AND is_primary`,
		discordUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoPrimaryCharacter
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCharacter, err)
	}
	return c, nil
}

// FindCharacter resolves a lodestone id or a character name. Lodestone id
// matches win over name matches; among names the oldest registration wins.
func (r *CharacterRepository) FindCharacter(ctx context.Context, ref string) (*domain.Character, error) {
	ref = strings.TrimSpace(ref)
	c, err := scanCharacter(r.db.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters
		WHERE lodestone_id = $1 OR LOWER(name) = LOWER($1)
		ORDER BY (lodestone_id = $1) DESC, id
		LIMIT 1`, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, ref)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCharacter, err)
	}
	return c, nil
}

// ListByOwner returns the user's characters, primary first
func (r *CharacterRepository) ListByOwner(ctx context.Context, discordUserID string) ([]domain.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters
		WHERE discord_user_id = $1
		ORDER BY is_primary DESC, id`, discordUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListCharacters, err)
	}
	characters, err := collectCharacters(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListCharacters, err)
	}
	return characters, nil
}

// SetPrimary makes characterID the user's only primary character
func (r *CharacterRepository) SetPrimary(ctx context.Context, discordUserID string, characterID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx,
		`UPDATE characters SET is_primary = FALSE WHERE discord_user_id = $1 AND is_primary`,
		discordUserID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToClearPrimary, err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE characters SET is_primary = TRUE WHERE id = $1 AND discord_user_id = $2`,
		characterID, discordUserID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetPrimary, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrCharacterNotFound, characterID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// RemoveCharacter deletes the character and promotes the owner's oldest
// remaining character when the primary was removed
func (r *CharacterRepository) RemoveCharacter(ctx context.Context, discordUserID string, characterID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	var wasPrimary bool
	err = tx.QueryRow(ctx,
		`DELETE FROM characters WHERE id = $1 AND discord_user_id = $2 RETURNING is_primary`,
		characterID, discordUserID).Scan(&wasPrimary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %d", domain.ErrCharacterNotFound, characterID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToRemoveCharacter, err)
	}

	if wasPrimary {
		if _, err := tx.Exec(ctx, `
			UPDATE characters SET is_primary = TRUE
			WHERE id = (SELECT id FROM characters WHERE discord_user_id = $1 ORDER BY id LIMIT 1)`,
			discordUserID); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToSetPrimary, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}
