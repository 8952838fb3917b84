package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

const groupColumns = `id, guild_id, name, description, color, created_by, created_at`

// GroupRepository implements repository.Group for PostgreSQL
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup inserts g and fills its id and created_at
func (r *GroupRepository) CreateGroup(ctx context.Context, g *domain.Group) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO character_groups (guild_id, name, description, color, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		g.GuildID, g.Name, g.Description, g.Color, g.CreatedBy,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrGroupExists, g.Name)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateGroup, err)
	}
	return nil
}

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var g domain.Group
	if err := row.Scan(&g.ID, &g.GuildID, &g.Name, &g.Description, &g.Color, &g.CreatedBy, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGroup returns a group by name
func (r *GroupRepository) GetGroup(ctx context.Context, guildID, groupName string) (*domain.Group, error) {
	g, err := scanGroup(r.db.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM character_groups WHERE guild_id = $1 AND name = $2`,
		guildID, groupName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGroupNotFound, groupName)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGroup, err)
	}
	return g, nil
}

// DeleteGroup removes a group and its memberships
func (r *GroupRepository) DeleteGroup(ctx context.Context, guildID, groupName string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM character_groups WHERE guild_id = $1 AND name = $2`,
		guildID, groupName)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteGroup, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, groupName)
	}
	return nil
}

func (r *GroupRepository) groupID(ctx context.Context, q pgx.Tx, guildID, name string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx,
		`SELECT id FROM character_groups WHERE guild_id = $1 AND name = $2`,
		guildID, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", domain.ErrGroupNotFound, name)
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetGroup, err)
	}
	return id, nil
}

// AddMember appends a character to the end of a group's roster
func (r *GroupRepository) AddMember(ctx context.Context, guildID, groupName string, characterID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	id, err := r.groupID(ctx, tx, guildID, groupName)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO character_group_members (group_id, character_id) VALUES ($1, $2)`,
		id, characterID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyGroupMember
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToAddMember, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// RemoveMember takes a character off a group's roster
func (r *GroupRepository) RemoveMember(ctx context.Context, guildID, groupName string, characterID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	id, err := r.groupID(ctx, tx, guildID, groupName)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM character_group_members WHERE group_id = $1 AND character_id = $2`,
		id, characterID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRemoveMember, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotGroupMember
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// GetRoster returns a group's characters in join order
func (r *GroupRepository) GetRoster(ctx context.Context, guildID, groupName string) ([]domain.Character, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	id, err := r.groupID(ctx, tx, guildID, groupName)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT c.id, c.discord_user_id, c.name, c.server, c.lodestone_id, c.is_primary, c.created_at
		FROM character_group_members m
		JOIN characters c ON c.id = m.character_id
		WHERE m.group_id = $1
		ORDER BY m.id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRoster, err)
	}
	roster, err := collectCharacters(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRoster, err)
	}
	return roster, nil
}

// ListGroups returns a guild's groups by name
func (r *GroupRepository) ListGroups(ctx context.Context, guildID string) ([]domain.Group, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+groupColumns+`
		FROM character_groups
		WHERE guild_id = $1
		ORDER BY name`, guildID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGroups, err)
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGroups, err)
		}
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGroups, err)
	}
	return groups, nil
}
