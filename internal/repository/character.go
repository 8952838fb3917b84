package repository

import (
	"context"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// Character defines the interface for registered character persistence
type Character interface {
	// AddCharacter inserts c; when c.IsPrimary the owner's other characters lose primary status
	AddCharacter(ctx context.Context, c *domain.Character) error
	GetPrimary(ctx context.Context, discordUserID string) (*domain.Character, error)
	// FindCharacter matches a lodestone id exactly or a name case-insensitively
	FindCharacter(ctx context.Context, ref string) (*domain.Character, error)
	ListByOwner(ctx context.Context, discordUserID string) ([]domain.Character, error)
	SetPrimary(ctx context.Context, discordUserID string, characterID int64) error
	// RemoveCharacter deletes one of the owner's characters with its memberships
	// and progress. Removing the primary promotes the oldest remaining character.
	RemoveCharacter(ctx context.Context, discordUserID string, characterID int64) error
}

// Group defines the interface for guild roster persistence
type Group interface {
	CreateGroup(ctx context.Context, g *domain.Group) error
	GetGroup(ctx context.Context, guildID, groupName string) (*domain.Group, error)
	DeleteGroup(ctx context.Context, guildID, groupName string) error
	AddMember(ctx context.Context, guildID, groupName string, characterID int64) error
	RemoveMember(ctx context.Context, guildID, groupName string, characterID int64) error
	// GetRoster returns members in the order they joined
	GetRoster(ctx context.Context, guildID, groupName string) ([]domain.Character, error)
	ListGroups(ctx context.Context, guildID string) ([]domain.Group, error)
}

// Progress defines the interface for MSQ progress persistence
type Progress interface {
	SetMSQProgress(ctx context.Context, p *domain.MSQProgress) error
	GetMSQProgress(ctx context.Context, characterID int64) ([]domain.MSQProgress, error)
}
