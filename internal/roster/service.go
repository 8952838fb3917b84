// Package roster manages registered characters and guild groups, and turns
// user references into the lodestone ids the recommendation gateways expect.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/repository"
)

// Service defines the roster operations
type Service interface {
	RegisterCharacter(ctx context.Context, discordUserID, name, server, lodestoneID string, primary bool) (*domain.Character, error)
	ListCharacters(ctx context.Context, discordUserID string) ([]domain.Character, error)
	SetPrimary(ctx context.Context, discordUserID, ref string) (*domain.Character, error)
	RemoveCharacter(ctx context.Context, discordUserID, ref string) (*domain.Character, error)
	// ResolveCharacter maps an optional name or lodestone id to a character,
	// defaulting to the user's primary
	ResolveCharacter(ctx context.Context, discordUserID, ref string) (*domain.Character, error)

	CreateGroup(ctx context.Context, guildID, name, createdBy, description, color string) (*domain.Group, error)
	// GetGroup returns a group with its members in join order
	GetGroup(ctx context.Context, guildID, groupName string) (*domain.Group, []domain.Character, error)
	// DeleteGroup and RemoveFromGroup are limited to the group's creator
	DeleteGroup(ctx context.Context, guildID, groupName, actorID string) error
	AddToGroup(ctx context.Context, guildID, groupName, ref string) (*domain.Character, error)
	RemoveFromGroup(ctx context.Context, guildID, groupName, actorID, ref string) (*domain.Character, error)
	// GroupRoster returns the lodestone ids of a group in join order
	GroupRoster(ctx context.Context, guildID, groupName string) ([]string, error)
	ListGroups(ctx context.Context, guildID string) ([]domain.Group, error)

	SetProgress(ctx context.Context, discordUserID, ref, expansion string, progress int) (*domain.MSQProgress, error)
	GetProgress(ctx context.Context, discordUserID, ref string) (*domain.Character, []domain.MSQProgress, error)
	// StoryRecommendations lists the story-gated content the character has unlocked
	StoryRecommendations(ctx context.Context, discordUserID, ref string) (*domain.StoryRecommendations, error)
}

// StoryContentPerExpansion caps the duties listed per expansion
const StoryContentPerExpansion = 5

type service struct {
	characters repository.Character
	groups     repository.Group
	progress   repository.Progress
}

// NewService creates a roster service
func NewService(characters repository.Character, groups repository.Group, progress repository.Progress) Service {
	return &service{
		characters: characters,
		groups:     groups,
		progress:   progress,
	}
}

// RegisterCharacter stores a character for a Discord user. A user's first
// character always becomes primary.
func (s *service) RegisterCharacter(ctx context.Context, discordUserID, name, server, lodestoneID string, primary bool) (*domain.Character, error) {
	log := logger.FromContext(ctx)

	name = SanitizeInput(name)
	server = NormalizeServer(server)
	lodestoneID = SanitizeInput(lodestoneID)

	if !ValidCharacterName(name) {
		return nil, fmt.Errorf("%w: character name %q", domain.ErrInvalidInput, name)
	}
	if server == "" {
		return nil, fmt.Errorf("%w: server is required", domain.ErrInvalidInput)
	}
	if !ValidLodestoneID(lodestoneID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLodestoneID, lodestoneID)
	}

	existing, err := s.characters.ListByOwner(ctx, discordUserID)
	if err != nil {
		return nil, err
	}

	c := &domain.Character{
		DiscordUserID: discordUserID,
		Name:          name,
		Server:        server,
		LodestoneID:   lodestoneID,
		IsPrimary:     primary || len(existing) == 0,
	}
	if err := s.characters.AddCharacter(ctx, c); err != nil {
		return nil, err
	}

	log.Info("Character registered", "discord_user_id", discordUserID, "lodestone_id", lodestoneID, "primary", c.IsPrimary)
	return c, nil
}

func (s *service) ListCharacters(ctx context.Context, discordUserID string) ([]domain.Character, error) {
	return s.characters.ListByOwner(ctx, discordUserID)
}

// ownedCharacter finds one of the user's own characters by lodestone id or name
func (s *service) ownedCharacter(ctx context.Context, discordUserID, ref string) (*domain.Character, error) {
	ref = SanitizeInput(ref)
	owned, err := s.characters.ListByOwner(ctx, discordUserID)
	if err != nil {
		return nil, err
	}

	for i := range owned {
		if owned[i].LodestoneID == ref || strings.EqualFold(owned[i].Name, ref) {
			return &owned[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, ref)
}

// SetPrimary makes one of the user's own characters primary
func (s *service) SetPrimary(ctx context.Context, discordUserID, ref string) (*domain.Character, error) {
	c, err := s.ownedCharacter(ctx, discordUserID, ref)
	if err != nil {
		return nil, err
	}
	if err := s.characters.SetPrimary(ctx, discordUserID, c.ID); err != nil {
		return nil, err
	}
	c.IsPrimary = true
	return c, nil
}

// RemoveCharacter unregisters one of the user's own characters
func (s *service) RemoveCharacter(ctx context.Context, discordUserID, ref string) (*domain.Character, error) {
	c, err := s.ownedCharacter(ctx, discordUserID, ref)
	if err != nil {
		return nil, err
	}
	if err := s.characters.RemoveCharacter(ctx, discordUserID, c.ID); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Character removed", "discord_user_id", discordUserID, "lodestone_id", c.LodestoneID)
	return c, nil
}

func (s *service) ResolveCharacter(ctx context.Context, discordUserID, ref string) (*domain.Character, error) {
	ref = SanitizeInput(ref)
	if ref == "" {
		return s.characters.GetPrimary(ctx, discordUserID)
	}

	c, err := s.characters.FindCharacter(ctx, ref)
	if err == nil {
		return c, nil
	}
	// Unregistered lodestone ids are looked up directly
	if errors.Is(err, domain.ErrCharacterNotFound) && ValidLodestoneID(ref) {
		return &domain.Character{LodestoneID: ref, Name: ref}, nil
	}
	return nil, err
}

func (s *service) CreateGroup(ctx context.Context, guildID, name, createdBy, description, color string) (*domain.Group, error) {
	name = strings.ToLower(SanitizeInput(name))
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(strings.TrimSpace(description)) > MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description cannot exceed %d characters", domain.ErrInvalidInput, MaxDescriptionLength)
	}
	color, ok := NormalizeColor(color)
	if !ok {
		return nil, fmt.Errorf("%w: color must be a hex code like #3498db", domain.ErrInvalidInput)
	}

	g := &domain.Group{
		GuildID:     guildID,
		Name:        name,
		Description: SanitizeDescription(description),
		Color:       color,
		CreatedBy:   createdBy,
	}
	if err := s.groups.CreateGroup(ctx, g); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Group created", "guild_id", guildID, "group", name)
	return g, nil
}

// AddToGroup adds a registered character to a group
func (s *service) AddToGroup(ctx context.Context, guildID, groupName, ref string) (*domain.Character, error) {
	ref = SanitizeInput(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: character is required", domain.ErrInvalidInput)
	}

	c, err := s.characters.FindCharacter(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.groups.AddMember(ctx, guildID, strings.ToLower(SanitizeInput(groupName)), c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetGroup(ctx context.Context, guildID, groupName string) (*domain.Group, []domain.Character, error) {
	groupName = strings.ToLower(SanitizeInput(groupName))
	g, err := s.groups.GetGroup(ctx, guildID, groupName)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.groups.GetRoster(ctx, guildID, groupName)
	if err != nil {
		return nil, nil, err
	}
	return g, members, nil
}

// ownedGroup returns the group when actorID created it
func (s *service) ownedGroup(ctx context.Context, guildID, groupName, actorID string) (*domain.Group, error) {
	g, err := s.groups.GetGroup(ctx, guildID, groupName)
	if err != nil {
		return nil, err
	}
	if g.CreatedBy != actorID {
		return nil, fmt.Errorf("%w: %s", domain.ErrGroupPermission, g.Name)
	}
	return g, nil
}

func (s *service) DeleteGroup(ctx context.Context, guildID, groupName, actorID string) error {
	g, err := s.ownedGroup(ctx, guildID, strings.ToLower(SanitizeInput(groupName)), actorID)
	if err != nil {
		return err
	}
	if err := s.groups.DeleteGroup(ctx, guildID, g.Name); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Group deleted", "guild_id", guildID, "group", g.Name)
	return nil
}

func (s *service) RemoveFromGroup(ctx context.Context, guildID, groupName, actorID, ref string) (*domain.Character, error) {
	ref = SanitizeInput(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: character is required", domain.ErrInvalidInput)
	}

	g, err := s.ownedGroup(ctx, guildID, strings.ToLower(SanitizeInput(groupName)), actorID)
	if err != nil {
		return nil, err
	}
	c, err := s.characters.FindCharacter(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.groups.RemoveMember(ctx, guildID, g.Name, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GroupRoster(ctx context.Context, guildID, groupName string) ([]string, error) {
	members, err := s.groups.GetRoster(ctx, guildID, strings.ToLower(SanitizeInput(groupName)))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.LodestoneID)
	}
	return ids, nil
}

func (s *service) ListGroups(ctx context.Context, guildID string) ([]domain.Group, error) {
	return s.groups.ListGroups(ctx, guildID)
}

// SetProgress records how far a registered character is through an expansion
func (s *service) SetProgress(ctx context.Context, discordUserID, ref, expansion string, progress int) (*domain.MSQProgress, error) {
	exp, err := domain.FindExpansion(expansion)
	if err != nil {
		return nil, err
	}
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", domain.ErrInvalidInput)
	}

	c, err := s.ResolveCharacter(ctx, discordUserID, ref)
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, fmt.Errorf("%w: %s is not registered", domain.ErrCharacterNotFound, c.LodestoneID)
	}

	p := &domain.MSQProgress{
		CharacterID: c.ID,
		Expansion:   exp.Key,
		Progress:    progress,
		Completed:   progress == 100,
	}
	if err := s.progress.SetMSQProgress(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProgress(ctx context.Context, discordUserID, ref string) (*domain.Character, []domain.MSQProgress, error) {
	c, err := s.ResolveCharacter(ctx, discordUserID, ref)
	if err != nil {
		return nil, nil, err
	}
	if c.ID == 0 {
		return c, []domain.MSQProgress{}, nil
	}

	progress, err := s.progress.GetMSQProgress(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	return c, progress, nil
}

func (s *service) StoryRecommendations(ctx context.Context, discordUserID, ref string) (*domain.StoryRecommendations, error) {
	c, progress, err := s.GetProgress(ctx, discordUserID, ref)
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, fmt.Errorf("%w: %s is not registered", domain.ErrCharacterNotFound, c.LodestoneID)
	}

	pos := domain.CurrentStoryPosition(progress)
	recs := &domain.StoryRecommendations{
		Character: *c,
		Position:  pos,
		Available: domain.AvailableContent(pos, StoryContentPerExpansion),
	}
	if next, ok := pos.NextUnlock(); ok {
		recs.Next = &next
	}
	return recs, nil
}
