package roster

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// memoryRepo is an in-memory implementation of the roster repositories
type memoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	characters []domain.Character
	groups     []domain.Group
	members    map[int64][]int64
	progress   map[int64]map[string]domain.MSQProgress
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		members:  make(map[int64][]int64),
		progress: make(map[int64]map[string]domain.MSQProgress),
	}
}

func (r *memoryRepo) AddCharacter(_ context.Context, c *domain.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.characters {
		if existing.LodestoneID == c.LodestoneID {
			return domain.ErrCharacterExists
		}
	}
	if c.IsPrimary {
		for i := range r.characters {
			if r.characters[i].DiscordUserID == c.DiscordUserID {
				r.characters[i].IsPrimary = false
			}
		}
	}
	r.nextID++
	c.ID = r.nextID
	r.characters = append(r.characters, *c)
	return nil
}

func (r *memoryRepo) GetPrimary(_ context.Context, discordUserID string) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.characters {
		if c.DiscordUserID == discordUserID && c.IsPrimary {
			return &c, nil
		}
	}
	return nil, domain.ErrNoPrimaryCharacter
}

func (r *memoryRepo) FindCharacter(_ context.Context, ref string) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.characters {
		if c.LodestoneID == ref || strings.EqualFold(c.Name, ref) {
			return &c, nil
		}
	}
	return nil, domain.ErrCharacterNotFound
}

func (r *memoryRepo) ListByOwner(_ context.Context, discordUserID string) ([]domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Character
	for _, c := range r.characters {
		if c.DiscordUserID == discordUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) SetPrimary(_ context.Context, discordUserID string, characterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.characters {
		if r.characters[i].DiscordUserID != discordUserID {
			continue
		}
		r.characters[i].IsPrimary = r.characters[i].ID == characterID
		found = found || r.characters[i].ID == characterID
	}
	if !found {
		return domain.ErrCharacterNotFound
	}
	return nil
}

func (r *memoryRepo) RemoveCharacter(_ context.Context, discordUserID string, characterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.characters, func(c domain.Character) bool {
		return c.ID == characterID && c.DiscordUserID == discordUserID
	})
	if idx < 0 {
		return domain.ErrCharacterNotFound
	}
	wasPrimary := r.characters[idx].IsPrimary
	r.characters = slices.Delete(r.characters, idx, idx+1)
	for id, members := range r.members {
		r.members[id] = slices.DeleteFunc(members, func(m int64) bool { return m == characterID })
	}
	delete(r.progress, characterID)

	if wasPrimary {
		for i := range r.characters {
			if r.characters[i].DiscordUserID == discordUserID {
				r.characters[i].IsPrimary = true
				break
			}
		}
	}
	return nil
}

func (r *memoryRepo) CreateGroup(_ context.Context, g *domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.groups {
		if existing.GuildID == g.GuildID && existing.Name == g.Name {
			return domain.ErrGroupExists
		}
	}
	r.nextID++
	g.ID = r.nextID
	r.groups = append(r.groups, *g)
	return nil
}

func (r *memoryRepo) findGroup(guildID, name string) (domain.Group, bool) {
	for _, g := range r.groups {
		if g.GuildID == guildID && g.Name == name {
			return g, true
		}
	}
	return domain.Group{}, false
}

func (r *memoryRepo) GetGroup(_ context.Context, guildID, groupName string) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.findGroup(guildID, groupName)
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return &g, nil
}

func (r *memoryRepo) DeleteGroup(_ context.Context, guildID, groupName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.findGroup(guildID, groupName)
	if !ok {
		return domain.ErrGroupNotFound
	}
	r.groups = slices.DeleteFunc(r.groups, func(other domain.Group) bool { return other.ID == g.ID })
	delete(r.members, g.ID)
	return nil
}

func (r *memoryRepo) RemoveMember(_ context.Context, guildID, groupName string, characterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.findGroup(guildID, groupName)
	if !ok {
		return domain.ErrGroupNotFound
	}
	if !slices.Contains(r.members[g.ID], characterID) {
		return domain.ErrNotGroupMember
	}
	r.members[g.ID] = slices.DeleteFunc(r.members[g.ID], func(m int64) bool { return m == characterID })
	return nil
}

func (r *memoryRepo) AddMember(_ context.Context, guildID, groupName string, characterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.findGroup(guildID, groupName)
	if !ok {
		return domain.ErrGroupNotFound
	}
	if slices.Contains(r.members[g.ID], characterID) {
		return domain.ErrAlreadyGroupMember
	}
	r.members[g.ID] = append(r.members[g.ID], characterID)
	return nil
}

func (r *memoryRepo) GetRoster(_ context.Context, guildID, groupName string) ([]domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.findGroup(guildID, groupName)
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	out := make([]domain.Character, 0, len(r.members[g.ID]))
	for _, id := range r.members[g.ID] {
		for _, c := range r.characters {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *memoryRepo) ListGroups(_ context.Context, guildID string) ([]domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Group
	for _, g := range r.groups {
		if g.GuildID == guildID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memoryRepo) SetMSQProgress(_ context.Context, p *domain.MSQProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress[p.CharacterID] == nil {
		r.progress[p.CharacterID] = make(map[string]domain.MSQProgress)
	}
	r.progress[p.CharacterID][p.Expansion] = *p
	return nil
}

func (r *memoryRepo) GetMSQProgress(_ context.Context, characterID int64) ([]domain.MSQProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.MSQProgress, 0, len(r.progress[characterID]))
	for _, p := range r.progress[characterID] {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.MSQProgress) int { return strings.Compare(a.Expansion, b.Expansion) })
	return out, nil
}

func newTestService() (Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, repo, repo), repo
}
