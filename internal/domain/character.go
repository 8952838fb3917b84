package domain

import (
	"strings"
	"time"
)

// Character is a registered FFXIV character owned by a Discord user
type Character struct {
	ID            int64     `json:"id" db:"id"`
	DiscordUserID string    `json:"discord_user_id" db:"discord_user_id"`
	Name          string    `json:"name" db:"name"`
	Server        string    `json:"server" db:"server"`
	LodestoneID   string    `json:"lodestone_id" db:"lodestone_id"`
	IsPrimary     bool      `json:"is_primary" db:"is_primary"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// FullName returns "Name (Server)"
func (c Character) FullName() string {
	return c.Name + " (" + c.Server + ")"
}

// LodestoneURL returns the public Lodestone profile link
func (c Character) LodestoneURL() string {
	if c.LodestoneID == "" {
		return ""
	}
	return "https://na.finalfantasyxiv.com/lodestone/character/" + c.LodestoneID + "/"
}

// Group is a guild-scoped roster of characters
type Group struct {
	ID          int64     `json:"id" db:"id"`
	GuildID     string    `json:"guild_id" db:"guild_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Color       string    `json:"color,omitempty" db:"color"` // "#rrggbb" or empty
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// MSQProgress records how far a character is through an expansion's story
type MSQProgress struct {
	CharacterID int64     `json:"character_id" db:"character_id"`
	Expansion   string    `json:"expansion" db:"expansion"`
	Progress    int       `json:"progress" db:"progress"` // percent, 0-100
	Completed   bool      `json:"completed" db:"completed"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Expansion is a game expansion and the level band its story covers
type Expansion struct {
	ID       int
	Key      string
	Name     string
	MinLevel int
	MaxLevel int
}

// Expansions in release order
var Expansions = []Expansion{
	{ID: 2, Key: "arr", Name: "A Realm Reborn", MinLevel: 1, MaxLevel: 50},
	{ID: 3, Key: "hw", Name: "Heavensward", MinLevel: 50, MaxLevel: 60},
	{ID: 4, Key: "sb", Name: "Stormblood", MinLevel: 60, MaxLevel: 70},
	{ID: 5, Key: "shb", Name: "Shadowbringers", MinLevel: 70, MaxLevel: 80},
	{ID: 6, Key: "ew", Name: "Endwalker", MinLevel: 80, MaxLevel: 90},
	{ID: 7, Key: "dt", Name: "Dawntrail", MinLevel: 90, MaxLevel: 100},
}

// FindExpansion looks up an expansion by key or name, case-insensitively
func FindExpansion(s string) (Expansion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range Expansions {
		if e.Key == s || strings.ToLower(e.Name) == s {
			return e, nil
		}
	}
	return Expansion{}, ErrInvalidExpansion
}

// ExpansionForLevel returns the latest expansion whose story starts at or below level
func ExpansionForLevel(level int) Expansion {
	current := Expansions[0]
	for _, e := range Expansions {
		if level > e.MinLevel || (e.MinLevel == 1 && level >= 1) {
			current = e
		}
	}
	return current
}
