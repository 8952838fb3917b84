package domain

import "strings"

// CollectibleKind identifies which catalog a collectible belongs to
type CollectibleKind string

const (
	KindMount  CollectibleKind = "mount"
	KindMinion CollectibleKind = "minion"
)

// CollectibleKinds lists every kind in display order
var CollectibleKinds = []CollectibleKind{KindMount, KindMinion}

// Plural returns the catalog endpoint / display form ("mounts", "minions")
func (k CollectibleKind) Plural() string {
	return string(k) + "s"
}

// Valid reports whether k is a known kind
func (k CollectibleKind) Valid() bool {
	return k == KindMount || k == KindMinion
}

// ParseCollectibleKind accepts singular or plural, any case
func ParseCollectibleKind(s string) (CollectibleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mount", "mounts":
		return KindMount, nil
	case "minion", "minions":
		return KindMinion, nil
	default:
		return "", ErrInvalidKind
	}
}

// SourceKind classifies how a collectible is obtained
type SourceKind string

const (
	SourceDungeon      SourceKind = "Dungeon"
	SourceTrial        SourceKind = "Trial"
	SourceRaid         SourceKind = "Raid"
	SourceAllianceRaid SourceKind = "AllianceRaid"
	SourceFATE         SourceKind = "FATE"
	SourceSpecial      SourceKind = "Special"
	// SourceOther covers everything the catalog returns that we don't classify
	// (shops, achievements, quests, crafting...)
	SourceOther SourceKind = "Other"
)

// ParseSourceKind maps a catalog source type onto a SourceKind.
// Unknown values become SourceOther.
func ParseSourceKind(s string) SourceKind {
	normalized := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	switch normalized {
	case "dungeon":
		return SourceDungeon
	case "trial":
		return SourceTrial
	case "raid":
		return SourceRaid
	case "allianceraid":
		return SourceAllianceRaid
	case "fate":
		return SourceFATE
	case "special":
		return SourceSpecial
	default:
		return SourceOther
	}
}

// Label returns the human readable form of the kind
func (k SourceKind) Label() string {
	if k == SourceAllianceRaid {
		return "Alliance Raid"
	}
	return string(k)
}

// Duty is the instanced content a source is tied to
type Duty struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// AcquisitionSource is one way of obtaining a collectible
type AcquisitionSource struct {
	Kind SourceKind `json:"kind"`
	Text string     `json:"text"`
	Duty *Duty      `json:"duty,omitempty"`
	// DropRate is a percentage in [0, 100]; nil when unknown
	DropRate *float64 `json:"drop_rate,omitempty"`
}

// DutyLevel returns the minimum level of the associated duty, 0 when there is none
func (s AcquisitionSource) DutyLevel() int {
	if s.Duty == nil {
		return 0
	}
	return s.Duty.Level
}

// Collectible is a mount or minion catalog entry. Immutable once fetched.
type Collectible struct {
	ID                  int                 `json:"id"`
	Kind                CollectibleKind     `json:"kind"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	EnhancedDescription string              `json:"enhanced_description,omitempty"`
	Tooltip             string              `json:"tooltip,omitempty"`
	Image               string              `json:"image,omitempty"`
	Sources             []AcquisitionSource `json:"sources"`
}

// OwnedSet is the set of collectible ids a character owns
type OwnedSet map[int]struct{}

// NewOwnedSet builds a set from a list of ids
func NewOwnedSet(ids ...int) OwnedSet {
	set := make(OwnedSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is owned
func (o OwnedSet) Has(id int) bool {
	_, ok := o[id]
	return ok
}

// CollectionState is a character's owned collectibles, fetched per request
type CollectionState struct {
	CharacterID string   `json:"character_id"`
	Mounts      OwnedSet `json:"-"`
	Minions     OwnedSet `json:"-"`
}

// Owned returns the owned set for a kind
func (c *CollectionState) Owned(kind CollectibleKind) OwnedSet {
	if kind == KindMinion {
		return c.Minions
	}
	return c.Mounts
}

// CharacterSummary is the reachability proxy for a character
type CharacterSummary struct {
	CharacterID string `json:"character_id"`
	Name        string `json:"name,omitempty"`
	Server      string `json:"server,omitempty"`
	Level       int    `json:"level"` // 0 if unknown
	Job         string `json:"job,omitempty"`
}
