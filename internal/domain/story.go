package domain

import (
	"cmp"
	"slices"
)

// ContentUnlock is a duty opened by main story progress
type ContentUnlock struct {
	ExpansionID int    `json:"expansion_id"`
	MinProgress int    `json:"min_progress"` // percent of ExpansionID's story
	Name        string `json:"name"`
	Type        string `json:"type"`
	Level       int    `json:"level"`
}

// ContentUnlocks lists story-gated duties in expansion, then progress order
var ContentUnlocks = []ContentUnlock{
	{ExpansionID: 2, MinProgress: 0, Name: "Sastasha", Type: "Dungeon", Level: 15},
	{ExpansionID: 2, MinProgress: 25, Name: "Tam-Tara Deepcroft", Type: "Dungeon", Level: 16},
	{ExpansionID: 2, MinProgress: 25, Name: "Copperbell Mines", Type: "Dungeon", Level: 17},
	{ExpansionID: 2, MinProgress: 50, Name: "The Thousand Maws of Toto-Rak", Type: "Dungeon", Level: 24},
	{ExpansionID: 2, MinProgress: 50, Name: "Haukke Manor", Type: "Dungeon", Level: 28},
	{ExpansionID: 2, MinProgress: 50, Name: "Brayflox's Longstop", Type: "Dungeon", Level: 32},
	{ExpansionID: 2, MinProgress: 75, Name: "The Stone Vigil", Type: "Dungeon", Level: 41},
	{ExpansionID: 2, MinProgress: 75, Name: "Dzemael Darkhold", Type: "Dungeon", Level: 44},
	{ExpansionID: 2, MinProgress: 75, Name: "The Aurum Vale", Type: "Dungeon", Level: 47},
	{ExpansionID: 2, MinProgress: 100, Name: "Cape Westwind", Type: "Trial", Level: 49},
	{ExpansionID: 2, MinProgress: 100, Name: "Castrum Meridianum", Type: "Dungeon", Level: 50},
	{ExpansionID: 2, MinProgress: 100, Name: "The Praetorium", Type: "Dungeon", Level: 50},

	{ExpansionID: 3, MinProgress: 0, Name: "The Dusk Vigil", Type: "Dungeon", Level: 51},
	{ExpansionID: 3, MinProgress: 25, Name: "The Aery", Type: "Dungeon", Level: 55},
	{ExpansionID: 3, MinProgress: 50, Name: "The Vault", Type: "Dungeon", Level: 57},
	{ExpansionID: 3, MinProgress: 75, Name: "The Great Gubal Library", Type: "Dungeon", Level: 59},
	{ExpansionID: 3, MinProgress: 100, Name: "The Aetherochemical Research Facility", Type: "Dungeon", Level: 60},

	{ExpansionID: 4, MinProgress: 0, Name: "The Sirensong Sea", Type: "Dungeon", Level: 61},
	{ExpansionID: 4, MinProgress: 25, Name: "Bardam's Mettle", Type: "Dungeon", Level: 65},
	{ExpansionID: 4, MinProgress: 50, Name: "Doma Castle", Type: "Dungeon", Level: 67},
	{ExpansionID: 4, MinProgress: 75, Name: "Castrum Abania", Type: "Dungeon", Level: 69},
	{ExpansionID: 4, MinProgress: 100, Name: "Ala Mhigo", Type: "Dungeon", Level: 70},

	{ExpansionID: 5, MinProgress: 25, Name: "Holminster Switch", Type: "Dungeon", Level: 71},
	{ExpansionID: 5, MinProgress: 50, Name: "Dohn Mheg", Type: "Dungeon", Level: 73},
	{ExpansionID: 5, MinProgress: 50, Name: "The Qitana Ravel", Type: "Dungeon", Level: 75},
	{ExpansionID: 5, MinProgress: 75, Name: "Malikah's Well", Type: "Dungeon", Level: 77},
	{ExpansionID: 5, MinProgress: 75, Name: "Mt. Gulg", Type: "Dungeon", Level: 79},
	{ExpansionID: 5, MinProgress: 100, Name: "Amaurot", Type: "Dungeon", Level: 80},

	{ExpansionID: 6, MinProgress: 25, Name: "The Tower of Zot", Type: "Dungeon", Level: 81},
	{ExpansionID: 6, MinProgress: 50, Name: "The Tower of Babil", Type: "Dungeon", Level: 83},
	{ExpansionID: 6, MinProgress: 50, Name: "Vanaspati", Type: "Dungeon", Level: 85},
	{ExpansionID: 6, MinProgress: 75, Name: "Ktisis Hyperboreia", Type: "Dungeon", Level: 87},
	{ExpansionID: 6, MinProgress: 100, Name: "The Aitiascope", Type: "Dungeon", Level: 89},
	{ExpansionID: 6, MinProgress: 100, Name: "The Mothercrystal", Type: "Trial", Level: 90},

	{ExpansionID: 7, MinProgress: 25, Name: "The Lynx Valley", Type: "Dungeon", Level: 91},
	{ExpansionID: 7, MinProgress: 50, Name: "The Aqueduct of Az'aqar", Type: "Dungeon", Level: 93},
	{ExpansionID: 7, MinProgress: 75, Name: "The Voidcast Dais", Type: "Trial", Level: 95},
	{ExpansionID: 7, MinProgress: 100, Name: "The Hidden Tunnels of Tulla", Type: "Dungeon", Level: 97},
	{ExpansionID: 7, MinProgress: 100, Name: "Solution Nine", Type: "Dungeon", Level: 99},
}

// StoryPosition is how far a character is through the main story
type StoryPosition struct {
	Expansion Expansion `json:"expansion"`
	Progress  int       `json:"progress"`
}

// CurrentStoryPosition returns the position in the latest expansion with
// recorded progress. A completed expansion places the character at the start
// of the next one; no progress at all is the start of A Realm Reborn.
func CurrentStoryPosition(progress []MSQProgress) StoryPosition {
	latest := -1
	var record MSQProgress
	for _, p := range progress {
		idx := slices.IndexFunc(Expansions, func(e Expansion) bool { return e.Key == p.Expansion })
		if idx > latest {
			latest = idx
			record = p
		}
	}

	switch {
	case latest < 0:
		return StoryPosition{Expansion: Expansions[0]}
	case record.Completed && latest < len(Expansions)-1:
		return StoryPosition{Expansion: Expansions[latest+1]}
	default:
		return StoryPosition{Expansion: Expansions[latest], Progress: record.Progress}
	}
}

// Unlocked reports whether c is open at this position
func (pos StoryPosition) Unlocked(c ContentUnlock) bool {
	if c.ExpansionID != pos.Expansion.ID {
		return c.ExpansionID < pos.Expansion.ID
	}
	return c.MinProgress <= pos.Progress
}

// NextUnlock returns the first content still locked at this position
func (pos StoryPosition) NextUnlock() (ContentUnlock, bool) {
	for _, c := range ContentUnlocks {
		if !pos.Unlocked(c) {
			return c, true
		}
	}
	return ContentUnlock{}, false
}

// ExpansionContent is the unlocked content of one expansion
type ExpansionContent struct {
	Expansion Expansion       `json:"expansion"`
	Content   []ContentUnlock `json:"content"`
}

// AvailableContent groups the content open at pos by expansion, in release
// order. Each group keeps its perExpansion highest-level duties, lowest first.
func AvailableContent(pos StoryPosition, perExpansion int) []ExpansionContent {
	var out []ExpansionContent
	for _, e := range Expansions {
		var open []ContentUnlock
		for _, c := range ContentUnlocks {
			if c.ExpansionID == e.ID && pos.Unlocked(c) {
				open = append(open, c)
			}
		}
		if len(open) == 0 {
			continue
		}

		slices.SortStableFunc(open, func(a, b ContentUnlock) int { return cmp.Compare(a.Level, b.Level) })
		if perExpansion > 0 && len(open) > perExpansion {
			open = open[len(open)-perExpansion:]
		}
		out = append(out, ExpansionContent{Expansion: e, Content: open})
	}
	return out
}

// StoryRecommendations is the story-gated content a character can run
type StoryRecommendations struct {
	Character Character          `json:"character"`
	Position  StoryPosition      `json:"position"`
	Available []ExpansionContent `json:"available"`
	// Next is the first duty still locked; nil once everything is open
	Next *ContentUnlock `json:"next,omitempty"`
}
