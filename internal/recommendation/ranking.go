package recommendation

import (
	"slices"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

const (
	// DefaultCount is the number of recommendations returned when none is requested
	DefaultCount = 5

	// DefaultDropRate stands in for unknown or zero drop rates
	DefaultDropRate = 5.0
	// DungeonBonus is added per Dungeon source
	DungeonBonus = 1.0
)

// AccessibilityScore sums the drop rates of the farmable sources of c, plus a
// bonus for every Dungeon source. Higher is easier to obtain.
func AccessibilityScore(c domain.Collectible) float64 {
	var score float64
	for _, s := range c.Sources {
		if !IsFarmableSource(s) {
			continue
		}
		if s.DropRate != nil && *s.DropRate > 0 {
			score += *s.DropRate
		} else {
			score += DefaultDropRate
		}
		if s.Kind == domain.SourceDungeon {
			score += DungeonBonus
		}
	}
	return score
}

// Rank orders candidates by accessibility score, highest first, and returns at
// most count of them. A negative count means DefaultCount. Ties keep input order.
func Rank(candidates []domain.Collectible, count int) []domain.Recommendation {
	if count < 0 {
		count = DefaultCount
	}

	scored := make([]domain.Recommendation, len(candidates))
	for i, c := range candidates {
		scored[i] = domain.Recommendation{
			Collectible: c,
			Sources:     FarmableSources(c),
			Score:       AccessibilityScore(c),
		}
	}

	slices.SortStableFunc(scored, func(a, b domain.Recommendation) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(scored) > count {
		scored = scored[:count]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

var baseDifficulty = map[domain.SourceKind]int{
	domain.SourceDungeon:      1,
	domain.SourceTrial:        3,
	domain.SourceRaid:         5,
	domain.SourceAllianceRaid: 4,
	domain.SourceFATE:         1,
}

// ContentDifficultyScore estimates how hard a source is to clear: a base per
// content kind plus a modifier for the duty level bracket.
func ContentDifficultyScore(kind domain.SourceKind, level int) int {
	base, ok := baseDifficulty[kind]
	if !ok {
		base = 2
	}

	switch {
	case level <= 50:
		return base
	case level <= 60:
		return base + 1
	case level <= 70:
		return base + 2
	case level <= 80:
		return base + 3
	default:
		return base + 4
	}
}
