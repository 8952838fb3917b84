package recommendation

import "github.com/osse101/ChocoboBot_Go/internal/domain"

// farmableKinds are the source kinds obtainable through repeatable content
var farmableKinds = map[domain.SourceKind]bool{
	domain.SourceDungeon:      true,
	domain.SourceTrial:        true,
	domain.SourceRaid:         true,
	domain.SourceAllianceRaid: true,
	domain.SourceFATE:         true,
	domain.SourceSpecial:      true,
}

// levelGatedKinds are the source kinds whose duty level can exclude an item
var levelGatedKinds = map[domain.SourceKind]bool{
	domain.SourceDungeon: true,
	domain.SourceTrial:   true,
	domain.SourceRaid:    true,
}

// IsFarmableSource reports whether a single source counts towards farmability
func IsFarmableSource(s domain.AcquisitionSource) bool {
	return farmableKinds[s.Kind]
}

// IsFarmable reports whether at least one source of c is repeatable content.
// A collectible without sources is never farmable.
func IsFarmable(c domain.Collectible) bool {
	for _, s := range c.Sources {
		if IsFarmableSource(s) {
			return true
		}
	}
	return false
}

// FarmableSources returns the farmable-kind sources of c in catalog order
func FarmableSources(c domain.Collectible) []domain.AcquisitionSource {
	sources := make([]domain.AcquisitionSource, 0, len(c.Sources))
	for _, s := range c.Sources {
		if IsFarmableSource(s) {
			sources = append(sources, s)
		}
	}
	return sources
}

// FilterFarmable keeps the farmable entries of items, preserving order
func FilterFarmable(items []domain.Collectible) []domain.Collectible {
	farmable := make([]domain.Collectible, 0, len(items))
	for _, c := range items {
		if IsFarmable(c) {
			farmable = append(farmable, c)
		}
	}
	return farmable
}

// IsReachable reports whether the character can enter every level-gated duty of c.
// Unknown level (nil summary or level 0) is always reachable.
func IsReachable(c domain.Collectible, summary *domain.CharacterSummary) bool {
	if summary == nil || summary.Level <= 0 {
		return true
	}
	for _, s := range c.Sources {
		if !levelGatedKinds[s.Kind] {
			continue
		}
		if level := s.DutyLevel(); level > 0 && level > summary.Level {
			return false
		}
	}
	return true
}

// FilterReachable narrows candidates to reachable ones. When that would remove
// every candidate, the input is returned unchanged and bypassed is true.
func FilterReachable(candidates []domain.Collectible, summary *domain.CharacterSummary) (kept []domain.Collectible, bypassed bool) {
	kept = make([]domain.Collectible, 0, len(candidates))
	for _, c := range candidates {
		if IsReachable(c, summary) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 && len(candidates) > 0 {
		return candidates, true
	}
	return kept, false
}
