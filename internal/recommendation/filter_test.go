package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

func TestResolveMissing(t *testing.T) {
	catalog := scenarioCatalog()

	t.Run("set difference in catalog order", func(t *testing.T) {
		missing := ResolveMissing(catalog, domain.NewOwnedSet(2))
		assert.Equal(t, []int{1, 3}, collectibleIDs(missing))
	})

	t.Run("empty owned returns everything", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3}, collectibleIDs(ResolveMissing(catalog, domain.NewOwnedSet())))
		assert.Equal(t, []int{1, 2, 3}, collectibleIDs(ResolveMissing(catalog, nil)))
	})

	t.Run("owned ids outside the catalog are ignored", func(t *testing.T) {
		missing := ResolveMissing(catalog, domain.NewOwnedSet(1, 404))
		assert.Equal(t, []int{2, 3}, collectibleIDs(missing))
	})

	t.Run("owning everything leaves nothing", func(t *testing.T) {
		assert.Empty(t, ResolveMissing(catalog, domain.NewOwnedSet(1, 2, 3)))
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Empty(t, ResolveMissing(nil, domain.NewOwnedSet(1)))
	})
}

func TestIsFarmable(t *testing.T) {
	testCases := []struct {
		name    string
		sources []domain.AcquisitionSource
		want    bool
	}{
		{"no sources", nil, false},
		{"dungeon", []domain.AcquisitionSource{source(domain.SourceDungeon, nil, 0)}, true},
		{"trial", []domain.AcquisitionSource{source(domain.SourceTrial, nil, 0)}, true},
		{"raid", []domain.AcquisitionSource{source(domain.SourceRaid, nil, 0)}, true},
		{"alliance raid", []domain.AcquisitionSource{source(domain.SourceAllianceRaid, nil, 0)}, true},
		{"fate", []domain.AcquisitionSource{source(domain.SourceFATE, nil, 0)}, true},
		{"special", []domain.AcquisitionSource{source(domain.SourceSpecial, nil, 0)}, true},
		{"shop only", []domain.AcquisitionSource{source(domain.SourceOther, nil, 0)}, false},
		{"mixed", []domain.AcquisitionSource{source(domain.SourceOther, nil, 0), source(domain.SourceFATE, nil, 0)}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsFarmable(collectible(1, domain.KindMount, tc.sources...)))
		})
	}
}

func TestFarmableSources(t *testing.T) {
	c := collectible(1, domain.KindMinion,
		source(domain.SourceOther, nil, 0),
		source(domain.SourceTrial, rate(20), 0),
		source(domain.SourceSpecial, nil, 0))

	sources := FarmableSources(c)

	assert.Len(t, sources, 2)
	assert.Equal(t, domain.SourceTrial, sources[0].Kind)
	assert.Equal(t, domain.SourceSpecial, sources[1].Kind)
}

func TestIsReachable(t *testing.T) {
	level50 := &domain.CharacterSummary{CharacterID: "1", Level: 50}
	raid90 := collectible(3, domain.KindMount, source(domain.SourceRaid, rate(2), 90))

	testCases := []struct {
		name    string
		item    domain.Collectible
		summary *domain.CharacterSummary
		want    bool
	}{
		{"nil summary fails open", raid90, nil, true},
		{"unknown level fails open", raid90, &domain.CharacterSummary{Level: 0}, true},
		{"gated above level", raid90, level50, false},
		{"gated at level", raid90, &domain.CharacterSummary{Level: 90}, true},
		{"no duty level", collectible(4, domain.KindMount, source(domain.SourceTrial, nil, 0)), level50, true},
		{"alliance raid is not level gated", collectible(5, domain.KindMount, source(domain.SourceAllianceRaid, nil, 90)), level50, true},
		{"fate is not level gated", collectible(6, domain.KindMount, source(domain.SourceFATE, nil, 80)), level50, true},
		{"any gated source excludes", collectible(7, domain.KindMount,
			source(domain.SourceDungeon, nil, 40),
			source(domain.SourceTrial, nil, 60)), level50, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsReachable(tc.item, tc.summary))
		})
	}
}

func TestFilterReachable(t *testing.T) {
	summary := &domain.CharacterSummary{Level: 50}

	t.Run("narrows to reachable", func(t *testing.T) {
		kept, bypassed := FilterReachable(FilterFarmable(scenarioCatalog()), summary)
		assert.False(t, bypassed)
		assert.Equal(t, []int{1}, collectibleIDs(kept))
	})

	t.Run("bypasses when everything would be removed", func(t *testing.T) {
		candidates := []domain.Collectible{
			collectible(3, domain.KindMount, source(domain.SourceRaid, nil, 90)),
			collectible(4, domain.KindMount, source(domain.SourceTrial, nil, 70)),
		}
		kept, bypassed := FilterReachable(candidates, summary)
		assert.True(t, bypassed)
		assert.Equal(t, []int{3, 4}, collectibleIDs(kept))
	})

	t.Run("empty input is not a bypass", func(t *testing.T) {
		kept, bypassed := FilterReachable(nil, summary)
		assert.False(t, bypassed)
		assert.Empty(t, kept)
	})
}
