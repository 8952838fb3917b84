package recommendation

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
)

// fakeCatalog serves scripted catalogs and collections
type fakeCatalog struct {
	mu         sync.Mutex
	catalogs   map[domain.CollectibleKind][]domain.Collectible
	owned      map[string]map[domain.CollectibleKind][]int
	ownedErr   map[string]error
	catalogErr error
	// delays makes member lookups finish in a chosen order
	delays map[string]time.Duration
	// block makes lookups for these members wait for ctx cancellation
	block   map[string]bool
	started chan string
	calls   int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		catalogs: map[domain.CollectibleKind][]domain.Collectible{},
		owned:    map[string]map[domain.CollectibleKind][]int{},
		ownedErr: map[string]error{},
		delays:   map[string]time.Duration{},
		block:    map[string]bool{},
	}
}

func (f *fakeCatalog) withOwned(id string, kind domain.CollectibleKind, ids ...int) *fakeCatalog {
	if f.owned[id] == nil {
		f.owned[id] = map[domain.CollectibleKind][]int{}
	}
	f.owned[id][kind] = ids
	return f
}

func (f *fakeCatalog) FetchAllCollectibles(ctx context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalogs[kind], nil
}

func (f *fakeCatalog) FetchOwnedIDs(ctx context.Context, characterID string, kind domain.CollectibleKind) (domain.OwnedSet, error) {
	f.mu.Lock()
	f.calls++
	delay := f.delays[characterID]
	blocked := f.block[characterID]
	f.mu.Unlock()

	if blocked {
		if f.started != nil {
			f.started <- characterID
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.ownedErr[characterID]; err != nil {
		return nil, err
	}
	owned, ok := f.owned[characterID]
	if !ok {
		return domain.NewOwnedSet(), nil
	}
	return domain.NewOwnedSet(owned[kind]...), nil
}

// mockSummaries is a testify mock of SummaryGateway
type mockSummaries struct {
	mock.Mock
}

func (m *mockSummaries) FetchSummary(ctx context.Context, characterID string) (*domain.CharacterSummary, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CharacterSummary), args.Error(1)
}

func rate(f float64) *float64 { return &f }

func source(kind domain.SourceKind, dropRate *float64, dutyLevel int) domain.AcquisitionSource {
	s := domain.AcquisitionSource{Kind: kind, Text: string(kind), DropRate: dropRate}
	if dutyLevel > 0 {
		s.Duty = &domain.Duty{Name: "duty", Level: dutyLevel}
	}
	return s
}

func collectible(id int, kind domain.CollectibleKind, sources ...domain.AcquisitionSource) domain.Collectible {
	return domain.Collectible{ID: id, Kind: kind, Name: "item", Sources: sources}
}

func ids[E any](items []E, id func(E) int) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func collectibleIDs(items []domain.Collectible) []int {
	return ids(items, func(c domain.Collectible) int { return c.ID })
}

func recommendationIDs(items []domain.Recommendation) []int {
	return ids(items, func(r domain.Recommendation) int { return r.Collectible.ID })
}

func groupIDs(items []domain.GroupRecommendation) []int {
	return ids(items, func(r domain.GroupRecommendation) int { return r.Collectible.ID })
}

// scenarioCatalog: 1 Dungeon 10%, 2 cash shop only, 3 Raid 2% at level 90
func scenarioCatalog() []domain.Collectible {
	return []domain.Collectible{
		collectible(1, domain.KindMount, source(domain.SourceDungeon, rate(10), 50)),
		collectible(2, domain.KindMount, source(domain.ParseSourceKind("Cash Shop"), nil, 0)),
		collectible(3, domain.KindMount, source(domain.SourceRaid, rate(2), 90)),
	}
}
