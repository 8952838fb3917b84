package recommendation

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/metrics"
)

// member is the collection of one processed roster member
type member struct {
	id    string
	owned map[domain.CollectibleKind]domain.OwnedSet
}

// RecommendForGroup ranks the farmable items most of the roster is missing.
// Members whose lookups fail are reported as unprocessed rather than failing the
// request; a cancelled ctx yields ctx.Err() and no result.
func (s *service) RecommendForGroup(ctx context.Context, characterIDs []string) (*domain.GroupRecommendationResult, error) {
	log := logger.FromContext(ctx)

	roster, blanks := uniqueIDs(characterIDs)
	result := &domain.GroupRecommendationResult{
		TotalCharacters:     len(characterIDs),
		ProcessedCharacters: []string{},
		Mounts:              []domain.GroupRecommendation{},
		Minions:             []domain.GroupRecommendation{},
	}
	for _, id := range blanks {
		result.UnprocessedCharacters = append(result.UnprocessedCharacters, domain.SkippedCharacter{
			CharacterID: id,
			Reason:      domain.ErrMsgInvalidInput,
		})
	}
	if len(roster) == 0 {
		if len(blanks) > 0 {
			metrics.GroupMembersSkipped.Add(float64(len(blanks)))
		}
		return result, nil
	}

	catalogs, err := s.fetchCatalogs(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("Catalog unavailable for group request", "members", len(roster), "error", err)
		metrics.RecommendationDegradations.WithLabelValues(metrics.ReasonCatalogUnavailable).Inc()
		for _, id := range roster {
			result.UnprocessedCharacters = append(result.UnprocessedCharacters, domain.SkippedCharacter{
				CharacterID: id,
				Reason:      skipReason(err),
			})
		}
		metrics.GroupMembersSkipped.Add(float64(len(result.UnprocessedCharacters)))
		return result, nil
	}

	// Indexed by roster position so the merge never depends on completion order
	owned := make([]map[domain.CollectibleKind]domain.OwnedSet, len(roster))
	failures := make([]error, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.GroupConcurrency)
	for i, id := range roster {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sets, err := s.fetchOwned(gctx, id)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			owned[i] = sets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Info("Group request cancelled", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	members := make([]member, 0, len(roster))
	for i, id := range roster {
		if failures[i] != nil {
			log.Warn("Skipping roster member", "character_id", id, "error", failures[i])
			result.UnprocessedCharacters = append(result.UnprocessedCharacters, domain.SkippedCharacter{
				CharacterID: id,
				Reason:      skipReason(failures[i]),
			})
			continue
		}
		members = append(members, member{id: id, owned: owned[i]})
		result.ProcessedCharacters = append(result.ProcessedCharacters, id)
	}
	if skipped := len(result.UnprocessedCharacters); skipped > 0 {
		metrics.GroupMembersSkipped.Add(float64(skipped))
	}

	result.Mounts = rankForGroup(catalogs[domain.KindMount], domain.KindMount, members, s.cfg.GroupTopN)
	result.Minions = rankForGroup(catalogs[domain.KindMinion], domain.KindMinion, members, s.cfg.GroupTopN)

	for _, kind := range domain.CollectibleKinds {
		metrics.RecommendationsServed.WithLabelValues(metrics.ViewGroup, string(kind)).Inc()
	}
	log.Info("Group recommendations computed",
		"total", result.TotalCharacters,
		"processed", len(result.ProcessedCharacters),
		"mounts", len(result.Mounts),
		"minions", len(result.Minions))

	return result, nil
}

func (s *service) fetchCatalogs(ctx context.Context) (map[domain.CollectibleKind][]domain.Collectible, error) {
	catalogs := make([][]domain.Collectible, len(domain.CollectibleKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range domain.CollectibleKinds {
		g.Go(func() error {
			catalog, err := s.catalog.FetchAllCollectibles(gctx, kind)
			if err != nil {
				return err
			}
			catalogs[i] = catalog
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byKind := make(map[domain.CollectibleKind][]domain.Collectible, len(catalogs))
	for i, kind := range domain.CollectibleKinds {
		byKind[kind] = catalogs[i]
	}
	return byKind, nil
}

func (s *service) fetchOwned(ctx context.Context, characterID string) (map[domain.CollectibleKind]domain.OwnedSet, error) {
	sets := make(map[domain.CollectibleKind]domain.OwnedSet, len(domain.CollectibleKinds))
	for _, kind := range domain.CollectibleKinds {
		ids, err := s.catalog.FetchOwnedIDs(ctx, characterID, kind)
		if err != nil {
			return nil, err
		}
		sets[kind] = ids
	}
	return sets, nil
}

// rankForGroup counts, for each farmable catalog item, the members missing it and
// returns the topN by that count. Ties keep catalog order.
func rankForGroup(catalog []domain.Collectible, kind domain.CollectibleKind, members []member, topN int) []domain.GroupRecommendation {
	ranked := []domain.GroupRecommendation{}
	if len(members) == 0 {
		return ranked
	}

	seen := make(map[int]struct{}, len(catalog))
	for _, item := range catalog {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}

		if !IsFarmable(item) {
			continue
		}

		var missingBy []string
		for _, m := range members {
			if !m.owned[kind].Has(item.ID) {
				missingBy = append(missingBy, m.id)
			}
		}
		if len(missingBy) == 0 {
			continue
		}

		ranked = append(ranked, domain.GroupRecommendation{
			Collectible:    item,
			Sources:        FarmableSources(item),
			MissingCount:   len(missingBy),
			ProcessedCount: len(members),
			CharacterIDs:   missingBy,
		})
	}

	slices.SortStableFunc(ranked, func(a, b domain.GroupRecommendation) int {
		return b.MissingCount - a.MissingCount
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// uniqueIDs drops repeated ids, keeping first occurrences in order. Blank ids
// are returned separately, one per occurrence.
func uniqueIDs(ids []string) (unique, blanks []string) {
	seen := make(map[string]struct{}, len(ids))
	unique = make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			blanks = append(blanks, id)
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, blanks
}
