// Package recommendation ranks the mounts and minions a character or a roster
// of characters is missing by how practical they are to farm.
package recommendation

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/metrics"
)

// CatalogGateway provides catalogs and per-character ownership
type CatalogGateway interface {
	FetchAllCollectibles(ctx context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error)
	FetchOwnedIDs(ctx context.Context, characterID string, kind domain.CollectibleKind) (domain.OwnedSet, error)
}

// SummaryGateway provides the level used as a progress proxy
type SummaryGateway interface {
	FetchSummary(ctx context.Context, characterID string) (*domain.CharacterSummary, error)
}

// Options tunes an individual recommendation request
type Options struct {
	// Count is the number of recommendations; DefaultCount when negative
	Count int
	// UseProgress enables the reachability filter
	UseProgress bool
}

// DefaultOptions returns five recommendations with reachability filtering
func DefaultOptions() Options {
	return Options{Count: DefaultCount, UseProgress: true}
}

// Config configures the service
type Config struct {
	// GroupConcurrency bounds in-flight member lookups of a group request
	GroupConcurrency int
	// GroupTopN is the number of recommendations per kind for a group
	GroupTopN int
}

const (
	DefaultGroupConcurrency = 4
	DefaultGroupTopN        = 5
)

// Service defines the recommendation operations
type Service interface {
	RecommendForCharacter(ctx context.Context, characterID string, kind domain.CollectibleKind, opts Options) (*domain.RecommendationResult, error)
	RecommendForGroup(ctx context.Context, characterIDs []string) (*domain.GroupRecommendationResult, error)
	MissingForCharacter(ctx context.Context, characterID string, kind domain.CollectibleKind) (*MissingSummary, error)
}

// MissingSummary is the unranked view of what a character lacks
type MissingSummary struct {
	CharacterID string                 `json:"character_id"`
	Kind        domain.CollectibleKind `json:"kind"`
	Total       int                    `json:"total"`
	Missing     []domain.Collectible   `json:"missing"`
	Farmable    []domain.Collectible   `json:"farmable"`
}

type service struct {
	catalog   CatalogGateway
	summaries SummaryGateway
	cfg       Config
}

// NewService creates a recommendation service
func NewService(catalog CatalogGateway, summaries SummaryGateway, cfg Config) Service {
	if cfg.GroupConcurrency <= 0 {
		cfg.GroupConcurrency = DefaultGroupConcurrency
	}
	if cfg.GroupTopN <= 0 {
		cfg.GroupTopN = DefaultGroupTopN
	}
	return &service{
		catalog:   catalog,
		summaries: summaries,
		cfg:       cfg,
	}
}

// missing fetches the catalog and owned ids and returns what the character lacks.
// Gateway errors are returned unchanged.
func (s *service) missing(ctx context.Context, characterID string, kind domain.CollectibleKind) ([]domain.Collectible, int, error) {
	all, err := s.catalog.FetchAllCollectibles(ctx, kind)
	if err != nil {
		return nil, 0, err
	}
	owned, err := s.catalog.FetchOwnedIDs(ctx, characterID, kind)
	if err != nil {
		return nil, 0, err
	}
	return ResolveMissing(all, owned), len(all), nil
}

// MissingForCharacter lists missing and farmable-missing items in catalog order
func (s *service) MissingForCharacter(ctx context.Context, characterID string, kind domain.CollectibleKind) (*MissingSummary, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}

	missing, total, err := s.missing(ctx, characterID, kind)
	if err != nil {
		return nil, err
	}

	return &MissingSummary{
		CharacterID: characterID,
		Kind:        kind,
		Total:       total,
		Missing:     missing,
		Farmable:    FilterFarmable(missing),
	}, nil
}

// RecommendForCharacter runs the individual pipeline: missing items, farmability,
// optional reachability, ranking. A failed summary lookup skips reachability
// instead of failing the request.
func (s *service) RecommendForCharacter(ctx context.Context, characterID string, kind domain.CollectibleKind, opts Options) (*domain.RecommendationResult, error) {
	log := logger.FromContext(ctx)

	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}

	missing, _, err := s.missing(ctx, characterID, kind)
	if err != nil {
		log.Warn("Failed to resolve missing collectibles", "character_id", characterID, "kind", kind, "error", err)
		return nil, err
	}

	candidates := FilterFarmable(missing)
	result := &domain.RecommendationResult{
		CharacterID:     characterID,
		Kind:            kind,
		TotalMissing:    len(missing),
		FarmableMissing: len(candidates),
	}

	if opts.UseProgress && len(candidates) > 0 {
		candidates = s.applyReachability(ctx, characterID, candidates, result)
	}

	result.Recommendations = Rank(candidates, opts.Count)
	metrics.RecommendationsServed.WithLabelValues(metrics.ViewCharacter, string(kind)).Inc()

	log.Info("Recommendations computed",
		"character_id", characterID,
		"kind", kind,
		"missing", result.TotalMissing,
		"farmable", result.FarmableMissing,
		"returned", len(result.Recommendations),
		"reachability_skipped", result.ReachabilitySkipped,
		"reachability_bypassed", result.ReachabilityBypassed)

	return result, nil
}

func (s *service) applyReachability(ctx context.Context, characterID string, candidates []domain.Collectible, result *domain.RecommendationResult) []domain.Collectible {
	log := logger.FromContext(ctx)

	if s.summaries == nil {
		result.ReachabilitySkipped = true
		result.SummaryError = domain.ErrMsgUpstreamUnavailable
		metrics.RecommendationDegradations.WithLabelValues(metrics.ReasonSummaryUnavailable).Inc()
		return candidates
	}

	summary, err := s.summaries.FetchSummary(ctx, characterID)
	if err != nil {
		log.Warn("Character summary unavailable, skipping reachability filter", "character_id", characterID, "error", err)
		result.ReachabilitySkipped = true
		result.SummaryError = err.Error()
		metrics.RecommendationDegradations.WithLabelValues(metrics.ReasonSummaryUnavailable).Inc()
		return candidates
	}

	result.CharacterLevel = summary.Level
	if summary.Level <= 0 {
		return candidates
	}

	kept, bypassed := FilterReachable(candidates, summary)
	if bypassed {
		log.Info("Reachability filter removed every candidate, bypassing", "character_id", characterID, "level", summary.Level)
		result.ReachabilityBypassed = true
		metrics.RecommendationDegradations.WithLabelValues(metrics.ReasonReachabilityBypass).Inc()
		return candidates
	}

	result.ReachabilityApplied = true
	return kept
}

// skipReason is the user-facing reason a roster member was not processed
func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCharacterNotFound):
		return domain.ErrMsgCharacterNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return domain.ErrMsgUpstreamUnavailable
	default:
		return err.Error()
	}
}
