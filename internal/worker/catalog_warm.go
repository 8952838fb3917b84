package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
)

// CatalogRefresher refetches a full catalog and replaces the cached copy
type CatalogRefresher interface {
	RefreshCatalog(ctx context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error)
}

// CatalogWarmJob reloads every catalog before the cached copy expires so user
// requests rarely pay for a cold fetch
type CatalogWarmJob struct {
	Catalog CatalogRefresher
	Kinds   []domain.CollectibleKind
}

// NewCatalogWarmJob warms every collectible kind
func NewCatalogWarmJob(catalog CatalogRefresher) *CatalogWarmJob {
	return &CatalogWarmJob{Catalog: catalog, Kinds: domain.CollectibleKinds}
}

// Name implements Job
func (j *CatalogWarmJob) Name() string {
	return "catalog_warm"
}

// Process fetches each kind; one failing kind does not stop the others
func (j *CatalogWarmJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	var errs []error
	for _, kind := range j.Kinds {
		items, err := j.Catalog.RefreshCatalog(ctx, kind)
		if err != nil {
			log.Warn(LogMsgCatalogWarmError, "kind", kind, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", kind.Plural(), err))
			continue
		}
		log.Debug(LogMsgCatalogWarmed, "kind", kind, "count", len(items))
	}
	return errors.Join(errs...)
}
