// Package ffxivcollect is the catalog gateway: mount and minion catalogs and
// per-character collection state, fetched from the FFXIV Collect API.
package ffxivcollect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/osse101/ChocoboBot_Go/internal/cache"
	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/upstream"
	"github.com/osse101/ChocoboBot_Go/internal/validation"
)

const (
	ServiceName = "ffxivcollect"

	DefaultPageSize = 1000
	// maxPages bounds pagination against a misbehaving upstream
	maxPages = 20

	DefaultCatalogTTL    = 24 * time.Hour
	DefaultCollectionTTL = time.Hour

	// DefaultFetchTimeout bounds one shared upstream fetch, all pages included
	DefaultFetchTimeout = 2 * time.Minute
)

// Config configures the catalog client
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	CacheSize     int
	CatalogTTL    time.Duration
	CollectionTTL time.Duration
	PageSize      int
	FetchTimeout  time.Duration
	// Validator checks payloads before decoding; nil disables the check
	Validator validation.SchemaValidator
}

// Client fetches catalogs and collections. Safe for concurrent use.
type Client struct {
	api          *upstream.Client
	validator    validation.SchemaValidator
	pageSize     int
	fetchTimeout time.Duration
	catalogs     *cache.TTL[domain.CollectibleKind, []domain.Collectible]
	collections  *cache.TTL[string, *domain.CollectionState]
	flight       singleflight.Group
}

// NewClient creates a catalog client
func NewClient(cfg Config) *Client {
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = DefaultCatalogTTL
	}
	if cfg.CollectionTTL <= 0 {
		cfg.CollectionTTL = DefaultCollectionTTL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = upstream.DefaultMaxRetries
	}

	return &Client{
		api: upstream.New(upstream.Config{
			Service:    ServiceName,
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			MaxRetries: maxRetries,
			RetryDelay: cfg.RetryDelay,
		}),
		validator:    cfg.Validator,
		pageSize:     cfg.PageSize,
		fetchTimeout: cfg.FetchTimeout,
		catalogs: cache.New[domain.CollectibleKind, []domain.Collectible](cache.Config{
			Name: "catalog",
			Size: len(domain.CollectibleKinds),
			TTL:  cfg.CatalogTTL,
		}),
		collections: cache.New[string, *domain.CollectionState](cache.Config{
			Name: "collections",
			Size: cfg.CacheSize,
			TTL:  cfg.CollectionTTL,
		}),
	}
}

// getJSON fetches path, checks it against schema when a validator is set, and decodes it
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, schema string, out any) error {
	if c.validator == nil {
		return c.api.GetJSON(ctx, path, params, out)
	}

	body, err := c.api.GetBytes(ctx, path, params)
	if err != nil {
		return err
	}
	if err := c.validator.ValidateBytes(body, schema); err != nil {
		logger.FromContext(ctx).Error("Unexpected catalog payload", "path", path, "error", err)
		return fmt.Errorf("%w: %s: unexpected payload for %s: %v", domain.ErrUpstreamUnavailable, ServiceName, path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: decode %s: %v", domain.ErrUpstreamUnavailable, ServiceName, path, err)
	}
	return nil
}

// shared runs fetch once per key for all concurrent callers. The fetch runs
// detached from any single caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (c *Client) shared(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	ch := c.flight.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return fetch(fetchCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FetchAllCollectibles returns the full catalog for kind in upstream order.
// The returned slice is shared with the cache and must not be modified.
func (c *Client) FetchAllCollectibles(ctx context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	if catalog, ok := c.catalogs.Get(kind); ok {
		return catalog, nil
	}
	return c.loadCatalog(ctx, kind)
}

// RefreshCatalog fetches kind from upstream and replaces the cached catalog,
// whether or not the cached one has expired
func (c *Client) RefreshCatalog(ctx context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	return c.loadCatalog(ctx, kind)
}

func (c *Client) loadCatalog(ctx context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error) {
	v, err := c.shared(ctx, "catalog:"+string(kind), func(fetchCtx context.Context) (any, error) {
		catalog, err := c.fetchCatalog(fetchCtx, kind)
		if err != nil {
			return nil, err
		}
		c.catalogs.Set(kind, catalog)
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Collectible), nil
}

func (c *Client) fetchCatalog(ctx context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error) {
	log := logger.FromContext(ctx)

	var catalog []domain.Collectible
	complete := false
	for page := 0; page < maxPages; page++ {
		params := url.Values{
			"limit":  {strconv.Itoa(c.pageSize)},
			"offset": {strconv.Itoa(page * c.pageSize)},
		}

		var resp listResponse
		if err := c.getJSON(ctx, kind.Plural(), params, validation.SchemaCollectibleList, &resp); err != nil {
			if errors.Is(err, upstream.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s catalog not found", domain.ErrUpstreamUnavailable, kind)
			}
			return nil, err
		}

		for _, dto := range resp.Results {
			catalog = append(catalog, dto.toDomain(kind))
		}

		if len(resp.Results) < c.pageSize || (resp.Count > 0 && len(catalog) >= resp.Count) {
			complete = true
			break
		}
	}
	if !complete {
		log.Error("Catalog exceeds page limit", "kind", kind, "pages", maxPages, "fetched", len(catalog))
		return nil, fmt.Errorf("%w: %s catalog truncated after %d pages", domain.ErrUpstreamUnavailable, kind, maxPages)
	}

	log.Info("Fetched catalog", "kind", kind, "count", len(catalog))
	return catalog, nil
}

// FetchCollectionState returns both owned sets of a character
func (c *Client) FetchCollectionState(ctx context.Context, characterID string) (*domain.CollectionState, error) {
	characterID = strings.TrimSpace(characterID)
	if state, ok := c.collections.Get(characterID); ok {
		return state, nil
	}

	v, err := c.shared(ctx, "character:"+characterID, func(fetchCtx context.Context) (any, error) {
		var resp characterResponse
		if err := c.getJSON(fetchCtx, "characters/"+url.PathEscape(characterID), nil, validation.SchemaCollection, &resp); err != nil {
			if errors.Is(err, upstream.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, characterID)
			}
			return nil, err
		}

		state := &domain.CollectionState{
			CharacterID: characterID,
			Mounts:      resp.Mounts.ownedSet(),
			Minions:     resp.Minions.ownedSet(),
		}
		c.collections.Set(characterID, state)
		return state, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CollectionState), nil
}

// FetchOwnedIDs returns the ids of kind owned by the character. An empty set is valid.
func (c *Client) FetchOwnedIDs(ctx context.Context, characterID string, kind domain.CollectibleKind) (domain.OwnedSet, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	state, err := c.FetchCollectionState(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return state.Owned(kind), nil
}

// Search returns catalog entries whose name contains query, case-insensitively
func (c *Client) Search(ctx context.Context, kind domain.CollectibleKind, query string) ([]domain.Collectible, error) {
	catalog, err := c.FetchAllCollectibles(ctx, kind)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var matches []domain.Collectible
	for _, item := range catalog {
		if strings.Contains(strings.ToLower(item.Name), query) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// Get returns a single catalog entry
func (c *Client) Get(ctx context.Context, kind domain.CollectibleKind, id int) (*domain.Collectible, error) {
	catalog, err := c.FetchAllCollectibles(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range catalog {
		if catalog[i].ID == id {
			item := catalog[i]
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %d", domain.ErrCollectibleNotFound, kind, id)
}

// InvalidateCharacter drops a cached collection so the next request refetches it
func (c *Client) InvalidateCharacter(characterID string) {
	c.collections.Invalidate(strings.TrimSpace(characterID))
}

// CacheStats reports catalog and collection cache effectiveness
func (c *Client) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"catalog":     c.catalogs.GetStats(),
		"collections": c.collections.GetStats(),
	}
}
