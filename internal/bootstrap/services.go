package bootstrap

import (
	"log/slog"

	"github.com/osse101/ChocoboBot_Go/internal/config"
	"github.com/osse101/ChocoboBot_Go/internal/discord"
	"github.com/osse101/ChocoboBot_Go/internal/ffxivcollect"
	"github.com/osse101/ChocoboBot_Go/internal/handler"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
	"github.com/osse101/ChocoboBot_Go/internal/roster"
	"github.com/osse101/ChocoboBot_Go/internal/validation"
	"github.com/osse101/ChocoboBot_Go/internal/xivapi"
)

// Services holds the upstream clients and the domain services built on them
type Services struct {
	Collect         *ffxivcollect.Client
	XIVAPI          *xivapi.Client
	Recommendations recommendation.Service
	Roster          roster.Service
}

// InitializeServices builds the upstream clients and domain services.
// A schema compile failure only disables payload validation.
func InitializeServices(cfg *config.Config, repos *Repositories) *Services {
	schemas, err := validation.NewSchemaValidator()
	if err != nil {
		slog.Warn(LogMsgSchemaValidationOff, "error", err)
		schemas = nil
	}

	collect := ffxivcollect.NewClient(ffxivcollect.Config{
		BaseURL:       cfg.CollectBaseURL,
		Timeout:       cfg.HTTPTimeout,
		MaxRetries:    UpstreamMaxRetries,
		RetryDelay:    UpstreamRetryDelay,
		CacheSize:     cfg.CacheSize,
		CatalogTTL:    cfg.CatalogCacheTTL,
		CollectionTTL: cfg.CharacterCacheTTL,
		Validator:     schemas,
	})

	xiv := xivapi.NewClient(xivapi.Config{
		BaseURL:    cfg.XIVAPIBaseURL,
		APIKey:     cfg.XIVAPIKey,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: UpstreamMaxRetries,
		RetryDelay: UpstreamRetryDelay,
		CacheSize:  cfg.CacheSize,
		SummaryTTL: cfg.CharacterCacheTTL,
		Validator:  schemas,
	})

	return &Services{
		Collect: collect,
		XIVAPI:  xiv,
		Recommendations: recommendation.NewService(collect, xiv, recommendation.Config{
			GroupConcurrency: cfg.GroupConcurrency,
		}),
		Roster: roster.NewService(repos.Characters, repos.Groups, repos.Progress),
	}
}

// BotServices adapts the services for the Discord command handlers
func (s *Services) BotServices() *discord.Services {
	return &discord.Services{
		Recommendations: s.Recommendations,
		Roster:          s.Roster,
		Catalog:         s.Collect,
		Characters:      s.XIVAPI,
	}
}

// CacheProviders lists every client that reports cache statistics
func (s *Services) CacheProviders() []handler.CacheStatsProvider {
	return []handler.CacheStatsProvider{s.Collect, s.XIVAPI}
}
