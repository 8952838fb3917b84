package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
	"github.com/osse101/ChocoboBot_Go/internal/roster"
	"github.com/osse101/ChocoboBot_Go/internal/xivapi"
)

// CommandTimeout bounds the work done for a single interaction
const CommandTimeout = 2 * time.Minute

// CatalogSearcher looks up collectibles by name
type CatalogSearcher interface {
	Search(ctx context.Context, kind domain.CollectibleKind, query string) ([]domain.Collectible, error)
}

// CharacterFinder looks up characters on the Lodestone
type CharacterFinder interface {
	SearchCharacter(ctx context.Context, name, server string) ([]xivapi.SearchResult, error)
}

// Services are the application services slash commands call into
type Services struct {
	Recommendations recommendation.Service
	Roster          roster.Service
	Catalog         CatalogSearcher
	Characters      CharacterFinder
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	Services *Services
	AppID    string
	GuildID  string
	Registry *CommandRegistry
}

// Config holds the bot configuration
type Config struct {
	Token string
	AppID string
	// GuildID scopes command registration to one guild; empty registers globally
	GuildID string
}

// New creates a new Discord bot with every slash command registered
func New(cfg Config, services *Services) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	return &Bot{
		Session:  s,
		Services: services,
		AppID:    cfg.AppID,
		GuildID:  cfg.GuildID,
		Registry: DefaultRegistry(),
	}, nil
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	slog.Info("Discord bot is now running")
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() {
	if err := b.Session.Close(); err != nil {
		slog.Error("Failed to close Discord session", "error", err)
	}
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand || b.Registry == nil {
		return
	}

	ctx, cancel := context.WithTimeout(logger.NewRequestContext(context.Background()), CommandTimeout)
	defer cancel()

	b.Registry.Handle(ctx, s, i, b.Services)
}
