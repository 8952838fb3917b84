package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/ChocoboBot_Go/internal/bootstrap"
	"github.com/osse101/ChocoboBot_Go/internal/config"
	"github.com/osse101/ChocoboBot_Go/internal/database"
	"github.com/osse101/ChocoboBot_Go/internal/discord"
	"github.com/osse101/ChocoboBot_Go/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	bootstrap.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, bootstrap.DBConnectTimeout)
	dbPool, err := database.NewPool(startupCtx, cfg.GetDBConnString(), cfg.DBMaxConns,
		bootstrap.DBMaxConnIdleTime, bootstrap.DBMaxConnLifetime)
	if err != nil {
		cancel()
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(startupCtx, dbPool); err != nil {
		cancel()
		dbPool.Close()
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	cancel()

	repos := bootstrap.InitializeRepositories(dbPool)
	services := bootstrap.InitializeServices(cfg, repos)

	jobs := bootstrap.StartBackgroundJobs(cfg, services)

	bot, err := discord.New(discord.Config{
		Token:   cfg.DiscordToken,
		AppID:   cfg.DiscordAppID,
		GuildID: cfg.DiscordGuildID,
	}, services.BotServices())
	if err != nil {
		jobs.Stop()
		dbPool.Close()
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, server.Dependencies{
		DB:              dbPool,
		Recommendations: services.Recommendations,
		Catalog:         services.Collect,
		Bot:             bot,
		Caches:          services.CacheProviders(),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	if err := bot.Start(); err != nil {
		slog.Error("Failed to start bot", "error", err)
		stop()
	} else if err := bot.RegisterCommands(bot.Registry, cfg.ForceCommandUpdate); err != nil {
		// Previously registered commands keep working
		slog.Error("Failed to register commands", "error", err)
	}

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancelShutdown()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server: srv,
		Bot:    bot,
		Jobs:   jobs,
		DB:     dbPool,
	})
}
