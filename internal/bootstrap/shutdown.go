package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ChocoboBot_Go/internal/discord"
	"github.com/osse101/ChocoboBot_Go/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server *server.Server
	Bot    *discord.Bot
	Jobs   *BackgroundJobs
	DB     *pgxpool.Pool
}

// GracefulShutdown stops components in dependency order:
// 1. Discord gateway (no new interactions)
// 2. HTTP server (drain in-flight requests)
// 3. Background jobs
// 4. Database pool
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDown)

	if components.Bot != nil {
		components.Bot.Stop()
	}

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Jobs != nil {
		components.Jobs.Stop()
	}

	if components.DB != nil {
		components.DB.Close()
	}

	slog.Info(LogMsgStopped)
}
