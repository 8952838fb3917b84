package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/ChocoboBot_Go/internal/cache"
	"github.com/osse101/ChocoboBot_Go/internal/database"
	"github.com/osse101/ChocoboBot_Go/internal/discord"
)

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// BotHealthReporter reports the Discord gateway state
type BotHealthReporter interface {
	Health() discord.HealthStatus
}

// CacheStatsProvider exposes per-cache hit/miss counters
type CacheStatsProvider interface {
	CacheStats() map[string]cache.Stats
}

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz provides a readiness check that validates database connectivity
func HandleReadyz(dbPool database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			slog.Error("Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Message: "database connection failed",
			})
			return
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleBotHealth reports the Discord connection; 503 while disconnected
func HandleBotHealth(bot BotHealthReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := bot.Health()
		code := http.StatusOK
		if !status.Connected {
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, status)
	}
}

// HandleCacheStats returns the upstream cache counters
func HandleCacheStats(providers ...CacheStatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := make(map[string]cache.Stats)
		for _, p := range providers {
			for name, s := range p.CacheStats() {
				stats[name] = s
			}
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
