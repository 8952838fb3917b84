package bootstrap

import (
	"log/slog"

	"github.com/osse101/ChocoboBot_Go/internal/config"
	"github.com/osse101/ChocoboBot_Go/internal/handler"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
)

// SetupLogger installs the default slog logger from configuration and logs
// the startup banner plus any configuration warnings.
func SetupLogger(cfg *config.Config) *slog.Logger {
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	l := logger.Init(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		handler.Version,
		cfg.Environment,
		addSource,
	))

	l.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	l.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"version", handler.Version)

	l.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"guild_id", cfg.DiscordGuildID,
		"group_concurrency", cfg.GroupConcurrency)

	for _, w := range cfg.Warnings() {
		l.Warn(LogMsgConfigWarning, "detail", w)
	}

	return l
}
