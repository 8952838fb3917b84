package config

import "time"

// Defaults for optional settings
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultEnvironment       = "dev"
	DefaultDBUser            = "postgres"
	DefaultDBPassword        = "postgres"
	DefaultDBHost            = "localhost"
	DefaultDBPort            = "5432"
	DefaultDBName            = "chocobobot"
	DefaultDBMaxConns        = 10
	DefaultXIVAPIBaseURL     = "https://xivapi.com"
	DefaultCollectBaseURL    = "https://ffxivcollect.com/api"
	DefaultCacheSize         = 1000
	DefaultCatalogCacheTTL   = 24 * time.Hour
	DefaultCharacterCacheTTL = time.Hour
	DefaultGroupConcurrency  = 4
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultRecommendCount    = 5
)

// Environment variable names
const (
	EnvDiscordToken       = "DISCORD_TOKEN"
	EnvDiscordAppID       = "DISCORD_APP_ID"
	EnvDiscordGuildID     = "DISCORD_GUILD_ID"
	EnvForceCommandUpdate = "DISCORD_FORCE_COMMAND_UPDATE"
	EnvPort               = "PORT"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
	EnvEnvironment        = "ENVIRONMENT"
	EnvDBUser             = "DB_USER"
	EnvDBPassword         = "DB_PASSWORD"
	EnvDBHost             = "DB_HOST"
	EnvDBPort             = "DB_PORT"
	EnvDBName             = "DB_NAME"
	EnvDBMaxConns         = "DB_MAX_CONNS"
	EnvXIVAPIKey          = "XIVAPI_KEY"
	EnvXIVAPIBaseURL      = "XIVAPI_BASE_URL"
	EnvCollectBaseURL     = "FFXIVCOLLECT_BASE_URL"
	EnvCacheSize          = "CACHE_SIZE"
	EnvCatalogCacheTTL    = "CATALOG_CACHE_TTL"
	EnvCharacterCacheTTL  = "CHARACTER_CACHE_TTL"
	EnvGroupConcurrency   = "GROUP_CONCURRENCY"
	EnvHTTPTimeout        = "HTTP_TIMEOUT"
	EnvAPIKey             = "API_KEY"
	EnvTrustedProxies     = "TRUSTED_PROXIES"
)
