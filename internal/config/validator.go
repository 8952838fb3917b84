package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// envNames maps struct fields to the variables that feed them
var envNames = map[string]string{
	"DiscordToken":      EnvDiscordToken,
	"DiscordAppID":      EnvDiscordAppID,
	"DiscordGuildID":    EnvDiscordGuildID,
	"Port":              EnvPort,
	"LogLevel":          EnvLogLevel,
	"LogFormat":         EnvLogFormat,
	"Environment":       EnvEnvironment,
	"DBUser":            EnvDBUser,
	"DBHost":            EnvDBHost,
	"DBPort":            EnvDBPort,
	"DBName":            EnvDBName,
	"DBMaxConns":        EnvDBMaxConns,
	"XIVAPIBaseURL":     EnvXIVAPIBaseURL,
	"CollectBaseURL":    EnvCollectBaseURL,
	"HTTPTimeout":       EnvHTTPTimeout,
	"CacheSize":         EnvCacheSize,
	"CatalogCacheTTL":   EnvCatalogCacheTTL,
	"CharacterCacheTTL": EnvCharacterCacheTTL,
	"GroupConcurrency":  EnvGroupConcurrency,
	"TrustedProxies":    EnvTrustedProxies,
}

// formatValidationError turns validator output into "VAR: reason" pairs
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field, _, _ := strings.Cut(e.Field(), "[")
		name, ok := envNames[field]
		if !ok {
			name = field
		}
		switch e.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s must be set", name))
		case "numeric":
			parts = append(parts, fmt.Sprintf("%s must be numeric", name))
		case "url":
			parts = append(parts, fmt.Sprintf("%s must be a URL", name))
		case "ip":
			parts = append(parts, fmt.Sprintf("%s must contain IP addresses", name))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", name, e.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s=%s)", name, e.Tag(), e.Param()))
		}
	}
	return strings.Join(parts, ", ")
}

// Warnings returns non-fatal configuration issues worth logging at startup
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DBPassword == "change_this_secure_password" {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if c.XIVAPIKey == "" {
		warnings = append(warnings, "XIVAPI_KEY not set, character lookups use the anonymous rate limit")
	}

	if c.APIKey == "" {
		warnings = append(warnings, "API_KEY not set, the /api/v1 routes accept unauthenticated requests")
	}

	if c.DiscordGuildID != "" {
		warnings = append(warnings, "DISCORD_GUILD_ID set, commands are registered to a single test guild")
	}

	return warnings
}
