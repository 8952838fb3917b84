package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Discord
	DiscordToken       string `validate:"required"`
	DiscordAppID       string `validate:"required,numeric"`
	DiscordGuildID     string `validate:"omitempty,numeric"`
	ForceCommandUpdate bool

	// HTTP server
	Port           int `validate:"min=1,max=65535"`
	APIKey         string
	TrustedProxies []string `validate:"dive,ip"`

	// Logging
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string `validate:"required"`

	// Database
	DBUser     string `validate:"required"`
	DBPassword string
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBName     string `validate:"required"`
	DBMaxConns int    `validate:"min=1"`

	// Upstream APIs
	XIVAPIKey      string
	XIVAPIBaseURL  string        `validate:"required,url"`
	CollectBaseURL string        `validate:"required,url"`
	HTTPTimeout    time.Duration `validate:"gt=0"`

	// Caching and fan-out
	CacheSize         int           `validate:"min=1"`
	CatalogCacheTTL   time.Duration `validate:"gt=0"`
	CharacterCacheTTL time.Duration `validate:"gt=0"`
	GroupConcurrency  int           `validate:"min=1,max=32"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:       getEnv(EnvDiscordToken, ""),
		DiscordAppID:       getEnv(EnvDiscordAppID, ""),
		DiscordGuildID:     getEnv(EnvDiscordGuildID, ""),
		ForceCommandUpdate: getEnvAsBool(EnvForceCommandUpdate, false),
		LogLevel:           getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:          getEnv(EnvLogFormat, DefaultLogFormat),
		Environment:        getEnv(EnvEnvironment, DefaultEnvironment),
		DBUser:             getEnv(EnvDBUser, DefaultDBUser),
		DBPassword:         getEnv(EnvDBPassword, DefaultDBPassword),
		DBHost:             getEnv(EnvDBHost, DefaultDBHost),
		DBPort:             getEnv(EnvDBPort, DefaultDBPort),
		DBName:             getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:         getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		XIVAPIKey:          getEnv(EnvXIVAPIKey, ""),
		XIVAPIBaseURL:      getEnv(EnvXIVAPIBaseURL, DefaultXIVAPIBaseURL),
		CollectBaseURL:     getEnv(EnvCollectBaseURL, DefaultCollectBaseURL),
		HTTPTimeout:        getEnvAsDuration(EnvHTTPTimeout, DefaultHTTPTimeout),
		CacheSize:          getEnvAsInt(EnvCacheSize, DefaultCacheSize),
		CatalogCacheTTL:    getEnvAsDuration(EnvCatalogCacheTTL, DefaultCatalogCacheTTL),
		CharacterCacheTTL:  getEnvAsDuration(EnvCharacterCacheTTL, DefaultCharacterCacheTTL),
		GroupConcurrency:   getEnvAsInt(EnvGroupConcurrency, DefaultGroupConcurrency),
		APIKey:             getEnv(EnvAPIKey, ""),
		TrustedProxies:     getEnvAsList(EnvTrustedProxies),
	}

	portStr := getEnv(EnvPort, strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags and reports the offending environment variables
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %s", formatValidationError(err))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default on absence or parse failure
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration ("90s", "24h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
