package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`

	// Optional static API key for the API surface. Empty disables auth.
	APIKey string `envconfig:"API_KEY"`

	// AI collaborator (optional — the service starts without it; analysis
	// endpoints then fail with a configuration error)
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`

	// Analysis cache
	CacheMaxEntries int    `envconfig:"CACHE_MAX_ENTRIES" default:"50"`
	CacheDBPath     string `envconfig:"CACHE_DB_PATH"` // empty disables the durable tier

	// Seed fixtures (optional YAML file with initial contacts and events)
	SeedPath string `envconfig:"SEED_PATH"`

	// Default calendar year for views that don't specify one
	DefaultYear int `envconfig:"DEFAULT_YEAR" default:"2026"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AIEnabled returns true if the AI collaborator is configured.
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

// DurableCacheEnabled returns true if the durable cache tier is configured.
func (c *Config) DurableCacheEnabled() bool {
	return c.CacheDBPath != ""
}

// AuthEnabled returns true if API-key auth is configured.
func (c *Config) AuthEnabled() bool {
	return c.APIKey != ""
}
