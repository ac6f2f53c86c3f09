package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, 50, cfg.CacheMaxEntries)
	assert.Equal(t, 2026, cfg.DefaultYear)

	assert.False(t, cfg.AIEnabled())
	assert.False(t, cfg.DurableCacheEnabled())
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("API_KEY", "secret")
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("CACHE_MAX_ENTRIES", "10")
	t.Setenv("CACHE_DB_PATH", "/tmp/cache.db")
	t.Setenv("DEFAULT_YEAR", "2027")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "gemini-test", cfg.GeminiModel)
	assert.Equal(t, 10, cfg.CacheMaxEntries)
	assert.Equal(t, 2027, cfg.DefaultYear)

	assert.True(t, cfg.AIEnabled())
	assert.True(t, cfg.DurableCacheEnabled())
	assert.True(t, cfg.AuthEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CACHE_MAX_ENTRIES", "many")
	_, err := Load()
	assert.Error(t, err)
}
