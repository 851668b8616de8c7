package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE", "")
	t.Setenv("MAX_RETRIES", "")
	t.Setenv("REDIS_URL", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:3001/api", cfg.APIBase)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 300, cfg.CacheTTLSeconds)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_BASE", "https://ski.example.com/api/")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("REQUEST_TIMEOUT_MS", "not-a-number")
	t.Setenv("USER_ID", "u-42")

	cfg := Load()
	assert.Equal(t, "https://ski.example.com/api", cfg.APIBase)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 10000, cfg.RequestTimeoutMs)
	assert.Equal(t, "u-42", cfg.UserID)
}
