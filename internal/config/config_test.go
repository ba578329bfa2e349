package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oterogarcia/madbus/internal/emt"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EMT_EMAIL", "rider@example.com")
	t.Setenv("EMT_PASSWORD", "hunter2")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, emt.DefaultBaseURL, cfg.EMTBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("EMT_BASE_URL", "https://emt.example.com/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("CACHE_TTL_SECONDS", "120")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "https://emt.example.com/", cfg.EMTBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 120*time.Second, cfg.CacheTTL)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	t.Setenv("EMT_EMAIL", "")
	t.Setenv("EMT_PASSWORD", "")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadEmail(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMT_EMAIL", "not-an-email")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMT_BASE_URL", "::not a url::")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}
