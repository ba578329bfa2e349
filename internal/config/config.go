// Package config handles application configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/oterogarcia/madbus/internal/emt"
)

// Config holds all application configuration.
type Config struct {
	Port        string `validate:"required"`
	Env         string
	EMTEmail    string `validate:"required,email"`
	EMTPassword string `validate:"required"`
	EMTBaseURL  string `validate:"required,url"`
	HTTPTimeout time.Duration
	CacheTTL    time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Env:         getEnv("ENV", "development"),
		EMTEmail:    getEnv("EMT_EMAIL", ""),
		EMTPassword: getEnv("EMT_PASSWORD", ""),
		EMTBaseURL:  getEnv("EMT_BASE_URL", emt.DefaultBaseURL),
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
		CacheTTL:    getDurationEnv("CACHE_TTL_SECONDS", 30) * time.Second,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks that required configuration is present and well-formed.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds)
		}
	}
	return time.Duration(defaultSeconds)
}
