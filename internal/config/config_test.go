package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SWIPE_RATE_LIMIT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60, cfg.SwipeRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://web.telegram.org"}, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SWIPE_RATE_LIMIT", "5")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.SwipeRateLimit)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.True(t, cfg.MinIOUseSSL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REPORT_RATE_LIMIT", "lots")
	t.Setenv("JWT_EXPIRY", "forever")

	cfg := Load()

	assert.Equal(t, 10, cfg.ReportRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}

func TestStorageEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.StorageEnabled())

	cfg.MinIOEndpoint = "localhost:9000"
	assert.True(t, cfg.StorageEnabled())
}
