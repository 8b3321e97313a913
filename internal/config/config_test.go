package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHelpersFallBackToDefaults(t *testing.T) {
	t.Setenv("HEMI_INT", "abc")
	t.Setenv("HEMI_BOOL", "")
	t.Setenv("HEMI_DURATION", "-5m")
	t.Setenv("HEMI_LIST", " , ")

	assert.Equal(t, 7, Int("HEMI_INT", 7))
	assert.True(t, Bool("HEMI_BOOL", true))
	assert.Equal(t, time.Hour, Duration("HEMI_DURATION", time.Hour))
	assert.Equal(t, []string{"x"}, List("HEMI_LIST", []string{"x"}))
}

func TestHelpersParseValues(t *testing.T) {
	t.Setenv("HEMI_INT", "42")
	t.Setenv("HEMI_BOOL", "false")
	t.Setenv("HEMI_DURATION", "90m")
	t.Setenv("HEMI_LIST", "https://a.fr, https://b.fr")

	assert.Equal(t, 42, Int("HEMI_INT", 7))
	assert.False(t, Bool("HEMI_BOOL", true))
	assert.Equal(t, 90*time.Minute, Duration("HEMI_DURATION", time.Hour))
	assert.Equal(t, []string{"https://a.fr", "https://b.fr"}, List("HEMI_LIST", nil))
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STATS_CACHE_TTL", "2h")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.StatsCacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.NotEmpty(t, cfg.DatabaseURL)
}

func TestLoadKeepsAdminClosedByDefault(t *testing.T) {
	t.Setenv("ADMIN_ENABLED", "")
	t.Setenv("ADMIN_TOKEN", "")

	cfg := Load()
	assert.False(t, cfg.AdminEnabled)
	assert.Empty(t, cfg.AdminToken)
}
