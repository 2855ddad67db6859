package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, PackageSourceSpanner, cfg.PackageSource)
		assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
		assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
		assert.Empty(t, cfg.RedisAddr)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ENV", "production")
		t.Setenv("PACKAGE_SOURCE", "mongo")
		t.Setenv("PRICING_DEBOUNCE_WINDOW", "1s")
		t.Setenv("PRICING_STRICT_MODE", "true")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "30")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.IsProduction())
		assert.Equal(t, PackageSourceMongo, cfg.PackageSource)
		assert.Equal(t, time.Second, cfg.DebounceWindow)
		assert.True(t, cfg.StrictMode)
		assert.Equal(t, 30, cfg.RateLimitPerMinute)
	})

	t.Run("unknown package source", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("PACKAGE_SOURCE", "csv")

		_, err := Load()
		assert.ErrorContains(t, err, "PACKAGE_SOURCE")
	})
}
