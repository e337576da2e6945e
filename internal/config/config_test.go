package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.EventsEnabled)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "placeholder")
		require.NoError(t, os.Unsetenv("JWT_SECRET"))
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("blank", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "   ")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadStoreDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	t.Run("mysql", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", " MySQL ")
		t.Setenv("DB_HOST", "db")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DriverMySQL, cfg.StoreDriver)
		assert.Equal(t, "db", cfg.MySQL().Host)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_KEY_STRATEGY", "route")

	c, err := LoadCacheConfig()
	require.NoError(t, err)
	assert.True(t, c.Enabled)
	assert.Equal(t, 2*time.Minute, c.TTL)
	assert.Equal(t, "route", c.KeyStrategy)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.MethodSet())
	assert.Equal(t, 1048576, c.MaxBodyBytes)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c, err := LoadRateLimitConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 10*time.Second, c.TTL)
	assert.Equal(t, "ip_user_route", c.KeyStrategy)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	c, err := LoadRedisConfig()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", c.Addr)
}
