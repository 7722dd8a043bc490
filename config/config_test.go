package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_URL", "ADDR", "API_TIMEOUT", "WATCH_INTERVAL", "REDIS_URL", "APP_ENV"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "http://localhost:8000/api", cfg.APIURL)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, time.Second, cfg.WatchInterval)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_URL", "https://marketplace.test/api")
	t.Setenv("API_TIMEOUT", "45")
	t.Setenv("WATCH_INTERVAL", "250ms")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()
	assert.Equal(t, "https://marketplace.test/api", cfg.APIURL)
	assert.Equal(t, 45*time.Second, cfg.APITimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchInterval)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	assert.Equal(t, 30*time.Second, Load().APITimeout)
}

func TestOpenStore_Memory(t *testing.T) {
	db, err := OpenStore(":memory:")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		l, err := NewLogger(env)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}
