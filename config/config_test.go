package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "novastream_", cfg.StoreKeyPrefix)
	assert.Equal(t, "local", cfg.MediaBackend)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Second, cfg.SuggestTimeout)
	assert.Zero(t, cfg.SuggestTTL)
	assert.False(t, cfg.WatchEnabled)
	assert.Equal(t, "inbox", cfg.WatchDir)
	assert.Equal(t, 2*time.Second, cfg.WatchSettle)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("LOG_MAX_AGE", "not-a-number")
	t.Setenv("WATCH_ENABLED", "1")

	cfg := Load()
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 28, cfg.LogMaxAge)
	assert.True(t, cfg.WatchEnabled)
}
