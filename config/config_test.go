package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/storage"
)

var envKeys = []string{
	"PORT", "LOG_MODE", "STORE_DRIVER", "SQLITE_PATH", "DB_URL", "REDIS_ADDR", "REDIS_PREFIX",
	"JWT_SECRET_KEY", "JWT_ISSUER", "JWT_AUDIENCE", "CORS_ORIGINS", "CACHE_VERSION",
	"SHELL_UPSTREAM", "QUIZ_SECONDS", "SYNC_INTERVAL", "SEED_SAMPLE_DATA",
}

// clearEnv blanks every variable Load reads. Empty values fall back to
// defaults only for the parsed ones, so the string ones are set explicitly.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_MODE", "development")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "flashlearn.db")
	t.Setenv("REDIS_PREFIX", "flashlearn:")
	t.Setenv("JWT_ISSUER", "flashlearn")
	t.Setenv("JWT_AUDIENCE", "flashlearn-api")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
	t.Setenv("CACHE_VERSION", "flashlearn-v1")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.QuizTimeLimit())
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.True(t, cfg.SeedSample)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "flashlearn-v1", cfg.CacheVersion)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_MODE", "production")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("QUIZ_SECONDS", "45")
	t.Setenv("SYNC_INTERVAL", "30s")
	t.Setenv("SEED_SAMPLE_DATA", "off")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.StoreDriver)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 45*time.Second, cfg.QuizTimeLimit())
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
	assert.False(t, cfg.SeedSample)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown driver":       {"STORE_DRIVER", "mongo"},
		"postgres without url": {"STORE_DRIVER", "postgres"},
		"redis without addr":   {"STORE_DRIVER", "redis"},
		"quiz seconds":         {"QUIZ_SECONDS", "soon"},
		"zero quiz seconds":    {"QUIZ_SECONDS", "0"},
		"sync interval":        {"SYNC_INTERVAL", "5 minutes"},
		"negative interval":    {"SYNC_INTERVAL", "-1m"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := &Config{StoreDriver: DriverMemory}
	s, closeFn, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &storage.MemoryStore{}, s)
}

func TestOpenStoreSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{StoreDriver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	s, closeFn, err := OpenStore(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, s.Set(ctx, storage.KeyUserProgress, []byte(`{"streakDays":2}`)))
	got, err := s.Get(ctx, storage.KeyUserProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"streakDays":2}`, string(got))
}

func TestConnectRejectsNonDatabaseDriver(t *testing.T) {
	_, err := Connect(&Config{StoreDriver: DriverRedis})
	assert.Error(t, err)
}
