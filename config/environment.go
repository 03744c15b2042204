package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Port    string
	LogMode string

	StoreDriver string
	SQLitePath  string
	DBURL       string
	RedisAddr   string
	RedisPrefix string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	CORSOrigins []string

	CacheVersion  string
	ShellUpstream string
	QuizSeconds   int
	SyncInterval  time.Duration
	SeedSample    bool
}

// IsDevelopment reports whether logging runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.LogMode != "production"
}

// AuthEnabled reports whether API requests need a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// QuizTimeLimit is the per-question quiz time limit.
func (c *Config) QuizTimeLimit() time.Duration {
	return time.Duration(c.QuizSeconds) * time.Second
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		LogMode: getEnv("LOG_MODE", "development"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		SQLitePath:  getEnv("SQLITE_PATH", "flashlearn.db"),
		DBURL:       getEnv("DB_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "flashlearn:"),

		JWTSecret:   getEnv("JWT_SECRET_KEY", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "flashlearn"),
		JWTAudience: getEnv("JWT_AUDIENCE", "flashlearn-api"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		CacheVersion:  getEnv("CACHE_VERSION", "flashlearn-v1"),
		ShellUpstream: getEnv("SHELL_UPSTREAM", ""),
		SeedSample:    getEnvBool("SEED_SAMPLE_DATA", true),
	}

	var err error
	if cfg.QuizSeconds, err = getEnvInt("QUIZ_SECONDS", 30); err != nil {
		return nil, err
	}
	if cfg.QuizSeconds <= 0 {
		return nil, fmt.Errorf("QUIZ_SECONDS must be positive, got %d", cfg.QuizSeconds)
	}
	if cfg.SyncInterval, err = getEnvDuration("SYNC_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required for the %s driver", DriverPostgres)
		}
	case DriverRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required for the %s driver", DriverRedis)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
