package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PUSHRELAY_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PUSHRELAY_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "PUSHRELAY_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PUSHRELAY_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "PUSHRELAY_SERVER_API_KEY")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "PUSHRELAY_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "PUSHRELAY_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PUSHRELAY_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PUSHRELAY_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PUSHRELAY_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PUSHRELAY_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PUSHRELAY_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PUSHRELAY_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PUSHRELAY_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PUSHRELAY_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "PUSHRELAY_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PUSHRELAY_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PUSHRELAY_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PUSHRELAY_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PUSHRELAY_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PUSHRELAY_REDIS_TLS_ENABLED")

	// ── Push ──
	setStr(&cfg.Push.Endpoint, "PUSHRELAY_PUSH_ENDPOINT")
	setDuration(&cfg.Push.Timeout, "PUSHRELAY_PUSH_TIMEOUT")

	// ── Webhook ──
	setInt(&cfg.Webhook.RateLimit, "PUSHRELAY_WEBHOOK_RATE_LIMIT")
	setDuration(&cfg.Webhook.RateWindow, "PUSHRELAY_WEBHOOK_RATE_WINDOW")

	// ── Dedup ──
	setDuration(&cfg.Dedup.RecentThreshold, "PUSHRELAY_DEDUP_RECENT_THRESHOLD")
	setDuration(&cfg.Dedup.CleanupThreshold, "PUSHRELAY_DEDUP_CLEANUP_THRESHOLD")
	setStr(&cfg.Dedup.CleanupSchedule, "PUSHRELAY_DEDUP_CLEANUP_SCHEDULE")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "PUSHRELAY_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
