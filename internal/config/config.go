package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultSQLitePath    = "tini_admin.db"
	DefaultActivityTopic = "admin.activities"
	DefaultCachePrefix   = "dashboard"
)

// Config holds the settings shared by the cmd tools. The zero environment
// reproduces the plain behaviour: tini_admin.db in the working directory and
// no Kafka or Redis side channels.
type Config struct {
	SQLite SQLiteConfig
	Kafka  KafkaConfig
	Redis  RedisConfig
	// ActivitySeed is the raw ACTIVITY_SEED value; empty means time-based.
	ActivitySeed string
}

type SQLiteConfig struct {
	Path        string
	JournalMode string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SQLite: SQLiteConfig{
			Path:        envString("SQLITE_PATH", DefaultSQLitePath),
			JournalMode: envString("SQLITE_JOURNAL_MODE", ""),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envString("ACTIVITY_KAFKA_TOPIC", DefaultActivityTopic),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
			Prefix:   envString("DASHBOARD_CACHE_PREFIX", DefaultCachePrefix),
		},
		ActivitySeed: strings.TrimSpace(os.Getenv("ACTIVITY_SEED")),
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
