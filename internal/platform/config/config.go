package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the hook service reads from the environment.
// Providers are optional: an empty URL or broker list leaves that provider
// unconfigured, and the logging provider is always on.
type Config struct {
	// Addr is the operational HTTP listener (health, metrics).
	Addr string

	// QueueSize bounds the dispatch inbox.
	QueueSize int

	// Kafka transport. Empty Brokers disables both producer and relay.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	// PostgresURL enables the Postgres trail provider.
	PostgresURL string

	// Redis stream provider.
	Redis RedisConfig
}

// RedisConfig mirrors the knobs the platform redis client accepts.
type RedisConfig struct {
	URL          string
	Stream       string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("VERSO_ADDR", ":8080"),
		QueueSize:   envIntOr("VERSO_QUEUE_SIZE", 1024),
		KafkaTopic:  envOr("VERSO_KAFKA_TOPIC", "verso.hook.events"),
		KafkaGroup:  envOr("VERSO_KAFKA_GROUP", "verso-hook-trail"),
		PostgresURL: os.Getenv("VERSO_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("VERSO_REDIS_URL"),
			Stream:       envOr("VERSO_REDIS_STREAM", "verso:hook:events"),
			PoolSize:     envIntOr("VERSO_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("VERSO_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	if brokers := os.Getenv("VERSO_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
