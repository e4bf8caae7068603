package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all console gateway configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// MJ backend
	BackendBaseURL string
	HTTPTimeout    time.Duration

	// Optional fixed tenant; normally the tenant id comes from storage or
	// from the login path.
	TenantID string

	// Durable state (token, tenant id/config, remembered credentials)
	StatePath string

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	StatsCacheTTL time.Duration

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 9090),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080/system"),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		TenantID: getEnv("TENANT_ID", ""),

		StatePath: getEnv("STATE_PATH", "console-state.db"),

		MaxRetries:     getEnvInt("MAX_RETRIES", 2),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 20),

		StatsCacheTTL: getEnvDuration("STATS_CACHE_TTL", time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
