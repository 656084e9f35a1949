package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends selectable with CACHE_BACKEND.
const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CacheBolt     = "bolt"
	CachePostgres = "postgres"
)

// Truck sources selectable with TRUCK_SOURCE.
const (
	SourcePostgres = "postgres"
	SourceHTTP     = "http"
)

type Config struct {
	Port             string
	DatabaseURL      string
	SeedPath         string
	CacheBackend     string
	RedisAddr        string
	RedisNamespace   string
	BoltPath         string
	TruckSource      string
	TruckAPIURL      string
	TruckAPIToken    string
	DefaultTimezone  string
	DefaultLookahead int
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the service configuration from the environment and validates it.
// Callers load .env files first.
func Load() (Config, error) {
	cfg := Config{
		Port:            Get("PORT", "8080"),
		DatabaseURL:     Get("DATABASE_URL", ""),
		SeedPath:        Get("SEED_PATH", "data/seeds/trucks.json"),
		CacheBackend:    strings.ToLower(Get("CACHE_BACKEND", CacheMemory)),
		RedisAddr:       Get("REDIS_ADDR", "localhost:6379"),
		RedisNamespace:  Get("REDIS_NAMESPACE", "truck-status:"),
		BoltPath:        Get("BOLT_PATH", "data/cache.db"),
		TruckSource:     strings.ToLower(Get("TRUCK_SOURCE", SourcePostgres)),
		TruckAPIURL:     Get("TRUCK_API_URL", ""),
		TruckAPIToken:   Get("TRUCK_API_TOKEN", ""),
		DefaultTimezone: Get("DEFAULT_TIMEZONE", "UTC"),
	}

	lookahead, err := strconv.Atoi(Get("DEFAULT_LOOKAHEAD_MINUTES", "30"))
	if err != nil || lookahead < 0 {
		return Config{}, fmt.Errorf("config: DEFAULT_LOOKAHEAD_MINUTES must be a non-negative integer")
	}
	cfg.DefaultLookahead = lookahead

	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return Config{}, fmt.Errorf("config: DEFAULT_TIMEZONE %q: %w", cfg.DefaultTimezone, err)
	}

	switch cfg.CacheBackend {
	case CacheMemory, CacheRedis, CacheBolt, CachePostgres:
	default:
		return Config{}, fmt.Errorf("config: unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}

	switch cfg.TruckSource {
	case SourcePostgres:
	case SourceHTTP:
		if cfg.TruckAPIURL == "" {
			return Config{}, fmt.Errorf("config: TRUCK_API_URL is required when TRUCK_SOURCE=http")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown TRUCK_SOURCE %q", cfg.TruckSource)
	}

	if cfg.DatabaseURL == "" && (cfg.TruckSource == SourcePostgres || cfg.CacheBackend == CachePostgres) {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required for the postgres truck source or cache")
	}

	return cfg, nil
}
