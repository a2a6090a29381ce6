package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the API server and the
// rotation job. Values come from the environment, with a .env file
// loaded first when present.
type Config struct {
	Port    string
	GinMode string

	MongoURI string
	MongoDB  string

	MongoMaxPoolSize              uint64
	MongoMinPoolSize              uint64
	MongoServerSelectionTimeout   time.Duration
	MongoSocketTimeout            time.Duration
	MongoHeartbeatFrequency       time.Duration

	// LifetimeCollections is the list of archived monthly collections
	// unioned into the lifetime leaderboard scope.
	LifetimeCollections []string

	LeaderboardCacheTTL  time.Duration
	LeaderboardCacheSize int

	JWTSecret string
	JWTIssuer string

	AllowedOrigins []string
}

// Default archive set; overridable via LIFETIME_MONTH_COLLECTIONS.
var defaultLifetimeCollections = []string{
	"User_Stats_2025_04",
	"User_Stats_2025_05",
	"User_Stats_2025_06",
}

// Defaults returns a Config with every field set to its default value.
func Defaults() *Config {
	return &Config{
		Port:                        "8080",
		GinMode:                     "release",
		MongoDB:                     "GPTHellbot",
		MongoMaxPoolSize:            10,
		MongoMinPoolSize:            1,
		MongoServerSelectionTimeout: 4 * time.Second,
		MongoSocketTimeout:          15 * time.Second,
		MongoHeartbeatFrequency:     10 * time.Second,
		LifetimeCollections:         defaultLifetimeCollections,
		LeaderboardCacheTTL:         60 * time.Second,
		LeaderboardCacheSize:        100,
		JWTIssuer:                   "helldivers2-gaming-website",
		AllowedOrigins:              []string{"*"},
	}
}

// Load reads configuration from the environment, applying defaults for
// anything unset. MONGODB_URI is the only required value.
func Load() (*Config, error) {
	// Best effort: running without a .env file is normal in production.
	_ = godotenv.Load()

	cfg := Defaults()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}

	cfg.MongoURI = os.Getenv("MONGODB_URI")
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if v := os.Getenv("MONGODB_DB"); v != "" {
		cfg.MongoDB = v
	}

	cfg.MongoMaxPoolSize = envUint("MONGODB_MAX_POOL_SIZE", cfg.MongoMaxPoolSize)
	cfg.MongoMinPoolSize = envUint("MONGODB_MIN_POOL_SIZE", cfg.MongoMinPoolSize)
	cfg.MongoServerSelectionTimeout = envDurationMS("MONGODB_SERVER_SELECTION_TIMEOUT_MS", cfg.MongoServerSelectionTimeout)
	cfg.MongoSocketTimeout = envDurationMS("MONGODB_SOCKET_TIMEOUT_MS", cfg.MongoSocketTimeout)
	cfg.MongoHeartbeatFrequency = envDurationMS("MONGODB_HEARTBEAT_FREQUENCY_MS", cfg.MongoHeartbeatFrequency)

	if list := splitList(os.Getenv("LIFETIME_MONTH_COLLECTIONS")); len(list) > 0 {
		cfg.LifetimeCollections = list
	}

	cfg.LeaderboardCacheTTL = envDurationMS("LEADERBOARD_CACHE_TTL_MS", cfg.LeaderboardCacheTTL)
	if v := os.Getenv("LEADERBOARD_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LeaderboardCacheSize = n
		}
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWTIssuer = v
	}

	if list := splitList(os.Getenv("CORS_ALLOWED_ORIGINS")); len(list) > 0 {
		cfg.AllowedOrigins = list
	}

	return cfg, nil
}

func envUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationMS(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
