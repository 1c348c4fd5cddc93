package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	Timezone           string
	GamesPageSize      int
	RunsPageSize       int
	StatsCacheSize     int
	PersistWorkerCount int
	PersistQueueSize   int
	CORSOrigins        []string
	RequestTimeout     time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:matchlog.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		Timezone:           envOr("TIMEZONE", "Local"),
		GamesPageSize:      envIntOr("GAMES_PAGE_SIZE", 20),
		RunsPageSize:       envIntOr("RUNS_PAGE_SIZE", 10),
		StatsCacheSize:     envIntOr("STATS_CACHE_SIZE", 256),
		PersistWorkerCount: envIntOr("PERSIST_WORKER_COUNT", 1),
		PersistQueueSize:   envIntOr("PERSIST_QUEUE_SIZE", 64),
		CORSOrigins:        envListOr("CORS_ORIGINS", []string{"*"}),
		RequestTimeout:     envDurationOr("REQUEST_TIMEOUT", 10*time.Second),
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	if c.GamesPageSize <= 0 {
		return fmt.Errorf("GAMES_PAGE_SIZE must be positive")
	}
	if c.RunsPageSize <= 0 {
		return fmt.Errorf("RUNS_PAGE_SIZE must be positive")
	}
	if c.StatsCacheSize < 0 {
		return fmt.Errorf("STATS_CACHE_SIZE cannot be negative")
	}
	if c.PersistWorkerCount <= 0 {
		return fmt.Errorf("PERSIST_WORKER_COUNT must be positive")
	}
	if c.PersistQueueSize <= 0 {
		return fmt.Errorf("PERSIST_QUEUE_SIZE must be positive")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT cannot be negative")
	}
	return nil
}

// Location resolves Timezone; date filters are evaluated in this zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
