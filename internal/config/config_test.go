package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/matchlog/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		Timezone:           "UTC",
		GamesPageSize:      20,
		RunsPageSize:       10,
		StatsCacheSize:     256,
		PersistWorkerCount: 1,
		PersistQueueSize:   64,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "empty addr",
			mutate:        func(c *config.Config) { c.Addr = "" },
			expectedError: "ADDR cannot be empty",
		},
		{
			name:          "empty db path",
			mutate:        func(c *config.Config) { c.DBPath = " " },
			expectedError: "DB_PATH cannot be empty",
		},
		{
			name:          "invalid log level",
			mutate:        func(c *config.Config) { c.LogLevel = "LOUD" },
			expectedError: "LOG_LEVEL",
		},
		{
			name:          "unknown timezone",
			mutate:        func(c *config.Config) { c.Timezone = "Mars/Olympus_Mons" },
			expectedError: "TIMEZONE",
		},
		{
			name:          "zero games page size",
			mutate:        func(c *config.Config) { c.GamesPageSize = 0 },
			expectedError: "GAMES_PAGE_SIZE",
		},
		{
			name:          "negative runs page size",
			mutate:        func(c *config.Config) { c.RunsPageSize = -5 },
			expectedError: "RUNS_PAGE_SIZE",
		},
		{
			name:          "negative cache size",
			mutate:        func(c *config.Config) { c.StatsCacheSize = -1 },
			expectedError: "STATS_CACHE_SIZE",
		},
		{
			name:          "zero persist workers",
			mutate:        func(c *config.Config) { c.PersistWorkerCount = 0 },
			expectedError: "PERSIST_WORKER_COUNT",
		},
		{
			name:          "zero persist queue",
			mutate:        func(c *config.Config) { c.PersistQueueSize = 0 },
			expectedError: "PERSIST_QUEUE_SIZE",
		},
		{
			name:          "negative request timeout",
			mutate:        func(c *config.Config) { c.RequestTimeout = -time.Second },
			expectedError: "REQUEST_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_LogLevelsAreCaseInsensitive(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "warning", "ERROR"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Local"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.NotNil(t, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("GAMES_PAGE_SIZE", "25")
	t.Setenv("RUNS_PAGE_SIZE", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://example.com")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 25, cfg.GamesPageSize)
	assert.Equal(t, 10, cfg.RunsPageSize, "invalid ints fall back to the default")
	assert.Equal(t, []string{"http://localhost:5173", "https://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}
