package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"PORT", "API_KEY", "LOG_LEVEL", "LOG_FORMAT", "LOG_DIR", "LOG_KEEP", "ENVIRONMENT", "APP_VERSION",
	"STORAGE_DRIVER", "DATABASE_URL", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	"DB_MAX_CONNS", "DB_MAX_IDLE", "DB_MAX_LIFETIME", "AUTO_MIGRATE", "ECONOMY_CONFIG", "DAILY_RESET_TZ",
	"SWEEP_INTERVAL", "WORKER_POOL_SIZE", "NEARBY_CACHE_TTL", "NEARBY_CACHE_SIZE", "TRUSTED_PROXIES",
	"EVENT_MAX_RETRIES", "EVENT_RETRY_DELAY", "EVENT_DEADLETTER_PATH", "EVENT_LOG_RETENTION",
	"EVENT_LOG_CLEANUP_INTERVAL",
}

// clearEnvVars unsets config variables for the duration of the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
}

// TestLoad tests configuration loading from environment
func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)
		// Must set API_KEY or it fails validation
		t.Setenv("API_KEY", "test-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port, "Should use default port")
		assert.Equal(t, "INFO", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
		assert.Equal(t, "postgres", cfg.DBUser)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, 15*time.Second, cfg.SweepInterval)
		assert.Equal(t, 2*time.Second, cfg.NearbyCacheTTL)
		assert.Equal(t, "UTC", cfg.DailyResetTZ)
		assert.True(t, cfg.AutoMigrate)
		assert.Equal(t, ConfigPathEconomy, cfg.EconomyConfigPath)
		assert.Equal(t, 5, cfg.EventMaxRetries)
		assert.Equal(t, 2*time.Second, cfg.EventRetryDelay)
		assert.Equal(t, 30*24*time.Hour, cfg.EventLogRetention)
		assert.Equal(t, 24*time.Hour, cfg.EventLogCleanupInterval)
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)

		t.Setenv("PORT", "3000")
		t.Setenv("API_KEY", "custom-api-key")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "text")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("STORAGE_DRIVER", "MEMORY")
		t.Setenv("SWEEP_INTERVAL", "1m")
		t.Setenv("DAILY_RESET_TZ", "America/New_York")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2,")
		t.Setenv("AUTO_MIGRATE", "false")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "custom-api-key", cfg.APIKey)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
		assert.Equal(t, time.Minute, cfg.SweepInterval)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
		assert.False(t, cfg.AutoMigrate)

		loc, err := cfg.DailyResetLocation()
		require.NoError(t, err)
		assert.Equal(t, "America/New_York", loc.String())
	})

	t.Run("returns error when API_KEY is missing", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "API_KEY")
		assert.Contains(t, err.Error(), "must be set")
	})

	t.Run("returns error for invalid PORT", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("PORT", "not-a-number")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid PORT value")
	})

	t.Run("returns error for invalid duration", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("SWEEP_INTERVAL", "soon")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("STORAGE_DRIVER", "cassandra")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORAGE_DRIVER")
	})

	t.Run("rejects non-positive event log retention", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("EVENT_LOG_RETENTION", "0s")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "EVENT_LOG_RETENTION")
	})

	t.Run("rejects unknown reset time zone", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("DAILY_RESET_TZ", "Mars/Olympus_Mons")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DAILY_RESET_TZ")
	})
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "hunt"}
	assert.Equal(t, "postgres://u:p@h:5432/hunt?sslmode=disable", cfg.GetDBConnString())

	cfg.DatabaseURL = "postgres://override/db"
	assert.Equal(t, "postgres://override/db", cfg.GetDBConnString())
}
