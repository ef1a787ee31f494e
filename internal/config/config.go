package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string
	LogKeep     int
	APIKey      string // API key for authentication

	StorageDriver string
	DatabaseURL   string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBMaxConns    int
	DBMaxIdle     time.Duration
	DBMaxLifetime time.Duration
	AutoMigrate   bool

	EconomyConfigPath string
	DailyResetTZ      string

	SweepInterval  time.Duration
	WorkerPoolSize int
	NearbyCacheTTL time.Duration
	NearbyCacheMax int

	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	EventLogRetention       time.Duration
	EventLogCleanupInterval time.Duration

	TrustedProxies []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "dev"),
		Version:           getEnv("APP_VERSION", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogDir:            getEnv("LOG_DIR", "logs"),
		APIKey:            getEnv("API_KEY", ""),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "hunt"),
		EconomyConfigPath: getEnv("ECONOMY_CONFIG", ConfigPathEconomy),
		DailyResetTZ:      getEnv("DAILY_RESET_TZ", "UTC"),
		TrustedProxies:    splitList(getEnv("TRUSTED_PROXIES", "")),

		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", "logs/event_deadletter.jsonl"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.LogKeep, err = getEnvInt("LOG_KEEP", 10); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 20); err != nil {
		return nil, err
	}
	if cfg.WorkerPoolSize, err = getEnvInt("WORKER_POOL_SIZE", 4); err != nil {
		return nil, err
	}
	if cfg.NearbyCacheMax, err = getEnvInt("NEARBY_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdle, err = getEnvDuration("DB_MAX_IDLE", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DBMaxLifetime, err = getEnvDuration("DB_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.NearbyCacheTTL, err = getEnvDuration("NEARBY_CACHE_TTL", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", 5); err != nil {
		return nil, err
	}
	if cfg.EventRetryDelay, err = getEnvDuration("EVENT_RETRY_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.EventLogRetention, err = getEnvDuration("EVENT_LOG_RETENTION", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.EventLogCleanupInterval, err = getEnvDuration("EVENT_LOG_CLEANUP_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = getEnvBool("AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	// Validate API key is set
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.StorageDriver != StorageDriverPostgres && c.StorageDriver != StorageDriverMemory {
		return fmt.Errorf("invalid STORAGE_DRIVER %q: expected %s or %s", c.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if c.EventLogRetention <= 0 || c.EventLogCleanupInterval <= 0 {
		return fmt.Errorf("EVENT_LOG_RETENTION and EVENT_LOG_CLEANUP_INTERVAL must be positive")
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("WORKER_POOL_SIZE must be positive")
	}
	if _, err := c.DailyResetLocation(); err != nil {
		return err
	}
	return nil
}

// DailyResetLocation resolves the time zone that defines the daily boundary
func (c *Config) DailyResetLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DailyResetTZ)
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_RESET_TZ %q: %w", c.DailyResetTZ, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, defaultValue.String())
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, strconv.FormatBool(defaultValue))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
