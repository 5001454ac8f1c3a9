package config

import (
	"os"
	"strconv"
	"time"

	"replayrng/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Engine   EngineConfig
	Audit    AuditConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory snapshot store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// EngineConfig bounds what callers may ask of a generator session.
type EngineConfig struct {
	DefaultSeed        int32
	MaxRestoreDistance int
	MaxBatch           int
}

// AuditConfig holds statistical audit settings
type AuditConfig struct {
	Samples int
	Buckets int
	Workers int
}

// Load reads an optional .env file, then configuration from environment
// variables, and validates it
func Load() (*Config, error) {
	// A missing .env file is not an error; the environment may be complete.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	seed, err := getEnvInt32OrDefault("DEFAULT_SEED", 12345)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load engine configuration")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:             getEnvOrDefault("DATABASE_URL", ""),
			MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8080"),
			ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Engine: EngineConfig{
			DefaultSeed:        seed,
			MaxRestoreDistance: getEnvIntOrDefault("MAX_RESTORE_DISTANCE", 10_000_000),
			MaxBatch:           getEnvIntOrDefault("MAX_BATCH", 10_000),
		},
		Audit: AuditConfig{
			Samples: getEnvIntOrDefault("AUDIT_SAMPLES", 100_000),
			Buckets: getEnvIntOrDefault("AUDIT_BUCKETS", 64),
			Workers: getEnvIntOrDefault("AUDIT_WORKERS", 4),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Engine.MaxRestoreDistance <= 0 {
		return errors.ConfigInvalid("MAX_RESTORE_DISTANCE must be positive")
	}
	if config.Engine.MaxBatch <= 0 {
		return errors.ConfigInvalid("MAX_BATCH must be positive")
	}
	if config.Audit.Samples <= 0 || config.Audit.Buckets < 2 {
		return errors.ConfigInvalid("AUDIT_SAMPLES must be positive and AUDIT_BUCKETS at least 2")
	}
	if config.Audit.Workers <= 0 {
		return errors.ConfigInvalid("AUDIT_WORKERS must be positive")
	}
	return nil
}

// UsePostgres reports whether snapshots should be persisted in PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.Database.URL != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt32OrDefault rejects malformed seeds instead of silently falling
// back, since a wrong seed yields a valid but different simulation.
func getEnvInt32OrDefault(key string, defaultValue int32) (int32, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a 32-bit signed integer")
	}
	return int32(parsed), nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
