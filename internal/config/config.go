package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Search     SearchConfig
	RateLimit  RateLimitConfig
	Sweep      SweepConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration.
type PostgreSQLConfig struct {
	DSN                string // full connection URL, used as-is when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MigrationsPath     string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	Debug          bool
}

// SearchConfig holds the request-shaping defaults of the search pipeline.
type SearchConfig struct {
	DefaultLimit   int
	MaxLimit       int
	DefaultRadiusM float64
	NearbyCap      int
	RequestTimeout time.Duration
}

// RateLimitConfig holds API rate limiting configuration.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// SweepConfig holds the job expiry sweep configuration.
type SweepConfig struct {
	Enabled  bool
	Schedule string // cron expression
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
	Debug bool
}

// Load reads configuration from environment variables, with an optional
// .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "tutormatch_search"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			MigrationsPath:     getEnv("PG_MIGRATIONS_PATH", "file://migrations"),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			Debug:          getEnvAsBool("SERVER_DEBUG", false),
		},
		Search: SearchConfig{
			DefaultLimit:   getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:       getEnvAsInt("SEARCH_MAX_LIMIT", 100),
			DefaultRadiusM: getEnvAsFloat("SEARCH_DEFAULT_RADIUS_M", 25000),
			NearbyCap:      getEnvAsInt("SEARCH_NEARBY_CAP", 50),
			RequestTimeout: time.Duration(getEnvAsInt("SEARCH_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 100),
		},
		Sweep: SweepConfig{
			Enabled:  getEnvAsBool("SWEEP_ENABLED", true),
			Schedule: getEnv("SWEEP_SCHEDULE", "*/10 * * * *"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns the PostgreSQL connection URL.
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}
