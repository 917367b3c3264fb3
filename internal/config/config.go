// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"finledger/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	LogLevel   string
	DB         db.Config
	AMQP       AMQPConfig
	UserCache  CacheConfig
}

// AMQPConfig configures the optional event publisher. An empty URL disables it.
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// CacheConfig configures the user lookup cache.
type CacheConfig struct {
	TTL     time.Duration
	MaxCost int64
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one is present. It returns an error if any value is invalid.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	cfg := &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DB: db.Config{
			Driver:     getEnv("DB_DRIVER", db.DriverPostgres),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       dbPort,
			User:       getEnv("DB_USER", "user"),
			Password:   getEnv("DB_PASSWORD", "password"),
			DBName:     getEnv("DB_NAME", "finledger"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "./data/finledger.db"),
		},
		AMQP: AMQPConfig{
			URL:        getEnv("AMQP_URL", ""),
			Exchange:   getEnv("AMQP_EXCHANGE", "finledger"),
			RoutingKey: getEnv("AMQP_ROUTING_KEY", "transactions.created"),
		},
		UserCache: CacheConfig{
			TTL:     getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
			MaxCost: int64(getEnvInt("USER_CACHE_MAX_COST", 10000)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *AppConfig) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.ServerPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DB.Driver {
	case db.DriverPostgres:
		if c.DB.Host == "" {
			problems = append(problems, "DB_HOST cannot be empty when using postgres")
		}
		if c.DB.DBName == "" {
			problems = append(problems, "DB_NAME cannot be empty when using postgres")
		}
	case db.DriverSQLite:
		if c.DB.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH cannot be empty when using sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of [postgres sqlite]", c.DB.Driver))
	}

	if c.AMQP.URL != "" {
		if parsed, err := url.Parse(c.AMQP.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.UserCache.MaxCost < 1 {
		problems = append(problems, fmt.Sprintf("invalid user cache max cost %d: must be at least 1", c.UserCache.MaxCost))
	}
	if c.UserCache.TTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid user cache TTL %v: must be positive", c.UserCache.TTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
