package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Storage drivers for the donation ledger
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	BotToken      string
	AdminUserID   int64
	Port          int
	WebhookURL    string
	WebhookSecret string
	Storage       StorageConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Workers       int
	QueueSize     int
	ReportCron    string
	LogLevel      string
}

// StorageConfig selects the ledger backend
type StorageConfig struct {
	Driver string
	Path   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// RedisConfig holds conversation state store settings. An empty Addr keeps state in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	adminID, err := cast.ToInt64E(getEnv("ADMIN_USER_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_USER_ID must be an integer: %w", err)
	}

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		AdminUserID:   adminID,
		Port:          cast.ToInt(getEnv("PORT", "8080")),
		WebhookURL:    strings.TrimRight(os.Getenv("WEBHOOK_URL"), "/"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite)),
			Path:   getEnv("DB_PATH", "db/donations.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "starsbot"),
			User:     getEnv("DB_USER", "starsbot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       cast.ToInt(getEnv("REDIS_DB", "0")),
		},
		Workers:    cast.ToInt(getEnv("WORKERS", "4")),
		QueueSize:  cast.ToInt(getEnv("QUEUE_SIZE", "100")),
		ReportCron: os.Getenv("REPORT_CRON"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("PORT must be a positive integer")
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("WORKERS must be a positive integer")
	}
	if cfg.QueueSize < 0 {
		return nil, fmt.Errorf("QUEUE_SIZE must not be negative")
	}

	switch cfg.Storage.Driver {
	case DriverSQLite:
		if cfg.Storage.Path == "" {
			return nil, fmt.Errorf("DB_PATH is required for sqlite storage")
		}
	case DriverPostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required for postgres storage")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// WebhookEndpoint returns the public URL Telegram should deliver updates to
func (c *Config) WebhookEndpoint() string {
	if c.WebhookURL == "" {
		return ""
	}
	return c.WebhookURL + "/webhook/" + c.BotToken
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
