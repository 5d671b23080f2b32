package config

import (
	"fmt"
	"os"
	"strconv"

	"moodjournal/internal/logger"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           int           `json:"port"`
	DatabasePath   string        `json:"database_path"`
	BaseURL        string        `json:"base_url"`
	Environment    string        `json:"environment"`
	TopTagsLimit   int           `json:"top_tags_limit"`
	SeedCatalog    bool          `json:"seed_catalog"`
	MetricsEnabled bool          `json:"metrics_enabled"`
	HighlightStyle string        `json:"highlight_style"`
	Logging        logger.Config `json:"logging"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		DatabasePath:   getEnv("DATABASE_PATH", "moodjournal.db"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		TopTagsLimit:   getEnvAsInt("TOP_TAGS_LIMIT", 10),
		SeedCatalog:    getEnvAsBool("SEED_CATALOG", true),
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		HighlightStyle: getEnv("HIGHLIGHT_STYLE", "github"),
		Logging: logger.Config{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

// Validate checks values that would break the server at runtime
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TopTagsLimit <= 0 {
		return fmt.Errorf("top tags limit must be positive, got %d", c.TopTagsLimit)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
