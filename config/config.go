package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Catalog API (paid, quota-limited)
	CatalogAPIURL string
	CatalogAPIKey string

	// Free seed source
	SeedAPIURL string

	// Completion endpoint
	CompletionAPIURL string
	CompletionAPIKey string
	CompletionModel  string

	// Comma-separated list of origins allowed to call the API
	AllowedOrigins []string

	// Logging
	LogLevel string
}

// LoadConfig creates a new Config instance with values from environment
// variables or secret files.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getSecret("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "forkful"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		CatalogAPIURL: getEnv("CATALOG_API_URL", "https://api.spoonacular.com"),
		CatalogAPIKey: getSecret("CATALOG_API_KEY"),

		SeedAPIURL: getEnv("SEED_API_URL", "https://www.themealdb.com/api/json/v1/1"),

		CompletionAPIURL: getEnv("COMPLETION_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		CompletionAPIKey: getSecret("COMPLETION_API_KEY"),
		CompletionModel:  getEnv("COMPLETION_MODEL", "deepseek-chat"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getEnv reads an environment variable with a fallback default.
func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// getSecret reads a value from the environment, falling back to the file
// named by <NAME>_FILE so Docker secrets can be mounted directly.
func getSecret(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if path := os.Getenv(name + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}
