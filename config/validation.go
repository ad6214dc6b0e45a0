package config

import (
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "SERVER_PORT", Message: "must not be empty"}
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return ValidationError{Field: "SERVER_PORT", Message: "must be numeric"}
	}
	if cfg.DBHost == "" {
		return ValidationError{Field: "DB_HOST", Message: "must not be empty"}
	}
	if cfg.DBName == "" {
		return ValidationError{Field: "DB_NAME", Message: "must not be empty"}
	}
	if cfg.CatalogAPIURL == "" {
		return ValidationError{Field: "CATALOG_API_URL", Message: "must not be empty"}
	}
	if cfg.SeedAPIURL == "" {
		return ValidationError{Field: "SEED_API_URL", Message: "must not be empty"}
	}
	if cfg.CompletionAPIURL == "" {
		return ValidationError{Field: "COMPLETION_API_URL", Message: "must not be empty"}
	}
	return nil
}
