package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_USER", "forkful")
	os.Setenv("DB_PASSWORD", "secret")
	os.Setenv("DB_NAME", "forkful_test")
	os.Setenv("CATALOG_API_KEY", "catalog-key")
	os.Setenv("COMPLETION_API_KEY", "completion-key")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	defer func() {
		for _, name := range []string{
			"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
			"CATALOG_API_KEY", "COMPLETION_API_KEY", "REDIS_URL", "REDIS_DB",
		} {
			os.Unsetenv(name)
		}
	}()

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "forkful", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "forkful_test", cfg.DBName)
	assert.Equal(t, "catalog-key", cfg.CatalogAPIKey)
	assert.Equal(t, "completion-key", cfg.CompletionAPIKey)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	for _, name := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"CATALOG_API_URL", "SEED_API_URL", "COMPLETION_API_URL", "REDIS_DB",
	} {
		os.Unsetenv(name)
	}

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "forkful", cfg.DBName)
	assert.Equal(t, "https://api.spoonacular.com", cfg.CatalogAPIURL)
	assert.Equal(t, "https://www.themealdb.com/api/json/v1/1", cfg.SeedAPIURL)
	assert.Equal(t, "deepseek-chat", cfg.CompletionModel)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestGetSecretFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog_api_key")
	require.NoError(t, os.WriteFile(path, []byte("file-key\n"), 0o600))

	os.Unsetenv("CATALOG_API_KEY")
	os.Setenv("CATALOG_API_KEY_FILE", path)
	defer os.Unsetenv("CATALOG_API_KEY_FILE")

	assert.Equal(t, "file-key", getSecret("CATALOG_API_KEY"))
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{
		ServerPort:       "8080",
		DBHost:           "localhost",
		DBName:           "forkful",
		CatalogAPIURL:    "https://api.spoonacular.com",
		SeedAPIURL:       "https://www.themealdb.com/api/json/v1/1",
		CompletionAPIURL: "https://api.deepseek.com/v1/chat/completions",
	}
	assert.NoError(t, ValidateConfig(cfg))

	cfg.ServerPort = "not-a-port"
	err := ValidateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}
