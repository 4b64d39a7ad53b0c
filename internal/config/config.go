// Package config loads backend configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// AI providers selectable via AI_PROVIDER.
const (
	ProviderDeepSeek = "deepseek"
	ProviderVolcano  = "volcano"
	ProviderOpenAI   = "openai"
)

// Config holds all configuration for the backend.
type Config struct {
	DataDir      string
	StoreBackend string
	APIPort      string

	AIProvider  string
	AIAPIKey    string
	AIBaseURL   string
	AIModel     string
	AITimeoutSec int
}

// Load reads configuration from environment variables, applying defaults for
// optional fields. A .env file in the working directory is loaded first if
// present; variables already set in the environment take precedence.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:      getEnv("DATA_DIR", "data"),
		StoreBackend: getEnv("STORE_BACKEND", BackendFile),
		APIPort:      getEnv("API_PORT", "8000"),
		AIProvider:   getEnv("AI_PROVIDER", ProviderDeepSeek),
		AITimeoutSec: getEnvInt("AI_TIMEOUT_SECONDS", 60),
	}

	switch cfg.AIProvider {
	case ProviderVolcano:
		cfg.AIAPIKey = firstEnv("ARK_API_KEY", "VOLCANO_API_KEY", "DOUBAO_API_KEY")
		cfg.AIBaseURL = getEnv("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")
		cfg.AIModel = getEnv("ARK_MODEL", "doubao-1-5-pro-32k-250115")
	case ProviderOpenAI:
		cfg.AIAPIKey = firstEnv("OPENAI_API_KEY", "OPENAI_KEY", "GPT_API_KEY")
		cfg.AIBaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
		cfg.AIModel = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	default:
		cfg.AIProvider = ProviderDeepSeek
		cfg.AIAPIKey = firstEnv("DEEPSEEK_API_KEY", "DEEPSEEK_KEY")
		cfg.AIBaseURL = getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com")
		cfg.AIModel = getEnv("DEEPSEEK_MODEL", "deepseek-chat")
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable or returns a default.
func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
