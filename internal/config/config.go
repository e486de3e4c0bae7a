// Package config provides environment-driven configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/resume-parser/internal/llm"
)

// ServerConfig holds everything the HTTP server needs at startup.
type ServerConfig struct {
	Port        int
	DatabaseURL string
	StorageRoot string
	LLM         *llm.Config
	APIKey      string
}

// NewServerConfig assembles server configuration from the environment.
// DATABASE_URL is required; the provider credential is not checked here.
// Its absence surfaces as a fatal configuration error at parse time, so a
// deployment without a key can still serve uploads and status reads.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	port := 8080
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid PORT: %q", v)
		}
		port = p
	}

	storageRoot := os.Getenv("STORAGE_ROOT")
	if storageRoot == "" {
		storageRoot = "uploads"
	}

	llmCfg := llm.ConfigFromEnv()

	return &ServerConfig{
		Port:        port,
		DatabaseURL: databaseURL,
		StorageRoot: storageRoot,
		LLM:         llmCfg,
		APIKey:      APIKeyForProvider(llmCfg.Provider),
	}, nil
}

// APIKeyForProvider resolves the completion-service credential from the
// process environment at invocation time.
func APIKeyForProvider(p llm.Provider) string {
	switch p {
	case llm.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}
