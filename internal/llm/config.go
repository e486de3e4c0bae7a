// Package llm provides the completion-service clients and prompt construction
// used to coerce resume text into structured JSON.
package llm

import (
	"os"
	"time"
)

// Provider identifies a completion-service backend.
type Provider string

// Supported providers.
const (
	// ProviderOpenAI talks to an OpenAI-compatible chat/completions endpoint.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini talks to Google Gemini through the official SDK.
	ProviderGemini Provider = "gemini"
)

// Config holds provider selection and generation parameters.
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string        // OpenAI-compatible endpoints only
	Temperature float32       // near zero for deterministic extraction
	Timeout     time.Duration // bound on a single completion call
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		BaseURL:     "https://api.openai.com/v1",
		Temperature: 0.1,
		Timeout:     45 * time.Second,
	}
}

// ConfigFromEnv builds a Config from LLM_PROVIDER, LLM_MODEL and LLM_BASE_URL,
// falling back to defaults for anything unset.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		cfg.Provider = Provider(p)
	}
	if cfg.Provider == ProviderGemini {
		cfg.Model = "gemini-2.5-flash"
	}
	if m := os.Getenv("LLM_MODEL"); m != "" {
		cfg.Model = m
	}
	if u := os.Getenv("LLM_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	return cfg
}
