package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over completion-service providers.
type Client interface {
	// GenerateJSON sends a single-turn prompt and returns the generated text,
	// requesting a JSON-biased generation mode where the provider supports it.
	// A single attempt is made per invocation; retries belong to the caller.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Unconfigured returns a Client whose calls fail with ErrMissingAPIKey.
// It lets the service boot without a credential and surface the configuration
// failure at parse time instead of at startup.
func Unconfigured() Client {
	return unconfiguredClient{}
}

type unconfiguredClient struct{}

func (unconfiguredClient) GenerateJSON(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}

func (unconfiguredClient) Close() error { return nil }

// NewClient creates a completion client for the configured provider.
// The API key comes from process-wide configuration at invocation time;
// its absence is a configuration failure, not a retryable one.
func NewClient(ctx context.Context, cfg *Config, apiKey string) (Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, apiKey), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
