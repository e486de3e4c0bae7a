package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenAIClient implements Client against an OpenAI-compatible chat/completions
// endpoint using bearer-credential authentication.
type OpenAIClient struct {
	cfg        *Config
	apiKey     string
	httpClient *http.Client
}

// NewOpenAIClient creates a client for the configured endpoint. The HTTP
// client timeout bounds the completion call, the slowest step of the pipeline.
func NewOpenAIClient(cfg *Config, apiKey string) *OpenAIClient {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &OpenAIClient{
		cfg:        cfg,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// chatResponse is the subset of the chat/completions response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateJSON sends the prompt as a single user turn and returns the raw
// generated text. The response_format hint biases the provider toward JSON
// output; the caller still treats the result as untrusted.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Err: fmt.Errorf("failed to read completion response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", &UnexpectedResponseError{Reason: "body is not valid JSON"}
	}
	if len(cc.Choices) == 0 {
		return "", &UnexpectedResponseError{Reason: "no choices in response"}
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		return "", &UnexpectedResponseError{Reason: "empty message content"}
	}
	return content, nil
}

// Close implements Client. The shared HTTP client holds no resources that
// need explicit release.
func (c *OpenAIClient) Close() error {
	return nil
}
