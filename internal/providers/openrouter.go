package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/crystaldolphin/archbot/internal/schema"
)

const (
	defaultModelTimeout = 30 * time.Second
	defaultMaxTokens    = 512
)

// OpenRouterClient posts a single prompt to a completion endpoint.
type OpenRouterClient struct {
	apiKey       string
	endpoint     string
	opts         schema.GenerateOptions
	extraHeaders map[string]string
	httpClient   *http.Client
}

// NewOpenRouterClient constructs a client from raw config values.
func NewOpenRouterClient(p Params) *OpenRouterClient {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenRouterClient{
		apiKey:       p.APIKey,
		endpoint:     p.Endpoint,
		opts:         schema.NewGenerateOptions(p.Model, maxTokens, p.Temperature),
		extraHeaders: p.ExtraHeaders,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Text    string `json:"text"`
		Message *struct {
			Content string `json:"content"`
		} `json:"message,omitempty"`
	} `json:"choices"`
}

// GenerateText implements schema.ModelClient.
func (c *OpenRouterClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	data, err := json.Marshal(completionRequest{
		Prompt:      prompt,
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.extraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ModelCallError{Status: resp.StatusCode, Body: string(raw)}
	}

	text, err := parseCompletion(raw)
	if err != nil {
		return "", err
	}
	slog.Debug("model call done", "model", c.opts.Model, "elapsed", time.Since(start), "chars", len(text))
	return text, nil
}

// HealthCheck sends a trivial prompt and reports whether it succeeded.
func (c *OpenRouterClient) HealthCheck(ctx context.Context) bool {
	_, err := c.GenerateText(ctx, "Hello")
	if err != nil {
		slog.Warn("model health check failed", "endpoint", c.endpoint, "err", err)
		return false
	}
	return true
}

// parseCompletion reads choices[0].text, falling back to
// choices[0].message.content for chat-style endpoints.
func parseCompletion(raw []byte) (string, error) {
	var body completionResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", errors.New("empty choices in response")
	}
	choice := body.Choices[0]
	if choice.Text == "" && choice.Message != nil {
		return choice.Message.Content, nil
	}
	return choice.Text, nil
}
