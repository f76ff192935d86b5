package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

const defaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"
const anthropicVersion = "2023-06-01"

// anthropicClient talks to the Messages API over raw net/http, deliberately
// avoiding the vendored SDK so the retry core and request shape stay under
// direct control (see internal/llm's package doc).
type anthropicClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewAnthropicClient creates a Client for the Anthropic Messages API.
func NewAnthropicClient(cfg Config) Client {
	return &anthropicClient{cfg: cfg, httpClient: &http.Client{}}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequestBody struct {
	Model     string             `json:"model"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	maxAttempts := c.cfg.RetryCount + 1
	return withRetry(ctx, maxAttempts, func(ctx context.Context) (string, bool, error) {
		return withTimeout(ctx, c.cfg.Timeout, func(ctx context.Context) (string, int, error) {
			return c.attempt(ctx, req)
		})
	})
}

func (c *anthropicClient) attempt(ctx context.Context, req Request) (string, int, error) {
	body := anthropicRequestBody{
		Model:  req.Model,
		System: req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserPrompt},
		},
		MaxTokens: req.MaxTokens,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", 0, err
	}

	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultAnthropicEndpoint
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode, errHTTPStatus(resp.StatusCode)
	}

	blocks := gjson.GetBytes(respBody, "content")
	if !blocks.IsArray() {
		return "", resp.StatusCode, fmt.Errorf("llm: anthropic response missing content array")
	}
	for _, block := range blocks.Array() {
		if block.Get("type").String() == "text" {
			return block.Get("text").String(), resp.StatusCode, nil
		}
	}
	return "", resp.StatusCode, fmt.Errorf("llm: anthropic response has no text content block")
}
