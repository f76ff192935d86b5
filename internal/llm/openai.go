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

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// openAIClient talks to the Chat Completions API over raw net/http so the
// retry core (C8's backoff formula) drives every attempt directly.
type openAIClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewOpenAIClient creates a Client for the OpenAI Chat Completions API.
func NewOpenAIClient(cfg Config) Client {
	return &openAIClient{cfg: cfg, httpClient: &http.Client{}}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequestBody struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	maxAttempts := c.cfg.RetryCount + 1
	return withRetry(ctx, maxAttempts, func(ctx context.Context) (string, bool, error) {
		return withTimeout(ctx, c.cfg.Timeout, func(ctx context.Context) (string, int, error) {
			return c.attempt(ctx, req)
		})
	})
}

func (c *openAIClient) attempt(ctx context.Context, req Request) (string, int, error) {
	body := openAIRequestBody{
		Model: req.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", 0, err
	}

	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

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

	content := gjson.GetBytes(respBody, "choices.0.message.content")
	if !content.Exists() {
		return "", resp.StatusCode, fmt.Errorf("llm: openai response missing choices[0].message.content")
	}
	return content.String(), resp.StatusCode, nil
}
