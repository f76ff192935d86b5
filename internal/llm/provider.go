package llm

import (
	"context"
	"fmt"
	"time"
)

// httpStatusError wraps a non-2xx HTTP status so the retry core can inspect
// it without parsing error strings.
type httpStatusError struct {
	status int
}

func errHTTPStatus(status int) error {
	return &httpStatusError{status: status}
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("llm: provider returned HTTP %d", e.status)
}

// Status returns the wrapped HTTP status code.
func (e *httpStatusError) Status() int { return e.status }

// Request is the provider-agnostic input to a completion call.
type Request struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Config controls retry/timeout behavior shared by every provider.
type Config struct {
	// RetryCount is the number of retries after the first attempt;
	// max_attempts = RetryCount + 1.
	RetryCount int
	// Timeout bounds a single attempt; zero disables the timeout.
	Timeout  time.Duration
	APIKey   string
	Endpoint string // overrides the provider default when non-empty
}

// Client is implemented by each provider adapter.
type Client interface {
	// Complete sends one request, applying the shared retry core, and
	// returns the model's raw text response.
	Complete(ctx context.Context, req Request) (string, error)
}
