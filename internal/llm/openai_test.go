package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Complete_ParsesContent(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req openAIRequestBody
		_ = json.NewDecoder(r.Body).Decode(&req)
		data, _ := json.Marshal(req)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"fixed"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{APIKey: "test-key", Endpoint: srv.URL})
	text, err := client.Complete(context.Background(), Request{
		Model:        "gpt-4o",
		SystemPrompt: "sys",
		UserPrompt:   "user",
		MaxTokens:    100,
		Temperature:  0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Contains(t, gotBody, `"model":"gpt-4o"`)
}

func TestOpenAIClient_Complete_MissingContentIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{APIKey: "k", Endpoint: srv.URL})
	_, err := client.Complete(context.Background(), Request{Model: "gpt-4o"})
	assert.Error(t, err)
}

func TestOpenAIClient_Complete_RetriesOn500(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{APIKey: "k", Endpoint: srv.URL, RetryCount: 2})
	text, err := client.Complete(context.Background(), Request{Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, attempts)
}

func TestOpenAIClient_Complete_NonRetryableStatusFailsFast(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{APIKey: "bad-key", Endpoint: srv.URL, RetryCount: 3})
	_, err := client.Complete(context.Background(), Request{Model: "gpt-4o"})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
