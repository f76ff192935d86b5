package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	text, err := withRetry(context.Background(), 3, func(ctx context.Context) (string, bool, error) {
		calls++
		return "ok", false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := withRetry(context.Background(), 3, func(ctx context.Context) (string, bool, error) {
		calls++
		return "", false, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RetriesUpToMaxAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	start := time.Now()
	_, err := withRetry(context.Background(), 2, func(ctx context.Context) (string, bool, error) {
		calls++
		return "", true, boom
	})
	elapsed := time.Since(start)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	// backoff(1) = 2^0s + jitter in [0,500ms) ~= at least 1s
	assert.GreaterOrEqual(t, elapsed, time.Second)
}

func TestWithRetry_CancelledContextStopsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := withRetry(ctx, 3, func(ctx context.Context) (string, bool, error) {
		calls++
		return "", true, errors.New("boom")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestRetryableStatus(t *testing.T) {
	for _, s := range []int{429, 500, 502, 503, 504} {
		assert.True(t, retryableStatus(s), "status %d should be retryable", s)
	}
	for _, s := range []int{200, 400, 401, 403, 404} {
		assert.False(t, retryableStatus(s), "status %d should not be retryable", s)
	}
}

func TestWithTimeout_ExpiresIntoSyntheticTimeout(t *testing.T) {
	_, retryable, err := withTimeout(context.Background(), 20*time.Millisecond, func(ctx context.Context) (string, int, error) {
		select {
		case <-time.After(200 * time.Millisecond):
			return "too slow", 200, nil
		case <-ctx.Done():
			return "", 0, ctx.Err()
		}
	})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, retryable)
}
