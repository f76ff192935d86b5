package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquire_SucceedsThenFailsWhenExhausted(t *testing.T) {
	l := New(1, 1)

	p, ok := l.TryAcquire("openai")
	require.True(t, ok)
	require.NotNil(t, p)

	// concurrency slot is now held; a second TryAcquire must fail on the
	// semaphore regardless of token state.
	_, ok2 := l.TryAcquire("openai")
	assert.False(t, ok2)

	p.Release()
}

func TestTryAcquire_TokenExhaustionReleasesSlot(t *testing.T) {
	l := New(2, 1)

	p1, ok1 := l.TryAcquire("openai")
	require.True(t, ok1)
	p1.Release()

	// single-token bucket: the first Allow() above succeeded, this second
	// one should fail and release the slot it took.
	_, ok2 := l.TryAcquire("openai")
	assert.False(t, ok2)

	// both slots are free again, so the failed call gave its slot back.
	assert.True(t, l.sem.TryAcquire(2))
}

func TestAcquire_CancelledContextReturnsError(t *testing.T) {
	l := New(1, 1)

	// exhaust the bucket
	p, ok := l.TryAcquire("anthropic")
	require.True(t, ok)
	p.Release()
	_, _ = l.TryAcquire("anthropic")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := l.Acquire(ctx, "anthropic")
	assert.Error(t, err)
}

func TestEstimatedWait_ZeroWhenTokensAvailable(t *testing.T) {
	l := New(1, 60)
	assert.Equal(t, time.Duration(0), l.EstimatedWait("openai"))
}

func TestAvailableTokens_SeparatePerProvider(t *testing.T) {
	l := New(5, 1)
	p, ok := l.TryAcquire("openai")
	require.True(t, ok)
	p.Release()

	assert.Less(t, l.AvailableTokens("openai"), 1.0)
	assert.GreaterOrEqual(t, l.AvailableTokens("anthropic"), 0.0)
}
