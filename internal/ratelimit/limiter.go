// Package ratelimit implements the two-level admission control in front of
// LLM calls (C7): a global concurrency semaphore and a per-provider token
// bucket. Built on golang.org/x/sync/semaphore and golang.org/x/time/rate,
// the same ecosystem libraries used for concurrency gating and request
// pacing elsewhere in the example corpus.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultMaxConcurrent is the default global concurrency cap.
const DefaultMaxConcurrent = 5

// DefaultRequestsPerMinute is the default per-provider token bucket capacity.
const DefaultRequestsPerMinute = 60

const pollInterval = 100 * time.Millisecond

// Permit represents one acquired concurrency slot and token. Release must be
// called exactly once to return the slot.
type Permit struct {
	sem *semaphore.Weighted
}

// Release returns the concurrency slot held by this permit.
func (p *Permit) Release() {
	p.sem.Release(1)
}

// bucket is a per-provider token bucket; the global semaphore lives on
// Limiter.
type bucket struct {
	limiter *rate.Limiter
}

// Limiter is the two-level admission controller: one global semaphore
// shared by every provider, and one token bucket per provider name.
type Limiter struct {
	sem       *semaphore.Weighted
	perMinute int
	mu        sync.Mutex
	buckets   map[string]*bucket
}

// New creates a Limiter with the given global concurrency cap and
// per-provider requests-per-minute capacity.
func New(maxConcurrent int, requestsPerMinute int) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &Limiter{
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
		perMinute: requestsPerMinute,
		buckets:   make(map[string]*bucket),
	}
}

func (l *Limiter) bucketFor(provider string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[provider]
	if !ok {
		perSecond := rate.Limit(float64(l.perMinute) / 60.0)
		b = &bucket{limiter: rate.NewLimiter(perSecond, l.perMinute)}
		l.buckets[provider] = b
	}
	return b
}

// Acquire takes one global concurrency slot, then polls the provider's
// token bucket every 100ms (cooperatively cancellable via ctx) until a
// token is available, deducting it on success. Returns the permit whose
// Release returns the concurrency slot.
func (l *Limiter) Acquire(ctx context.Context, provider string) (*Permit, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	b := l.bucketFor(provider)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if b.limiter.Allow() {
			return &Permit{sem: l.sem}, nil
		}
		select {
		case <-ctx.Done():
			l.sem.Release(1)
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// TryAcquire is the non-blocking variant: it requires both a free
// concurrency slot and an immediately available token. On a token miss it
// releases the slot it took and returns ok=false.
func (l *Limiter) TryAcquire(provider string) (*Permit, bool) {
	if !l.sem.TryAcquire(1) {
		return nil, false
	}
	b := l.bucketFor(provider)
	if !b.limiter.Allow() {
		l.sem.Release(1)
		return nil, false
	}
	return &Permit{sem: l.sem}, true
}

// AvailableTokens reports the provider's current token count.
func (l *Limiter) AvailableTokens(provider string) float64 {
	return l.bucketFor(provider).limiter.Tokens()
}

// EstimatedWait estimates how long a caller would wait for one token to
// become available: max(0, (1 - tokens) * 60s / capacity).
func (l *Limiter) EstimatedWait(provider string) time.Duration {
	b := l.bucketFor(provider)
	tokens := b.limiter.Tokens()
	if tokens >= 1 {
		return 0
	}
	capacity := float64(l.perMinute)
	if capacity <= 0 {
		return 0
	}
	seconds := (1 - tokens) * 60 / capacity
	if seconds < 0 {
		seconds = 0
	}
	return time.Duration(seconds * float64(time.Second))
}
