package reflectpause

import (
	"context"
	"sync"
	"time"
)

// RateLimiter controls the rate of remote scoring requests using a
// token bucket algorithm.
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60 // Default: 60 RPM
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens:     burst, // Start with full bucket
		maxTokens:  burst,
		refillRate: rpm / 60.0,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.TryAcquire() {
			return nil
		}

		r.mu.Lock()
		waitTime := time.Duration(float64(time.Second) / r.refillRate)
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
			// Try again
		}
	}
}

// TryAcquire attempts to acquire a token without blocking.
// Returns true if a token was acquired, false otherwise.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()

	if r.tokens >= 1 {
		r.tokens--
		return true
	}

	return false
}

// refill adds tokens based on elapsed time (must be called with lock held).
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.lastRefill = now

	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedEngine wraps a remote ToxicityEngine with client-side
// rate limiting, keeping well behind the scoring service's quota so
// QuotaExceeded cooldowns stay rare.
type RateLimitedEngine struct {
	engine  ToxicityEngine
	limiter *RateLimiter
}

// NewRateLimitedEngine creates a rate-limited engine wrapper.
func NewRateLimitedEngine(engine ToxicityEngine, cfg RateLimitConfig) *RateLimitedEngine {
	return &RateLimitedEngine{
		engine:  engine,
		limiter: NewRateLimiter(cfg),
	}
}

// Score implements ToxicityEngine with rate limiting. A full bucket
// surfaces as QuotaExceeded rather than blocking past the attempt's
// timeout.
func (e *RateLimitedEngine) Score(ctx context.Context, text string) (float64, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return 0, &EngineError{
			Kind:    ErrQuotaExceeded,
			Engine:  e.engine.Kind(),
			Message: "local rate limit wait cancelled",
			Cause:   err,
		}
	}

	return e.engine.Score(ctx, text)
}

// Kind reports the wrapped engine's kind.
func (e *RateLimitedEngine) Kind() EngineKind {
	return e.engine.Kind()
}

// Limiter returns the underlying rate limiter for inspection.
func (e *RateLimitedEngine) Limiter() *RateLimiter {
	return e.limiter
}

var _ ToxicityEngine = (*RateLimitedEngine)(nil)
