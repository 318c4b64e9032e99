package reflectpause

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr.Retryable
	}

	return false
}

// RetryableEngine wraps a ToxicityEngine with retry logic. Retries
// happen inside a single orchestrator attempt, so they share that
// attempt's timeout budget.
type RetryableEngine struct {
	engine ToxicityEngine
	config RetryConfig
}

// NewRetryableEngine creates an engine wrapper with retry logic.
func NewRetryableEngine(engine ToxicityEngine, cfg RetryConfig) *RetryableEngine {
	return &RetryableEngine{
		engine: engine,
		config: cfg,
	}
}

// Score implements ToxicityEngine with retry logic.
func (e *RetryableEngine) Score(ctx context.Context, text string) (float64, error) {
	return WithRetry(ctx, e.config, func() (float64, error) {
		return e.engine.Score(ctx, text)
	})
}

// Kind reports the wrapped engine's kind.
func (e *RetryableEngine) Kind() EngineKind {
	return e.engine.Kind()
}

var _ ToxicityEngine = (*RetryableEngine)(nil)
