package reflectpause

import (
	"context"
	"errors"
	"testing"
)

func TestRateLimiter_BurstThenEmpty(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Fatalf("acquire %d failed within burst", i)
		}
	}
	if limiter.TryAcquire() {
		t.Error("acquire succeeded with empty bucket")
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})
	if limiter.Available() < 59 {
		t.Errorf("default bucket should start near 60 tokens, got %f", limiter.Available())
	}
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	if !limiter.TryAcquire() {
		t.Fatal("initial acquire failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait = %v, want context.Canceled", err)
	}
}

func TestRateLimitedEngine_SurfacesQuotaOnCancel(t *testing.T) {
	limiter := &stubEngine{kind: EnginePerspective, score: 0.4}
	wrapped := NewRateLimitedEngine(limiter, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})

	// First call consumes the only token.
	if _, err := wrapped.Score(context.Background(), "text"); err != nil {
		t.Fatalf("Score: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wrapped.Score(ctx, "text")
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("err = %T, want *EngineError", err)
	}
	if engErr.Kind != ErrQuotaExceeded {
		t.Errorf("Kind = %q, want quota_exceeded", engErr.Kind)
	}
	if wrapped.Kind() != EnginePerspective {
		t.Errorf("Kind = %q, want perspective", wrapped.Kind())
	}
}
