package reflectpause

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry_SucceedsAfterRetryableFailures(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	result, err := WithRetry(context.Background(), cfg, func() (float64, error) {
		attempts++
		if attempts < 3 {
			return 0, &EngineError{Kind: ErrTimeout, Retryable: true, Message: "slow"}
		}
		return 0.5, nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if result != 0.5 {
		t.Errorf("result = %v, want 0.5", result)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetry_StopsOnNonRetryable(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	_, err := WithRetry(context.Background(), cfg, func() (float64, error) {
		attempts++
		return 0, &EngineError{Kind: ErrQuotaExceeded, Retryable: false, Message: "quota"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 for non-retryable", attempts)
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(ctx, DefaultRetryConfig(), func() (float64, error) {
		return 0, &EngineError{Kind: ErrTimeout, Retryable: true}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable engine error", &EngineError{Kind: ErrTimeout, Retryable: true}, true},
		{"non-retryable engine error", &EngineError{Kind: ErrQuotaExceeded}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryableEngine(t *testing.T) {
	calls := 0
	wrapped := NewRetryableEngine(&funcEngine{kind: EnginePerspective, fn: func() (float64, error) {
		calls++
		if calls == 1 {
			return 0, &EngineError{Kind: ErrTimeout, Retryable: true}
		}
		return 0.3, nil
	}}, RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})

	score, err := wrapped.Score(context.Background(), "text")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0.3 {
		t.Errorf("score = %v, want 0.3", score)
	}
	if wrapped.Kind() != EnginePerspective {
		t.Errorf("Kind = %q, want perspective", wrapped.Kind())
	}
}

// funcEngine adapts a closure into a ToxicityEngine.
type funcEngine struct {
	kind EngineKind
	fn   func() (float64, error)
}

func (f *funcEngine) Score(ctx context.Context, text string) (float64, error) { return f.fn() }
func (f *funcEngine) Kind() EngineKind                                        { return f.kind }
