package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/reflectpause"
)

func moderationServer(t *testing.T, handler http.HandlerFunc) *ModerationEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewModerationEngine(ModerationConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
}

func TestModerationEngine_Score(t *testing.T) {
	eng := moderationServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "modr-1",
			"model": "text-moderation-stable",
			"results": [{
				"flagged": true,
				"category_scores": {
					"hate": 0.2,
					"hate/threatening": 0.05,
					"harassment": 0.91,
					"harassment/threatening": 0.1,
					"violence": 0.3,
					"violence/graphic": 0.01,
					"sexual": 0.99
				}
			}]
		}`)
	})

	score, err := eng.Score(context.Background(), "some hostile text")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// Highest toxicity-adjacent category wins; sexual is not one of them.
	if score < 0.9 || score > 0.92 {
		t.Errorf("score = %v, want ~0.91", score)
	}
}

func TestModerationEngine_EmptyResults(t *testing.T) {
	eng := moderationServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"modr-2","model":"text-moderation-stable","results":[]}`)
	})

	_, err := eng.Score(context.Background(), "x")
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("error = %v, want *EngineError", err)
	}
	if engErr.Kind != reflectpause.ErrUnreachable {
		t.Errorf("Kind = %q, want %q", engErr.Kind, reflectpause.ErrUnreachable)
	}
	if !engErr.Retryable {
		t.Error("empty response should be retryable")
	}
}

func TestModerationEngine_Classify(t *testing.T) {
	eng := NewModerationEngine(ModerationConfig{APIKey: "k"})

	tests := []struct {
		name     string
		err      error
		wantKind reflectpause.EngineErrorKind
	}{
		{
			"deadline exceeded",
			fmt.Errorf("wrapped: %w", context.DeadlineExceeded),
			reflectpause.ErrTimeout,
		},
		{
			"rate limited",
			&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests},
			reflectpause.ErrQuotaExceeded,
		},
		{
			"server error",
			&openai.APIError{HTTPStatusCode: http.StatusInternalServerError},
			reflectpause.ErrUnreachable,
		},
		{
			"plain transport error",
			errors.New("connection refused"),
			reflectpause.ErrUnreachable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var engErr *EngineError
			if !errors.As(eng.classify(tt.err), &engErr) {
				t.Fatal("classify did not return *EngineError")
			}
			if engErr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", engErr.Kind, tt.wantKind)
			}
			if engErr.Engine != reflectpause.EngineModeration {
				t.Errorf("Engine = %q", engErr.Engine)
			}
		})
	}
}

func TestModerationEngine_Unreachable(t *testing.T) {
	eng := NewModerationEngine(ModerationConfig{
		APIKey:  "k",
		BaseURL: "http://127.0.0.1:1",
	})

	_, err := eng.Score(context.Background(), "x")
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("error = %v, want *EngineError", err)
	}
	if engErr.Kind != reflectpause.ErrUnreachable {
		t.Errorf("Kind = %q, want %q", engErr.Kind, reflectpause.ErrUnreachable)
	}
}

func TestMaxScore(t *testing.T) {
	if got := maxScore(); got != 0 {
		t.Errorf("maxScore() = %v, want 0", got)
	}
	if got := maxScore(0.1, 0.7, 0.3); got != 0.7 {
		t.Errorf("maxScore = %v, want 0.7", got)
	}
}

func TestModerationEngine_Kind(t *testing.T) {
	eng := NewModerationEngine(ModerationConfig{})
	if got := eng.Kind(); got != reflectpause.EngineModeration {
		t.Errorf("Kind = %q, want %q", got, reflectpause.EngineModeration)
	}
}
