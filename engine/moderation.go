package engine

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/reflectpause"
)

// ModerationEngine is a remote scoring variant backed by the OpenAI
// moderation endpoint. It maps the harassment/hate/violence category
// scores onto the single toxicity axis.
type ModerationEngine struct {
	client *openai.Client
	model  string
}

// ModerationConfig holds configuration for the moderation engine.
type ModerationConfig struct {
	APIKey  string // API key (uses OPENAI_API_KEY env var if empty)
	Model   string // Moderation model (default: text-moderation-stable)
	BaseURL string // Custom base URL (optional)
}

// NewModerationEngine creates a new moderation-backed engine.
func NewModerationEngine(cfg ModerationConfig) *ModerationEngine {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.ModerationTextStable
	}

	return &ModerationEngine{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Kind identifies the backend variant.
func (e *ModerationEngine) Kind() reflectpause.EngineKind {
	return reflectpause.EngineModeration
}

// Score returns the maximum of the toxicity-adjacent category scores.
func (e *ModerationEngine) Score(ctx context.Context, text string) (float64, error) {
	resp, err := e.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: e.model,
	})
	if err != nil {
		return 0, e.classify(err)
	}

	if len(resp.Results) == 0 {
		return 0, &EngineError{
			Kind:      reflectpause.ErrUnreachable,
			Engine:    e.Kind(),
			Message:   "empty moderation response",
			Retryable: true,
		}
	}

	s := resp.Results[0].CategoryScores
	score := maxScore(
		float64(s.Hate),
		float64(s.HateThreatening),
		float64(s.Harassment),
		float64(s.HarassmentThreatening),
		float64(s.Violence),
		float64(s.ViolenceGraphic),
	)
	if score > 1 {
		score = 1
	}
	return score, nil
}

func (e *ModerationEngine) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &EngineError{
			Kind:      reflectpause.ErrTimeout,
			Engine:    e.Kind(),
			Message:   "moderation request timed out",
			Cause:     err,
			Retryable: true,
		}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &EngineError{
			Kind:    reflectpause.ErrQuotaExceeded,
			Engine:  e.Kind(),
			Message: "moderation quota exhausted",
			Cause:   err,
		}
	}

	return &EngineError{
		Kind:    reflectpause.ErrUnreachable,
		Engine:  e.Kind(),
		Message: "moderation call failed",
		Cause:   err,
	}
}

func maxScore(scores ...float64) float64 {
	max := 0.0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	return max
}

var _ ToxicityEngine = (*ModerationEngine)(nil)
