package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ZaguanLabs/reflectpause"
)

func TestHeuristicEngine_Score(t *testing.T) {
	eng := NewHeuristicEngine()

	tests := []struct {
		name string
		text string
		min  float64
		max  float64
	}{
		{"clean text", "thanks for the review, merging now", 0, 0},
		{"single low severity word", "that test can fail sometimes", 0.05, 0.1},
		{"medium severity", "this is a stupid bug", 0.15, 0.25},
		{"stacked high severity", "I hate you, just die already", 0.6, 1},
		{"score is capped", "hate hate hate kill kill murder die threat", 1, 1},
		{"case insensitive", "What An IDIOT", 0.15, 0.35},
		{"empty input", "", 0, 0},
		{"punctuation only", "!?!? ... ---", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := eng.Score(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if score < tt.min || score > tt.max {
				t.Errorf("Score(%q) = %v, want in [%v, %v]", tt.text, score, tt.min, tt.max)
			}
		})
	}
}

func TestHeuristicEngine_IntensityBoosts(t *testing.T) {
	eng := NewHeuristicEngine()
	ctx := context.Background()

	base, err := eng.Score(ctx, "you are so stupid")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	shouted, err := eng.Score(ctx, "YOU ARE SO STUPID")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if shouted <= base {
		t.Errorf("all-caps score %v should exceed base %v", shouted, base)
	}

	exclaimed, err := eng.Score(ctx, "you are so stupid!!")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if exclaimed <= base {
		t.Errorf("repeated-exclamation score %v should exceed base %v", exclaimed, base)
	}

	// Intensity alone never flags clean text.
	clean, err := eng.Score(ctx, "GREAT WORK EVERYONE!!")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if clean != 0 {
		t.Errorf("clean shouted text scored %v, want 0", clean)
	}
}

func TestHeuristicEngine_EmptyLexicon(t *testing.T) {
	eng := NewHeuristicEngineWithLexicon(nil)

	_, err := eng.Score(context.Background(), "anything")
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Score error = %v, want *EngineError", err)
	}
	if engErr.Kind != reflectpause.ErrModelNotLoaded {
		t.Errorf("Kind = %q, want %q", engErr.Kind, reflectpause.ErrModelNotLoaded)
	}
}

func TestHeuristicEngine_CustomLexicon(t *testing.T) {
	eng := NewHeuristicEngineWithLexicon(map[string]float64{"gadzooks": 0.9})

	score, err := eng.Score(context.Background(), "gadzooks, what a day")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score < 0.9 {
		t.Errorf("Score = %v, want >= 0.9", score)
	}
}

func TestHeuristicEngine_Cancellation(t *testing.T) {
	eng := NewHeuristicEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	long := strings.Repeat("word ", 5000)
	_, err := eng.Score(ctx, long)
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Score error = %v, want *EngineError", err)
	}
	if engErr.Kind != reflectpause.ErrInferenceTimeout {
		t.Errorf("Kind = %q, want %q", engErr.Kind, reflectpause.ErrInferenceTimeout)
	}
}

func TestHeuristicEngine_Kind(t *testing.T) {
	if got := NewHeuristicEngine().Kind(); got != reflectpause.EngineHeuristic {
		t.Errorf("Kind = %q, want %q", got, reflectpause.EngineHeuristic)
	}
}
