package engine

import (
	"context"
	"strings"
	"unicode"

	"github.com/ZaguanLabs/reflectpause"
)

// defaultLexicon is the built-in keyword-weight model. Weights are
// per-hit contributions to the raw score before squashing.
var defaultLexicon = map[string]float64{
	// High severity
	"hate":     0.35,
	"kill":     0.35,
	"die":      0.30,
	"threat":   0.30,
	"murder":   0.35,
	"violence": 0.30,
	// Medium severity
	"stupid":   0.18,
	"idiot":    0.18,
	"awful":    0.12,
	"terrible": 0.12,
	"worst":    0.12,
	"pathetic": 0.18,
	// Low severity
	"suck":     0.08,
	"fail":     0.06,
	"loser":    0.10,
	"annoying": 0.06,
	"dumb":     0.10,
}

// HeuristicEngine is the on-device classifier variant. It scores text
// against a preloaded keyword-weight lexicon with intensity boosts for
// shouting and repeated exclamation. It never touches the network.
type HeuristicEngine struct {
	lexicon map[string]float64
}

// NewHeuristicEngine creates a heuristic engine with the built-in
// lexicon.
func NewHeuristicEngine() *HeuristicEngine {
	return &HeuristicEngine{lexicon: defaultLexicon}
}

// NewHeuristicEngineWithLexicon creates a heuristic engine with a
// custom keyword-weight model. An empty lexicon produces a
// ModelNotLoaded failure on every Score call.
func NewHeuristicEngineWithLexicon(lexicon map[string]float64) *HeuristicEngine {
	return &HeuristicEngine{lexicon: lexicon}
}

// Kind identifies the backend variant.
func (e *HeuristicEngine) Kind() reflectpause.EngineKind {
	return reflectpause.EngineHeuristic
}

// Score returns a toxicity score in [0, 1].
func (e *HeuristicEngine) Score(ctx context.Context, text string) (float64, error) {
	if len(e.lexicon) == 0 {
		return 0, &EngineError{
			Kind:    reflectpause.ErrModelNotLoaded,
			Engine:  e.Kind(),
			Message: "no lexicon loaded",
		}
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	score := 0.0
	for i, w := range words {
		// Long inputs still honor cancellation.
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return 0, &EngineError{
					Kind:      reflectpause.ErrInferenceTimeout,
					Engine:    e.Kind(),
					Message:   "scoring cancelled",
					Cause:     ctx.Err(),
					Retryable: false,
				}
			default:
			}
		}
		score += e.lexicon[w]
	}
	if score == 0 {
		return 0, nil
	}

	score += intensityBoost(text)
	if score > 1 {
		score = 1
	}
	return score, nil
}

// intensityBoost adds a small amount for shouting and repeated
// exclamation, which sharpen otherwise borderline messages.
func intensityBoost(text string) float64 {
	boost := 0.0
	if strings.Count(text, "!") >= 2 {
		boost += 0.05
	}

	upper, letters := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters >= 8 && upper*2 > letters {
		boost += 0.10
	}
	return boost
}

var _ ToxicityEngine = (*HeuristicEngine)(nil)
