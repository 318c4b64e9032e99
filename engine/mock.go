package engine

import (
	"context"
	"sync"

	"github.com/ZaguanLabs/reflectpause"
)

// MockEngine is a scripted engine for testing orchestration. It is
// safe for concurrent use.
type MockEngine struct {
	KindValue  reflectpause.EngineKind            // Kind to report (default: heuristic)
	ScoreValue float64                            // Score to return
	Err        error                              // Error to return instead of a score
	ScoreFn    func(text string) (float64, error) // Overrides ScoreValue/Err when set

	mu        sync.Mutex
	callCount int
	lastText  string
}

// Score returns the scripted result.
func (m *MockEngine) Score(ctx context.Context, text string) (float64, error) {
	m.mu.Lock()
	m.callCount++
	m.lastText = text
	fn := m.ScoreFn
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if fn != nil {
		return fn(text)
	}
	if m.Err != nil {
		return 0, m.Err
	}
	return m.ScoreValue, nil
}

// Kind reports the scripted engine kind.
func (m *MockEngine) Kind() reflectpause.EngineKind {
	if m.KindValue == reflectpause.EngineNone {
		return reflectpause.EngineHeuristic
	}
	return m.KindValue
}

// CallCount returns the number of Score calls so far.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastText returns the text from the most recent Score call.
func (m *MockEngine) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}

// Reset clears the call count and last text.
func (m *MockEngine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastText = ""
}

var _ ToxicityEngine = (*MockEngine)(nil)
