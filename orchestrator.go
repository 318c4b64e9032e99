package reflectpause

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ToxicityEngine is the capability interface for scoring backends.
// Implementations must return a score in [0, 1], honor ctx
// cancellation, and report failures as *EngineError.
type ToxicityEngine interface {
	// Score analyzes text and returns a toxicity score in [0, 1].
	Score(ctx context.Context, text string) (float64, error)
	// Kind identifies the backend variant.
	Kind() EngineKind
}

// ScoreCache caches toxicity scores keyed by text hash and engine.
type ScoreCache interface {
	Get(key string) (float64, bool)
	Set(key string, score float64) error
}

// Recorder receives per-attempt observations. The metrics package
// provides a Prometheus-backed implementation.
type Recorder interface {
	RecordCheck(res ToxicityResult, err error)
	RecordCooldown(engine EngineKind)
}

// EngineStatus is the health of one engine slot.
type EngineStatus string

const (
	// StatusHealthy means the engine will be attempted on selection.
	StatusHealthy EngineStatus = "healthy"
	// StatusCoolingDown means the engine is benched until its cooldown
	// deadline passes. Expiry is checked lazily on the next selection.
	StatusCoolingDown EngineStatus = "cooling_down"
)

// timeoutStreakLimit is how many consecutive timeouts bench an engine.
// A single timeout is routine on a congested network.
const timeoutStreakLimit = 2

type engineHealth struct {
	cooldownUntil time.Time
	timeoutStreak int
}

// Orchestrator selects and sequences toxicity engines. It tries the
// configured primary first, fails over to the fallback, benches
// engines that report quota or reachability failures, and resolves
// via the degraded policy when nothing is reachable. Safe for
// concurrent use.
type Orchestrator struct {
	cfg     EngineConfig
	engines map[EngineKind]ToxicityEngine

	mu     sync.Mutex
	health map[EngineKind]*engineHealth

	cache ScoreCache
	rec   Recorder
	log   *zap.Logger
	now   func() time.Time
}

// NewOrchestrator builds an orchestrator over the given engines. At
// least the configured primary must be present; otherwise a
// ConfigurationError is returned.
func NewOrchestrator(cfg EngineConfig, engines map[EngineKind]ToxicityEngine) (*Orchestrator, error) {
	cfg.applyDefaults()

	if cfg.Primary == EngineNone {
		return nil, &ConfigurationError{Message: "no primary engine configured"}
	}
	if _, ok := engines[cfg.Primary]; !ok {
		return nil, &ConfigurationError{Message: "primary engine " + string(cfg.Primary) + " not registered"}
	}
	if cfg.Fallback != EngineNone {
		if _, ok := engines[cfg.Fallback]; !ok {
			return nil, &ConfigurationError{Message: "fallback engine " + string(cfg.Fallback) + " not registered"}
		}
	}

	return &Orchestrator{
		cfg:     cfg,
		engines: engines,
		health:  make(map[EngineKind]*engineHealth),
		log:     zap.NewNop(),
		now:     time.Now,
	}, nil
}

// SetCache installs an optional score cache.
func (o *Orchestrator) SetCache(c ScoreCache) { o.cache = c }

// SetRecorder installs an optional metrics recorder.
func (o *Orchestrator) SetRecorder(r Recorder) { o.rec = r }

// SetLogger installs a logger. The default is a no-op logger.
func (o *Orchestrator) SetLogger(l *zap.Logger) {
	if l != nil {
		o.log = l
	}
}

// setClock overrides the time source for tests.
func (o *Orchestrator) setClock(now func() time.Time) { o.now = now }

// Check decides whether text needs a reflective pause. Engine failures
// are absorbed internally; the returned error is non-nil only when the
// orchestrator was somehow constructed without engines.
func (o *Orchestrator) Check(ctx context.Context, text string) (bool, error) {
	res, err := o.CheckResult(ctx, text)
	return res.IsToxic, err
}

// CheckResult is Check plus the full scoring result for callers that
// want the score, engine, and latency.
func (o *Orchestrator) CheckResult(ctx context.Context, text string) (ToxicityResult, error) {
	if o.cfg.AlwaysPrompt {
		return ToxicityResult{IsToxic: true, EngineUsed: EngineNone}, nil
	}

	for _, kind := range o.selectionOrder() {
		if !o.isHealthy(kind) {
			o.log.Debug("engine cooling down, skipping", zap.String("engine", string(kind)))
			continue
		}

		res, err := o.attempt(ctx, kind, text)
		if o.rec != nil {
			o.rec.RecordCheck(res, err)
		}
		if err == nil {
			o.markSuccess(kind)
			o.log.Debug("toxicity check",
				zap.String("engine", string(res.EngineUsed)),
				zap.Float64("score", res.Score),
				zap.Bool("toxic", res.IsToxic),
				zap.Bool("cached", res.Cached),
				zap.Duration("elapsed", res.Elapsed))
			return res, nil
		}

		o.markFailure(kind, err)
		o.log.Error("engine attempt failed",
			zap.String("engine", string(kind)),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(err))
	}

	// Every engine failed or is benched: resolve via degraded policy.
	degraded := o.cfg.Policy == PolicyConservative
	o.log.Warn("all engines unavailable, applying degraded policy",
		zap.String("policy", string(o.cfg.Policy)),
		zap.Bool("needs_reflection", degraded))
	return ToxicityResult{IsToxic: degraded, EngineUsed: EngineNone}, nil
}

// Status returns the current health of an engine slot. Cooldown expiry
// is evaluated against the current clock, matching what the next
// selection would see.
func (o *Orchestrator) Status(kind EngineKind) EngineStatus {
	if o.isHealthy(kind) {
		return StatusHealthy
	}
	return StatusCoolingDown
}

func (o *Orchestrator) selectionOrder() []EngineKind {
	order := []EngineKind{o.cfg.Primary}
	if o.cfg.Fallback != EngineNone && o.cfg.Fallback != o.cfg.Primary {
		order = append(order, o.cfg.Fallback)
	}
	return order
}

func (o *Orchestrator) attempt(ctx context.Context, kind EngineKind, text string) (ToxicityResult, error) {
	eng := o.engines[kind]
	start := o.now()

	key := ScoreKey(HashText(text), kind)
	if o.cache != nil {
		if score, ok := o.cache.Get(key); ok {
			return ToxicityResult{
				IsToxic:    score >= o.cfg.Threshold,
				Score:      score,
				EngineUsed: kind,
				Elapsed:    o.now().Sub(start),
				Cached:     true,
			}, nil
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	score, err := eng.Score(attemptCtx, text)
	elapsed := o.now().Sub(start)

	if err != nil {
		return ToxicityResult{EngineUsed: kind, Elapsed: elapsed}, o.asEngineError(kind, err)
	}

	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	if o.cache != nil {
		// A failed cache write costs one redundant score later.
		_ = o.cache.Set(key, score)
	}

	return ToxicityResult{
		IsToxic:    score >= o.cfg.Threshold,
		Score:      score,
		EngineUsed: kind,
		Elapsed:    elapsed,
	}, nil
}

// asEngineError normalizes failures into *EngineError so health
// bookkeeping sees a consistent taxonomy even if an engine leaks a raw
// context error.
func (o *Orchestrator) asEngineError(kind EngineKind, err error) error {
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &EngineError{
			Kind:      ErrTimeout,
			Engine:    kind,
			Message:   "attempt exceeded timeout",
			Cause:     err,
			Retryable: true,
		}
	}
	return &EngineError{
		Kind:    ErrUnreachable,
		Engine:  kind,
		Message: "scoring failed",
		Cause:   err,
	}
}

func (o *Orchestrator) isHealthy(kind EngineKind) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	h, ok := o.health[kind]
	if !ok {
		return true
	}
	if h.cooldownUntil.IsZero() {
		return true
	}
	if o.now().Before(h.cooldownUntil) {
		return false
	}
	// Cooldown expired: recover lazily, no explicit message needed.
	h.cooldownUntil = time.Time{}
	h.timeoutStreak = 0
	return true
}

func (o *Orchestrator) markSuccess(kind EngineKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if h, ok := o.health[kind]; ok {
		h.timeoutStreak = 0
	}
}

func (o *Orchestrator) markFailure(kind EngineKind, err error) {
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	h, ok := o.health[kind]
	if !ok {
		h = &engineHealth{}
		o.health[kind] = h
	}

	bench := engErr.TripsCooldown()
	if engErr.Kind == ErrTimeout || engErr.Kind == ErrInferenceTimeout {
		h.timeoutStreak++
		bench = h.timeoutStreak >= timeoutStreakLimit
	}
	if !bench {
		return
	}

	h.cooldownUntil = o.now().Add(o.cfg.Cooldown)
	h.timeoutStreak = 0
	if o.rec != nil {
		o.rec.RecordCooldown(kind)
	}
	o.log.Warn("engine entering cooldown",
		zap.String("engine", string(kind)),
		zap.String("reason", string(engErr.Kind)),
		zap.Time("until", h.cooldownUntil))
}
