package reflectpause

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ZaguanLabs/reflectpause/locale"
)

// Pauser is the main entry point: it decides whether text needs a
// reflective pause and produces localized prompt content. Safe for
// concurrent use from multiple host threads.
type Pauser struct {
	cfg           EngineConfig
	engines       map[EngineKind]ToxicityEngine
	orch          *Orchestrator
	catalog       *locale.Catalog
	rotation      *rotationState
	defaultLocale string
	cache         ScoreCache
	rec           Recorder
	log           *zap.Logger
	stripMarkup   bool
	clock         func() time.Time
}

// PauserOption is a functional option for configuring the Pauser.
type PauserOption func(*Pauser)

// WithEngine registers a scoring engine under its own kind.
func WithEngine(e ToxicityEngine) PauserOption {
	return func(p *Pauser) {
		p.engines[e.Kind()] = e
	}
}

// WithEngineAs registers a scoring engine under an explicit kind,
// useful when wrapping an engine changes nothing about its identity.
func WithEngineAs(kind EngineKind, e ToxicityEngine) PauserOption {
	return func(p *Pauser) {
		p.engines[kind] = e
	}
}

// WithCache installs a toxicity score cache.
func WithCache(c ScoreCache) PauserOption {
	return func(p *Pauser) {
		p.cache = c
	}
}

// WithRecorder installs a metrics recorder.
func WithRecorder(r Recorder) PauserOption {
	return func(p *Pauser) {
		p.rec = r
	}
}

// WithLogger installs a logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) PauserOption {
	return func(p *Pauser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithDefaultLocale overrides the code unresolvable locales degrade to.
func WithDefaultLocale(code string) PauserOption {
	return func(p *Pauser) {
		if locale.IsSupported(code) {
			p.defaultLocale = code
		}
	}
}

// WithMarkupStripping makes Check and auto-detection strip HTML markup
// from payloads before scoring. Browser-extension hosts want this on;
// plain-text messaging hosts do not need it.
func WithMarkupStripping() PauserOption {
	return func(p *Pauser) {
		p.stripMarkup = true
	}
}

// withClock overrides the time source for tests.
func withClock(now func() time.Time) PauserOption {
	return func(p *Pauser) {
		p.clock = now
	}
}

// NewPauser creates a Pauser with the given engine configuration. At
// least the configured primary engine must be registered via
// WithEngine; otherwise a ConfigurationError is returned.
func NewPauser(cfg EngineConfig, opts ...PauserOption) (*Pauser, error) {
	p := &Pauser{
		cfg:           cfg,
		engines:       make(map[EngineKind]ToxicityEngine),
		catalog:       locale.NewCatalog(),
		rotation:      newRotationState(),
		defaultLocale: DefaultLocale,
		log:           zap.NewNop(),
		clock:         time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	orch, err := NewOrchestrator(p.cfg, p.engines)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		orch.SetCache(p.cache)
	}
	if p.rec != nil {
		orch.SetRecorder(p.rec)
	}
	orch.SetLogger(p.log)
	orch.setClock(p.clock)
	p.orch = orch

	return p, nil
}

// Check decides whether text needs a reflective pause. Engine failures
// never surface here; they resolve through fallback and the degraded
// policy.
func (p *Pauser) Check(ctx context.Context, text string) (bool, error) {
	return p.orch.Check(ctx, p.payload(text))
}

// CheckResult is Check plus score, engine, and latency detail.
func (p *Pauser) CheckResult(ctx context.Context, text string) (ToxicityResult, error) {
	return p.orch.CheckResult(ctx, p.payload(text))
}

// GeneratePrompt returns the next localized prompt for the given
// locale input, advancing that locale's question rotation. Empty input
// means the default locale. An unsupported locale degrades silently to
// the default; a locale whose definition fails to load falls back to
// the default with the failure logged.
func (p *Pauser) GeneratePrompt(localeInput string) (PromptData, error) {
	code := p.resolve(localeInput)

	rec, err := p.catalog.Get(code)
	if err != nil {
		if code == p.defaultLocale {
			return PromptData{}, err
		}
		p.log.Warn("locale failed to load, falling back to default",
			zap.String("locale", code), zap.Error(err))
		code = p.defaultLocale
		if rec, err = p.catalog.Get(code); err != nil {
			return PromptData{}, err
		}
	}

	idx := p.rotation.next(code, len(rec.Questions))
	return PromptData{
		Title:            rec.Title,
		Question:         rec.Questions[idx],
		ReflectionPrompt: rec.ReflectionPrompt,
		ContinueText:     rec.ContinueText,
		CancelText:       rec.CancelText,
		Locale:           code,
	}, nil
}

// GeneratePromptAutoDetect generates a prompt in the language of the
// given text. A supported preferredLocale overrides detection;
// anything else defers to the detected language.
func (p *Pauser) GeneratePromptAutoDetect(text, preferredLocale string) (PromptData, error) {
	if preferredLocale != "" && SupportsLocale(preferredLocale) {
		return p.GeneratePrompt(preferredLocale)
	}
	return p.GeneratePrompt(DetectLanguage(p.payload(text)))
}

// LocaleInfo reports how a locale input resolves and, when available,
// the loaded title, question count, and current rotation index.
func (p *Pauser) LocaleInfo(input string) (LocaleInfo, error) {
	info := LocaleInfo{
		Locale:         input,
		ResolvedLocale: p.resolve(input),
		Available:      SupportsLocale(input),
	}
	if !info.Available {
		return info, nil
	}

	rec, err := p.catalog.Get(info.ResolvedLocale)
	if err != nil {
		return LocaleInfo{}, err
	}
	info.Title = rec.Title
	info.QuestionCount = len(rec.Questions)
	info.CurrentQuestionIndex = p.rotation.current(info.ResolvedLocale)
	return info, nil
}

// AvailableLocales returns the sorted catalog codes.
func (p *Pauser) AvailableLocales() []string {
	return p.catalog.ListAvailable()
}

// ResetRotation rewinds the question rotation for one locale input, or
// for every locale when input is empty.
func (p *Pauser) ResetRotation(localeInput string) {
	if localeInput == "" {
		p.rotation.reset("")
		return
	}
	p.rotation.reset(p.resolve(localeInput))
}

// EngineStatus reports the health of one engine slot.
func (p *Pauser) EngineStatus(kind EngineKind) EngineStatus {
	return p.orch.Status(kind)
}

// DefaultLocale returns the code unresolvable input degrades to.
func (p *Pauser) DefaultLocale() string {
	return p.defaultLocale
}

func (p *Pauser) payload(text string) string {
	if p.stripMarkup {
		return ExtractText(text)
	}
	return text
}

// resolve is NormalizeLocale with the Pauser's own default.
func (p *Pauser) resolve(input string) string {
	if input == "" {
		return p.defaultLocale
	}
	code := NormalizeLocale(input)
	if code == DefaultLocale && !SupportsLocale(input) {
		return p.defaultLocale
	}
	return code
}
