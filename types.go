package reflectpause

import "time"

// EngineKind identifies a toxicity scoring backend.
type EngineKind string

const (
	// EngineHeuristic is the on-device keyword classifier. It never
	// touches the network.
	EngineHeuristic EngineKind = "heuristic"
	// EnginePerspective is a remote Perspective-style scoring service.
	EnginePerspective EngineKind = "perspective"
	// EngineModeration is the OpenAI moderation endpoint.
	EngineModeration EngineKind = "moderation"
	// EngineNone marks an unconfigured engine slot.
	EngineNone EngineKind = ""
)

// DegradedPolicy controls the decision returned when every configured
// engine is unavailable.
type DegradedPolicy string

const (
	// PolicyConservative treats unscorable text as needing reflection.
	// A spurious prompt is cheaper than a missed one.
	PolicyConservative DegradedPolicy = "conservative"
	// PolicyPermissive lets unscorable text through without a prompt.
	PolicyPermissive DegradedPolicy = "permissive"
)

// DefaultLocale is the code every unresolvable locale input degrades to.
const DefaultLocale = "en"

// DefaultThreshold is the toxicity score at or above which text is
// considered toxic.
const DefaultThreshold = 0.7

// EngineConfig configures engine selection and failover for a Pauser.
type EngineConfig struct {
	Primary  EngineKind     // Engine attempted first
	Fallback EngineKind     // Engine attempted when primary fails (EngineNone = none)
	Timeout  time.Duration  // Per-attempt budget (default: 2s)
	Cooldown time.Duration  // How long a failed engine is benched (default: 60s)
	Policy   DegradedPolicy // Decision when no engine is reachable (default: conservative)

	// Threshold is the score at or above which text counts as toxic.
	// Zero means DefaultThreshold.
	Threshold float64

	// AlwaysPrompt forces Check to return true without scoring.
	AlwaysPrompt bool
}

func (c *EngineConfig) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Second
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 60 * time.Second
	}
	if c.Policy == "" {
		c.Policy = PolicyConservative
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
}

// ToxicityResult is the outcome of a single scoring attempt.
type ToxicityResult struct {
	IsToxic    bool          // Score >= configured threshold
	Score      float64       // Toxicity score in [0, 1]
	EngineUsed EngineKind    // Engine that produced the score
	Elapsed    time.Duration // Wall-clock time of the attempt
	Cached     bool          // Score came from the score cache
}

// PromptData is a fully resolved, localized reflective prompt.
type PromptData struct {
	Title            string `json:"title"`
	Question         string `json:"question"`
	ReflectionPrompt string `json:"reflection_prompt"`
	ContinueText     string `json:"continue_text"`
	CancelText       string `json:"cancel_text"`
	Locale           string `json:"locale"`
}

// LocaleInfo describes how a locale input resolves against the catalog.
type LocaleInfo struct {
	Locale               string `json:"locale"`          // Input as given
	ResolvedLocale       string `json:"resolved_locale"` // Catalog code the input resolves to
	Available            bool   `json:"available"`       // False when input fell back to the default
	Title                string `json:"title,omitempty"`
	QuestionCount        int    `json:"question_count,omitempty"`
	CurrentQuestionIndex int    `json:"current_question_index"`
}
