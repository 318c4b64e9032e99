package reflectpause

import "fmt"

// EngineErrorKind classifies engine failures. The kind decides whether
// the orchestrator benches the engine and whether a retry makes sense.
type EngineErrorKind string

const (
	// ErrModelNotLoaded means the on-device classifier has no model.
	ErrModelNotLoaded EngineErrorKind = "model_not_loaded"
	// ErrInferenceTimeout means on-device scoring overran its budget.
	ErrInferenceTimeout EngineErrorKind = "inference_timeout"
	// ErrQuotaExceeded means the remote service rate-limited us.
	ErrQuotaExceeded EngineErrorKind = "quota_exceeded"
	// ErrUnreachable means the remote service could not be contacted.
	ErrUnreachable EngineErrorKind = "unreachable"
	// ErrTimeout means the remote call exceeded the configured timeout.
	ErrTimeout EngineErrorKind = "timeout"
)

// EngineError is a scoring failure from a toxicity engine.
type EngineError struct {
	Kind      EngineErrorKind
	Engine    EngineKind
	Message   string
	Cause     error
	Retryable bool // Whether an immediate retry can succeed
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine %s: %s (%s): %v", e.Engine, e.Message, e.Kind, e.Cause)
	}
	return fmt.Sprintf("engine %s: %s (%s)", e.Engine, e.Message, e.Kind)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// TripsCooldown reports whether this failure should bench the engine.
// Quota and reachability failures do; a single timeout does not, since
// congested networks produce them routinely.
func (e *EngineError) TripsCooldown() bool {
	switch e.Kind {
	case ErrQuotaExceeded, ErrUnreachable, ErrModelNotLoaded:
		return true
	}
	return false
}

// ConfigurationError means the Pauser was constructed without a usable
// engine setup. It is the only engine-path error a caller ever sees.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}
