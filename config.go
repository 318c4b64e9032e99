package reflectpause

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the file-level configuration surface. Hosts that prefer
// code configure EngineConfig directly; hosts that prefer deployment
// config load this from JSON and environment overrides.
type Config struct {
	DefaultLocale string       `json:"default_locale"`
	Engine        ConfigEngine `json:"engine"`
	Cache         ConfigCache  `json:"cache"`
}

// ConfigEngine mirrors EngineConfig in file-friendly units.
type ConfigEngine struct {
	Primary        string  `json:"primary"`
	Fallback       string  `json:"fallback"`
	TimeoutMs      int     `json:"timeout_ms"`
	CooldownMs     int     `json:"cooldown_ms"`
	DegradedPolicy string  `json:"degraded_policy"`
	Threshold      float64 `json:"threshold"`
	AlwaysPrompt   bool    `json:"always_prompt"`
}

// ConfigCache configures the optional score cache.
type ConfigCache struct {
	Enabled    bool   `json:"enabled"`
	MaxSize    int    `json:"max_size"`
	TTLSeconds int    `json:"ttl_seconds"`
	RedisURL   string `json:"redis_url"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultLocale: DefaultLocale,
		Engine: ConfigEngine{
			Primary:        string(EngineHeuristic),
			TimeoutMs:      2000,
			CooldownMs:     60000,
			DegradedPolicy: string(PolicyConservative),
			Threshold:      DefaultThreshold,
		},
		Cache: ConfigCache{
			Enabled:    true,
			MaxSize:    1000,
			TTLSeconds: 3600,
		},
	}
}

// LoadConfig reads configuration from a JSON file, then applies
// REFLECTPAUSE_* environment overrides. A missing file is not an
// error; defaults are used.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - host-specified config path
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REFLECTPAUSE_DEFAULT_LOCALE"); v != "" {
		c.DefaultLocale = v
	}
	if v := os.Getenv("REFLECTPAUSE_ENGINE_PRIMARY"); v != "" {
		c.Engine.Primary = v
	}
	if v := os.Getenv("REFLECTPAUSE_ENGINE_FALLBACK"); v != "" {
		c.Engine.Fallback = v
	}
	if v := os.Getenv("REFLECTPAUSE_ENGINE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.TimeoutMs = n
		}
	}
	if v := os.Getenv("REFLECTPAUSE_ENGINE_COOLDOWN_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.CooldownMs = n
		}
	}
	if v := os.Getenv("REFLECTPAUSE_ENGINE_DEGRADED_POLICY"); v != "" {
		c.Engine.DegradedPolicy = v
	}
	if v := os.Getenv("REFLECTPAUSE_ENGINE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Engine.Threshold = f
		}
	}
}

// Validate checks the configuration surface and normalizes zero values
// so the degraded-policy choice is always explicit.
func (c *Config) Validate() error {
	if c.Engine.Primary == "" {
		return &ConfigurationError{Message: "engine.primary is required"}
	}
	switch DegradedPolicy(c.Engine.DegradedPolicy) {
	case PolicyConservative, PolicyPermissive:
	case "":
		c.Engine.DegradedPolicy = string(PolicyConservative)
	default:
		return &ConfigurationError{
			Message: fmt.Sprintf("engine.degraded_policy must be %q or %q, got %q",
				PolicyConservative, PolicyPermissive, c.Engine.DegradedPolicy),
		}
	}
	if c.Engine.Threshold < 0 || c.Engine.Threshold > 1 {
		return &ConfigurationError{
			Message: fmt.Sprintf("engine.threshold must be in [0, 1], got %g", c.Engine.Threshold),
		}
	}
	return nil
}

// EngineConfig converts the file configuration into the runtime form.
func (c *Config) EngineConfig() EngineConfig {
	return EngineConfig{
		Primary:      EngineKind(c.Engine.Primary),
		Fallback:     EngineKind(c.Engine.Fallback),
		Timeout:      time.Duration(c.Engine.TimeoutMs) * time.Millisecond,
		Cooldown:     time.Duration(c.Engine.CooldownMs) * time.Millisecond,
		Policy:       DegradedPolicy(c.Engine.DegradedPolicy),
		Threshold:    c.Engine.Threshold,
		AlwaysPrompt: c.Engine.AlwaysPrompt,
	}
}
