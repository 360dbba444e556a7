package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Config selects the provider that answers /ask.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	// Empty means discover one from vendor API key variables.
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	// Model is a vendor model ID or a short alias like claude-haiku.
	// Empty uses the vendor default.
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`

	// MaxTokens caps an answer when the request does not set a limit.
	MaxTokens int           `yaml:"max_tokens"`
	Retry     RetryConfig   `yaml:"retry"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig keeps a spoken answer within a few seconds.
func DefaultConfig() Config {
	return Config{
		MaxTokens: DefaultMaxTokens,
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2,
		},
		Timeout: 20 * time.Second,
	}
}

type vendor struct {
	keyEnv  string
	model   string
	baseURL string
	aliases map[string]string
}

var vendors = map[string]vendor{
	"gemini": {
		keyEnv: "GEMINI_API_KEY",
		model:  "gemini-2.0-flash",
		aliases: map[string]string{
			"gemini-flash": "gemini-2.0-flash",
			"gemini-pro":   "gemini-2.0-pro",
		},
	},
	"openai": {
		keyEnv: "OPENAI_API_KEY",
		model:  "gpt-4o-mini",
	},
	"anthropic": {
		keyEnv: "ANTHROPIC_API_KEY",
		model:  "claude-haiku-4-5-20251001",
		aliases: map[string]string{
			"claude-haiku":  "claude-haiku-4-5-20251001",
			"claude-sonnet": "claude-sonnet-4-20250514",
		},
	},
	"openrouter": {
		keyEnv:  "OPENROUTER_API_KEY",
		model:   "google/gemini-2.0-flash-001",
		baseURL: "https://openrouter.ai/api/v1",
	},
}

// discoveryOrder is the order vendor keys are tried in by Resolve.
var discoveryOrder = []string{"gemini", "openai", "anthropic", "openrouter"}

// ApplyEnv overlays AQUACHECK_LLM_* variables.
func (c *Config) ApplyEnv() {
	for env, dst := range map[string]*string{
		"AQUACHECK_LLM_PROVIDER": &c.Provider,
		"AQUACHECK_LLM_API_KEY":  &c.APIKey,
		"AQUACHECK_LLM_MODEL":    &c.Model,
		"AQUACHECK_LLM_BASE_URL": &c.BaseURL,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// Validate checks that a provider is named and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	if _, ok := vendors[c.Provider]; !ok {
		return fmt.Errorf("unknown LLM provider %q (want one of %s)", c.Provider, strings.Join(providerNames(), ", "))
	}
	if c.APIKey == "" {
		return fmt.Errorf("llm.api_key or AQUACHECK_LLM_API_KEY is required for %s", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	return nil
}

// model resolves aliases and fills the vendor default.
func (c Config) model() string {
	v := vendors[c.Provider]
	if c.Model == "" {
		return v.model
	}
	if id, ok := v.aliases[c.Model]; ok {
		return id
	}
	return c.Model
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return vendors[c.Provider].baseURL
}

// Resolve completes cfg. A named provider without a key borrows the
// vendor's standard key variable. With no provider, the first vendor
// key found in discoveryOrder wins and cfg's model settings are reset.
// ErrNotConfigured means no key was found anywhere.
func Resolve(cfg Config) (Config, error) {
	if cfg.Provider != "" {
		if cfg.APIKey == "" {
			if v, ok := vendors[cfg.Provider]; ok {
				cfg.APIKey = os.Getenv(v.keyEnv)
			}
		}
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	for _, name := range discoveryOrder {
		if key := os.Getenv(vendors[name].keyEnv); key != "" {
			cfg.Provider = name
			cfg.APIKey = key
			cfg.Model = ""
			cfg.BaseURL = ""
			return cfg, nil
		}
	}
	return Config{}, ErrNotConfigured
}

func providerNames() []string {
	names := []string{"mock"}
	for name := range vendors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
