package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects and configures one provider.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries. The learner is
	// waiting on the feedback screen, so keep it short.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2,
		},
		Timeout: 20 * time.Second,
	}
}

// providerEnv describes how one provider is configured from the
// environment. Key is the SYNTAXIZ_-prefixed variable; StdKey is the
// vendor's conventional variable used for discovery.
type providerEnv struct {
	Name   string
	Prefix string
	StdKey string
	fields func(*Config) (key, model, baseURL *string)
}

// Discovery order when SYNTAXIZ_LLM_PROVIDER is unset.
var providerEnvs = []providerEnv{
	{"gemini", "SYNTAXIZ_GEMINI_", "GEMINI_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.Gemini.APIKey, &c.Gemini.Model, nil
	}},
	{"openai", "SYNTAXIZ_OPENAI_", "OPENAI_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.OpenAI.APIKey, &c.OpenAI.Model, &c.OpenAI.BaseURL
	}},
	{"anthropic", "SYNTAXIZ_ANTHROPIC_", "ANTHROPIC_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.Anthropic.APIKey, &c.Anthropic.Model, nil
	}},
	{"openrouter", "SYNTAXIZ_OPENROUTER_", "OPENROUTER_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.OpenRouter.APIKey, &c.OpenRouter.Model, &c.OpenRouter.BaseURL
	}},
}

func lookupProviderEnv(name string) (providerEnv, bool) {
	for _, pe := range providerEnvs {
		if pe.Name == name {
			return pe, true
		}
	}
	return providerEnv{}, false
}

func setFromEnv(dst *string, key string) {
	if dst == nil {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ConfigFromEnv reads SYNTAXIZ_LLM_* and the SYNTAXIZ_<PROVIDER>_* family
// over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "SYNTAXIZ_LLM_PROVIDER")

	for _, pe := range providerEnvs {
		key, model, baseURL := pe.fields(&cfg)
		setFromEnv(key, pe.Prefix+"API_KEY")
		setFromEnv(model, pe.Prefix+"MODEL")
		setFromEnv(baseURL, pe.Prefix+"BASE_URL")
	}

	if secs, err := strconv.Atoi(os.Getenv("SYNTAXIZ_LLM_TIMEOUT_SEC")); err == nil && secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	if n, err := strconv.Atoi(os.Getenv("SYNTAXIZ_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	return cfg
}

// ResolveConfig picks the configuration for this run. An explicit
// SYNTAXIZ_LLM_PROVIDER wins; otherwise the vendors' own key variables
// are probed. ok is false when nothing is configured and explanations
// stay rule-based.
func ResolveConfig() (cfg Config, ok bool) {
	if os.Getenv("SYNTAXIZ_LLM_PROVIDER") != "" {
		return ConfigFromEnv(), true
	}
	return DiscoverConfig()
}

// DiscoverConfig returns a config for the first provider whose standard
// key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, pe := range providerEnvs {
		k := os.Getenv(pe.StdKey)
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = pe.Name
		key, _, _ := pe.fields(&cfg)
		*key = k
		return cfg, true
	}
	return Config{}, false
}

// Validate checks that the selected provider has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	pe, ok := lookupProviderEnv(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key, _, _ := pe.fields(&c); *key == "" {
		return fmt.Errorf("%sAPI_KEY is required for the %s provider", pe.Prefix, pe.Name)
	}
	return nil
}
