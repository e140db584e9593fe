// Package config loads fable's settings from defaults, an optional TOML file
// and the environment, and acquires the provider credential.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Yates-Labs/fable/internal/adapter"
)

var (
	ErrCredentialMissing = errors.New("API key is required")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Config holds the settings for one run. It is built once at start-up and
// passed explicitly to whatever needs it.
type Config struct {
	Provider      adapter.Provider `toml:"provider"`
	BaseURL       string           `toml:"base_url"`
	DefaultModel  string           `toml:"default_model"`
	FallbackModel string           `toml:"fallback_model"`
	ModelMarkers  []string         `toml:"model_markers"`

	// SystemPrompt, when set, replaces the built-in storyteller instructions
	SystemPrompt string `toml:"system_prompt"`

	Markdown bool `toml:"markdown"`
	Debug    bool `toml:"debug"`

	// APIKey is never read from the config file
	APIKey string `toml:"-"`
}

// ProviderDefaults are the model settings used when none are configured.
type ProviderDefaults struct {
	KeyEnvVar     string
	DisplayName   string
	DefaultModel  string
	FallbackModel string
	ModelMarkers  []string
}

// DefaultsFor returns the built-in settings for a provider.
func DefaultsFor(p adapter.Provider) ProviderDefaults {
	switch p {
	case adapter.ProviderOpenRouter:
		return ProviderDefaults{
			KeyEnvVar:     "OPENROUTER_API_KEY",
			DisplayName:   "OpenRouter",
			DefaultModel:  "microsoft/wizardlm-2-8x22b:nitro",
			FallbackModel: "microsoft/wizardlm-2-8x22b:nitro",
			ModelMarkers:  []string{"chat", "instruct", "wizardlm"},
		}
	case adapter.ProviderAnthropic:
		return ProviderDefaults{
			KeyEnvVar:     "ANTHROPIC_API_KEY",
			DisplayName:   "Anthropic",
			DefaultModel:  "claude-3-5-sonnet-latest",
			FallbackModel: "claude-3-5-sonnet-latest",
			ModelMarkers:  []string{"claude"},
		}
	default:
		return ProviderDefaults{
			KeyEnvVar:     "GROQ_API_KEY",
			DisplayName:   "Groq",
			DefaultModel:  "llama3-8b-8192",
			FallbackModel: "llama3-8b-8192",
			ModelMarkers:  []string{"chat", "instruct", "llama", "mixtral"},
		}
	}
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	cfg := &Config{Provider: adapter.ProviderGroq}
	cfg.SetDefaults()
	return cfg
}

// Path returns the config file location: $FABLE_CONFIG, else
// <user config dir>/fable/config.toml. Empty if neither can be determined.
func Path() string {
	if p := os.Getenv("FABLE_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fable", "config.toml")
}

// Load reads the config file at Path, then applies environment overrides and
// defaults.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load with an explicit path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{Provider: adapter.ProviderGroq}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides copies FABLE_* and SYSTEM_PROMPT variables into cfg.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("FABLE_PROVIDER"); v != "" {
		c.Provider = adapter.Provider(v)
	}
	if v := os.Getenv("FABLE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("FABLE_DEFAULT_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("FABLE_FALLBACK_MODEL"); v != "" {
		c.FallbackModel = v
	}
	if v := os.Getenv("FABLE_MODEL_MARKERS"); v != "" {
		c.ModelMarkers = splitList(v)
	}
	if v := os.Getenv("SYSTEM_PROMPT"); v != "" {
		c.SystemPrompt = v
	}

	for name, dst := range map[string]*bool{
		"FABLE_MARKDOWN": &c.Markdown,
		"FABLE_DEBUG":    &c.Debug,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, name, v)
		}
		*dst = b
	}

	return nil
}

// SetDefaults fills empty model settings from the provider defaults.
func (c *Config) SetDefaults() {
	if c.Provider == "" {
		c.Provider = adapter.ProviderGroq
	}
	if p, err := adapter.ParseProvider(string(c.Provider)); err == nil {
		c.Provider = p
	}

	d := DefaultsFor(c.Provider)
	if c.DefaultModel == "" {
		c.DefaultModel = d.DefaultModel
	}
	if c.FallbackModel == "" {
		c.FallbackModel = d.FallbackModel
	}
	if c.ModelMarkers == nil {
		c.ModelMarkers = append([]string(nil), d.ModelMarkers...)
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if _, err := adapter.ParseProvider(string(c.Provider)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !hasNonEmpty(c.ModelMarkers) {
		return fmt.Errorf("%w: model_markers must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.FallbackModel) == "" {
		return fmt.Errorf("%w: fallback_model must not be empty", ErrInvalidConfig)
	}
	return nil
}

// AdapterConfig returns the settings the provider adapter needs.
func (c *Config) AdapterConfig() adapter.Config {
	return adapter.Config{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
	}
}

func hasNonEmpty(items []string) bool {
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
