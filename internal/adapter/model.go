// Package adapter connects the story generator to hosted model providers.
// Each adapter implements narrative.LLM for chat completion and lists the
// model identifiers the provider offers.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Yates-Labs/fable/internal/narrative"
)

// Provider identifies a hosted model provider.
type Provider string

const (
	ProviderGroq       Provider = "groq"
	ProviderOpenRouter Provider = "openrouter"
	ProviderAnthropic  Provider = "anthropic"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
)

// Adapter defines the interface for a hosted model provider.
type Adapter interface {
	narrative.LLM

	// ListModels returns the identifiers of the models the provider serves
	ListModels(ctx context.Context) ([]string, error)

	// GetProvider returns the provider identifier
	GetProvider() Provider
}

// Config holds what an adapter needs to reach its provider.
type Config struct {
	Provider Provider

	// APIKey is the authentication key for the provider
	APIKey string

	// BaseURL overrides the provider's default endpoint
	BaseURL string

	// HTTPClient overrides the transport (nil = SDK default)
	HTTPClient *http.Client
}

// ParseProvider maps a configuration string onto a known provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGroq, ProviderOpenRouter, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

// DefaultBaseURL returns the endpoint used when no override is configured.
func DefaultBaseURL(p Provider) string {
	switch p {
	case ProviderGroq:
		return "https://api.groq.com/openai/v1/"
	case ProviderOpenRouter:
		return "https://openrouter.ai/api/v1/"
	default:
		return ""
	}
}

// New builds the adapter for cfg.Provider.
func New(cfg Config) (Adapter, error) {
	switch cfg.Provider {
	case ProviderGroq, ProviderOpenRouter:
		return NewOpenAIAdapter(cfg)
	case ProviderAnthropic:
		return NewAnthropicAdapter(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
