// Package orchestrator bootstraps a story session: it acquires the
// credential, builds the provider adapter, resolves the model, gathers the
// story details and seeds the conversation the generation loop will own.
package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Yates-Labs/fable/internal/adapter"
	"github.com/Yates-Labs/fable/internal/config"
	"github.com/Yates-Labs/fable/internal/engine"
	"github.com/Yates-Labs/fable/internal/narrative"
	"github.com/Yates-Labs/fable/internal/resolve"
	"github.com/Yates-Labs/fable/internal/story"
)

// Input reads player answers during bootstrap.
type Input interface {
	ReadLine(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
}

// Output receives bootstrap progress.
type Output interface {
	Status(msg string)
	Warn(msg string)
}

// Dependencies are the collaborators a session is bootstrapped with.
type Dependencies struct {
	Input  Input
	Output Output
	Picker resolve.Picker

	// NewAdapter builds the provider adapter (nil = adapter.New)
	NewAdapter func(adapter.Config) (adapter.Adapter, error)

	Logger *log.Logger
}

// Session is everything the generation loop needs for one run.
type Session struct {
	Provider     adapter.Provider
	Resolution   resolve.Resolution
	Generator    *narrative.Generator
	Conversation *story.Conversation
}

// Bootstrap prepares a session. It fails with config.ErrCredentialMissing
// when no API key is available; model resolution problems only degrade to the
// fallback model.
func Bootstrap(ctx context.Context, cfg *config.Config, deps Dependencies) (*Session, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	newAdapter := deps.NewAdapter
	if newAdapter == nil {
		newAdapter = adapter.New
	}

	// Step 1: credential
	if err := config.ResolveCredential(cfg, deps.Input); err != nil {
		return nil, err
	}

	// Step 2: provider
	provider, err := newAdapter(cfg.AdapterConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Provider, err)
	}
	deps.Output.Status(fmt.Sprintf("%s client initialized successfully.", config.DefaultsFor(cfg.Provider).DisplayName))
	logger.Debug("provider ready", "provider", provider.GetProvider(), "base_url", cfg.BaseURL)

	// Step 3: model
	resolver := resolve.NewResolver(provider, deps.Picker, deps.Output, resolve.Options{
		Markers:       cfg.ModelMarkers,
		DefaultModel:  cfg.DefaultModel,
		FallbackModel: cfg.FallbackModel,
	})
	resolution := resolver.Resolve(ctx)
	if resolution.Degraded {
		logger.Warn("model resolution degraded", "model", resolution.Model, "reason", resolution.Reason)
	} else {
		logger.Debug("model selected", "model", resolution.Model, "candidates", len(resolution.Candidates))
	}

	// Step 4: story details
	params, err := GatherStoryParams(deps.Input, deps.Output)
	if err != nil {
		return nil, err
	}

	conv := story.Seed(narrative.AssembleSystemPrompt(cfg.SystemPrompt, params))
	logger.Debug("conversation seeded", "genre", params.Genre, "custom_prompt", cfg.SystemPrompt != "")

	return &Session{
		Provider:     provider.GetProvider(),
		Resolution:   resolution,
		Generator:    narrative.NewGenerator(provider, resolution.Model),
		Conversation: conv,
	}, nil
}

// GatherStoryParams asks the player for genre, setting and situation.
func GatherStoryParams(in Input, out Output) (narrative.StoryParams, error) {
	out.Status("\nLet's start a story!")

	var params narrative.StoryParams
	questions := []struct {
		prompt string
		dst    *string
	}{
		{"Genre (e.g., fantasy, sci-fi): ", &params.Genre},
		{"Setting (e.g., a dark forest, a spaceship): ", &params.Setting},
		{"Starting situation: ", &params.Situation},
	}

	for _, q := range questions {
		answer, err := in.ReadLine(q.prompt)
		if err != nil {
			return narrative.StoryParams{}, fmt.Errorf("failed to read story details: %w", err)
		}
		*q.dst = answer
	}

	return params, nil
}

// NewLoop hands the session's conversation to a generation loop.
func (s *Session) NewLoop(in engine.LineReader, out engine.Output, logger *log.Logger) *engine.Loop {
	return engine.NewLoop(s.Generator, s.Conversation, in, out, logger)
}
