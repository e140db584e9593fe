package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Yates-Labs/fable/internal/story"
)

var (
	ErrGenerationFailed = errors.New("story generation failed")
)

// Generator produces story passages from a transcript using an LLM.
// The model and sampling parameters are fixed when the generator is built, so
// every call in a run uses the same settings.
type Generator struct {
	llm    LLM
	model  string
	params SamplingParams
}

// NewGenerator creates a story generator bound to one model.
func NewGenerator(llm LLM, model string) *Generator {
	return &Generator{
		llm:    llm,
		model:  model,
		params: StorySampling(),
	}
}

// Model returns the model identifier every call is sent to.
func (g *Generator) Model() string {
	return g.model
}

// Params returns the sampling parameters every call is sent with.
func (g *Generator) Params() SamplingParams {
	return g.params
}

// Generate replays the transcript to the LLM and returns the next passage.
// Every error wraps ErrGenerationFailed and one of ErrRateLimited, ErrAPI,
// ErrUnexpected or ErrInvalidConfig.
func (g *Generator) Generate(ctx context.Context, messages []story.Message) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: %w: LLM is required", ErrGenerationFailed, ErrInvalidConfig)
	}
	if g.model == "" {
		return "", fmt.Errorf("%w: %w: model is required", ErrGenerationFailed, ErrInvalidConfig)
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: %w: transcript is empty", ErrGenerationFailed, ErrInvalidConfig)
	}

	text, err := g.llm.Complete(ctx, Request{
		Model:    g.model,
		Messages: messages,
		Params:   g.params,
	})
	if err != nil {
		if Kind(err) == nil {
			err = fmt.Errorf("%w: %w", ErrUnexpected, err)
		}
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %w: no response generated", ErrGenerationFailed, ErrUnexpected)
	}

	return text, nil
}

// Kind returns the failure kind wrapped by err, or nil if err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrRateLimited, ErrAPI, ErrUnexpected, ErrInvalidConfig} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
