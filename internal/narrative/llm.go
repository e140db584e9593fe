// Package narrative provides LLM-powered story generation. It defines a
// provider-agnostic LLM interface that receives the whole transcript, the fixed
// sampling parameters used for every turn, a deterministic mock for testing,
// and the system prompt that seeds a story.
package narrative

import (
	"context"
	"errors"

	"github.com/Yates-Labs/fable/internal/story"
)

var (
	ErrInvalidConfig = errors.New("invalid LLM configuration")

	// Failure kinds reported by LLM implementations. Providers wrap their
	// transport errors with one of these so callers can tell them apart.
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrAPI         = errors.New("API error")
	ErrUnexpected  = errors.New("unexpected error")
)

// LLM defines the interface for interacting with chat-style language models.
// Implementations must be stateless.
type LLM interface {
	// Complete sends the transcript to the model and returns the reply text.
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single non-streamed chat completion call.
type Request struct {
	// Model is the provider's model identifier
	Model string

	// Messages is the full transcript, system message first
	Messages []story.Message

	// Params are the sampling parameters for this call
	Params SamplingParams
}

// SamplingParams controls how the model samples its reply. Story turns never
// use stop sequences.
type SamplingParams struct {
	// Temperature controls randomness (0.0 = deterministic, 2.0 = very random)
	Temperature float64

	// MaxTokens limits the reply length
	MaxTokens int

	// TopP is the nucleus sampling mass
	TopP float64

	// Stream requests a streamed reply. Story turns are never streamed.
	Stream bool
}

// StorySampling returns the sampling parameters used for every story turn.
func StorySampling() SamplingParams {
	return SamplingParams{
		Temperature: 0.7,
		MaxTokens:   250,
		TopP:        1,
	}
}
