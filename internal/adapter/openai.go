package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/Yates-Labs/fable/internal/narrative"
	"github.com/Yates-Labs/fable/internal/story"
)

// OpenAIAdapter implements Adapter for OpenAI-compatible chat endpoints
// (Groq, OpenRouter).
type OpenAIAdapter struct {
	client   openai.Client
	provider Provider
}

// NewOpenAIAdapter creates an adapter for an OpenAI-compatible provider.
// Returns an error if the API key is missing.
func NewOpenAIAdapter(cfg Config) (*OpenAIAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key for %s", narrative.ErrInvalidConfig, cfg.Provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL(cfg.Provider)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: missing base URL for %s", narrative.ErrInvalidConfig, cfg.Provider)
	}

	// Failures are reported to the player, who decides whether to retry.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIAdapter{
		client:   openai.NewClient(opts...),
		provider: cfg.Provider,
	}, nil
}

// GetProvider returns the provider this adapter talks to.
func (a *OpenAIAdapter) GetProvider() Provider {
	return a.provider
}

// ListModels returns the model identifiers served by the provider.
func (a *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	page, err := a.client.Models.List(ctx)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Complete sends the transcript as a non-streamed chat completion.
func (a *OpenAIAdapter) Complete(ctx context.Context, req narrative.Request) (string, error) {
	if req.Params.Stream {
		return "", fmt.Errorf("%w: streamed completions are not supported", narrative.ErrInvalidConfig)
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(req.Model),
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: openai.Float(req.Params.Temperature),
		TopP:        openai.Float(req.Params.TopP),
	}
	if req.Params.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.Params.MaxTokens))
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", narrative.ErrUnexpected)
	}

	return completion.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []story.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case story.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case story.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classifyOpenAIError wraps err with the matching narrative failure kind.
func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", narrative.ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %w", narrative.ErrAPI, err)
	}
	return fmt.Errorf("%w: %w", narrative.ErrUnexpected, err)
}
