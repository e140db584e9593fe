package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Yates-Labs/fable/internal/narrative"
	"github.com/Yates-Labs/fable/internal/story"
)

// OpeningCue is sent as the first user turn when the transcript has none yet.
// The Messages API requires the conversation to start with a user message.
const OpeningCue = "Begin the story."

// anthropicCatalogue lists the models offered for selection. The SDK version
// in use has no model listing endpoint.
var anthropicCatalogue = []string{
	string(anthropic.ModelClaude3_5SonnetLatest),
	"claude-3-5-haiku-latest",
	"claude-3-opus-latest",
}

// AnthropicAdapter implements Adapter using Anthropic's Messages API.
type AnthropicAdapter struct {
	client *anthropic.Client
}

// NewAnthropicAdapter creates an Anthropic-backed adapter.
// Returns an error if the API key is missing.
func NewAnthropicAdapter(cfg Config) (*AnthropicAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key for %s", narrative.ErrInvalidConfig, ProviderAnthropic)
	}

	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(cfg.APIKey),
		anthropicoption.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(cfg.HTTPClient))
	}

	return &AnthropicAdapter{
		client: anthropic.NewClient(opts...),
	}, nil
}

// GetProvider returns ProviderAnthropic.
func (a *AnthropicAdapter) GetProvider() Provider {
	return ProviderAnthropic
}

// ListModels returns the fixed model catalogue.
func (a *AnthropicAdapter) ListModels(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string(nil), anthropicCatalogue...), nil
}

// Complete sends the transcript to the Messages API. The system message goes
// into the system field rather than the message list.
func (a *AnthropicAdapter) Complete(ctx context.Context, req narrative.Request) (string, error) {
	if req.Params.Stream {
		return "", fmt.Errorf("%w: streamed completions are not supported", narrative.ErrInvalidConfig)
	}

	system, messages := toAnthropicMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(req.Model)),
		MaxTokens:   anthropic.F(int64(req.Params.MaxTokens)),
		Temperature: anthropic.F(req.Params.Temperature),
		TopP:        anthropic.F(req.Params.TopP),
		Messages:    anthropic.F(messages),
	}
	if len(system) > 0 {
		params.System = anthropic.F(system)
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyAnthropicError(err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		b.WriteString(block.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty response from anthropic", narrative.ErrUnexpected)
	}

	return b.String(), nil
}

func toAnthropicMessages(transcript []story.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, m := range transcript {
		switch m.Role {
		case story.RoleSystem:
			system = append(system, anthropic.NewTextBlock(m.Content))
		case story.RoleAssistant:
			if len(messages) == 0 {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(OpeningCue)))
			}
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	if len(messages) == 0 {
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(OpeningCue)))
	}

	return system, messages
}

// classifyAnthropicError wraps err with the matching narrative failure kind.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", narrative.ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %w", narrative.ErrAPI, err)
	}
	return fmt.Errorf("%w: %w", narrative.ErrUnexpected, err)
}
