package narrative

import (
	"context"
	"fmt"

	"github.com/Yates-Labs/fable/internal/story"
)

// MockReply is one scripted outcome of a MockLLM call.
type MockReply struct {
	Text string
	Err  error
}

// MockLLM is a deterministic LLM implementation for testing.
type MockLLM struct {
	// Script is consumed one entry per call. Once exhausted, Response and
	// Error apply.
	Script []MockReply

	// Response is the fixed text returned by Complete.
	// If empty, a default response is generated from the transcript.
	Response string

	// Error, if set, is returned by Complete instead of a response.
	Error error

	// Requests records every request passed to Complete.
	Requests []Request
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// NewScriptedMockLLM creates a mock LLM that replays replies in order.
func NewScriptedMockLLM(replies ...MockReply) *MockLLM {
	return &MockLLM{Script: replies}
}

// Complete returns the next scripted reply, the configured response, or a
// deterministic one.
func (m *MockLLM) Complete(ctx context.Context, req Request) (string, error) {
	req.Messages = append([]story.Message(nil), req.Messages...)
	m.Requests = append(m.Requests, req)

	if len(m.Script) > 0 {
		reply := m.Script[0]
		m.Script = m.Script[1:]
		return reply.Text, reply.Err
	}

	if m.Error != nil {
		return "", m.Error
	}

	if m.Response != "" {
		return m.Response, nil
	}

	return generateMockResponse(req.Messages), nil
}

// LastRequest returns the most recent request, if any.
func (m *MockLLM) LastRequest() (Request, bool) {
	if len(m.Requests) == 0 {
		return Request{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}

// generateMockResponse creates a predictable passage from the transcript.
func generateMockResponse(messages []story.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == story.RoleUser {
			return fmt.Sprintf("You %s. The story moves on (turn %d).", messages[i].Content, len(messages))
		}
	}
	return fmt.Sprintf("The story begins (%d messages of context).", len(messages))
}
