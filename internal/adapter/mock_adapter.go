package adapter

import (
	"context"

	"github.com/Yates-Labs/fable/internal/narrative"
)

// MockAdapter is a deterministic Adapter for testing. Completion is delegated
// to the embedded MockLLM.
type MockAdapter struct {
	*narrative.MockLLM

	// Models is returned by ListModels
	Models []string

	// ListErr, if set, is returned by ListModels instead of Models
	ListErr error

	// ListCalls counts ListModels invocations
	ListCalls int
}

// NewMockAdapter creates a mock adapter serving the given model identifiers.
func NewMockAdapter(llm *narrative.MockLLM, models ...string) *MockAdapter {
	if llm == nil {
		llm = &narrative.MockLLM{}
	}
	return &MockAdapter{MockLLM: llm, Models: models}
}

// GetProvider returns a placeholder provider name.
func (m *MockAdapter) GetProvider() Provider {
	return Provider("mock")
}

// ListModels returns the configured models or error.
func (m *MockAdapter) ListModels(ctx context.Context) ([]string, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]string(nil), m.Models...), nil
}
