package llm

import (
	"context"

	"overviewly/internal/core"
)

// MockProvider is a canned-reply provider for tests and local debugging.
// It never calls an external model.
type MockProvider struct {
	Reply      string
	Err        error
	LastPrompt string
}

func (m *MockProvider) ID() core.ProviderID {
	return "mock"
}

func (m *MockProvider) GenerateText(_ context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockProvider) TestConnection(context.Context) error {
	return m.Err
}
