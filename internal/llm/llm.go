// Package llm contains the provider clients used to execute generation
// calls. Each supported provider implements Provider and is selected from a
// registry keyed by its ID. Calls are synchronous-blocking; callers bound
// them with a context deadline and must not retry automatically.
package llm

import (
	"context"

	"overviewly/internal/core"
)

const (
	// testPrompt is the minimal connectivity-check prompt. The reply body
	// is never inspected; any successful round trip passes the test.
	testPrompt = `Say "test successful" if you can read this.`

	// DefaultTemperature and DefaultMaxTokens apply when options leave
	// them unset.
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = int32(8000)
)

// Provider sends prompts to a named model provider.
type Provider interface {
	// ID returns the provider identifier.
	ID() core.ProviderID
	// GenerateText executes a generation call and returns the raw reply
	// text. Failures normalize to *core.APIError.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// TestConnection performs a short connectivity check.
	TestConnection(ctx context.Context) error
}

// Options configures a provider instance.
type Options struct {
	Model       string
	TestModel   string // model used for connectivity checks (OpenAI only)
	BaseURL     string
	Temperature float32
	MaxTokens   int32
}

func (o Options) withDefaults() Options {
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

type factory func(apiKey string, opts Options) (Provider, error)

var factories = map[core.ProviderID]factory{
	core.ProviderGemini: newGeminiProvider,
	core.ProviderOpenAI: newOpenAIProvider,
}

// New builds a provider client for the given ID and API key.
func New(id core.ProviderID, apiKey string, opts Options) (Provider, error) {
	build, ok := factories[id]
	if !ok {
		return nil, &core.ConfigError{Reason: "invalid provider: " + string(id)}
	}
	if apiKey == "" {
		return nil, core.NewNoAPIKeyError(id)
	}
	return build(apiKey, opts.withDefaults())
}
