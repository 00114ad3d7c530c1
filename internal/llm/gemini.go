package llm

import (
	"context"

	"google.golang.org/genai"

	"overviewly/internal/core"
)

// DefaultGeminiModel is the model used when configuration leaves it unset.
const DefaultGeminiModel = "gemini-2.0-flash-exp"

// geminiProvider talks to the Gemini API through the official SDK, which
// posts to the generateContent endpoint with the API key as a query
// parameter and reads candidates[0].content.parts[0].text back.
type geminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func newGeminiProvider(apiKey string, opts Options) (Provider, error) {
	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &core.APIError{Provider: core.ProviderGemini, Reason: "failed to create client", Err: err}
	}

	return &geminiProvider{
		client:      client,
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

func (p *geminiProvider) ID() core.ProviderID {
	return core.ProviderGemini
}

func (p *geminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.temperature),
		MaxOutputTokens: p.maxTokens,
	})
	if err != nil {
		return "", &core.APIError{Provider: core.ProviderGemini, Reason: "generation request failed", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &core.APIError{Provider: core.ProviderGemini, Reason: "invalid response from Gemini API"}
	}

	return text, nil
}

func (p *geminiProvider) TestConnection(ctx context.Context) error {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: testPrompt}},
		Role:  "user",
	}}

	// No generation config: the test only cares that the call succeeds.
	if _, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil); err != nil {
		return &core.APIError{Provider: core.ProviderGemini, Reason: "connection test failed", Err: err}
	}
	return nil
}
