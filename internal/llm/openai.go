package llm

import (
	"context"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"overviewly/internal/core"
)

const (
	// DefaultOpenAIModel is the chat model used for generation.
	DefaultOpenAIModel = "gpt-4"
	// DefaultOpenAITestModel is the cheaper model used for connectivity
	// checks, capped at a handful of tokens.
	DefaultOpenAITestModel = "gpt-3.5-turbo"

	testMaxTokens = 10
)

// openaiProvider talks to the OpenAI chat completions API through the
// official SDK (bearer-token auth, reply read from choices[0].message).
type openaiProvider struct {
	client      openai.Client
	model       string
	testModel   string
	temperature float32
	maxTokens   int32
}

func newOpenAIProvider(apiKey string, opts Options) (Provider, error) {
	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	testModel := opts.TestModel
	if testModel == "" {
		testModel = DefaultOpenAITestModel
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &openaiProvider{
		client:      openai.NewClient(clientOpts...),
		model:       model,
		testModel:   testModel,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

func (p *openaiProvider) ID() core.ProviderID {
	return core.ProviderOpenAI
}

func (p *openaiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(p.maxTokens)),
		Temperature: openai.Float(float64(p.temperature)),
	})
	if err != nil {
		return "", &core.APIError{Provider: core.ProviderOpenAI, Reason: "generation request failed", Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &core.APIError{Provider: core.ProviderOpenAI, Reason: "invalid response from OpenAI API"}
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *openaiProvider) TestConnection(ctx context.Context) error {
	_, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.testModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(testPrompt),
		},
		MaxTokens: openai.Int(testMaxTokens),
	})
	if err != nil {
		return &core.APIError{Provider: core.ProviderOpenAI, Reason: "connection test failed", Err: err}
	}
	return nil
}
