package generate

import (
	"context"
	"strings"
	"testing"
	"time"

	"overviewly/internal/config"
	"overviewly/internal/core"
	"overviewly/internal/llm"
	"overviewly/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AI{
			Provider: "gemini",
			Gemini:   config.GeminiConfig{Model: "gemini-2.0-flash-exp"},
			OpenAI:   config.OpenAIConfig{Model: "gpt-4", TestModel: "gpt-3.5-turbo"},
		},
		Content: config.Content{
			PostStatus:  "draft",
			ContentType: "faq",
			Category:    "Uncategorized",
		},
		Schema: config.Schema{Kinds: []string{"faq"}},
		Site:   config.Site{Name: "Test Site", URL: "http://localhost:8080"},
	}
}

type capturedFactory struct {
	provider core.ProviderID
	apiKey   string
	mock     *llm.MockProvider
}

func (c *capturedFactory) build(id core.ProviderID, apiKey string, opts llm.Options) (llm.Provider, error) {
	c.provider = id
	c.apiKey = apiKey
	return c.mock, nil
}

func newTestGenerator(t *testing.T, mock *llm.MockProvider) (*Generator, *store.Store, *capturedFactory) {
	t.Helper()

	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	acting, err := st.EnsureUser("admin", "Admin")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	factory := &capturedFactory{mock: mock}
	gen := &Generator{
		Config:      testConfig(),
		Store:       st,
		NewProvider: factory.build,
		ActingUser:  acting,
		Now:         func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) },
	}
	return gen, st, factory
}

func TestGenerateCreatesOneArticle(t *testing.T) {
	mock := &llm.MockProvider{Reply: `{"title":"Composting Basics","content":"<p>Compost well.</p>"}`}
	gen, st, _ := newTestGenerator(t, mock)

	articleID, err := gen.Generate(context.Background(), "composting", Options{APIKey: "key"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	article, err := st.GetArticle(articleID)
	if err != nil || article == nil {
		t.Fatalf("created article not found: %v", err)
	}
	if article.Title != "Composting Basics" {
		t.Errorf("Title = %q", article.Title)
	}
	if article.Status != "draft" {
		t.Errorf("Status = %q, want draft", article.Status)
	}
	if article.Category != "Uncategorized" {
		t.Errorf("Category = %q", article.Category)
	}

	if topic := st.GetMetaString(articleID, core.MetaTopic); topic != "composting" {
		t.Errorf("topic meta = %q", topic)
	}
	if provider := st.GetMetaString(articleID, core.MetaProvider); provider != "gemini" {
		t.Errorf("provider meta = %q", provider)
	}
	if ct := st.GetMetaString(articleID, core.MetaContentType); ct != "faq" {
		t.Errorf("content type meta = %q", ct)
	}

	var kinds []string
	if ok, _ := st.GetMeta(articleID, core.MetaSchemaKinds, &kinds); !ok || len(kinds) != 1 || kinds[0] != "faq" {
		t.Errorf("schema kinds meta = %v", kinds)
	}

	articles, _ := st.ListArticles(10)
	if len(articles) != 1 {
		t.Errorf("got %d articles, want exactly 1", len(articles))
	}
}

func TestGeneratePromptReflectsTopicAndType(t *testing.T) {
	mock := &llm.MockProvider{Reply: `{"title":"T","content":"<p>C</p>"}`}
	gen, _, _ := newTestGenerator(t, mock)

	_, err := gen.Generate(context.Background(), "home VPN setup", Options{
		APIKey:      "key",
		ContentType: core.ContentTypeHowTo,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(mock.LastPrompt, "home VPN setup") {
		t.Error("prompt does not contain the topic")
	}
	if !strings.Contains(mock.LastPrompt, "How-To guide") {
		t.Error("prompt does not use the how-to template")
	}
}

func TestGenerateNoAPIKey(t *testing.T) {
	mock := &llm.MockProvider{Reply: "unused"}
	gen, st, _ := newTestGenerator(t, mock)

	_, err := gen.Generate(context.Background(), "composting", Options{})
	if err == nil {
		t.Fatal("expected an error when no key is configured")
	}
	if !strings.Contains(err.Error(), "API key not configured for gemini") {
		t.Errorf("error should name the provider: %v", err)
	}

	articles, _ := st.ListArticles(10)
	if len(articles) != 0 {
		t.Errorf("failed generation must not create articles, found %d", len(articles))
	}
}

func TestGenerateKeyResolutionOrder(t *testing.T) {
	mock := &llm.MockProvider{Reply: `{"title":"T","content":"<p>C</p>"}`}
	gen, _, factory := newTestGenerator(t, mock)
	gen.Config.AI.Gemini.APIKey = "stored-key"

	// Call-time key wins over the stored key.
	if _, err := gen.Generate(context.Background(), "topic", Options{APIKey: "call-key"}); err != nil {
		t.Fatal(err)
	}
	if factory.apiKey != "call-key" {
		t.Errorf("provider built with %q, want call-time key", factory.apiKey)
	}

	// Without an override, the stored key applies.
	if _, err := gen.Generate(context.Background(), "topic", Options{}); err != nil {
		t.Fatal(err)
	}
	if factory.apiKey != "stored-key" {
		t.Errorf("provider built with %q, want stored key", factory.apiKey)
	}
}

func TestGenerateProviderOverride(t *testing.T) {
	mock := &llm.MockProvider{Reply: `{"title":"T","content":"<p>C</p>"}`}
	gen, st, factory := newTestGenerator(t, mock)

	articleID, err := gen.Generate(context.Background(), "topic", Options{
		Provider: core.ProviderOpenAI,
		APIKey:   "key",
	})
	if err != nil {
		t.Fatal(err)
	}
	if factory.provider != core.ProviderOpenAI {
		t.Errorf("provider = %s, want openai override", factory.provider)
	}
	if provider := st.GetMetaString(articleID, core.MetaProvider); provider != "openai" {
		t.Errorf("provider meta = %q", provider)
	}
}

func TestGenerateProviderFailureCreatesNothing(t *testing.T) {
	mock := &llm.MockProvider{Err: &core.APIError{Provider: core.ProviderGemini, Reason: "boom"}}
	gen, st, _ := newTestGenerator(t, mock)

	_, err := gen.Generate(context.Background(), "composting", Options{APIKey: "key"})
	if err == nil {
		t.Fatal("expected the provider error to propagate")
	}

	articles, _ := st.ListArticles(10)
	if len(articles) != 0 {
		t.Errorf("failed generation must not create articles, found %d", len(articles))
	}
}

func TestGenerateMalformedReplyStillCreates(t *testing.T) {
	// Normalization never fails; garbage replies degrade, they don't abort.
	mock := &llm.MockProvider{Reply: "complete nonsense, no JSON at all"}
	gen, st, _ := newTestGenerator(t, mock)

	articleID, err := gen.Generate(context.Background(), "composting", Options{APIKey: "key"})
	if err != nil {
		t.Fatalf("Generate failed on malformed reply: %v", err)
	}

	article, err := st.GetArticle(articleID)
	if err != nil || article == nil {
		t.Fatalf("article not found: %v", err)
	}
	if article.Title == "" {
		t.Error("Title must never be empty")
	}
	if article.Content == "" {
		t.Error("Content must never be empty")
	}
}
