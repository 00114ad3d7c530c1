// Package generate orchestrates article generation: prompt construction,
// the provider call, response normalization and persistence with
// provenance metadata.
package generate

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"overviewly/internal/config"
	"overviewly/internal/core"
	"overviewly/internal/llm"
	"overviewly/internal/logger"
	"overviewly/internal/normalize"
	"overviewly/internal/prompt"
	"overviewly/internal/store"
)

// Options carries per-call overrides. Zero values defer to configuration.
type Options struct {
	Provider    core.ProviderID
	APIKey      string
	ContentType core.ContentType
}

// ProviderFactory builds a provider client; injectable for tests.
type ProviderFactory func(id core.ProviderID, apiKey string, opts llm.Options) (llm.Provider, error)

// Generator produces and persists one article per successful call.
type Generator struct {
	Config      *config.Config
	Store       *store.Store
	Log         *slog.Logger
	NewProvider ProviderFactory
	ActingUser  core.User        // author of record when name resolution fails
	Now         func() time.Time // overridable clock for tests
}

func (g *Generator) log() *slog.Logger {
	if g.Log != nil {
		return g.Log
	}
	return logger.Get()
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now().UTC()
}

func (g *Generator) newProvider(id core.ProviderID, apiKey string, opts llm.Options) (llm.Provider, error) {
	if g.NewProvider != nil {
		return g.NewProvider(id, apiKey, opts)
	}
	return llm.New(id, apiKey, opts)
}

// Generate runs the full pipeline for a topic and returns the ID of the
// created article. Exactly one document is created per successful call and
// none on failure.
func (g *Generator) Generate(ctx context.Context, topic string, opts Options) (string, error) {
	cfg := g.Config

	providerID := opts.Provider
	if providerID == "" {
		providerID = cfg.Provider()
	}

	// Key resolution order: explicit call-time key, then the stored
	// provider-specific key, then failure naming the provider.
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = cfg.APIKeyFor(providerID)
	}
	if apiKey == "" {
		return "", core.NewNoAPIKeyError(providerID)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = core.ContentType(cfg.Content.ContentType)
	}

	client, err := g.newProvider(providerID, apiKey, llm.Options{
		Model:       g.modelFor(providerID),
		TestModel:   cfg.AI.OpenAI.TestModel,
		BaseURL:     cfg.AI.OpenAI.BaseURL,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	instruction := prompt.Build(topic, contentType)

	callCtx, cancel := context.WithTimeout(ctx, cfg.GenerateTimeout())
	defer cancel()

	g.log().Info("Generating article", "topic", topic, "content_type", contentType, "provider", providerID)
	raw, err := client.GenerateText(callCtx, instruction)
	if err != nil {
		return "", err
	}

	authorName := cfg.Content.AuthorName
	if authorName == "" {
		authorName = cfg.Site.Name
	}

	normalizer := &normalize.Normalizer{
		AuthorName: authorName,
		SiteName:   cfg.Site.Name,
		LogoURL:    cfg.Site.IconURL,
		Now:        g.Now,
	}
	content := normalizer.Normalize(raw, contentType)

	authorID, err := g.resolveAuthor(authorName)
	if err != nil {
		return "", err
	}

	now := g.now()
	article := core.Article{
		ID:           uuid.NewString(),
		Title:        content.Title,
		Content:      content.HTMLBody,
		Status:       cfg.Content.PostStatus,
		Category:     cfg.Content.Category,
		AuthorID:     authorID,
		DateCreated:  now,
		DateModified: now,
	}

	meta := map[string]any{
		core.MetaGenerated:      true,
		core.MetaTopic:          topic,
		core.MetaContentType:    string(contentType),
		core.MetaProvider:       string(providerID),
		core.MetaSchemaKinds:    cfg.Schema.Kinds,
		core.MetaGenerationDate: now.Format(time.RFC3339),
		core.MetaAuthorName:     authorName,
	}
	if content.StructuredHints != nil {
		meta[core.MetaStructuredData] = content.StructuredHints
	}

	if err := g.Store.EnsureCategory(article.Category); err != nil {
		return "", err
	}
	if err := g.Store.CreateArticle(article, meta); err != nil {
		return "", err
	}

	g.log().Info("Article created", "article_id", article.ID, "title", article.Title, "status", article.Status)
	return article.ID, nil
}

// resolveAuthor looks up the configured author by display name, then by
// login-normalized name, then attributes the article to the acting user.
func (g *Generator) resolveAuthor(name string) (string, error) {
	user, err := g.Store.ResolveAuthor(name)
	if err != nil {
		return "", err
	}
	if user != nil {
		return user.ID, nil
	}
	return g.ActingUser.ID, nil
}

func (g *Generator) modelFor(id core.ProviderID) string {
	switch id {
	case core.ProviderGemini:
		return g.Config.AI.Gemini.Model
	case core.ProviderOpenAI:
		return g.Config.AI.OpenAI.Model
	}
	return ""
}

// TestConnection performs a short connectivity check against a provider,
// resolving the API key the same way Generate does.
func TestConnection(ctx context.Context, cfg *config.Config, providerID core.ProviderID, apiKey string) error {
	if providerID == "" {
		providerID = cfg.Provider()
	}
	if apiKey == "" {
		apiKey = cfg.APIKeyFor(providerID)
	}
	if apiKey == "" {
		return core.NewNoAPIKeyError(providerID)
	}

	client, err := llm.New(providerID, apiKey, llm.Options{
		Model:     modelFor(cfg, providerID),
		TestModel: cfg.AI.OpenAI.TestModel,
		BaseURL:   cfg.AI.OpenAI.BaseURL,
	})
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.TestTimeout())
	defer cancel()

	return client.TestConnection(callCtx)
}

func modelFor(cfg *config.Config, id core.ProviderID) string {
	switch id {
	case core.ProviderGemini:
		return cfg.AI.Gemini.Model
	case core.ProviderOpenAI:
		return cfg.AI.OpenAI.Model
	}
	return ""
}
