package core

import "time"

// ContentType identifies the shape of article the generator is asked for.
// It drives both prompt construction and which structural extraction
// applies when schema markup is derived at render time.
type ContentType string

const (
	ContentTypeFAQ        ContentType = "faq"
	ContentTypeHowTo      ContentType = "howto"
	ContentTypeComparison ContentType = "comparison"
	ContentTypeListicle   ContentType = "listicle"
	ContentTypeGeneric    ContentType = "generic"
)

// Label returns a human-readable name for the content type, used when a
// title has to be synthesized for a reply that carried none.
func (c ContentType) Label() string {
	switch c {
	case ContentTypeFAQ:
		return "FAQ"
	case ContentTypeHowTo:
		return "How-To Guide"
	case ContentTypeComparison:
		return "Comparison"
	case ContentTypeListicle:
		return "Listicle"
	default:
		return "Article"
	}
}

// ProviderID identifies a supported LLM provider.
type ProviderID string

const (
	ProviderGemini ProviderID = "gemini"
	ProviderOpenAI ProviderID = "openai"
)

// SchemaKind identifies a schema.org structured-data variant that can be
// derived for an article.
type SchemaKind string

const (
	SchemaKindFAQ        SchemaKind = "faq"
	SchemaKindHowTo      SchemaKind = "howto"
	SchemaKindArticle    SchemaKind = "article"
	SchemaKindBreadcrumb SchemaKind = "breadcrumb"
)

// NormalizedContent is the contract the normalizer guarantees regardless of
// how malformed the raw model reply was: a markup-free title and an HTML
// body restricted to paragraphs, headings, lists and tables.
type NormalizedContent struct {
	Title           string         `json:"title"`
	HTMLBody        string         `json:"html_body"`
	StructuredHints map[string]any `json:"structured_hints,omitempty"`
}

// Article is a persisted generated document.
type Article struct {
	ID           string    `json:"id"`            // Unique identifier for the article
	Title        string    `json:"title"`         // Cleaned article title
	Content      string    `json:"content"`       // Normalized HTML body
	Status       string    `json:"status"`        // Publication status (draft, publish)
	Category     string    `json:"category"`      // Primary category name
	AuthorID     string    `json:"author_id"`     // Resolved author user ID
	DateCreated  time.Time `json:"date_created"`  // When the article was persisted
	DateModified time.Time `json:"date_modified"` // Last modification time
}

// User is an author record resolvable by display name or login.
type User struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// FaqEntry is a question/answer pair extracted from heading-delimited
// sections of an article body.
type FaqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// StepEntry is a how-to step extracted the same way, numbered from 1.
type StepEntry struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Metadata keys stored alongside a generated article. These mirror the
// provenance block written at generation time and read back at render time.
const (
	MetaGenerated      = "ai_overview_generated"
	MetaTopic          = "ai_overview_topic"
	MetaContentType    = "ai_overview_content_type"
	MetaProvider       = "ai_overview_provider"
	MetaSchemaKinds    = "ai_overview_schema_kinds"
	MetaGenerationDate = "ai_overview_generation_date"
	MetaAuthorName     = "ai_overview_author_name"
	MetaStructuredData = "ai_overview_structured_data"

	// Curation metadata set after generation (tags and a cover image have
	// no model-provided source), read back at render time.
	MetaTags       = "ai_overview_tags"
	MetaCoverImage = "ai_overview_cover_image"
)

// CoverImage describes an article's cover image as stored in metadata.
type CoverImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
