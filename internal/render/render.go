// Package render handles the display side of stored articles: assembling
// the schema deriver's input from persisted metadata and emitting the
// JSON-LD script block embedded in article pages.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"overviewly/internal/config"
	"overviewly/internal/core"
	"overviewly/internal/schema"
	"overviewly/internal/store"
)

var slugJunkRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	return strings.Trim(slugJunkRe.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Permalink returns the canonical URL for an article.
func Permalink(cfg *config.Config, articleID string) string {
	return strings.TrimRight(cfg.Site.URL, "/") + "/articles/" + articleID
}

// SchemaInput assembles the deriver input for a stored article from its
// record, generation metadata and curation metadata (tags, cover image).
func SchemaInput(s *store.Store, cfg *config.Config, article core.Article) schema.Input {
	var hints map[string]any
	_, _ = s.GetMeta(article.ID, core.MetaStructuredData, &hints)

	var tags []string
	_, _ = s.GetMeta(article.ID, core.MetaTags, &tags)

	var image *schema.ImageInfo
	var cover core.CoverImage
	if ok, err := s.GetMeta(article.ID, core.MetaCoverImage, &cover); err == nil && ok && cover.URL != "" {
		image = &schema.ImageInfo{URL: cover.URL, Width: cover.Width, Height: cover.Height}
	}

	base := strings.TrimRight(cfg.Site.URL, "/")

	return schema.Input{
		Article:     article,
		AuthorName:  s.GetMetaString(article.ID, core.MetaAuthorName),
		ContentType: core.ContentType(s.GetMetaString(article.ID, core.MetaContentType)),
		Hints:       hints,
		Permalink:   Permalink(cfg, article.ID),
		CategoryURL: base + "/category/" + slugify(article.Category),
		Tags:        tags,
		Image:       image,
	}
}

// SchemaKinds returns the schema kinds stored with the article at
// generation time.
func SchemaKinds(s *store.Store, articleID string) []core.SchemaKind {
	var raw []string
	if ok, err := s.GetMeta(articleID, core.MetaSchemaKinds, &raw); err != nil || !ok {
		return nil
	}
	kinds := make([]core.SchemaKind, 0, len(raw))
	for _, k := range raw {
		kinds = append(kinds, core.SchemaKind(k))
	}
	return kinds
}

// Deriver builds the schema deriver for the configured site.
func Deriver(cfg *config.Config) *schema.Deriver {
	return &schema.Deriver{Site: schema.SiteInfo{
		Name:    cfg.Site.Name,
		URL:     cfg.Site.URL,
		IconURL: cfg.Site.IconURL,
		LogoURL: cfg.Site.LogoURL,
	}}
}

// JSONLDBlock derives the article's schema and serializes it as a single
// ld+json script block. The second return is false when the article has no
// stored schema kinds.
func JSONLDBlock(s *store.Store, cfg *config.Config, article core.Article) (string, bool) {
	kinds := SchemaKinds(s, article.ID)
	if len(kinds) == 0 {
		return "", false
	}

	derived := Deriver(cfg).Derive(SchemaInput(s, cfg, article), kinds)
	encoded, err := json.Marshal(derived)
	if err != nil {
		return "", false
	}

	return `<script type="application/ld+json">` + string(encoded) + `</script>`, true
}

// ArticlePage renders a minimal HTML page for an article, embedding the
// JSON-LD block in the head when schema kinds are stored.
func ArticlePage(s *store.Store, cfg *config.Config, article core.Article) string {
	var head strings.Builder
	head.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(article.Title)))
	if block, ok := JSONLDBlock(s, cfg, article); ok {
		head.WriteString(block)
		head.WriteString("\n")
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
%s</head>
<body>
<article>
<h1>%s</h1>
%s
</article>
</body>
</html>
`, head.String(), html.EscapeString(article.Title), article.Content)
}
