package normalize

import (
	"time"

	"overviewly/internal/core"
	"overviewly/internal/htmltext"
)

// basicHints synthesizes a minimal schema.org object for content recovered
// on the plain-text path. The type maps from the requested content type;
// anything that is not FAQ or How-To falls back to Article.
func (n *Normalizer) basicHints(title, htmlBody string, contentType core.ContentType, now time.Time) map[string]any {
	hints := map[string]any{
		"@context":      "https://schema.org",
		"headline":      title,
		"description":   htmltext.TrimWords(htmltext.StripTags(htmlBody), 30),
		"datePublished": now.Format(time.RFC3339),
		"dateModified":  now.Format(time.RFC3339),
		"author": map[string]any{
			"@type": "Person",
			"name":  n.AuthorName,
		},
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  n.SiteName,
			"logo": map[string]any{
				"@type": "ImageObject",
				"url":   n.LogoURL,
			},
		},
	}

	switch contentType {
	case core.ContentTypeFAQ:
		hints["@type"] = "FAQPage"
	case core.ContentTypeHowTo:
		hints["@type"] = "HowTo"
	default:
		hints["@type"] = "Article"
	}

	return hints
}
