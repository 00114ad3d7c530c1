// Package schema derives schema.org JSON-LD objects from stored articles.
// Derivation is deterministic and makes no external calls: it works from
// the article record, its generation metadata, and (when no stored hints
// exist) structural extraction from the rendered HTML body.
package schema

import (
	"fmt"
	"math"
	"strings"
	"time"

	"overviewly/internal/core"
	"overviewly/internal/htmltext"
)

// SchemaContext is the @context every derived object carries.
const SchemaContext = "https://schema.org"

// wordsPerMinute is the reading-speed assumption behind timeRequired.
const wordsPerMinute = 200

// Object is a single JSON-LD document.
type Object map[string]any

// SiteInfo identifies the publishing site in derived objects.
type SiteInfo struct {
	Name    string
	URL     string
	IconURL string
	LogoURL string
}

// ImageInfo describes an article's cover image.
type ImageInfo struct {
	URL    string
	Height int
	Width  int
}

// Input bundles an article with the context needed for derivation.
type Input struct {
	Article     core.Article
	AuthorName  string
	ContentType core.ContentType
	Hints       map[string]any // stored structured hints; authoritative when present
	Permalink   string
	CategoryURL string
	Tags        []string
	Image       *ImageInfo
}

// Deriver derives JSON-LD for articles published by one site.
type Deriver struct {
	Site SiteInfo
}

// Derive produces the JSON-LD for an article and a requested set of kinds.
// A single derived object is returned directly; multiple objects come back
// as an ordered slice in the order kinds were requested. When no requested
// kind yields a schema, the base Article object is the sole result.
func (d *Deriver) Derive(in Input, kinds []core.SchemaKind) any {
	objects := d.DeriveAll(in, kinds)
	if len(objects) == 1 {
		return objects[0]
	}
	return objects
}

// DeriveAll is Derive without the single-object unwrapping.
func (d *Deriver) DeriveAll(in Input, kinds []core.SchemaKind) []Object {
	base := d.baseSchema(in)

	var objects []Object
	for _, kind := range kinds {
		switch kind {
		case core.SchemaKindFAQ:
			if in.ContentType == core.ContentTypeFAQ || HasFaqContent(in.Article.Content) {
				if obj := d.faqSchema(in); obj != nil {
					objects = append(objects, obj)
				}
			}
		case core.SchemaKindHowTo:
			if in.ContentType == core.ContentTypeHowTo || HasHowToContent(in.Article.Content) {
				if obj := d.howToSchema(in, base); obj != nil {
					objects = append(objects, obj)
				}
			}
		case core.SchemaKindArticle:
			objects = append(objects, d.articleSchema(in, base))
		case core.SchemaKindBreadcrumb:
			objects = append(objects, d.breadcrumbSchema(in))
		}
	}

	if len(objects) == 0 {
		objects = append(objects, base)
	}
	return objects
}

// baseSchema builds the Article-type object every derivation starts from.
func (d *Deriver) baseSchema(in Input) Object {
	authorName := in.AuthorName
	if authorName == "" {
		authorName = d.Site.Name
	}

	obj := Object{
		"@context":      SchemaContext,
		"@type":         "Article",
		"headline":      in.Article.Title,
		"description":   describe(in.Article.Content),
		"datePublished": in.Article.DateCreated.Format(time.RFC3339),
		"dateModified":  in.Article.DateModified.Format(time.RFC3339),
		"author": Object{
			"@type": "Person",
			"name":  authorName,
		},
		"publisher": Object{
			"@type": "Organization",
			"name":  d.Site.Name,
			"logo": Object{
				"@type": "ImageObject",
				"url":   d.logoURL(),
			},
		},
		"mainEntityOfPage": Object{
			"@type": "WebPage",
			"@id":   in.Permalink,
		},
	}

	if in.Image != nil && in.Image.URL != "" {
		obj["image"] = Object{
			"@type":  "ImageObject",
			"url":    in.Image.URL,
			"width":  in.Image.Width,
			"height": in.Image.Height,
		}
	}

	return obj
}

// faqSchema wraps stored mainEntity hints when present; otherwise it
// extracts question/answer pairs from the body. Returns nil when neither
// yields entries.
func (d *Deriver) faqSchema(in Input) Object {
	if in.Hints != nil {
		if mainEntity, ok := in.Hints["mainEntity"]; ok {
			return Object{
				"@context":   SchemaContext,
				"@type":      "FAQPage",
				"mainEntity": mainEntity,
			}
		}
	}

	faqs := ExtractFaqEntries(in.Article.Content)
	if len(faqs) == 0 {
		return nil
	}

	mainEntity := make([]Object, 0, len(faqs))
	for _, faq := range faqs {
		mainEntity = append(mainEntity, Object{
			"@type": "Question",
			"name":  faq.Question,
			"acceptedAnswer": Object{
				"@type": "Answer",
				"text":  faq.Answer,
			},
		})
	}

	return Object{
		"@context":   SchemaContext,
		"@type":      "FAQPage",
		"mainEntity": mainEntity,
	}
}

// howToSchema wraps stored step hints when present; otherwise it extracts
// steps from the body. Returns nil when neither yields entries.
func (d *Deriver) howToSchema(in Input, base Object) Object {
	if in.Hints != nil {
		if steps, ok := in.Hints["step"]; ok {
			return Object{
				"@context":    SchemaContext,
				"@type":       "HowTo",
				"name":        in.Article.Title,
				"description": describe(in.Article.Content),
				"step":        steps,
			}
		}
	}

	steps := ExtractSteps(in.Article.Content)
	if len(steps) == 0 {
		return nil
	}

	stepEntities := make([]Object, 0, len(steps))
	for _, step := range steps {
		stepEntities = append(stepEntities, Object{
			"@type":    "HowToStep",
			"position": step.Position,
			"name":     step.Title,
			"text":     step.Text,
		})
	}

	return Object{
		"@context":    SchemaContext,
		"@type":       "HowTo",
		"name":        in.Article.Title,
		"description": describe(in.Article.Content),
		"step":        stepEntities,
	}
}

// articleSchema clones the base object and adds category, keywords, word
// count and estimated reading time as an ISO-8601 duration.
func (d *Deriver) articleSchema(in Input, base Object) Object {
	obj := make(Object, len(base)+4)
	for k, v := range base {
		obj[k] = v
	}
	obj["@type"] = "Article"
	obj["articleSection"] = in.Article.Category
	obj["keywords"] = strings.Join(in.Tags, ", ")

	wordCount := htmltext.WordCount(htmltext.StripTags(in.Article.Content))
	obj["wordCount"] = wordCount
	obj["timeRequired"] = fmt.Sprintf("PT%dM", int(math.Ceil(float64(wordCount)/wordsPerMinute)))

	return obj
}

// breadcrumbSchema builds Home -> category (if any) -> article.
func (d *Deriver) breadcrumbSchema(in Input) Object {
	items := []Object{{
		"@type":    "ListItem",
		"position": 1,
		"name":     "Home",
		"item":     d.Site.URL,
	}}

	position := 2
	if in.Article.Category != "" {
		items = append(items, Object{
			"@type":    "ListItem",
			"position": position,
			"name":     in.Article.Category,
			"item":     in.CategoryURL,
		})
		position++
	}

	items = append(items, Object{
		"@type":    "ListItem",
		"position": position,
		"name":     in.Article.Title,
		"item":     in.Permalink,
	})

	return Object{
		"@context":        SchemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

// logoURL resolves the publisher logo: site icon, then theme logo, then a
// constructed default path.
func (d *Deriver) logoURL() string {
	if d.Site.IconURL != "" {
		return d.Site.IconURL
	}
	if d.Site.LogoURL != "" {
		return d.Site.LogoURL
	}
	return strings.TrimRight(d.Site.URL, "/") + "/assets/logo.png"
}

func describe(htmlBody string) string {
	return htmltext.TrimWords(htmltext.StripTags(htmlBody), 30)
}

// Validate reports whether an object is a plausible JSON-LD document:
// the schema.org @context plus a non-empty @type.
func Validate(obj Object) bool {
	if obj == nil {
		return false
	}
	if ctx, _ := obj["@context"].(string); ctx != SchemaContext {
		return false
	}
	typ, ok := obj["@type"].(string)
	return ok && typ != ""
}
