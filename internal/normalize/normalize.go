// Package normalize turns a raw LLM reply into a well-formed title and
// HTML body. Models are asked for a single JSON object but routinely wrap
// it in markdown fences, surround it with prose, or skip JSON entirely;
// normalization tolerates all of that and never fails, because discarding
// a paid generation call is worse than shipping slightly degraded content.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"overviewly/internal/core"
)

// unwantedPhrases are chatter fragments some models append to content; the
// plain-text path scrubs them before structuring.
var unwantedPhrases = []string{
	"Before you make changes, please push our current version to Github",
	"Please push our current version to Github",
	"push our current version to Github",
	"GitHub repository",
	"version control",
	"commit changes",
}

// unwantedPhraseRes are the case-insensitive matchers for unwantedPhrases,
// compiled once. Regexp replacement stays rune-safe around multi-byte
// content, where byte-offset splicing would not.
var unwantedPhraseRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(unwantedPhrases))
	for _, phrase := range unwantedPhrases {
		res = append(res, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
	}
	return res
}()

// Normalizer cleans and repairs model replies. The site identity fields
// feed the minimal structured hints synthesized on the plain-text path.
type Normalizer struct {
	AuthorName string
	SiteName   string
	LogoURL    string
	Now        func() time.Time // overridable clock for tests
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now().UTC()
}

// Normalize produces a usable NormalizedContent from a raw reply.
// Attempted in order, first success wins: direct JSON parse of the
// fence-stripped reply, extraction of the first balanced brace-delimited
// object, then a plain-text fallback.
func (n *Normalizer) Normalize(raw string, contentType core.ContentType) core.NormalizedContent {
	cleaned := stripCodeFences(raw)

	if title, content, ok := parseTitleContent(cleaned); ok {
		return postProcess(title, content)
	}

	if strings.Contains(cleaned, "{") && strings.Contains(cleaned, "}") {
		if candidate, found := extractBalancedObject(cleaned); found {
			if title, content, ok := parseTitleContent(candidate); ok {
				return postProcess(title, content)
			}
		}
	}

	return n.parseAsPlainText(cleaned, contentType)
}

// parseTitleContent attempts a strict parse of s as a JSON object carrying
// title and content string fields.
func parseTitleContent(s string) (title, content string, ok bool) {
	var reply struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal([]byte(s), &reply); err != nil {
		return "", "", false
	}
	if reply.Title == nil || reply.Content == nil {
		return "", "", false
	}
	return *reply.Title, *reply.Content, true
}

// postProcess cleans the fields of a successful JSON extraction. Hints stay
// empty here; schema is derived later from the stored article instead.
func postProcess(title, content string) core.NormalizedContent {
	return core.NormalizedContent{
		Title:           CleanTitle(title),
		HTMLBody:        finalCleanup(EnsureHTML(content)),
		StructuredHints: map[string]any{},
	}
}

// parseAsPlainText structures a reply that never yielded valid JSON. The
// first non-empty line that opens with neither '<' nor '{' becomes the
// title; every later non-empty line accumulates as content. This is the
// only path that pre-populates structured hints, because without valid
// JSON there is no other signal available for later schema derivation.
func (n *Normalizer) parseAsPlainText(response string, contentType core.ContentType) core.NormalizedContent {
	var title string
	var b strings.Builder

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if title == "" && !strings.HasPrefix(line, "<") && !strings.HasPrefix(line, "{") {
			title = CleanTitle(line)
			continue
		}
		if title != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	now := n.now()
	if title == "" {
		title = contentType.Label() + " About " + now.Format("2006-01-02 15:04:05")
	}

	content := b.String()
	for _, re := range unwantedPhraseRes {
		content = re.ReplaceAllString(content, "")
	}

	// Models sometimes answer the HTML request with markdown instead.
	if !hasMarkup(content) && looksLikeMarkdown(content) {
		if converted, err := markdownToHTML(content); err == nil {
			content = converted
		}
	}

	body := finalCleanup(EnsureHTML(content))

	return core.NormalizedContent{
		Title:           title,
		HTMLBody:        body,
		StructuredHints: n.basicHints(title, body, contentType, now),
	}
}
