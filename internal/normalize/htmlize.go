package normalize

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

// FallbackParagraph is substituted when cleaning leaves no usable content.
// Regenerating costs a real API call, so the degraded result ships instead.
const FallbackParagraph = "<p>Content could not be generated properly. Please try again.</p>"

var (
	fenceJSONRe      = regexp.MustCompile("(?i)```json\\s*")
	codeFenceBlockRe = regexp.MustCompile("(?s)```[^`]*```")
	urlRe            = regexp.MustCompile(`https?://[^\s]+`)
	titleJunkRe      = regexp.MustCompile(`[{}"\[\]]`)
	multiSpaceRe     = regexp.MustCompile(`\s{2,}`)

	// Residual JSON fragments a model may leave around HTML content.
	jsonKVObjectRe = regexp.MustCompile(`(?s)"[^"]*":\s*\{[^}]*\}`)
	jsonKVArrayRe  = regexp.MustCompile(`(?s)"[^"]*":\s*\[[^\]]*\]`)
	strayObjEndRe  = regexp.MustCompile(`\},\s*"`)
	leadObjKeyRe   = regexp.MustCompile(`\s*\{\s*"[^"]*":`)

	leadingJunkRe  = regexp.MustCompile(`^[-\s"{}\[\].,;:]+`)
	trailingJunkRe = regexp.MustCompile(`[-\s"{}\[\].,;:]+$`)
	punctOnlyRe    = regexp.MustCompile(`^[-\s"{}\[\].,;:]+$`)

	blankLineRe = regexp.MustCompile(`\n\s*\n`)

	trailingArtifactsRe = regexp.MustCompile(`["}\]]+\s*$`)
	spaceRunsRe         = regexp.MustCompile(`[ \t]{2,}`)
	blankRunsRe         = regexp.MustCompile(`\n{3,}`)

	markdownLineRe = regexp.MustCompile(`(?m)^(#{1,6} |[-*] |\d+\. )`)
)

// stripCodeFences removes markdown code-fence markers (with or without a
// json tag) and surrounding whitespace from a raw model reply.
func stripCodeFences(s string) string {
	s = fenceJSONRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// CleanTitle strips code fences, URLs and brace/bracket/quote characters
// from a title and collapses repeated whitespace.
func CleanTitle(title string) string {
	title = codeFenceBlockRe.ReplaceAllString(title, "")
	title = urlRe.ReplaceAllString(title, "")
	title = titleJunkRe.ReplaceAllString(title, "")
	title = multiSpaceRe.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// EnsureHTML coerces content into well-formed paragraph/heading markup.
//
// Content that already carries markup has residual JSON key/value fragments
// and stray edge punctuation removed, falling back to a fixed paragraph if
// nothing survives, and is wrapped in a single paragraph when no block tags
// remain. Plain text is split on blank lines into paragraphs, dropping
// artifact-only chunks.
func EnsureHTML(content string) string {
	if hasMarkup(content) {
		content = jsonKVObjectRe.ReplaceAllString(content, "")
		content = jsonKVArrayRe.ReplaceAllString(content, "")
		content = strayObjEndRe.ReplaceAllString(content, "")
		content = leadObjKeyRe.ReplaceAllString(content, "")
		content = leadingJunkRe.ReplaceAllString(content, "")
		content = trailingJunkRe.ReplaceAllString(content, "")

		if content == "" {
			return FallbackParagraph
		}
		if !hasBlockTags(content) {
			return "<p>" + content + "</p>"
		}
		return content
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return FallbackParagraph
	}

	var b strings.Builder
	for _, paragraph := range blankLineRe.Split(content, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" || punctOnlyRe.MatchString(paragraph) {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(paragraph)
		b.WriteString("</p>\n")
	}

	if b.Len() == 0 {
		return "<p>" + content + "</p>"
	}
	return b.String()
}

// finalCleanup strips trailing brace/bracket/quote artifacts and collapses
// repeated spaces and blank lines.
func finalCleanup(content string) string {
	content = trailingArtifactsRe.ReplaceAllString(content, "")
	content = spaceRunsRe.ReplaceAllString(content, " ")
	content = blankRunsRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

func hasMarkup(content string) bool {
	return strings.Contains(content, "<") && strings.Contains(content, ">")
}

// hasBlockTags reports whether the fragment contains at least one paragraph
// or heading element.
func hasBlockTags(fragment string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return false
	}
	return doc.Find("p, h1, h2, h3, h4, h5, h6").Length() > 0
}

func looksLikeMarkdown(content string) bool {
	return markdownLineRe.MatchString(content)
}

func markdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
