package schema

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"overviewly/internal/core"
	"overviewly/internal/htmltext"
)

const (
	maxFaqEntries  = 10
	maxStepEntries = 15

	faqAnswerWordLimit = 100
	stepTextWordLimit  = 150
)

// section is a heading-2 element paired with the stripped text of
// everything up to the next heading-2 (or end of document).
type section struct {
	heading string
	body    string
}

// extractSections scans an HTML body for h2-delimited sections. The body of
// a section is everything between the heading and the next h2, walked at
// the node level so bare text directly after a heading counts too. Pairs
// where either side is empty after trimming are skipped.
func extractSections(htmlBody string, wordLimit int) []section {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	var sections []section
	doc.Find("h2").Each(func(_ int, h *goquery.Selection) {
		heading := strings.TrimSpace(h.Text())

		var b strings.Builder
		for node := h.Nodes[0].NextSibling; node != nil; node = node.NextSibling {
			if node.Type == html.ElementNode && node.Data == "h2" {
				break
			}
			b.WriteString(nodeText(node))
			b.WriteString(" ")
		}
		body := htmltext.TrimWords(strings.TrimSpace(b.String()), wordLimit)

		if heading == "" || body == "" {
			return
		}
		sections = append(sections, section{heading: heading, body: body})
	})

	return sections
}

// nodeText collects the text content of a node and its descendants.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// ExtractFaqEntries derives question/answer pairs from the h2 sections of
// an article body, bounded to 10 entries.
func ExtractFaqEntries(htmlBody string) []core.FaqEntry {
	sections := extractSections(htmlBody, faqAnswerWordLimit)
	if len(sections) > maxFaqEntries {
		sections = sections[:maxFaqEntries]
	}

	entries := make([]core.FaqEntry, 0, len(sections))
	for _, s := range sections {
		entries = append(entries, core.FaqEntry{Question: s.heading, Answer: s.body})
	}
	return entries
}

// ExtractSteps derives how-to steps from the h2 sections of an article
// body, bounded to 15 entries and numbered from 1.
func ExtractSteps(htmlBody string) []core.StepEntry {
	sections := extractSections(htmlBody, stepTextWordLimit)
	if len(sections) > maxStepEntries {
		sections = sections[:maxStepEntries]
	}

	steps := make([]core.StepEntry, 0, len(sections))
	for i, s := range sections {
		steps = append(steps, core.StepEntry{Title: s.heading, Text: s.body, Position: i + 1})
	}
	return steps
}

var (
	questionLeadRe = regexp.MustCompile(`(?i)^(what|how|why|when|where|which|can|do)\b`)
	stepLeadRe     = regexp.MustCompile(`(?i)^step\s+\d+`)
)

// headings returns the trimmed text of every h2 in the body.
func headings(htmlBody string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("h2").Each(func(_ int, h *goquery.Selection) {
		out = append(out, strings.TrimSpace(h.Text()))
	})
	return out
}

// HasFaqContent reports whether the body reads like an FAQ: h2 headings
// that open with a question word or end with a question mark.
func HasFaqContent(htmlBody string) bool {
	for _, h := range headings(htmlBody) {
		if questionLeadRe.MatchString(h) || strings.HasSuffix(h, "?") {
			return true
		}
	}
	return false
}

// HasHowToContent reports whether the body reads like a how-to guide.
func HasHowToContent(htmlBody string) bool {
	for _, h := range headings(htmlBody) {
		lower := strings.ToLower(h)
		if stepLeadRe.MatchString(h) || strings.HasPrefix(lower, "how to") ||
			strings.Contains(lower, "guide") || strings.Contains(lower, "tutorial") {
			return true
		}
	}
	return false
}
