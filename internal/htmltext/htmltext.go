// Package htmltext holds small text helpers shared by the normalizer and
// the schema deriver: tag stripping, word trimming and word counting.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripTags returns the text content of an HTML fragment with all markup
// removed. Malformed fragments degrade to the raw input.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<>") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}

// TrimWords returns the first limit whitespace-separated words of s,
// joined by single spaces.
func TrimWords(s string, limit int) string {
	fields := strings.Fields(s)
	if len(fields) > limit {
		fields = fields[:limit]
	}
	return strings.Join(fields, " ")
}

// WordCount returns the whitespace-token count of s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
