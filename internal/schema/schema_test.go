package schema

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"overviewly/internal/core"
)

func testDeriver() *Deriver {
	return &Deriver{Site: SiteInfo{
		Name:    "Test Site",
		URL:     "http://example.com",
		IconURL: "http://example.com/icon.png",
	}}
}

func testArticle(content string) core.Article {
	created := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return core.Article{
		ID:           "article-1",
		Title:        "Test Article",
		Content:      content,
		Status:       "draft",
		Category:     "Guides",
		DateCreated:  created,
		DateModified: created,
	}
}

func testInput(content string, ct core.ContentType) Input {
	return Input{
		Article:     testArticle(content),
		AuthorName:  "Jane Doe",
		ContentType: ct,
		Permalink:   "http://example.com/articles/article-1",
		CategoryURL: "http://example.com/category/guides",
	}
}

func TestDeriveFaqFromSections(t *testing.T) {
	content := "<h2>What is composting?</h2><p>It is controlled decomposition.</p>" +
		"<h2>How long does it take?</h2><p>Anywhere from weeks to months.</p>"

	result := testDeriver().Derive(testInput(content, core.ContentTypeFAQ), []core.SchemaKind{core.SchemaKindFAQ})

	obj, ok := result.(Object)
	if !ok {
		t.Fatalf("single kind should unwrap to one Object, got %T", result)
	}
	if obj["@type"] != "FAQPage" {
		t.Fatalf("@type = %v, want FAQPage", obj["@type"])
	}

	mainEntity, ok := obj["mainEntity"].([]Object)
	if !ok {
		t.Fatalf("mainEntity type = %T", obj["mainEntity"])
	}
	if len(mainEntity) != 2 {
		t.Fatalf("mainEntity length = %d, want 2", len(mainEntity))
	}
	if mainEntity[0]["name"] != "What is composting?" {
		t.Errorf("first question = %v", mainEntity[0]["name"])
	}
	answer := mainEntity[0]["acceptedAnswer"].(Object)
	if !strings.Contains(answer["text"].(string), "controlled decomposition") {
		t.Errorf("first answer = %v", answer["text"])
	}
}

func TestDeriveFallsBackToBaseArticle(t *testing.T) {
	// No headings at all: the FAQ kind yields nothing, so the base Article
	// object is the sole result.
	content := "<p>Just a paragraph with no structure.</p>"

	result := testDeriver().Derive(testInput(content, core.ContentTypeGeneric), []core.SchemaKind{core.SchemaKindFAQ})

	obj, ok := result.(Object)
	if !ok {
		t.Fatalf("want single Object, got %T", result)
	}
	if obj["@type"] != "Article" {
		t.Errorf("@type = %v, want Article", obj["@type"])
	}
	if obj["headline"] != "Test Article" {
		t.Errorf("headline = %v", obj["headline"])
	}
	if obj["@context"] != SchemaContext {
		t.Errorf("@context = %v", obj["@context"])
	}
}

func TestDeriveStoredHintsAreAuthoritative(t *testing.T) {
	hinted := []any{map[string]any{"@type": "Question", "name": "Hinted question?"}}

	in := testInput("<p>No headings here.</p>", core.ContentTypeFAQ)
	in.Hints = map[string]any{"mainEntity": hinted}

	result := testDeriver().Derive(in, []core.SchemaKind{core.SchemaKindFAQ})

	obj := result.(Object)
	if obj["@type"] != "FAQPage" {
		t.Fatalf("@type = %v, want FAQPage", obj["@type"])
	}
	entity, ok := obj["mainEntity"].([]any)
	if !ok {
		t.Fatalf("mainEntity type = %T", obj["mainEntity"])
	}
	if len(entity) != 1 {
		t.Fatalf("mainEntity length = %d, want the hinted entry", len(entity))
	}
}

func TestDeriveMultipleKindsKeepOrder(t *testing.T) {
	content := "<p>Intro.</p><h2>What is it?</h2><p>An answer.</p>"

	result := testDeriver().Derive(testInput(content, core.ContentTypeFAQ),
		[]core.SchemaKind{core.SchemaKindArticle, core.SchemaKindFAQ, core.SchemaKindBreadcrumb})

	objects, ok := result.([]Object)
	if !ok {
		t.Fatalf("multiple kinds should return a slice, got %T", result)
	}
	if len(objects) != 3 {
		t.Fatalf("got %d objects, want 3", len(objects))
	}
	types := []string{
		objects[0]["@type"].(string),
		objects[1]["@type"].(string),
		objects[2]["@type"].(string),
	}
	expected := []string{"Article", "FAQPage", "BreadcrumbList"}
	for i, want := range expected {
		if types[i] != want {
			t.Errorf("object %d has @type %s, want %s", i, types[i], want)
		}
	}
}

func TestArticleSchemaWordCountAndReadingTime(t *testing.T) {
	content := "<p>" + strings.TrimSpace(strings.Repeat("word ", 400)) + "</p>"

	in := testInput(content, core.ContentTypeGeneric)
	in.Tags = []string{"compost", "gardening"}
	in.Image = &ImageInfo{URL: "http://example.com/cover.jpg", Width: 1200, Height: 630}

	result := testDeriver().Derive(in, []core.SchemaKind{core.SchemaKindArticle})

	obj := result.(Object)
	if obj["keywords"] != "compost, gardening" {
		t.Errorf("keywords = %v", obj["keywords"])
	}
	img, ok := obj["image"].(Object)
	if !ok || img["url"] != "http://example.com/cover.jpg" {
		t.Errorf("image = %v", obj["image"])
	}
	if obj["wordCount"] != 400 {
		t.Errorf("wordCount = %v, want 400", obj["wordCount"])
	}
	if obj["timeRequired"] != "PT2M" {
		t.Errorf("timeRequired = %v, want PT2M", obj["timeRequired"])
	}
	if obj["articleSection"] != "Guides" {
		t.Errorf("articleSection = %v", obj["articleSection"])
	}
}

func TestBreadcrumbPositions(t *testing.T) {
	result := testDeriver().Derive(testInput("<p>Body.</p>", core.ContentTypeGeneric), []core.SchemaKind{core.SchemaKindBreadcrumb})

	obj := result.(Object)
	items := obj["itemListElement"].([]Object)
	if len(items) != 3 {
		t.Fatalf("got %d breadcrumb items, want 3", len(items))
	}
	for i, item := range items {
		if item["position"] != i+1 {
			t.Errorf("item %d position = %v", i, item["position"])
		}
	}
	if items[0]["name"] != "Home" {
		t.Errorf("first item = %v", items[0]["name"])
	}
	if items[1]["name"] != "Guides" {
		t.Errorf("second item = %v", items[1]["name"])
	}
	if items[2]["name"] != "Test Article" {
		t.Errorf("third item = %v", items[2]["name"])
	}
}

func TestBreadcrumbWithoutCategory(t *testing.T) {
	in := testInput("<p>Body.</p>", core.ContentTypeGeneric)
	in.Article.Category = ""

	result := testDeriver().Derive(in, []core.SchemaKind{core.SchemaKindBreadcrumb})

	items := result.(Object)["itemListElement"].([]Object)
	if len(items) != 2 {
		t.Fatalf("got %d breadcrumb items, want 2", len(items))
	}
	if items[1]["position"] != 2 {
		t.Errorf("article position = %v, want 2", items[1]["position"])
	}
}

func TestBaseSchemaPublisherLogoFallback(t *testing.T) {
	d := &Deriver{Site: SiteInfo{Name: "No Icon Site", URL: "http://example.com/"}}

	result := d.Derive(testInput("<p>Body.</p>", core.ContentTypeGeneric), nil)

	obj := result.(Object)
	logo := obj["publisher"].(Object)["logo"].(Object)
	if logo["url"] != "http://example.com/assets/logo.png" {
		t.Errorf("logo url = %v", logo["url"])
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		obj      Object
		expected bool
	}{
		{"valid", Object{"@context": SchemaContext, "@type": "Article"}, true},
		{"nil object", nil, false},
		{"missing context", Object{"@type": "Article"}, false},
		{"wrong context", Object{"@context": "http://example.com", "@type": "Article"}, false},
		{"empty type", Object{"@context": SchemaContext, "@type": ""}, false},
		{"non-string type", Object{"@context": SchemaContext, "@type": 42}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.obj); got != tc.expected {
				t.Errorf("Validate = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestExtractFaqEntriesBounded(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 14; i++ {
		fmt.Fprintf(&b, "<h2>Question %d?</h2><p>Answer %d.</p>", i, i)
	}

	entries := ExtractFaqEntries(b.String())
	if len(entries) != 10 {
		t.Errorf("got %d entries, want cap of 10", len(entries))
	}
}

func TestExtractStepsNumbersFromOne(t *testing.T) {
	content := "<h2>Step 1: Prepare</h2><p>Get the tools.</p><h2>Step 2: Assemble</h2><p>Put it together.</p>"

	steps := ExtractSteps(content)
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[0].Position != 1 || steps[1].Position != 2 {
		t.Errorf("positions = %d, %d", steps[0].Position, steps[1].Position)
	}
	if steps[0].Title != "Step 1: Prepare" {
		t.Errorf("first step title = %q", steps[0].Title)
	}
}

func TestExtractFaqEntriesBareTextAnswer(t *testing.T) {
	// Answers are not always wrapped in an element; bare text directly
	// after the heading still belongs to the section.
	content := "<h2>What is composting?</h2>It is controlled decomposition." +
		"<h2>How long does it take?</h2><p>Weeks to months.</p>"

	entries := ExtractFaqEntries(content)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Answer != "It is controlled decomposition." {
		t.Errorf("first answer = %q", entries[0].Answer)
	}
	if entries[1].Answer != "Weeks to months." {
		t.Errorf("second answer = %q", entries[1].Answer)
	}
}

func TestExtractSkipsEmptySections(t *testing.T) {
	content := "<h2>Has body</h2><p>Text.</p><h2>No body</h2><h2>Also has body</h2><p>More text.</p>"

	entries := ExtractFaqEntries(content)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (empty section skipped)", len(entries))
	}
}

func TestHasFaqContent(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected bool
	}{
		{"question word heading", "<h2>What is composting?</h2><p>x</p>", true},
		{"question mark suffix", "<h2>Worth the effort?</h2><p>x</p>", true},
		{"no questions", "<h2>Overview</h2><p>x</p>", false},
		{"no headings", "<p>Just text.</p>", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasFaqContent(tc.content); got != tc.expected {
				t.Errorf("HasFaqContent = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestHasHowToContent(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected bool
	}{
		{"step heading", "<h2>Step 1: Begin</h2><p>x</p>", true},
		{"how to heading", "<h2>How to start</h2><p>x</p>", true},
		{"guide heading", "<h2>Beginner's Guide</h2><p>x</p>", true},
		{"plain heading", "<h2>Background</h2><p>x</p>", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasHowToContent(tc.content); got != tc.expected {
				t.Errorf("HasHowToContent = %v, want %v", got, tc.expected)
			}
		})
	}
}
