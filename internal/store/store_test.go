package store

import (
	"testing"
	"time"

	"overviewly/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleArticle(id string, created time.Time) core.Article {
	return core.Article{
		ID:           id,
		Title:        "Sample Title",
		Content:      "<p>Sample content.</p>",
		Status:       "draft",
		Category:     "Guides",
		AuthorID:     "user-1",
		DateCreated:  created,
		DateModified: created,
	}
}

func TestCreateAndGetArticle(t *testing.T) {
	st := newTestStore(t)
	created := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	meta := map[string]any{
		core.MetaGenerated: true,
		core.MetaTopic:     "composting",
	}
	if err := st.CreateArticle(sampleArticle("a1", created), meta); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}

	article, err := st.GetArticle("a1")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if article == nil {
		t.Fatal("GetArticle returned nil for existing article")
	}
	if article.Title != "Sample Title" {
		t.Errorf("Title = %q", article.Title)
	}
	if article.Status != "draft" {
		t.Errorf("Status = %q", article.Status)
	}
	if !article.DateCreated.Equal(created) {
		t.Errorf("DateCreated = %v, want %v", article.DateCreated, created)
	}

	if topic := st.GetMetaString("a1", core.MetaTopic); topic != "composting" {
		t.Errorf("topic meta = %q", topic)
	}

	var generated bool
	ok, err := st.GetMeta("a1", core.MetaGenerated, &generated)
	if err != nil || !ok || !generated {
		t.Errorf("generated meta: ok=%v generated=%v err=%v", ok, generated, err)
	}
}

func TestGetArticleMiss(t *testing.T) {
	st := newTestStore(t)

	article, err := st.GetArticle("missing")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if article != nil {
		t.Error("GetArticle miss should return nil, nil")
	}
}

func TestGetMetaMiss(t *testing.T) {
	st := newTestStore(t)

	var out string
	ok, err := st.GetMeta("missing", "nothing", &out)
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if ok {
		t.Error("GetMeta miss should report false")
	}
}

func TestSetMetaRoundTripsStructuredData(t *testing.T) {
	st := newTestStore(t)
	if err := st.CreateArticle(sampleArticle("a1", time.Now().UTC()), nil); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}

	hints := map[string]any{"@type": "FAQPage", "headline": "Sample"}
	if err := st.SetMeta("a1", core.MetaStructuredData, hints); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}

	var loaded map[string]any
	ok, err := st.GetMeta("a1", core.MetaStructuredData, &loaded)
	if err != nil || !ok {
		t.Fatalf("GetMeta failed: ok=%v err=%v", ok, err)
	}
	if loaded["@type"] != "FAQPage" {
		t.Errorf("loaded hints = %v", loaded)
	}
}

func TestListArticlesNewestFirst(t *testing.T) {
	st := newTestStore(t)
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	if err := st.CreateArticle(sampleArticle("old", older), nil); err != nil {
		t.Fatal(err)
	}
	if err := st.CreateArticle(sampleArticle("new", newer), nil); err != nil {
		t.Fatal(err)
	}

	articles, err := st.ListArticles(10)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].ID != "new" {
		t.Errorf("first article = %s, want the newest", articles[0].ID)
	}
}

func TestResolveAuthor(t *testing.T) {
	st := newTestStore(t)

	created, err := st.EnsureUser("jane.doe", "Jane Doe")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	byDisplay, err := st.ResolveAuthor("Jane Doe")
	if err != nil {
		t.Fatalf("ResolveAuthor failed: %v", err)
	}
	if byDisplay == nil || byDisplay.ID != created.ID {
		t.Error("lookup by display name failed")
	}

	// Falls through to the login-normalized form of the name.
	byLogin, err := st.ResolveAuthor("JANE.DOE")
	if err != nil {
		t.Fatalf("ResolveAuthor failed: %v", err)
	}
	if byLogin == nil || byLogin.ID != created.ID {
		t.Error("lookup by normalized login failed")
	}

	miss, err := st.ResolveAuthor("Nobody Here")
	if err != nil {
		t.Fatalf("ResolveAuthor failed: %v", err)
	}
	if miss != nil {
		t.Error("unknown author should resolve to nil")
	}
}

func TestEnsureUserIdempotent(t *testing.T) {
	st := newTestStore(t)

	first, err := st.EnsureUser("admin", "Admin")
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.EnsureUser("admin", "Admin")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("EnsureUser created a duplicate: %s vs %s", first.ID, second.ID)
	}
}

func TestNormalizeLogin(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Jane Doe", "janedoe"},
		{"jane.doe@example.com", "jane.doe@example.com"},
		{"User#42!", "user42"},
		{"already-clean_name", "already-clean_name"},
	}

	for _, tc := range testCases {
		if got := NormalizeLogin(tc.input); got != tc.expected {
			t.Errorf("NormalizeLogin(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestEnsureCategory(t *testing.T) {
	st := newTestStore(t)

	if err := st.EnsureCategory("Guides"); err != nil {
		t.Fatalf("EnsureCategory failed: %v", err)
	}
	// Second call must be a no-op, not a constraint violation.
	if err := st.EnsureCategory("Guides"); err != nil {
		t.Fatalf("repeated EnsureCategory failed: %v", err)
	}
	if err := st.EnsureCategory(""); err != nil {
		t.Fatalf("empty category should be ignored, got: %v", err)
	}
}
