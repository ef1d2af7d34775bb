package database

import (
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func testArticle(slug, sourceURL string) *Article {
	now := time.Date(2025, 7, 15, 8, 30, 0, 0, time.UTC)
	return &Article{
		Title:     "Harbour Expansion Enters Second Phase",
		Slug:      slug,
		Content:   "The expansion project moved into its second phase this week with new berths under construction.",
		Excerpt:   "The expansion project moved into its second phase this week.",
		Category:  "business",
		Source:    "Test Source",
		SourceURL: sourceURL,
		ImageURL:  "https://img.example.com/harbour.jpg",
		Status:    "published",
		IsScraped: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestArticleRepository_InsertAndGet(t *testing.T) {
	repo := NewArticleRepository(testDB(t))

	if err := repo.Insert(testArticle("harbour-expansion", "https://news.example.com/harbour")); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	got, err := repo.getArticleBySlug("harbour-expansion")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if got == nil {
		t.Fatal("Expected article, got nil")
	}

	if got.Title != "Harbour Expansion Enters Second Phase" {
		t.Errorf("Expected title preserved, got '%s'", got.Title)
	}
	if got.Author != "Newsroom Staff" {
		t.Errorf("Expected default author, got '%s'", got.Author)
	}
	if got.Status != "published" || !got.IsScraped || got.IsAIRewritten {
		t.Errorf("Unexpected flags: status='%s' scraped=%v rewritten=%v", got.Status, got.IsScraped, got.IsAIRewritten)
	}
	if got.Views != 0 {
		t.Errorf("Expected zero views, got %d", got.Views)
	}
	if !got.CreatedAt.Equal(time.Date(2025, 7, 15, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("Expected created_at round-trip, got %v", got.CreatedAt)
	}
}

func TestArticleRepository_GetMissing(t *testing.T) {
	repo := NewArticleRepository(testDB(t))

	got, err := repo.getArticleBySlug("no-such-slug")
	if err != nil {
		t.Fatalf("Expected no error for missing article, got: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing article, got %+v", got)
	}
}

func TestArticleRepository_ExplicitAuthorKept(t *testing.T) {
	repo := NewArticleRepository(testDB(t))

	article := testArticle("bylined-piece", "https://news.example.com/byline")
	article.Author = "Ama Mensah"
	if err := repo.Insert(article); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	got, err := repo.getArticleBySlug("bylined-piece")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if got.Author != "Ama Mensah" {
		t.Errorf("Expected explicit author kept, got '%s'", got.Author)
	}
}

func TestArticleRepository_Exists(t *testing.T) {
	repo := NewArticleRepository(testDB(t))

	if err := repo.Insert(testArticle("known-slug", "https://news.example.com/known")); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}

	cases := []struct {
		name  string
		check func() (bool, error)
		want  bool
	}{
		{"known slug", func() (bool, error) { return repo.ExistsBySlug("known-slug") }, true},
		{"unknown slug", func() (bool, error) { return repo.ExistsBySlug("unknown-slug") }, false},
		{"known url", func() (bool, error) { return repo.ExistsBySourceURL("https://news.example.com/known") }, true},
		{"unknown url", func() (bool, error) { return repo.ExistsBySourceURL("https://news.example.com/other") }, false},
	}

	for _, tc := range cases {
		got, err := tc.check()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestArticleRepository_SlugUnique(t *testing.T) {
	repo := NewArticleRepository(testDB(t))

	if err := repo.Insert(testArticle("same-slug", "https://news.example.com/a")); err != nil {
		t.Fatalf("Failed to insert article: %v", err)
	}
	if err := repo.Insert(testArticle("same-slug", "https://news.example.com/b")); err == nil {
		t.Error("Expected unique constraint error for duplicate slug")
	}
}

func TestArticleRepository_Count(t *testing.T) {
	repo := NewArticleRepository(testDB(t))

	count, err := repo.GetArticleCount()
	if err != nil {
		t.Fatalf("Failed to count articles: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 articles, got %d", count)
	}

	repo.Insert(testArticle("first-article", "https://news.example.com/1"))
	repo.Insert(testArticle("second-article", "https://news.example.com/2"))

	count, err = repo.GetArticleCount()
	if err != nil {
		t.Fatalf("Failed to count articles: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 articles, got %d", count)
	}
}

func TestSourceRepository_UpsertIdempotent(t *testing.T) {
	repo := NewSourceRepository(testDB(t))

	for i := 0; i < 3; i++ {
		if err := repo.UpsertSource(SourceTypeRSS, "Test Feed", "https://feed.example.com/rss", "business"); err != nil {
			t.Fatalf("Failed to upsert source: %v", err)
		}
	}

	count, err := repo.GetSourceCount(SourceTypeRSS)
	if err != nil {
		t.Fatalf("Failed to count sources: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 source after repeated upserts, got %d", count)
	}
}

func TestSourceRepository_GetActiveSources(t *testing.T) {
	db := testDB(t)
	repo := NewSourceRepository(db)

	repo.UpsertSource(SourceTypeRSS, "Feed One", "https://one.example.com/rss", "sports")
	repo.UpsertSource(SourceTypeRSS, "Feed Two", "https://two.example.com/rss", "")
	repo.UpsertSource(SourceTypeScrape, "Site One", "https://site.example.com", "general")

	if _, err := db.Exec("UPDATE rss_sources SET active = 0 WHERE name = 'Feed One'"); err != nil {
		t.Fatalf("Failed to deactivate source: %v", err)
	}

	sources, err := repo.GetActiveSources(SourceTypeRSS)
	if err != nil {
		t.Fatalf("Failed to get active sources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("Expected 1 active RSS source, got %d", len(sources))
	}

	got := sources[0]
	if got.Name != "Feed Two" {
		t.Errorf("Expected 'Feed Two', got '%s'", got.Name)
	}
	if got.Category != "general" {
		t.Errorf("Expected empty category defaulted to general, got '%s'", got.Category)
	}
	if got.Type != SourceTypeRSS {
		t.Errorf("Expected rss type, got '%s'", got.Type)
	}
	if got.LastFetched != nil {
		t.Errorf("Expected nil watermark before first run, got %v", got.LastFetched)
	}

	scrape, err := repo.GetActiveSources(SourceTypeScrape)
	if err != nil {
		t.Fatalf("Failed to get scrape sources: %v", err)
	}
	if len(scrape) != 1 || scrape[0].Name != "Site One" {
		t.Errorf("Expected scrape sources separate from rss, got %+v", scrape)
	}
}

func TestSourceRepository_UpdateWatermark(t *testing.T) {
	repo := NewSourceRepository(testDB(t))

	repo.UpsertSource(SourceTypeScrape, "Test Site", "https://site.example.com", "general")

	sources, err := repo.GetActiveSources(SourceTypeScrape)
	if err != nil || len(sources) != 1 {
		t.Fatalf("Failed to get seeded source: %v (%d)", err, len(sources))
	}

	before := time.Now().UTC().Add(-time.Second)
	if err := repo.UpdateWatermark(SourceTypeScrape, sources[0].ID); err != nil {
		t.Fatalf("Failed to update watermark: %v", err)
	}

	sources, err = repo.GetActiveSources(SourceTypeScrape)
	if err != nil {
		t.Fatalf("Failed to re-read source: %v", err)
	}
	if sources[0].LastFetched == nil {
		t.Fatal("Expected watermark set after update")
	}
	if sources[0].LastFetched.Before(before) {
		t.Errorf("Expected recent watermark, got %v", sources[0].LastFetched)
	}
}

func TestSourceRepository_UnknownType(t *testing.T) {
	repo := NewSourceRepository(testDB(t))

	if _, err := repo.GetActiveSources(SourceType("mystery")); err == nil {
		t.Error("Expected error for unknown source type")
	}
	if err := repo.UpsertSource(SourceType("mystery"), "n", "u", "c"); err == nil {
		t.Error("Expected error for unknown source type")
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected second migration run to be a no-op, got: %v", err)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}
	if version == 0 {
		t.Error("Expected non-zero migration version")
	}
}
