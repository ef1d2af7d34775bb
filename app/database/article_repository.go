package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ ArticleRepository = (*SQLArticleRepository)(nil)

type SQLArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

func (r *SQLArticleRepository) Insert(article *Article) error {
	_, err := r.db.Exec(`
		INSERT INTO articles (
			title, slug, content, excerpt, category, source, source_url,
			image_url, author, status, is_scraped, is_ai_rewritten,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, COALESCE(NULLIF(?, ''), 'Newsroom Staff'), ?, ?, ?, ?, ?)
	`, article.Title, article.Slug, article.Content, article.Excerpt,
		article.Category, nullString(article.Source), nullString(article.SourceURL),
		nullString(article.ImageURL), article.Author, article.Status,
		article.IsScraped, article.IsAIRewritten,
		formatTime(article.CreatedAt), formatTime(article.UpdatedAt))

	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

func (r *SQLArticleRepository) ExistsBySlug(slug string) (bool, error) {
	var id int64
	err := r.db.QueryRow("SELECT id FROM articles WHERE slug = ? LIMIT 1", slug).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return true, nil
}

func (r *SQLArticleRepository) ExistsBySourceURL(sourceURL string) (bool, error) {
	var id int64
	err := r.db.QueryRow("SELECT id FROM articles WHERE source_url = ? LIMIT 1", sourceURL).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check source URL existence: %w", err)
	}
	return true, nil
}

func (r *SQLArticleRepository) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// getArticleBySlug reads a stored article back for the package tests;
// the serving frontend reads the same table directly.
func (r *SQLArticleRepository) getArticleBySlug(slug string) (*Article, error) {
	var article Article
	var source, sourceURL, imageURL, excerpt sql.NullString
	var createdAt, updatedAt string

	err := r.db.QueryRow(`
		SELECT id, title, slug, content, COALESCE(excerpt, ''), category,
		       source, source_url, image_url, author, status,
		       is_scraped, is_ai_rewritten, views, created_at, updated_at
		FROM articles
		WHERE slug = ?
	`, slug).Scan(
		&article.ID, &article.Title, &article.Slug, &article.Content, &excerpt,
		&article.Category, &source, &sourceURL, &imageURL, &article.Author,
		&article.Status, &article.IsScraped, &article.IsAIRewritten,
		&article.Views, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}

	article.Excerpt = excerpt.String
	article.Source = source.String
	article.SourceURL = sourceURL.String
	article.ImageURL = imageURL.String
	article.CreatedAt = parseTime(createdAt)
	article.UpdatedAt = parseTime(updatedAt)

	return &article, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
