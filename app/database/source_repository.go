package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SourceRepository = (*SQLSourceRepository)(nil)

type SQLSourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *SQLSourceRepository {
	return &SQLSourceRepository{db: db}
}

func (r *SQLSourceRepository) GetActiveSources(sourceType SourceType) ([]Source, error) {
	table, watermark, err := tableFor(sourceType)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT id, name, url, category, active, %s, created_at
		FROM %s
		WHERE active = 1
		ORDER BY id
	`, watermark, table))
	if err != nil {
		return nil, fmt.Errorf("failed to get active sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var source Source
		var lastFetched sql.NullString
		var createdAt string

		err := rows.Scan(&source.ID, &source.Name, &source.URL, &source.Category,
			&source.Active, &lastFetched, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}

		source.Type = sourceType
		source.CreatedAt = parseTime(createdAt)
		if lastFetched.Valid {
			t := parseTime(lastFetched.String)
			source.LastFetched = &t
		}

		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

// UpsertSource registers a source, ignoring the insert when the unique URL
// already exists.
func (r *SQLSourceRepository) UpsertSource(sourceType SourceType, name, url, category string) error {
	table, _, err := tableFor(sourceType)
	if err != nil {
		return err
	}

	if category == "" {
		category = "general"
	}

	_, err = r.db.Exec(fmt.Sprintf(`
		INSERT OR IGNORE INTO %s (name, url, category, active)
		VALUES (?, ?, ?, 1)
	`, table), name, url, category)

	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

func (r *SQLSourceRepository) UpdateWatermark(sourceType SourceType, id int64) error {
	table, watermark, err := tableFor(sourceType)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(fmt.Sprintf(`
		UPDATE %s SET %s = ? WHERE id = ?
	`, table, watermark), formatTime(time.Now()), id)

	if err != nil {
		return fmt.Errorf("failed to update source watermark: %w", err)
	}

	return nil
}

func (r *SQLSourceRepository) GetSourceCount(sourceType SourceType) (int, error) {
	table, _, err := tableFor(sourceType)
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

func tableFor(sourceType SourceType) (table string, watermark string, err error) {
	switch sourceType {
	case SourceTypeRSS:
		return "rss_sources", "last_fetched", nil
	case SourceTypeScrape:
		return "scrape_sources", "last_scraped", nil
	default:
		return "", "", fmt.Errorf("unknown source type: %s", sourceType)
	}
}
