package database

import (
	"time"
)

type SourceType string

const (
	SourceTypeRSS    SourceType = "rss"
	SourceTypeScrape SourceType = "scrape"
)

// Article is the unit persisted by the ingestion pipeline. Records are
// immutable once ingested; status and views belong to external surfaces.
type Article struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	Category      string
	Source        string
	SourceURL     string
	ImageURL      string // empty means no representative image
	Author        string
	Status        string
	IsScraped     bool
	IsAIRewritten bool
	Views         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Source is a configured ingestion source, RSS feed or scrape target.
// The pipeline only writes the watermark timestamp.
type Source struct {
	ID          int64
	Type        SourceType
	Name        string
	URL         string
	Category    string
	Active      bool
	LastFetched *time.Time
	CreatedAt   time.Time
}
