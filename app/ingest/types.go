package ingest

import (
	"time"
)

// Category values assignable by the classifier.
const (
	CategoryGeneral       = "general"
	CategoryPolitics      = "politics"
	CategoryBusiness      = "business"
	CategorySports        = "sports"
	CategoryEntertainment = "entertainment"
	CategoryHealth        = "health"
	CategoryTechnology    = "technology"
)

// Categories lists every category the pipeline can assign.
var Categories = []string{
	CategoryGeneral,
	CategoryPolitics,
	CategoryBusiness,
	CategorySports,
	CategoryEntertainment,
	CategoryHealth,
	CategoryTechnology,
}

// Extracted is a candidate article produced by one of the extraction paths,
// before rewrite and slug assignment.
type Extracted struct {
	Title       string
	Content     string
	Excerpt     string
	ImageURL    string
	SourceURL   string
	Source      string
	Category    string
	PublishedAt *time.Time
}

// Result aggregates the counters for one ingestion run.
type Result struct {
	Added  int `json:"added"`
	Failed int `json:"failed"`
}
