package api

import (
	"github.com/asare-dev/newsforge/app/database"
	"github.com/asare-dev/newsforge/app/ingest"
	"github.com/asare-dev/newsforge/app/tasks"
)

var _ tasks.IngestRunner = (*ingest.Runner)(nil)

type Handler struct {
	articleRepo database.ArticleRepository
	sourceRepo  database.SourceRepository
	runner      tasks.IngestRunner
}
