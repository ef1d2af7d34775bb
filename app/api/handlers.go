package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asare-dev/newsforge/app/database"
	"github.com/asare-dev/newsforge/app/ingest"
	"github.com/asare-dev/newsforge/app/tasks"
)

// runBudget bounds one triggered ingestion run end to end.
const runBudget = 60 * time.Second

func NewHandler(articleRepo database.ArticleRepository, sourceRepo database.SourceRepository,
	runner tasks.IngestRunner) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
		runner:      runner,
	}
}

// TriggerRSS runs RSS ingestion synchronously and returns the run summary.
func (h *Handler) TriggerRSS(c *gin.Context) {
	h.trigger(c, "rss", h.runner.RunRSS)
}

// TriggerScrape runs scrape ingestion synchronously and returns the run
// summary.
func (h *Handler) TriggerScrape(c *gin.Context) {
	h.trigger(c, "scrape", h.runner.RunScrape)
}

func (h *Handler) trigger(c *gin.Context, kind string, run func(context.Context) (ingest.Result, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), runBudget)
	defer cancel()

	result, err := run(ctx)
	if err != nil {
		slog.Error("Ingestion run failed", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"added":     result.Added,
		"failed":    result.Failed,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = count
	}
	if count, err := h.sourceRepo.GetSourceCount(database.SourceTypeRSS); err == nil {
		health["rss_sources"] = count
	}
	if count, err := h.sourceRepo.GetSourceCount(database.SourceTypeScrape); err == nil {
		health["scrape_sources"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"categories": ingest.Categories,
	}

	if count, err := h.articleRepo.GetArticleCount(); err == nil {
		stats["articles"] = count
	} else {
		slog.Error("Database error", "operation", "article_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	sources := map[string]interface{}{}
	if count, err := h.sourceRepo.GetSourceCount(database.SourceTypeRSS); err == nil {
		sources["rss"] = count
	}
	if count, err := h.sourceRepo.GetSourceCount(database.SourceTypeScrape); err == nil {
		sources["scrape"] = count
	}
	stats["sources"] = sources

	c.JSON(http.StatusOK, stats)
}
