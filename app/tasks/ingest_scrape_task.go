package tasks

import (
	"context"
	"log/slog"
)

// IngestScrapeTask runs one scrape ingestion pass over all active scrape
// sources. Not retried on failure, same as the RSS task.
type IngestScrapeTask struct {
	Task
	runner IngestRunner
}

func NewIngestScrapeTask(runner IngestRunner) *IngestScrapeTask {
	return &IngestScrapeTask{
		Task:   NewTask(TaskTypeIngestScrape, 0),
		runner: runner,
	}
}

func (t *IngestScrapeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.runner.RunScrape(ctx)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"added", result.Added,
		"failed", result.Failed)

	return nil
}
