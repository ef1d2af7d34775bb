package tasks

import (
	"context"
	"log/slog"
)

// IngestRSSTask runs one RSS ingestion pass over all active feed sources.
// MaxRetries is zero: a failed run is not retried, the next scheduler tick
// is the retry.
type IngestRSSTask struct {
	Task
	runner IngestRunner
}

func NewIngestRSSTask(runner IngestRunner) *IngestRSSTask {
	return &IngestRSSTask{
		Task:   NewTask(TaskTypeIngestRSS, 0),
		runner: runner,
	}
}

func (t *IngestRSSTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.runner.RunRSS(ctx)
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
