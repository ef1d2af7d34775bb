package tasks

import (
	"context"

	"github.com/asare-dev/newsforge/app/ingest"
)

// TaskSchedulerInterface defines the interface for task scheduling
// operations: queue management, worker pool control, and shutdown.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// IngestRunner is the seam between tasks and the ingestion pipeline.
type IngestRunner interface {
	RunRSS(ctx context.Context) (ingest.Result, error)
	RunScrape(ctx context.Context) (ingest.Result, error)
}
