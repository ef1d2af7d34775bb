package tasks

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeIngestRSS, 3)

	if task.GetType() != TaskTypeIngestRSS {
		t.Errorf("Expected type '%s', got '%s'", TaskTypeIngestRSS, task.GetType())
	}
	if task.GetID() == "" {
		t.Error("Expected non-empty task ID")
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected retry count 0, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != 3 {
		t.Errorf("Expected max retries 3, got %d", task.GetMaxRetries())
	}
}

func TestTask_UniqueIDs(t *testing.T) {
	a := NewTask(TaskTypeIngestRSS, 0)
	b := NewTask(TaskTypeIngestRSS, 0)
	if a.GetID() == b.GetID() {
		t.Errorf("Expected distinct task IDs, both were '%s'", a.GetID())
	}
}

func TestTask_Retry(t *testing.T) {
	task := NewTask(TaskTypeSeedSources, 2)

	if !task.CanRetry() {
		t.Error("Expected fresh task to be retryable")
	}

	task.IncrementRetryCount()
	if !task.CanRetry() {
		t.Error("Expected task retryable after first retry")
	}

	task.IncrementRetryCount()
	if task.CanRetry() {
		t.Error("Expected task exhausted after max retries")
	}
	if task.GetRetryCount() != 2 {
		t.Errorf("Expected retry count 2, got %d", task.GetRetryCount())
	}
}

func TestTask_NoRetries(t *testing.T) {
	task := NewTask(TaskTypeIngestScrape, 0)
	if task.CanRetry() {
		t.Error("Expected task with zero max retries to never retry")
	}
}

func TestTask_Duration(t *testing.T) {
	task := NewTask(TaskTypeIngestRSS, 0)

	if task.GetDuration() != 0 {
		t.Errorf("Expected zero duration before start, got %v", task.GetDuration())
	}

	task.Start()
	time.Sleep(10 * time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Errorf("Expected positive duration after start, got %v", task.GetDuration())
	}
}
