package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/asare-dev/newsforge/app/database"
)

// sourcesFile is the YAML shape of the source seed list.
type sourcesFile struct {
	RSS    []sourceDef `yaml:"rss"`
	Scrape []sourceDef `yaml:"scrape"`
}

type sourceDef struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// SeedSourcesTask registers the sources from the seed file in the database.
// Existing sources (by unique URL) are left untouched, so admin changes to
// the active flag or category survive restarts.
type SeedSourcesTask struct {
	Task
	Path       string
	sourceRepo database.SourceRepository
}

func NewSeedSourcesTask(path string, sourceRepo database.SourceRepository) *SeedSourcesTask {
	return &SeedSourcesTask{
		Task:       NewTask(TaskTypeSeedSources, DefaultMaxRetries),
		Path:       path,
		sourceRepo: sourceRepo,
	}
}

func (t *SeedSourcesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	raw, err := os.ReadFile(t.Path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No sources file found, skipping seeding", "path", t.Path)
			return nil
		}
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("failed to parse sources file: %w", err)
	}

	seeded := 0
	for _, def := range parsed.RSS {
		if err := t.seed(database.SourceTypeRSS, def); err != nil {
			return err
		}
		seeded++
	}
	for _, def := range parsed.Scrape {
		if err := t.seed(database.SourceTypeScrape, def); err != nil {
			return err
		}
		seeded++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"sources", seeded)

	return nil
}

func (t *SeedSourcesTask) seed(sourceType database.SourceType, def sourceDef) error {
	if def.Name == "" || def.URL == "" {
		return fmt.Errorf("source definition missing name or url: %+v", def)
	}

	if err := t.sourceRepo.UpsertSource(sourceType, def.Name, def.URL, def.Category); err != nil {
		return fmt.Errorf("failed to seed source %s: %w", def.Name, err)
	}

	return nil
}
