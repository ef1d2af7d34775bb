package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./newsforge.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SourcesFile       string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with RSS and scrape source definitions"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"900" description:"Ingestion scheduler interval in seconds"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for ingestion tasks"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for trigger endpoints (optional)"`

	// Rewrite service configuration
	RewriteEndpoint string `long:"rewrite-endpoint" env:"REWRITE_ENDPOINT" default:"https://openrouter.ai/api/v1/chat/completions" description:"Chat-completions endpoint for the rewrite service"`
	RewriteModel    string `long:"rewrite-model" env:"REWRITE_MODEL" default:"mistralai/mistral-7b-instruct:free" description:"Model identifier for the rewrite service"`
	RewriteAPIKey   string `long:"rewrite-api-key" env:"OPENROUTER_API_KEY" description:"API key for the rewrite service (optional, fallback expansion is used without it)"`
	SiteURL         string `long:"site-url" env:"SITE_URL" default:"https://newsforge.example.com" description:"Public site URL, sent as referer to the rewrite service"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; NewsForgeBot/1.0; +https://newsforge.example.com)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Africa/Accra)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		SourcesFile:       raw.SourcesFile,
		SchedulerInterval: raw.SchedulerInterval,
		WorkerCount:       raw.WorkerCount,
		APIAccessKey:      raw.APIAccessKey,
		RewriteEndpoint:   raw.RewriteEndpoint,
		RewriteModel:      raw.RewriteModel,
		RewriteAPIKey:     raw.RewriteAPIKey,
		SiteURL:           raw.SiteURL,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
