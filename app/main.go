package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/asare-dev/newsforge/app/api"
	"github.com/asare-dev/newsforge/app/cfg"
	"github.com/asare-dev/newsforge/app/database"
	"github.com/asare-dev/newsforge/app/ingest"
	"github.com/asare-dev/newsforge/app/tasks"
)

func main() {
	// .env is optional; flags and real environment variables win.
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)
	slog.Info("Starting NewsForge server...", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	articleRepo := database.NewArticleRepository(db)
	sourceRepo := database.NewSourceRepository(db)

	httpClient := &http.Client{}
	extractor := ingest.NewExtractor(httpClient, appCfg.UserAgent)

	var generator ingest.TextGenerator
	if appCfg.RewriteEnabled() {
		generator = ingest.NewOpenRouterClient(appCfg.RewriteEndpoint, appCfg.RewriteModel,
			appCfg.RewriteAPIKey, appCfg.SiteURL, httpClient)
		slog.Info("Rewrite service configured", "model", appCfg.RewriteModel)
	} else {
		slog.Info("Rewrite service not configured, using expansion fallback")
	}
	rewriter := ingest.NewRewriter(generator)

	runner := ingest.NewRunner(articleRepo, sourceRepo, extractor, rewriter)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(runner, sourceRepo)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(articleRepo, sourceRepo, runner)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
