package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mileage/internal/config"
	"mileage/internal/core"
	"mileage/internal/source"
	"mileage/internal/storage"
	"mileage/internal/worker"
)

// mileage-report runs the pipeline once and writes the report artifacts
// to the configured output directory.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	src, err := buildSource(cfg)
	if err != nil {
		logger.Error("Failed to initialize data source", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	var archive *storage.Archive
	if cfg.ArchiveDBPath != "" {
		archive, err = storage.NewArchive(cfg.ArchiveDBPath)
		if err != nil {
			logger.Error("Failed to open run archive", "error", err, "path", cfg.ArchiveDBPath)
			os.Exit(1)
		}
		defer archive.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewRefreshWorker(src, cfg.DataBackend, cfg.OutputDir, archive)
	if err := w.Run(ctx, "cli"); err != nil {
		var missing *core.MissingColumnsError
		switch {
		case errors.Is(err, source.ErrNoData):
			logger.Error("No mileage rows found", "backend", cfg.DataBackend)
		case errors.As(err, &missing):
			logger.Error("Input is missing required columns",
				"missing", missing.Missing, "found", missing.Found)
		default:
			logger.Error("Report run failed", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("Report artifacts written", "output_dir", cfg.OutputDir)
}

func buildSource(cfg *config.Config) (source.Source, error) {
	switch cfg.DataBackend {
	case "published":
		return source.NewPublished(cfg.DriverSheets), nil
	case "sheets":
		return source.NewGoogleSheetFromEnv(context.Background())
	default:
		return source.NewCSVDir(cfg.CSVDir), nil
	}
}
