package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mileage/internal/amqp"
	"mileage/internal/config"
	"mileage/internal/source"
	"mileage/internal/storage"
	"mileage/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting mileage-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
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
		logger.Info("Run archive opened", "path", cfg.ArchiveDBPath)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refreshWorker := worker.NewRefreshWorker(src, cfg.DataBackend, cfg.OutputDir, archive)

	// Regenerate artifacts on startup so a fresh deployment serves
	// current reports before the first refresh request arrives.
	if err := refreshWorker.Run(ctx, "startup"); err != nil {
		logger.Error("Startup report run failed", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		handler := func(msg *amqp.RefreshRequest) error {
			return refreshWorker.HandleRefresh(ctx, msg)
		}
		if err := amqpClient.ConsumeRefreshRequests(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Give the consumer time to finish the in-flight run
	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
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
