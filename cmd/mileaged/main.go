package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mileage/internal/amqp"
	"mileage/internal/config"
	apphttp "mileage/internal/http"
	"mileage/internal/source"
	"mileage/internal/storage"
)

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
	logger.Info("Initialized data source", "backend", cfg.DataBackend)

	// Run archive is optional; the dashboard hides history without it.
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

	// Refresh queue is optional; without it the refresh button only
	// drops the dashboard cache.
	var publisher apphttp.RefreshPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Refresh queue connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	srv := apphttp.NewServer(":"+cfg.Port, src, archive, publisher, cfg.CacheTTL)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting mileage server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
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
