package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mileage/internal/amqp"
	"mileage/internal/core"
	"mileage/internal/report"
	"mileage/internal/source"
	"mileage/internal/storage"
)

// RefreshWorker runs the full pipeline — fetch, normalize, prepare,
// summarize — and writes the report artifacts. The batch CLI calls Run
// once; the AMQP consumer calls it per refresh request. The archive is
// optional.
type RefreshWorker struct {
	source     source.Source
	sourceKind string
	outputDir  string
	archive    *storage.Archive
}

func NewRefreshWorker(src source.Source, sourceKind, outputDir string, archive *storage.Archive) *RefreshWorker {
	return &RefreshWorker{
		source:     src,
		sourceKind: sourceKind,
		outputDir:  outputDir,
		archive:    archive,
	}
}

// HandleRefresh processes a single refresh request from AMQP.
func (w *RefreshWorker) HandleRefresh(ctx context.Context, msg *amqp.RefreshRequest) error {
	slog.InfoContext(ctx, "Processing refresh request", "reason", msg.Reason)
	return w.Run(ctx, "refresh")
}

// Run executes one full report generation. It returns ErrNoData
// unwrapped when nothing could be acquired, so callers can show "no
// data available" instead of a schema error.
func (w *RefreshWorker) Run(ctx context.Context, trigger string) error {
	raw, err := w.source.Fetch(ctx)
	if err != nil {
		if errors.Is(err, source.ErrNoData) {
			return source.ErrNoData
		}
		return fmt.Errorf("fetch rows: %w", err)
	}

	ds, err := core.Normalize(raw)
	if err != nil {
		return fmt.Errorf("normalize columns: %w", err)
	}
	prepared := core.Prepare(ds)
	summary := core.Summarize(prepared)

	issues, err := report.WriteArtifacts(w.outputDir, prepared, summary)
	if err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	slog.InfoContext(ctx, "Report generated",
		"trigger", trigger,
		"source_kind", w.sourceKind,
		"row_count", len(prepared.Trips),
		"issue_count", issues,
		"vehicle_count", len(summary),
		"output_dir", w.outputDir)

	if w.archive != nil {
		run := storage.Run{
			Trigger:    trigger,
			SourceKind: w.sourceKind,
			RowCount:   len(prepared.Trips),
			IssueCount: issues,
		}
		if _, err := w.archive.RecordRun(ctx, run, summary); err != nil {
			// Artifacts are already on disk; losing history is not fatal.
			slog.WarnContext(ctx, "Failed to archive report run", "error", err)
		}
	}
	return nil
}
