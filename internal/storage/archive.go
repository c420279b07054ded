// Package storage keeps a history of report runs in SQLite: when a
// report was generated, from which sources, and the per-vehicle
// snapshot it produced. The pipeline itself never reads this — it is
// presentation history for the dashboard and nothing more.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mileage/internal/core"

	_ "modernc.org/sqlite"
)

type Archive struct {
	db *sql.DB
}

// Run is one recorded report generation.
type Run struct {
	ID         int64
	Trigger    string // "batch", "refresh", "dashboard"
	SourceKind string // "csv", "published", "sheets"
	RowCount   int
	IssueCount int
	CreatedAt  time.Time
}

func NewArchive(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// RecordRun stores a run together with its summary snapshot and
// returns the new run's ID.
func (a *Archive) RecordRun(ctx context.Context, run Run, summary []core.VehicleSummary) (int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO report_runs (trigger_kind, source_kind, row_count, issue_count) VALUES (?, ?, ?, ?)`,
		run.Trigger, run.SourceKind, run.RowCount, run.IssueCount)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, s := range summary {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_summaries (run_id, vehicle, business_miles, commute_miles, total_miles) VALUES (?, ?, ?, ?, ?)`,
			id, s.Vehicle, s.BusinessMiles, s.CommuteMiles, s.TotalMiles); err != nil {
			return 0, fmt.Errorf("insert summary for %s: %w", s.Vehicle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Report run archived",
		"run_id", id,
		"trigger", run.Trigger,
		"source_kind", run.SourceKind,
		"row_count", run.RowCount,
		"issue_count", run.IssueCount)
	return id, nil
}

// RecentRuns returns the newest runs first, up to limit.
func (a *Archive) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, trigger_kind, source_kind, row_count, issue_count, created_at
		 FROM report_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Trigger, &r.SourceKind, &r.RowCount, &r.IssueCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunSummary returns the per-vehicle snapshot stored for a run.
func (a *Archive) RunSummary(ctx context.Context, runID int64) ([]core.VehicleSummary, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT vehicle, business_miles, commute_miles, total_miles
		 FROM run_summaries WHERE run_id = ? ORDER BY vehicle`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run summary: %w", err)
	}
	defer rows.Close()

	var out []core.VehicleSummary
	for rows.Next() {
		var s core.VehicleSummary
		if err := rows.Scan(&s.Vehicle, &s.BusinessMiles, &s.CommuteMiles, &s.TotalMiles); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
