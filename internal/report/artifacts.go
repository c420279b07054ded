package report

import (
	"fmt"
	"os"
	"path/filepath"

	"mileage/internal/core"
)

// Artifact file names inside the output directory.
const (
	FileSummaryCSV = "mileage_summary.csv"
	FileIssuesCSV  = "rows_with_issues.csv"
	FileWorkbook   = "mileage_report.xlsx"
	FileTotalsHTML = "total_miles.html"
	FilePiesHTML   = "vehicle_pies.html"
)

// WriteArtifacts writes every report artifact into dir, creating it if
// needed. The issues CSV is only written when flagged rows exist; a
// stale one from a previous run is removed. Returns the issue count.
func WriteArtifacts(dir string, ps core.PreparedSet, summary []core.VehicleSummary) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	if err := writeFile(dir, FileSummaryCSV, func(f *os.File) error {
		return WriteSummaryCSV(f, summary)
	}); err != nil {
		return 0, err
	}

	if err := writeFile(dir, FileWorkbook, func(f *os.File) error {
		return WriteWorkbook(f, ps, summary)
	}); err != nil {
		return 0, err
	}

	if err := writeFile(dir, FileTotalsHTML, func(f *os.File) error {
		return RenderTotalMilesBar(f, summary)
	}); err != nil {
		return 0, err
	}

	if err := writeFile(dir, FilePiesHTML, func(f *os.File) error {
		return RenderVehiclePies(f, summary)
	}); err != nil {
		return 0, err
	}

	issues := IssueCount(ps)
	issuesPath := filepath.Join(dir, FileIssuesCSV)
	if issues == 0 {
		if err := os.Remove(issuesPath); err != nil && !os.IsNotExist(err) {
			return issues, fmt.Errorf("remove stale issues export: %w", err)
		}
		return issues, nil
	}
	if err := writeFile(dir, FileIssuesCSV, func(f *os.File) error {
		_, err := WriteIssuesCSV(f, ps)
		return err
	}); err != nil {
		return issues, err
	}
	return issues, nil
}

func writeFile(dir, name string, fill func(*os.File) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}
