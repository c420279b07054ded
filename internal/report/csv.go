package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"mileage/internal/core"
)

// WriteSummaryCSV writes the per-vehicle summary with display headers.
func WriteSummaryCSV(w io.Writer, summary []core.VehicleSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range summaryRecords(summary) {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIssuesCSV exports the trips whose RowOK flag is false, keeping
// the core's field names so the file is reviewable against the source.
// It reports how many issue rows were written.
func WriteIssuesCSV(w io.Writer, ps core.PreparedSet) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader(ps, false)); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	n := 0
	for _, t := range ps.Trips {
		if t.RowOK {
			continue
		}
		if err := cw.Write(detailRecord(ps, t)); err != nil {
			return n, fmt.Errorf("write record: %w", err)
		}
		n++
	}
	cw.Flush()
	return n, cw.Error()
}

// IssueCount reports how many trips are flagged invalid.
func IssueCount(ps core.PreparedSet) int {
	n := 0
	for _, t := range ps.Trips {
		if !t.RowOK {
			n++
		}
	}
	return n
}
