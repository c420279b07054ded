// Package source acquires raw mileage rows and hands them to the core
// pipeline as tabular datasets. Each backend tags rows with provenance
// (Source File or Driver) before normalization.
package source

import (
	"context"
	"errors"
	"strings"

	"mileage/internal/core"
)

// Provenance columns attached by the acquisition backends.
const (
	ColSourceFile = "Source File"
	ColDriver     = "Driver"
)

// ErrNoData means no rows could be acquired at all. Callers surface it
// as "no mileage data available" rather than a schema mismatch.
var ErrNoData = errors.New("no mileage data available")

// Source is the port the pipeline callers depend on.
type Source interface {
	// Fetch returns the combined raw dataset from this backend.
	Fetch(ctx context.Context) (core.Dataset, error)
}

// fromTable builds a Dataset from a header row and data records,
// trimming whitespace from column names. Short records leave trailing
// cells absent; long records drop overflow cells.
func fromTable(header []string, records [][]string) core.Dataset {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	ds := core.Dataset{Columns: cols, Rows: make([]core.Row, 0, len(records))}
	for _, rec := range records {
		row := make(core.Row, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = rec[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// tag adds a provenance column with a constant value to every row.
func tag(ds core.Dataset, column, value string) core.Dataset {
	if !ds.HasColumn(column) {
		ds.Columns = append(ds.Columns, column)
	}
	for _, row := range ds.Rows {
		row[column] = value
	}
	return ds
}

// Merge concatenates datasets, taking the union of their columns in
// first-seen order. Rows keep only the cells their source supplied.
func Merge(datasets ...core.Dataset) core.Dataset {
	var out core.Dataset
	seen := map[string]bool{}
	for _, ds := range datasets {
		for _, c := range ds.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
		out.Rows = append(out.Rows, ds.Rows...)
	}
	return out
}
