package core

import (
	"fmt"
	"strings"
)

// Canonical column names every downstream stage relies on.
const (
	ColVehicle = "Vehicle"
	ColStart   = "Start Mileage"
	ColEnd     = "End Mileage"
	ColType    = "Mileage Type"
)

// requiredColumns lists the canonical columns in reporting order.
var requiredColumns = []string{ColVehicle, ColStart, ColEnd, ColType}

// vehicleSynonyms maps accepted header variants onto ColVehicle. The
// other three canonical columns are matched by exact name only.
var vehicleSynonyms = map[string]bool{
	"Vehicle":      true,
	"Vehicle Used": true,
}

// MissingColumnsError reports the canonical columns that could not be
// resolved from a dataset's headers. It is fatal for the run.
type MissingColumnsError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required column(s): %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// Normalize renames known header variants onto the canonical column
// names and verifies all four required columns are present. Columns
// that match no rule pass through unchanged. When any required column
// cannot be resolved it returns a *MissingColumnsError and no dataset.
func Normalize(ds Dataset) (Dataset, error) {
	rename := map[string]string{}
	if !ds.HasColumn(ColVehicle) {
		for _, c := range ds.Columns {
			if vehicleSynonyms[c] {
				rename[c] = ColVehicle
				break
			}
		}
	}

	out := Dataset{
		Columns: make([]string, len(ds.Columns)),
		Rows:    make([]Row, 0, len(ds.Rows)),
	}
	for i, c := range ds.Columns {
		if canonical, ok := rename[c]; ok {
			out.Columns[i] = canonical
		} else {
			out.Columns[i] = c
		}
	}
	for _, row := range ds.Rows {
		nr := make(Row, len(row))
		for k, v := range row {
			if canonical, ok := rename[k]; ok {
				k = canonical
			}
			nr[k] = v
		}
		out.Rows = append(out.Rows, nr)
	}

	var missing []string
	for _, c := range requiredColumns {
		if !out.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return Dataset{}, &MissingColumnsError{Missing: missing, Found: ds.Columns}
	}
	return out, nil
}
