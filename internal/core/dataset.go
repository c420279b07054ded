package core

import (
	"strconv"
	"strings"
)

type (
	// Row maps a column name to its raw cell value.
	Row map[string]string

	// Dataset is an ordered tabular set of records. Column names are
	// expected to be whitespace-trimmed by the acquiring caller.
	Dataset struct {
		Columns []string
		Rows    []Row
	}

	// Reading is an odometer value that may have failed numeric
	// coercion. Invalid readings propagate through arithmetic.
	Reading struct {
		Value float64
		Valid bool
	}
)

// ParseReading coerces a raw cell into a Reading. It never fails:
// anything that does not parse as a number becomes an invalid Reading.
func ParseReading(s string) Reading {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Reading{}
	}
	return Reading{Value: v, Valid: true}
}

// Sub returns r - o. If either side is invalid, so is the result.
func (r Reading) Sub(o Reading) Reading {
	if !r.Valid || !o.Valid {
		return Reading{}
	}
	return Reading{Value: r.Value - o.Value, Valid: true}
}

// HasColumn reports whether the dataset declares the named column.
func (ds Dataset) HasColumn(name string) bool {
	for _, c := range ds.Columns {
		if c == name {
			return true
		}
	}
	return false
}
