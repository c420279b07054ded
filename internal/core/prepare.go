package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// Trip is a prepared record: the four canonical fields, the derived
	// fields, and every extra source column carried through untouched.
	Trip struct {
		Vehicle     string
		Start       Reading
		End         Reading
		MileageType string

		Miles     Reading
		RowOK     bool
		IsCommute bool

		Extra Row
	}

	// PreparedSet is the output of Prepare: all trips, never filtered,
	// plus the ordered list of extra columns retained from the source.
	PreparedSet struct {
		ExtraColumns []string
		Trips        []Trip
	}
)

// Prepare derives validity and classification fields from a normalized
// dataset. Rows are never dropped: unparseable or negative mileage only
// clears RowOK. The vehicle name cleanup (trim + title-case) is the sole
// identity-merging mechanism, so " JIM " and "jim" land on one vehicle.
func Prepare(ds Dataset) PreparedSet {
	titler := cases.Title(language.Und)

	var extras []string
	for _, c := range ds.Columns {
		switch c {
		case ColVehicle, ColStart, ColEnd, ColType:
		default:
			extras = append(extras, c)
		}
	}

	ps := PreparedSet{
		ExtraColumns: extras,
		Trips:        make([]Trip, 0, len(ds.Rows)),
	}
	for _, row := range ds.Rows {
		t := Trip{
			Vehicle:     titler.String(strings.TrimSpace(row[ColVehicle])),
			Start:       ParseReading(row[ColStart]),
			End:         ParseReading(row[ColEnd]),
			MileageType: row[ColType],
		}
		t.Miles = t.End.Sub(t.Start)
		t.RowOK = t.Miles.Valid && t.Miles.Value >= 0
		t.IsCommute = strings.Contains(strings.ToLower(t.MileageType), "commute")

		t.Extra = make(Row, len(extras))
		for _, c := range extras {
			if v, ok := row[c]; ok {
				t.Extra[c] = v
			}
		}
		ps.Trips = append(ps.Trips, t)
	}
	return ps
}
