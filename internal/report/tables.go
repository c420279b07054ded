// Package report renders the pipeline's two outputs (prepared trips
// and per-vehicle summaries) into the persisted artifacts: summary and
// issues CSVs, a styled xlsx workbook, and chart documents. It performs
// no computation of its own beyond display formatting.
package report

import (
	"strconv"

	"mileage/internal/core"
)

// Display headers. The core's underscore names are renamed purely for
// presentation; values are never altered.
var summaryHeader = []string{"Vehicle", "Business Miles", "Commute Miles", "Total Miles"}

const (
	displayIsCommute = "Is_Commute"
	displayRowOK     = "Row_OK"
)

// SummaryTable returns the display header and records for the
// per-vehicle summary, for callers that render it as a table.
func SummaryTable(summary []core.VehicleSummary) (header []string, records [][]string) {
	return summaryHeader, summaryRecords(summary)
}

// DetailTable returns the display header and records for the full
// prepared set. When issuesOnly is set, only flagged rows are included.
func DetailTable(ps core.PreparedSet, issuesOnly bool) (header []string, records [][]string) {
	header = detailHeader(ps, true)
	for _, t := range ps.Trips {
		if issuesOnly && t.RowOK {
			continue
		}
		records = append(records, detailRecord(ps, t))
	}
	return header, records
}

// summaryRecords converts summaries into string records under
// summaryHeader.
func summaryRecords(summary []core.VehicleSummary) [][]string {
	out := make([][]string, 0, len(summary))
	for _, s := range summary {
		out = append(out, []string{
			s.Vehicle,
			formatMiles(s.BusinessMiles),
			formatMiles(s.CommuteMiles),
			formatMiles(s.TotalMiles),
		})
	}
	return out
}

// detailHeader is the column order for the Details sheet and the
// issues export: canonical fields, derived fields, then every extra
// source column in its original order.
func detailHeader(ps core.PreparedSet, rename bool) []string {
	isCommute, rowOK := "_is_commute", "_row_ok"
	if rename {
		isCommute, rowOK = displayIsCommute, displayRowOK
	}
	header := []string{core.ColVehicle, core.ColStart, core.ColEnd, core.ColType, "Miles", isCommute, rowOK}
	return append(header, ps.ExtraColumns...)
}

func detailRecord(ps core.PreparedSet, t core.Trip) []string {
	rec := []string{
		t.Vehicle,
		formatReading(t.Start),
		formatReading(t.End),
		t.MileageType,
		formatReading(t.Miles),
		strconv.FormatBool(t.IsCommute),
		strconv.FormatBool(t.RowOK),
	}
	for _, c := range ps.ExtraColumns {
		rec = append(rec, t.Extra[c])
	}
	return rec
}

// formatReading renders an odometer value, leaving invalid readings
// blank the way a coerced-NaN cell exports.
func formatReading(r core.Reading) string {
	if !r.Valid {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

func formatMiles(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
