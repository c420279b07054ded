package http

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"mileage/internal/core"
	"mileage/internal/source"
)

// queryList returns the non-empty values of a repeated query param.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// distinctDrivers collects the sorted distinct Driver provenance
// values in a prepared set. Empty when rows carry no driver tag.
func distinctDrivers(ps core.PreparedSet) []string {
	seen := map[string]bool{}
	for _, t := range ps.Trips {
		if d := t.Extra[source.ColDriver]; d != "" {
			seen[d] = true
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// filterByDrivers keeps trips whose Driver tag is in the selection.
// An empty selection means no filtering.
func filterByDrivers(ps core.PreparedSet, drivers []string) core.PreparedSet {
	if len(drivers) == 0 {
		return ps
	}
	want := map[string]bool{}
	for _, d := range drivers {
		want[d] = true
	}
	out := core.PreparedSet{ExtraColumns: ps.ExtraColumns}
	for _, t := range ps.Trips {
		if want[t.Extra[source.ColDriver]] {
			out.Trips = append(out.Trips, t)
		}
	}
	return out
}

// filterByVehicles keeps summary rows for the selected vehicles. An
// empty selection means no filtering.
func filterByVehicles(summary []core.VehicleSummary, vehicles []string) []core.VehicleSummary {
	if len(vehicles) == 0 {
		return summary
	}
	want := map[string]bool{}
	for _, v := range vehicles {
		want[v] = true
	}
	var out []core.VehicleSummary
	for _, s := range summary {
		if want[s.Vehicle] {
			out = append(out, s)
		}
	}
	return out
}

// formatMiles renders a mileage total for display, one decimal place.
func formatMiles(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
