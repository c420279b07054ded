package http

import (
	"net/http/httptest"
	"testing"

	"mileage/internal/core"
)

func preparedWithDrivers(t *testing.T) core.PreparedSet {
	t.Helper()
	ds := core.Dataset{
		Columns: []string{"Driver", "Vehicle", "Start Mileage", "End Mileage", "Mileage Type"},
		Rows: []core.Row{
			{"Driver": "Matthew", "Vehicle": "Jim", "Start Mileage": "0", "End Mileage": "50", "Mileage Type": "Business"},
			{"Driver": "Yuri", "Vehicle": "Emily", "Start Mileage": "0", "End Mileage": "20", "Mileage Type": "Commute"},
			{"Driver": "Matthew", "Vehicle": "Emily", "Start Mileage": "0", "End Mileage": "10", "Mileage Type": "Business"},
		},
	}
	norm, err := core.Normalize(ds)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return core.Prepare(norm)
}

func TestQueryList(t *testing.T) {
	r := httptest.NewRequest("GET", "/?driver=Matthew&driver=+Yuri+&driver=", nil)
	got := queryList(r, "driver")
	want := []string{"Matthew", "Yuri"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDistinctDrivers(t *testing.T) {
	ps := preparedWithDrivers(t)
	got := distinctDrivers(ps)
	want := []string{"Matthew", "Yuri"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("drivers = %v, want %v", got, want)
	}
}

func TestFilterByDrivers(t *testing.T) {
	ps := preparedWithDrivers(t)

	all := filterByDrivers(ps, nil)
	if len(all.Trips) != 3 {
		t.Fatalf("empty selection must not filter, got %d trips", len(all.Trips))
	}

	matthew := filterByDrivers(ps, []string{"Matthew"})
	if len(matthew.Trips) != 2 {
		t.Fatalf("got %d trips for Matthew, want 2", len(matthew.Trips))
	}
	summary := core.Summarize(matthew)
	if len(summary) != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	// Emily's commute trip belongs to Yuri, so it must not appear.
	for _, s := range summary {
		if s.Vehicle == "Emily" && s.CommuteMiles != 0 {
			t.Fatalf("driver filter leaked rows: %+v", s)
		}
	}
}

func TestFilterByVehicles(t *testing.T) {
	summary := []core.VehicleSummary{
		{Vehicle: "Emily", TotalMiles: 30},
		{Vehicle: "Jim", TotalMiles: 50},
	}
	got := filterByVehicles(summary, []string{"Jim"})
	if len(got) != 1 || got[0].Vehicle != "Jim" {
		t.Fatalf("got %+v", got)
	}
	if len(filterByVehicles(summary, nil)) != 2 {
		t.Fatalf("empty selection must not filter")
	}
}

func TestFormatMiles(t *testing.T) {
	if got := formatMiles(70); got != "70.0" {
		t.Fatalf("formatMiles(70) = %q", got)
	}
	if got := formatMiles(20.25); got != "20.2" {
		t.Fatalf("formatMiles(20.25) = %q", got)
	}
}
