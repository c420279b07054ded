package core

import "testing"

func TestSummarizePivot(t *testing.T) {
	ds := baseDataset(
		Row{"Vehicle": "jim", "Start Mileage": "100", "End Mileage": "150", "Mileage Type": "Business"},
		Row{"Vehicle": " Jim ", "Start Mileage": "150", "End Mileage": "170", "Mileage Type": "Commute trip"},
	)
	summary := Summarize(Prepare(ds))

	if len(summary) != 1 {
		t.Fatalf("case/whitespace variants must merge into one row, got %d", len(summary))
	}
	row := summary[0]
	if row.Vehicle != "Jim" {
		t.Fatalf("vehicle = %q, want %q", row.Vehicle, "Jim")
	}
	if row.BusinessMiles != 50.0 || row.CommuteMiles != 20.0 || row.TotalMiles != 70.0 {
		t.Fatalf("summary = %+v, want business=50 commute=20 total=70", row)
	}
}

func TestSummarizeZeroFillsMissingClass(t *testing.T) {
	ds := baseDataset(
		Row{"Vehicle": "Solo", "Start Mileage": "0", "End Mileage": "30", "Mileage Type": "Business"},
	)
	summary := Summarize(Prepare(ds))
	if len(summary) != 1 {
		t.Fatalf("got %d rows, want 1", len(summary))
	}
	if summary[0].CommuteMiles != 0.0 {
		t.Fatalf("commute miles = %v, want 0.0", summary[0].CommuteMiles)
	}
	if summary[0].TotalMiles != summary[0].BusinessMiles {
		t.Fatalf("total = %v, want %v", summary[0].TotalMiles, summary[0].BusinessMiles)
	}
}

func TestSummarizeExcludesInvalidRows(t *testing.T) {
	ds := baseDataset(
		Row{"Vehicle": "Jim", "Start Mileage": "100", "End Mileage": "50", "Mileage Type": "Business"}, // -50
		Row{"Vehicle": "Jim", "Start Mileage": "0", "End Mileage": "40", "Mileage Type": "Business"},
	)
	ps := Prepare(ds)
	if len(ps.Trips) != 2 {
		t.Fatalf("invalid rows must stay in the prepared set, got %d", len(ps.Trips))
	}
	if ps.Trips[0].RowOK {
		t.Fatalf("negative-mile row should have RowOK=false: %+v", ps.Trips[0])
	}

	summary := Summarize(ps)
	if summary[0].BusinessMiles != 40.0 {
		t.Fatalf("invalid row contributed to sums: %+v", summary[0])
	}
}

func TestSummarizeOmitsVehicleWithOnlyInvalidRows(t *testing.T) {
	ds := baseDataset(
		Row{"Vehicle": "Ghost", "Start Mileage": "bad", "End Mileage": "10", "Mileage Type": "Business"},
		Row{"Vehicle": "Jim", "Start Mileage": "0", "End Mileage": "10", "Mileage Type": "Business"},
	)
	summary := Summarize(Prepare(ds))
	if len(summary) != 1 || summary[0].Vehicle != "Jim" {
		t.Fatalf("vehicle with only invalid rows must be omitted, got %+v", summary)
	}
}

func TestSummarizeSortedAndIdempotent(t *testing.T) {
	ds := baseDataset(
		Row{"Vehicle": "zoe", "Start Mileage": "0", "End Mileage": "10", "Mileage Type": "Business"},
		Row{"Vehicle": "abe", "Start Mileage": "0", "End Mileage": "20", "Mileage Type": "Commute"},
		Row{"Vehicle": "mia", "Start Mileage": "0", "End Mileage": "30", "Mileage Type": "Business"},
	)
	ps := Prepare(ds)

	first := Summarize(ps)
	second := Summarize(ps)

	wantOrder := []string{"Abe", "Mia", "Zoe"}
	for i, v := range wantOrder {
		if first[i].Vehicle != v {
			t.Fatalf("order = %v, want %v", first, wantOrder)
		}
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("re-running aggregation changed results: %+v vs %+v", first[i], second[i])
		}
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	raw := Dataset{
		Columns: []string{"Vehicle Used", "Start Mileage", "End Mileage", "Mileage Type"},
		Rows: []Row{
			{"Vehicle Used": "jim", "Start Mileage": "100", "End Mileage": "150", "Mileage Type": "Business"},
			{"Vehicle Used": " Jim ", "Start Mileage": "150", "End Mileage": "170", "Mileage Type": "Commute trip"},
		},
	}
	ds, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	ps := Prepare(ds)
	if ps.Trips[0].Miles.Value != 50 || ps.Trips[1].Miles.Value != 20 {
		t.Fatalf("miles = %v, %v; want 50, 20", ps.Trips[0].Miles, ps.Trips[1].Miles)
	}
	if !ps.Trips[0].RowOK || !ps.Trips[1].RowOK {
		t.Fatalf("both rows should be valid")
	}
	if ps.Trips[0].IsCommute || !ps.Trips[1].IsCommute {
		t.Fatalf("commute flags = %v, %v; want false, true", ps.Trips[0].IsCommute, ps.Trips[1].IsCommute)
	}

	summary := Summarize(ps)
	if len(summary) != 1 {
		t.Fatalf("want one summary row, got %d", len(summary))
	}
	got := summary[0]
	want := VehicleSummary{Vehicle: "Jim", BusinessMiles: 50.0, CommuteMiles: 20.0, TotalMiles: 70.0}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}
