package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mileage/internal/core"
)

func TestFromTableTrimsHeaders(t *testing.T) {
	ds := fromTable(
		[]string{"Vehicle ", " Start Mileage", "End Mileage"},
		[][]string{{"Jim", "100", "150"}, {"Emily", "200"}},
	)
	want := []string{"Vehicle", "Start Mileage", "End Mileage"}
	for i, c := range want {
		if ds.Columns[i] != c {
			t.Fatalf("columns = %v, want %v", ds.Columns, want)
		}
	}
	if ds.Rows[0]["Vehicle"] != "Jim" || ds.Rows[0]["End Mileage"] != "150" {
		t.Fatalf("row 0 = %v", ds.Rows[0])
	}
	if _, ok := ds.Rows[1]["End Mileage"]; ok {
		t.Fatalf("short record should leave trailing cells absent: %v", ds.Rows[1])
	}
}

func TestMergeColumnUnion(t *testing.T) {
	a := core.Dataset{
		Columns: []string{"Vehicle", "Start Mileage"},
		Rows:    []core.Row{{"Vehicle": "Jim", "Start Mileage": "1"}},
	}
	b := core.Dataset{
		Columns: []string{"Vehicle", "Date"},
		Rows:    []core.Row{{"Vehicle": "Emily", "Date": "2025-01-02"}},
	}
	merged := Merge(a, b)

	wantCols := []string{"Vehicle", "Start Mileage", "Date"}
	if len(merged.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", merged.Columns, wantCols)
	}
	for i, c := range wantCols {
		if merged.Columns[i] != c {
			t.Fatalf("columns = %v, want %v", merged.Columns, wantCols)
		}
	}
	if len(merged.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(merged.Rows))
	}
}

func TestCSVDirPrefersMileageFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Jan_Mileage.csv", "Vehicle ,Start Mileage,End Mileage,Mileage Type\nJim,100,150,Business\n")
	writeFile(t, dir, "other.csv", "Vehicle,Start Mileage,End Mileage,Mileage Type\nEmily,0,10,Commute\n")

	ds, err := NewCSVDir(dir).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("expected only the *Mileage*.csv file to load, got %d rows", len(ds.Rows))
	}
	if ds.Rows[0][ColSourceFile] != "Jan_Mileage.csv" {
		t.Fatalf("source file tag = %q", ds.Rows[0][ColSourceFile])
	}
	if ds.Rows[0]["Vehicle"] != "Jim" {
		t.Fatalf("header whitespace not trimmed: %v", ds.Columns)
	}
}

func TestCSVDirFallsBackToAllCSVs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Vehicle,Start Mileage,End Mileage,Mileage Type\nJim,1,2,Business\n")
	writeFile(t, dir, "b.csv", "Vehicle,Start Mileage,End Mileage,Mileage Type\nEmily,3,4,Commute\n")

	ds, err := NewCSVDir(dir).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("want both CSVs loaded, got %d rows", len(ds.Rows))
	}
}

func TestCSVDirEmpty(t *testing.T) {
	_, err := NewCSVDir(t.TempDir()).Fetch(context.Background())
	if err != ErrNoData {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestPublishedFetchTagsDriversAndSkipsFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Vehicle,Start Mileage,End Mileage,Mileage Type\nJim,100,150,Business\n"))
	}))
	defer good.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	src := NewPublished(map[string]string{
		"Matthew": good.URL,
		"Yuri":    broken.URL,
	})
	ds, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("broken sheet should be skipped, got %d rows", len(ds.Rows))
	}
	if ds.Rows[0][ColDriver] != "Matthew" {
		t.Fatalf("driver tag = %q", ds.Rows[0][ColDriver])
	}
}

func TestPublishedFetchAllBroken(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	src := NewPublished(map[string]string{"Matthew": broken.URL})
	if _, err := src.Fetch(context.Background()); err != ErrNoData {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestDatasetFromValues(t *testing.T) {
	values := [][]interface{}{
		{"Vehicle ", "Start Mileage", "End Mileage", "Mileage Type"},
		{"Jim", 100.0, 150.0, "Business"},
	}
	ds := datasetFromValues(values)
	if ds.Rows[0]["Vehicle"] != "Jim" {
		t.Fatalf("row = %v", ds.Rows[0])
	}
	if ds.Rows[0]["Start Mileage"] != "100" {
		t.Fatalf("numeric cell should render without exponent: %v", ds.Rows[0])
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
