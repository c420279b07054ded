package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mileage/internal/core"
	"mileage/internal/source"
)

type stubSource struct {
	ds      core.Dataset
	err     error
	fetches int
}

func (s *stubSource) Fetch(ctx context.Context) (core.Dataset, error) {
	s.fetches++
	return s.ds, s.err
}

type stubPublisher struct {
	published int
}

func (p *stubPublisher) PublishRefresh(ctx context.Context, reason string) error {
	p.published++
	return nil
}

func fleetDataset() core.Dataset {
	return core.Dataset{
		Columns: []string{"Driver", "Vehicle", "Start Mileage", "End Mileage", "Mileage Type"},
		Rows: []core.Row{
			{"Driver": "Matthew", "Vehicle": "jim", "Start Mileage": "100", "End Mileage": "150", "Mileage Type": "Business"},
			{"Driver": "Matthew", "Vehicle": " Jim ", "Start Mileage": "150", "End Mileage": "170", "Mileage Type": "Commute trip"},
		},
	}
}

func newTestServer(t *testing.T, src source.Source, pub RefreshPublisher) *Server {
	t.Helper()
	s := NewServer(":0", src, nil, pub, time.Minute)
	if s.templates == nil {
		t.Fatalf("templates failed to parse")
	}
	return s
}

func TestDashboardRendersSummary(t *testing.T) {
	s := newTestServer(t, &stubSource{ds: fleetDataset()}, nil)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Jim", "50", "20", "70.0", "Matthew"} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, body)
		}
	}
	if !strings.Contains(body, "No row-level issues detected") {
		t.Fatalf("expected clean-data notice")
	}
}

func TestDashboardNoData(t *testing.T) {
	s := newTestServer(t, &stubSource{err: source.ErrNoData}, nil)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No mileage data available") {
		t.Fatalf("expected no-data message, got:\n%s", rec.Body.String())
	}
}

func TestDashboardSchemaError(t *testing.T) {
	src := &stubSource{ds: core.Dataset{
		Columns: []string{"Vehicle", "Start Mileage", "Mileage Type"},
		Rows:    []core.Row{{"Vehicle": "Jim"}},
	}}
	s := newTestServer(t, src, nil)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if !strings.Contains(rec.Body.String(), "End Mileage") {
		t.Fatalf("schema error should name the missing column:\n%s", rec.Body.String())
	}
}

func TestDashboardUsesCache(t *testing.T) {
	src := &stubSource{ds: fleetDataset()}
	s := newTestServer(t, src, nil)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	}
	if src.fetches != 1 {
		t.Fatalf("fetches = %d, want 1 (served from cache)", src.fetches)
	}
}

func TestRefreshClearsCacheAndPublishes(t *testing.T) {
	src := &stubSource{ds: fleetDataset()}
	pub := &stubPublisher{}
	s := newTestServer(t, src, pub)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("POST", "/refresh", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("refresh status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if pub.published != 1 {
		t.Fatalf("published = %d, want 1", pub.published)
	}

	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if src.fetches != 2 {
		t.Fatalf("fetches = %d, want 2 (cache dropped)", src.fetches)
	}
}

func TestRefreshRejectsGET(t *testing.T) {
	s := newTestServer(t, &stubSource{ds: fleetDataset()}, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/refresh", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestExportHeaders(t *testing.T) {
	s := newTestServer(t, &stubSource{ds: fleetDataset()}, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/export.xlsx", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("empty workbook body")
	}
}

func TestChartEndpoints(t *testing.T) {
	s := newTestServer(t, &stubSource{ds: fleetDataset()}, nil)
	for _, path := range []string{"/charts/total", "/charts/pies"} {
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Jim") {
			t.Fatalf("%s missing vehicle data", path)
		}
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := newLRUCache[string](2, 10*time.Millisecond)
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("expected fresh entry, got %q %v", v, ok)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("oldest entry should have been evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("newest entry missing")
	}
}
