package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"mileage/internal/core"
	"mileage/internal/report"
	"mileage/internal/source"
	"mileage/internal/storage"
)

const pipelineCacheKey = "pipeline"

// pipelineData is one cached pass of the core pipeline over freshly
// acquired rows.
type pipelineData struct {
	Prepared  core.PreparedSet
	Summary   []core.VehicleSummary
	Drivers   []string
	FetchedAt time.Time
}

// loadData fetches rows and runs the pipeline, serving from the TTL
// cache when the last pass is still fresh.
func (s *Server) loadData(r *http.Request) (pipelineData, error) {
	if data, ok := s.dataCache.Get(pipelineCacheKey); ok {
		return data, nil
	}

	raw, err := s.src.Fetch(r.Context())
	if err != nil {
		return pipelineData{}, err
	}
	ds, err := core.Normalize(raw)
	if err != nil {
		return pipelineData{}, err
	}
	prepared := core.Prepare(ds)

	data := pipelineData{
		Prepared:  prepared,
		Summary:   core.Summarize(prepared),
		Drivers:   distinctDrivers(prepared),
		FetchedAt: time.Now(),
	}
	s.dataCache.Set(pipelineCacheKey, data)
	return data, nil
}

type tableView struct {
	Header []string
	Rows   [][]string
}

type dashboardView struct {
	Error      string
	FetchedAt  time.Time
	IssueCount int

	Drivers          []string
	SelectedDrivers  []string
	Vehicles         []string
	SelectedVehicles []string

	TotalBusiness string
	TotalCommute  string
	TotalMiles    string

	Summary  tableView
	Prepared tableView
	Issues   tableView

	Runs       []storage.Run
	ChartQuery string
	CanRefresh bool
}

// handleDashboard renders the dashboard page: totals, summary table,
// filters, detail tabs, and run history.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	view := dashboardView{CanRefresh: true}

	data, err := s.loadData(r)
	if err != nil {
		view.Error = userMessage(err)
		s.render(w, r, view)
		return
	}

	selectedDrivers := queryList(r, "driver")
	selectedVehicles := queryList(r, "vehicle")

	filtered := filterByDrivers(data.Prepared, selectedDrivers)
	summary := core.Summarize(filtered)

	vehicles := make([]string, 0, len(summary))
	for _, row := range summary {
		vehicles = append(vehicles, row.Vehicle)
	}
	shown := filterByVehicles(summary, selectedVehicles)

	var business, commute, total float64
	for _, row := range shown {
		business += row.BusinessMiles
		commute += row.CommuteMiles
		total += row.TotalMiles
	}

	view.FetchedAt = data.FetchedAt
	view.IssueCount = report.IssueCount(filtered)
	view.Drivers = data.Drivers
	view.SelectedDrivers = selectedDrivers
	view.Vehicles = vehicles
	view.SelectedVehicles = selectedVehicles
	view.TotalBusiness = formatMiles(business)
	view.TotalCommute = formatMiles(commute)
	view.TotalMiles = formatMiles(total)
	view.ChartQuery = r.URL.RawQuery

	header, rows := report.SummaryTable(shown)
	view.Summary = tableView{Header: header, Rows: rows}
	header, rows = report.DetailTable(filtered, false)
	view.Prepared = tableView{Header: header, Rows: rows}
	header, rows = report.DetailTable(filtered, true)
	view.Issues = tableView{Header: header, Rows: rows}

	if s.archive != nil {
		runs, err := s.archive.RecentRuns(r.Context(), 10)
		if err != nil {
			s.logger.WarnContext(r.Context(), "Failed to load run history", "error", err)
		} else {
			view.Runs = runs
		}
	}

	s.render(w, r, view)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, view dashboardView) {
	if err := s.templates.ExecuteTemplate(w, "dashboard_page", view); err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleExport streams the full master workbook (all drivers, all
// vehicles), unaffected by dashboard filters.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.loadData(r)
	if err != nil {
		http.Error(w, userMessage(err), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="mileage_report.xlsx"`)
	if err := report.WriteWorkbook(w, data.Prepared, data.Summary); err != nil {
		s.logger.ErrorContext(r.Context(), "Workbook export failed", "error", err)
	}
}

// handleChartTotal renders the total-miles bar chart, honoring the
// same driver/vehicle filters as the dashboard.
func (s *Server) handleChartTotal(w http.ResponseWriter, r *http.Request) {
	summary, err := s.filteredSummary(r)
	if err != nil {
		http.Error(w, userMessage(err), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderTotalMilesBar(w, summary); err != nil {
		s.logger.ErrorContext(r.Context(), "Bar chart render failed", "error", err)
	}
}

// handleChartPies renders the per-vehicle commute/business pie grid.
func (s *Server) handleChartPies(w http.ResponseWriter, r *http.Request) {
	summary, err := s.filteredSummary(r)
	if err != nil {
		http.Error(w, userMessage(err), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderVehiclePies(w, summary); err != nil {
		s.logger.ErrorContext(r.Context(), "Pie chart render failed", "error", err)
	}
}

func (s *Server) filteredSummary(r *http.Request) ([]core.VehicleSummary, error) {
	data, err := s.loadData(r)
	if err != nil {
		return nil, err
	}
	filtered := filterByDrivers(data.Prepared, queryList(r, "driver"))
	return filterByVehicles(core.Summarize(filtered), queryList(r, "vehicle")), nil
}

// handleRefresh drops the cache so the next page load re-fetches, and
// asks the report worker to regenerate artifacts when a queue is up.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.dataCache.Delete(pipelineCacheKey)

	if s.publisher != nil {
		if err := s.publisher.PublishRefresh(r.Context(), "dashboard"); err != nil {
			s.logger.WarnContext(r.Context(), "Failed to publish refresh request", "error", err)
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// userMessage translates pipeline errors into the guidance shown on
// the dashboard. Schema failures name the missing fields; an empty
// acquisition is reported as missing data, not a schema mismatch.
func userMessage(err error) string {
	if errors.Is(err, source.ErrNoData) {
		return "No mileage data available. Check that the configured sources are populated and reachable."
	}
	var mce *core.MissingColumnsError
	if errors.As(err, &mce) {
		return fmt.Sprintf("The loaded data is missing required column(s): %v. Check the source column headers.", mce.Missing)
	}
	return "Failed to load mileage data: " + err.Error()
}
