package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mileage/internal/core"
)

var pieColors = []string{"#4c72b0", "#55a868"}

// RenderTotalMilesBar renders a bar chart of total miles per vehicle
// as a standalone HTML document.
func RenderTotalMilesBar(w io.Writer, summary []core.VehicleSummary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Total Miles by Vehicle"}),
		charts.WithTitleOpts(opts.Title{Title: "Total Miles by Vehicle"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Miles"}),
	)

	names := make([]string, 0, len(summary))
	data := make([]opts.BarData, 0, len(summary))
	for _, s := range summary {
		names = append(names, s.Vehicle)
		data = append(data, opts.BarData{Value: s.TotalMiles})
	}
	bar.SetXAxis(names).AddSeries("Total Miles", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// RenderVehiclePies renders one commute-vs-business pie per vehicle,
// laid out as a page of charts. Vehicles with zero total miles are
// skipped since a pie of nothing renders as noise.
func RenderVehiclePies(w io.Writer, summary []core.VehicleSummary) error {
	page := components.NewPage()
	page.SetPageTitle("Commute vs Business Miles by Vehicle")
	page.SetLayout(components.PageFlexLayout)

	for _, s := range summary {
		if s.TotalMiles <= 0 {
			continue
		}
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: s.Vehicle}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithColorsOpts(opts.Colors(pieColors)),
		)
		pie.AddSeries(s.Vehicle, []opts.PieData{
			{Name: "Business", Value: s.BusinessMiles},
			{Name: "Commute", Value: s.CommuteMiles},
		}).SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		)
		page.AddCharts(pie)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render pie charts: %w", err)
	}
	return nil
}
