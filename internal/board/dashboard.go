// Package board renders the self-contained HTML dashboard artifact for the
// board-game view. It is pure presentation: nothing rendered here flows back
// into the engine.
package board

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/harvesthorizon/harvest-horizon/internal/engine"
	"github.com/harvesthorizon/harvest-horizon/internal/scenario"
)

// Dashboard bundles everything the board view displays.
type Dashboard struct {
	Scenario scenario.Scenario
	Summary  engine.Summary
	// Outcome is nil until the session has been scored.
	Outcome *engine.Outcome
}

// Render writes the dashboard as a single HTML page.
func (d Dashboard) Render(w io.Writer) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(
		d.temperatureChart(),
		d.precipitationChart(),
		d.moistureGauge(),
	)
	if d.Outcome != nil {
		page.AddCharts(d.yieldGauge())
	}

	return page.Render(w)
}

func (d Dashboard) temperatureChart() *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Recent Temperature Trend",
			Subtitle: d.Scenario.Name,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Celsius"}),
	)

	data := make([]opts.LineData, len(d.Summary.RecentTemperature))
	for i, v := range d.Summary.RecentTemperature {
		data[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(dayLabels(len(data))).AddSeries("Temperature", data)

	return line
}

func (d Dashboard) precipitationChart() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Recent Precipitation",
			Subtitle: d.Scenario.Name,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "mm/day"}),
	)

	data := make([]opts.BarData, len(d.Summary.RecentPrecipitation))
	for i, v := range d.Summary.RecentPrecipitation {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(dayLabels(len(data))).AddSeries("Rainfall", data)

	return bar
}

func (d Dashboard) moistureGauge() *charts.Gauge {
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Average Soil Moisture"}),
	)
	gauge.AddSeries("Soil moisture", []opts.GaugeData{
		{Name: "0-1 scale", Value: d.Summary.AvgSoilMoisture},
	}, func(s *charts.SingleSeries) {
		s.Max = 1
	})

	return gauge
}

func (d Dashboard) yieldGauge() *charts.Gauge {
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Crop Yield"}),
	)
	gauge.AddSeries("Yield", []opts.GaugeData{
		{Name: "percent", Value: d.Outcome.YieldPercent},
	}, func(s *charts.SingleSeries) {
		s.Max = 150
	})

	return gauge
}

// dayLabels labels the trailing chart window "10 days ago" .. "today".
func dayLabels(n int) []string {
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		daysAgo := n - 1 - i
		switch daysAgo {
		case 0:
			labels[i] = "today"
		case 1:
			labels[i] = "1 day ago"
		default:
			labels[i] = fmt.Sprintf("%d days ago", daysAgo)
		}
	}
	return labels
}
