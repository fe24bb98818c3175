package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvesthorizon/harvest-horizon/internal/climate"
	"github.com/harvesthorizon/harvest-horizon/internal/engine"
)

// buildSet constructs a valid observation set where each parameter series
// is produced by the given value functions over day indices.
func buildSet(windowDays int, value func(p climate.Parameter, i int) float64) *climate.ObservationSet {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := make(map[climate.Parameter][]climate.DailyValue)
	for _, p := range climate.Parameters {
		for i := 0; i < windowDays; i++ {
			series[p] = append(series[p], climate.DailyValue{
				Date:  start.AddDate(0, 0, i),
				Value: value(p, i),
			})
		}
	}
	return &climate.ObservationSet{
		Location:   climate.Location{Lat: 37.5, Lon: -95.5},
		WindowDays: windowDays,
		Series:     series,
		Source:     climate.SourceLive,
	}
}

func TestAnalyzeAverages(t *testing.T) {
	set := buildSet(4, func(p climate.Parameter, i int) float64 {
		switch p {
		case climate.ParamTemperature:
			return []float64{20, 21, 22, 23}[i]
		case climate.ParamPrecipitation:
			return []float64{1, 2, 3, 4}[i]
		case climate.ParamSoilMoisture:
			return []float64{0.2, 0.3, 0.4, 0.5}[i]
		default:
			return 6
		}
	})

	summary, err := engine.Analyze(set)
	require.NoError(t, err)

	assert.InDelta(t, 21.5, summary.AvgTemperature, 1e-9)
	assert.InDelta(t, 2.5, summary.AvgPrecipitation, 1e-9)
	assert.InDelta(t, 0.35, summary.AvgSoilMoisture, 1e-9)
}

func TestAnalyzeAveragesWithinSeriesBounds(t *testing.T) {
	for _, windowDays := range []int{1, 7, 30, 90} {
		set := buildSet(windowDays, func(p climate.Parameter, i int) float64 {
			return float64(i%7) + 0.1*float64(i%3)
		})

		summary, err := engine.Analyze(set)
		require.NoError(t, err)

		for _, avg := range []float64{summary.AvgTemperature, summary.AvgPrecipitation, summary.AvgSoilMoisture} {
			lo, hi := minMax(set.Values(climate.ParamTemperature))
			// All series share the same value function here.
			assert.GreaterOrEqual(t, avg, lo-0.05, "window %d", windowDays)
			assert.LessOrEqual(t, avg, hi+0.05, "window %d", windowDays)
		}
	}
}

func TestAnalyzeRounding(t *testing.T) {
	set := buildSet(2, func(p climate.Parameter, i int) float64 {
		switch p {
		case climate.ParamTemperature:
			return []float64{20.13, 20.21}[i] // mean 20.17 -> 20.2
		case climate.ParamPrecipitation:
			return []float64{2.113, 2.121}[i] // mean 2.117 -> 2.12
		case climate.ParamSoilMoisture:
			return []float64{0.331, 0.335}[i] // mean 0.333 -> 0.33
		default:
			return 5.5
		}
	})

	summary, err := engine.Analyze(set)
	require.NoError(t, err)

	assert.InDelta(t, 20.2, summary.AvgTemperature, 1e-9)
	assert.InDelta(t, 2.12, summary.AvgPrecipitation, 1e-9)
	assert.InDelta(t, 0.33, summary.AvgSoilMoisture, 1e-9)
}

func TestAnalyzeRecentWindow(t *testing.T) {
	set := buildSet(30, func(p climate.Parameter, i int) float64 {
		return float64(i)
	})

	summary, err := engine.Analyze(set)
	require.NoError(t, err)

	// Most recent 10 values, oldest first.
	require.Len(t, summary.RecentTemperature, 10)
	assert.Equal(t, 20.0, summary.RecentTemperature[0])
	assert.Equal(t, 29.0, summary.RecentTemperature[9])

	// Shorter windows return what exists.
	short := buildSet(3, func(p climate.Parameter, i int) float64 { return float64(i) })
	summary, err = engine.Analyze(short)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, summary.RecentPrecipitation)
}

func TestAnalyzeNoData(t *testing.T) {
	_, err := engine.Analyze(nil)
	assert.ErrorIs(t, err, engine.ErrNoData)

	empty := &climate.ObservationSet{
		WindowDays: 5,
		Series:     map[climate.Parameter][]climate.DailyValue{},
	}
	_, err = engine.Analyze(empty)
	assert.ErrorIs(t, err, engine.ErrNoData)
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
