// Package engine turns climate observation sets into summary statistics,
// advisory text, and yield outcomes for a proposed farming decision.
package engine

import (
	"errors"
	"math"

	"github.com/harvesthorizon/harvest-horizon/internal/climate"
)

// ErrNoData is returned when an observation set is absent or has empty
// series; callers must re-fetch rather than proceed to scoring.
var ErrNoData = errors.New("no climate observations to analyze")

// recentDays is how many trailing daily values the summary exposes for
// charting.
const recentDays = 10

// Summary holds the reduced statistics the recommendation and scoring steps
// operate on. It is recomputed on demand and never persisted.
type Summary struct {
	AvgTemperature   float64 `json:"avgTemperature"`   // Celsius, 1 decimal
	AvgPrecipitation float64 `json:"avgPrecipitation"` // mm/day, 2 decimals
	AvgSoilMoisture  float64 `json:"avgSoilMoisture"`  // 0..1, 2 decimals

	// Most recent daily values, oldest first, for charting only.
	RecentTemperature   []float64 `json:"recentTemperature"`
	RecentPrecipitation []float64 `json:"recentPrecipitation"`
}

// Analyze reduces an observation set to summary statistics. It is a pure
// function of its input.
func Analyze(set *climate.ObservationSet) (Summary, error) {
	if set == nil {
		return Summary{}, ErrNoData
	}

	temps := set.Values(climate.ParamTemperature)
	precip := set.Values(climate.ParamPrecipitation)
	soil := set.Values(climate.ParamSoilMoisture)
	if len(temps) == 0 || len(precip) == 0 || len(soil) == 0 {
		return Summary{}, ErrNoData
	}

	return Summary{
		AvgTemperature:      roundTo(mean(temps), 1),
		AvgPrecipitation:    roundTo(mean(precip), 2),
		AvgSoilMoisture:     roundTo(mean(soil), 2),
		RecentTemperature:   tail(temps, recentDays),
		RecentPrecipitation: tail(precip, recentDays),
	}, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// tail returns the last n values (or all of them, if fewer), preserving
// oldest-first order.
func tail(values []float64, n int) []float64 {
	if len(values) > n {
		values = values[len(values)-n:]
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
