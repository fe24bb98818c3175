package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/harvesthorizon/harvest-horizon/internal/scenario"
)

// Soil-moisture regime boundaries. Exactly 0.30 and 0.50 fall in the normal
// regime: dry is strictly below, wet strictly above.
const (
	dryMoistureLimit = 0.30
	wetMoistureLimit = 0.50
)

const (
	baseYield = 100.0
	maxYield  = 150.0

	waterLitersPerUnit = 10
	fertilizerCostUnit = 5
)

// Decision is the player's proposed action. Both values are expected in
// [0, 100]; Score clamps out-of-range values rather than failing.
type Decision struct {
	Irrigation int `json:"irrigation"`
	Fertilizer int `json:"fertilizer"`
}

// Outcome is the scoring result for one decision against one summary.
type Outcome struct {
	YieldPercent   float64 `json:"yieldPercent"` // clamped to [0, 150]
	WaterUsage     int     `json:"waterUsage"`   // liters
	FertilizerCost int     `json:"fertilizerCost"`
	Feedback       string  `json:"feedback"`
}

// Score maps a decision plus the summarized conditions into a bounded yield
// outcome with resource-cost accounting. It is deterministic and
// side-effect free; calling it repeatedly with different decisions against
// the same summary is safe.
func Score(sc scenario.Scenario, s Summary, d Decision) Outcome {
	d.Irrigation = clampInt(d.Irrigation, 0, 100)
	d.Fertilizer = clampInt(d.Fertilizer, 0, 100)

	yield := baseYield
	yield += irrigationTerm(s.AvgSoilMoisture, d.Irrigation, sc.Optimal.Irrigation)
	yield += fertilizerTerm(d.Fertilizer, sc.Optimal.Fertilizer)
	yield = math.Min(maxYield, math.Max(0, yield))

	return Outcome{
		YieldPercent:   yield,
		WaterUsage:     d.Irrigation * waterLitersPerUnit,
		FertilizerCost: d.Fertilizer * fertilizerCostUnit,
		Feedback:       feedback(yield, s, d),
	}
}

// irrigationTerm scores irrigation against the soil-moisture regime. Under
// dry soil, under-irrigating is penalized far more than the reward for
// correctly over-irrigating; in the normal regime the term decays linearly
// from the scenario optimum, floored at zero.
func irrigationTerm(moisture float64, irrigation, optimal int) float64 {
	switch {
	case moisture < dryMoistureLimit:
		if irrigation >= 50 {
			return 15
		}
		return -30
	case moisture > wetMoistureLimit:
		if irrigation <= 30 {
			return 20
		}
		return -25
	default:
		diff := math.Abs(float64(irrigation - optimal))
		return math.Max(0, 20-diff/2)
	}
}

// fertilizerTerm scores fertilizer by absolute deviation from the scenario
// optimum, independent of the moisture regime.
func fertilizerTerm(fertilizer, optimal int) float64 {
	diff := abs(fertilizer - optimal)
	switch {
	case diff <= 10:
		return 25
	case diff <= 20:
		return 10
	case fertilizer > 80:
		return -15
	case fertilizer < 20:
		return -20
	default:
		return 0
	}
}

func feedback(yield float64, s Summary, d Decision) string {
	var lines []string

	switch {
	case yield > 120:
		lines = append(lines, "Outstanding! You mastered satellite data interpretation!")
	case yield > 100:
		lines = append(lines, "Excellent work! Your decisions were well-informed.")
	case yield > 85:
		lines = append(lines, "Good job! Some room for optimization.")
	default:
		lines = append(lines, "Review the climate data more carefully next time.")
	}

	lines = append(lines,
		"",
		"Climate Data Summary:",
		fmt.Sprintf("- Avg Temperature: %v C", s.AvgTemperature),
		fmt.Sprintf("- Avg Soil Moisture: %v", s.AvgSoilMoisture),
		fmt.Sprintf("- Avg Precipitation: %v mm/day", s.AvgPrecipitation),
		"",
		"Your Decisions:",
		fmt.Sprintf("- Irrigation: %d units", d.Irrigation),
		fmt.Sprintf("- Fertilizer: %d units", d.Fertilizer),
	)

	return strings.Join(lines, "\n")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
