package climate

import (
	"math/rand"
	"sync"
	"time"
)

// Fallback synthesizes plausible observation sets so the rest of the
// pipeline always has data to operate on, even fully offline. Values follow
// a small deterministic shape per parameter plus a bounded random
// perturbation; structure (length, dates) is fully deterministic.
type Fallback struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewFallback creates a generator seeded from the current time.
func NewFallback() *Fallback {
	return newFallback(rand.NewSource(time.Now().UnixNano()), time.Now)
}

func newFallback(src rand.Source, now func() time.Time) *Fallback {
	return &Fallback{
		rng: rand.New(src),
		now: now,
	}
}

// Generate produces a synthetic ObservationSet of windowDays consecutive
// dates ending today.
func (f *Fallback) Generate(loc Location, windowDays int) *ObservationSet {
	f.mu.Lock()
	defer f.mu.Unlock()

	today := f.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(windowDays - 1))

	series := make(map[Parameter][]DailyValue, len(Parameters))
	for _, p := range Parameters {
		series[p] = make([]DailyValue, 0, windowDays)
	}

	for i := 0; i < windowDays; i++ {
		date := start.AddDate(0, 0, i)

		series[ParamTemperature] = append(series[ParamTemperature], DailyValue{
			Date:  date,
			Value: 20 + float64(i%10) + f.rng.Float64()*3,
		})
		series[ParamPrecipitation] = append(series[ParamPrecipitation], DailyValue{
			Date:  date,
			Value: 2.5 + float64(i%5) + f.rng.Float64(),
		})
		series[ParamSoilMoisture] = append(series[ParamSoilMoisture], DailyValue{
			Date:  date,
			Value: 0.3 + 0.1*float64(i%3) + f.rng.Float64()*0.1,
		})
		series[ParamSolarRadiation] = append(series[ParamSolarRadiation], DailyValue{
			Date:  date,
			Value: 5.5 + f.rng.Float64(),
		})
	}

	return &ObservationSet{
		Location:   loc,
		WindowDays: windowDays,
		Series:     series,
		Source:     SourceSynthetic,
	}
}
