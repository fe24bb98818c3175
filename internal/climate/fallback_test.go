package climate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
}

func TestFallbackSatisfiesInvariants(t *testing.T) {
	f := newFallback(rand.NewSource(1), fixedNow)
	loc := Location{Lat: 42.0, Lon: -93.5}

	for _, windowDays := range []int{1, 10, 30} {
		set := f.Generate(loc, windowDays)

		require.NoError(t, set.Validate())
		assert.Equal(t, loc, set.Location)
		assert.Equal(t, SourceSynthetic, set.Source)

		// Dates end today.
		for _, p := range Parameters {
			series := set.Series[p]
			last := series[len(series)-1].Date
			assert.Equal(t, fixedNow().Truncate(24*time.Hour), last)
		}
	}
}

func TestFallbackValuesWithinFormulaBounds(t *testing.T) {
	f := newFallback(rand.NewSource(7), fixedNow)
	set := f.Generate(Location{}, 30)

	for i, dv := range set.Series[ParamTemperature] {
		base := 20 + float64(i%10)
		assert.GreaterOrEqual(t, dv.Value, base)
		assert.Less(t, dv.Value, base+3)
	}
	for i, dv := range set.Series[ParamPrecipitation] {
		base := 2.5 + float64(i%5)
		assert.GreaterOrEqual(t, dv.Value, base)
		assert.Less(t, dv.Value, base+1)
	}
	for i, dv := range set.Series[ParamSoilMoisture] {
		base := 0.3 + 0.1*float64(i%3)
		assert.GreaterOrEqual(t, dv.Value, base)
		assert.Less(t, dv.Value, base+0.1)
	}
	for _, dv := range set.Series[ParamSolarRadiation] {
		assert.GreaterOrEqual(t, dv.Value, 5.5)
		assert.Less(t, dv.Value, 6.5)
	}
}

func TestFallbackStructurallyDeterministic(t *testing.T) {
	// Two generators with different seeds produce identical structure, only
	// the bounded perturbation differs.
	a := newFallback(rand.NewSource(1), fixedNow).Generate(Location{}, 14)
	b := newFallback(rand.NewSource(2), fixedNow).Generate(Location{}, 14)

	for _, p := range Parameters {
		require.Len(t, b.Series[p], len(a.Series[p]))
		for i := range a.Series[p] {
			assert.Equal(t, a.Series[p][i].Date, b.Series[p][i].Date)
		}
	}
}
