package climate

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource returns a canned observation set or error and counts calls.
type stubSource struct {
	set   *ObservationSet
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(_ context.Context, _ Location, _ int) (*ObservationSet, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.set, nil
}

func validSet(loc Location, windowDays int) *ObservationSet {
	start := fixedNow().Truncate(24 * time.Hour).AddDate(0, 0, -(windowDays - 1))
	series := make(map[Parameter][]DailyValue)
	for _, p := range Parameters {
		for i := 0; i < windowDays; i++ {
			series[p] = append(series[p], DailyValue{
				Date:  start.AddDate(0, 0, i),
				Value: float64(i) + 1,
			})
		}
	}
	return &ObservationSet{
		Location:   loc,
		WindowDays: windowDays,
		Series:     series,
		Source:     SourceLive,
	}
}

func newTestProvider(src Source) (*Provider, *MemoryCache) {
	cache := NewMemoryCache()
	fb := newFallback(rand.NewSource(1), fixedNow)
	return NewProvider(src, fb, cache, zerolog.Nop()), cache
}

func TestProviderCachesLiveFetches(t *testing.T) {
	loc := Location{Lat: 37.5, Lon: -95.5}
	src := &stubSource{set: validSet(loc, 30)}
	p, cache := newTestProvider(src)

	first := p.Fetch(context.Background(), loc, 30)
	second := p.Fetch(context.Background(), loc, 30)

	// Same object, no second network call, no staleness check.
	assert.Same(t, first, second)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, cache.Len())

	// A different window is a different cache key.
	src.set = validSet(loc, 7)
	p.Fetch(context.Background(), loc, 7)
	assert.Equal(t, 2, src.calls)
}

func TestProviderFallsBackOnSourceError(t *testing.T) {
	loc := Location{Lat: 39.0, Lon: -121.5}
	src := &stubSource{err: errors.New("connection refused")}
	p, cache := newTestProvider(src)

	set := p.Fetch(context.Background(), loc, 30)

	require.NotNil(t, set)
	require.NoError(t, set.Validate())
	assert.Equal(t, SourceSynthetic, set.Source)

	// Fallback results are not cached, so the next call retries the source.
	assert.Equal(t, 0, cache.Len())
	p.Fetch(context.Background(), loc, 30)
	assert.Equal(t, 2, src.calls)
}

func TestProviderRecoversAfterOutage(t *testing.T) {
	loc := Location{Lat: 42.0, Lon: -93.5}
	src := &stubSource{err: errors.New("timeout")}
	p, _ := newTestProvider(src)

	set := p.Fetch(context.Background(), loc, 30)
	assert.Equal(t, SourceSynthetic, set.Source)

	// Feed recovers; the same key now fetches and caches live data.
	src.err = nil
	src.set = validSet(loc, 30)
	set = p.Fetch(context.Background(), loc, 30)
	assert.Equal(t, SourceLive, set.Source)
}

func TestProviderRejectsInvalidLiveData(t *testing.T) {
	loc := Location{Lat: 10, Lon: 10}
	bad := validSet(loc, 30)
	bad.Series[ParamTemperature] = bad.Series[ParamTemperature][:5]

	src := &stubSource{set: bad}
	p, cache := newTestProvider(src)

	set := p.Fetch(context.Background(), loc, 30)
	assert.Equal(t, SourceSynthetic, set.Source)
	assert.Equal(t, 0, cache.Len())
}

func TestProviderDefaultsWindowDays(t *testing.T) {
	loc := Location{Lat: 1, Lon: 2}
	src := &stubSource{set: validSet(loc, DefaultWindowDays)}
	p, _ := newTestProvider(src)

	set := p.Fetch(context.Background(), loc, 0)
	assert.Equal(t, DefaultWindowDays, set.WindowDays)
}
