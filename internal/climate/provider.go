package climate

import (
	"context"

	"github.com/rs/zerolog"
)

// DefaultWindowDays is the trailing window used when the caller does not
// specify one.
const DefaultWindowDays = 30

// Source abstracts a live climate data feed. A Source reports failures as
// errors; substituting synthetic data on failure is the Provider's decision,
// not the Source's.
type Source interface {
	Name() string
	Fetch(ctx context.Context, loc Location, windowDays int) (*ObservationSet, error)
}

// Provider returns observation sets for a location and window, preferring
// the live source and falling back to the synthetic generator on any
// failure. Its Fetch never errors: the caller always receives a well-formed
// set satisfying the ObservationSet invariants.
type Provider struct {
	source   Source
	fallback *Fallback
	cache    Cache
	log      zerolog.Logger
}

// NewProvider creates a Provider. The cache is injected so tests can seed or
// disable it.
func NewProvider(source Source, fallback *Fallback, cache Cache, log zerolog.Logger) *Provider {
	return &Provider{
		source:   source,
		fallback: fallback,
		cache:    cache,
		log:      log.With().Str("component", "climate-provider").Logger(),
	}
}

// Fetch returns an ObservationSet for loc over the trailing windowDays.
// Cache hits are returned unchanged with no staleness check. On a miss the
// live source is tried; a successful live fetch is cached. Fallback results
// are deliberately not cached so a later call can retry the live source.
func (p *Provider) Fetch(ctx context.Context, loc Location, windowDays int) *ObservationSet {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	key := loc.Key(windowDays)
	if set, ok := p.cache.Get(key); ok {
		return set
	}

	set, err := p.source.Fetch(ctx, loc, windowDays)
	if err == nil {
		if vErr := set.Validate(); vErr != nil {
			err = vErr
		}
	}
	if err != nil {
		p.log.Warn().
			Err(err).
			Str("source", p.source.Name()).
			Float64("lat", loc.Lat).
			Float64("lon", loc.Lon).
			Int("windowDays", windowDays).
			Msg("live fetch failed, using synthetic data")
		return p.fallback.Generate(loc, windowDays)
	}

	p.cache.Put(key, set)
	return set
}
