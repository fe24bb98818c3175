// Package scheduler periodically warms the climate cache for the catalog's
// locations. Because fallback results are never cached, each warm run
// retries the live feed for any location still carrying synthetic data.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/harvesthorizon/harvest-horizon/internal/climate"
)

// Warmer runs the periodic cache-warming job.
type Warmer struct {
	scheduler  *gocron.Scheduler
	provider   *climate.Provider
	locations  []climate.Location
	windowDays int
	interval   time.Duration
	log        zerolog.Logger
}

// New creates a Warmer.
func New(locations []climate.Location, windowDays int, interval time.Duration, provider *climate.Provider, log zerolog.Logger) *Warmer {
	return &Warmer{
		scheduler:  gocron.NewScheduler(time.UTC),
		provider:   provider,
		locations:  locations,
		windowDays: windowDays,
		interval:   interval,
		log:        log.With().Str("component", "warmer").Logger(),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A non-positive interval disables warming.
func (w *Warmer) Start() error {
	if w.interval <= 0 || len(w.locations) == 0 {
		w.log.Info().Msg("cache warming disabled")
		return nil
	}

	_, err := w.scheduler.Every(w.interval).Do(func() {
		var wg sync.WaitGroup
		for _, loc := range w.locations {
			loc := loc
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				set := w.provider.Fetch(ctx, loc, w.windowDays)
				w.log.Debug().
					Float64("lat", loc.Lat).
					Float64("lon", loc.Lon).
					Str("source", string(set.Source)).
					Msg("warmed location")
			}()
		}
		wg.Wait()
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (w *Warmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
