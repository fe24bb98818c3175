// Package power implements the climate.Source interface against the NASA
// POWER daily-point API.
package power

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/harvesthorizon/harvest-horizon/internal/climate"
)

const (
	// DefaultBaseURL is the POWER daily temporal point endpoint.
	DefaultBaseURL = "https://power.larc.nasa.gov/api/temporal/daily/point"

	// community tag for agricultural parameter profiles.
	community = "AG"

	dateLayout = "20060102"

	// fillValue marks missing days in POWER payloads.
	fillValue = -999.0
)

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
	errBadPayload  = errors.New("malformed payload")
)

// BackoffConfig controls retry behaviour on transient failures.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Client fetches daily climate parameters from NASA POWER.
type Client struct {
	name    string
	baseURL string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewClient creates a Client. baseURL may be empty to use the public
// endpoint; the http.Client should carry the outbound timeout.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nasa-power",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		name:    "nasa-power",
		baseURL: baseURL,
		client:  httpClient,
		backoff: BackoffConfig{
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
		now:     time.Now,
	}
}

// Name implements climate.Source.
func (c *Client) Name() string {
	return c.name
}

// Fetch requests the four daily parameter series for loc over the trailing
// window and normalizes them into an ObservationSet. Any transport failure,
// non-2xx status, or payload that cannot be normalized into exactly
// windowDays contiguous entries per parameter is returned as an error.
func (c *Client) Fetch(ctx context.Context, loc climate.Location, windowDays int) (*climate.ObservationSet, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	codes := make([]string, len(climate.Parameters))
	for i, p := range climate.Parameters {
		codes[i] = string(p)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("parameters", strings.Join(codes, ","))
		values.Set("community", community)
		values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
		values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
		values.Set("start", start.Format(dateLayout))
		values.Set("end", end.Format(dateLayout))
		values.Set("format", "JSON")

		return http.NewRequest(http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := c.doWithResilience(ctx, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}

	return normalize(loc, windowDays, payload.Properties.Parameter)
}

// doWithResilience executes the request with retries, exponential backoff,
// and a circuit breaker.
func (c *Client) doWithResilience(ctx context.Context, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := c.circuit.Execute(func() (interface{}, error) {
			resp, execErr := c.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, errServerError
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
		if attempt >= c.backoff.MaxRetries {
			return nil, lastErr
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

// normalize converts the POWER date->value maps into contiguous
// oldest-to-newest series of exactly windowDays entries per parameter.
func normalize(loc climate.Location, windowDays int, raw map[string]map[string]float64) (*climate.ObservationSet, error) {
	series := make(map[climate.Parameter][]climate.DailyValue, len(climate.Parameters))

	for _, p := range climate.Parameters {
		byDate, ok := raw[string(p)]
		if !ok {
			return nil, fmt.Errorf("%w: missing parameter %s", errBadPayload, p)
		}

		entries := make([]climate.DailyValue, 0, len(byDate))
		for ds, v := range byDate {
			if v == fillValue {
				continue
			}
			date, err := time.ParseInLocation(dateLayout, ds, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("%w: bad date %q for %s", errBadPayload, ds, p)
			}
			entries = append(entries, climate.DailyValue{Date: date, Value: v})
		}

		if len(entries) < windowDays {
			return nil, fmt.Errorf("%w: parameter %s has %d usable days, want %d",
				errBadPayload, p, len(entries), windowDays)
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Date.Before(entries[j].Date)
		})
		entries = entries[len(entries)-windowDays:]

		for i := 1; i < len(entries); i++ {
			if !entries[i].Date.Equal(entries[i-1].Date.AddDate(0, 0, 1)) {
				return nil, fmt.Errorf("%w: parameter %s dates not contiguous", errBadPayload, p)
			}
		}

		series[p] = entries
	}

	return &climate.ObservationSet{
		Location:   loc,
		WindowDays: windowDays,
		Series:     series,
		Source:     climate.SourceLive,
	}, nil
}
