package climate

import (
	"fmt"
	"time"
)

// Parameter identifies one of the daily environmental series we track.
// The codes match the NASA POWER parameter names so they can be used
// directly in outbound requests.
type Parameter string

const (
	ParamTemperature    Parameter = "T2M"               // air temperature at 2m, Celsius
	ParamPrecipitation  Parameter = "PRECTOTCORR"       // corrected total precipitation, mm/day
	ParamSoilMoisture   Parameter = "GWETROOT"          // root-zone soil wetness, 0..1
	ParamSolarRadiation Parameter = "ALLSKY_SFC_SW_DWN" // surface shortwave down, kWh/m2/day
)

// Parameters lists every series an ObservationSet must carry, in request order.
var Parameters = []Parameter{
	ParamTemperature,
	ParamPrecipitation,
	ParamSoilMoisture,
	ParamSolarRadiation,
}

// DataSource records where an observation set came from.
type DataSource string

const (
	SourceLive      DataSource = "live"
	SourceSynthetic DataSource = "synthetic"
)

// Location is a geographic point for which climate data is requested.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinates are within range.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// Key returns a canonical string key for indexing this location in caches.
func (l Location) Key(windowDays int) string {
	return fmt.Sprintf("%.4f:%.4f:%d", l.Lat, l.Lon, windowDays)
}

// DailyValue is a single dated measurement within a series.
type DailyValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ObservationSet is one fetched-or-synthesized dataset for a location and
// trailing window. Every parameter series holds exactly WindowDays entries
// with unique contiguous dates, oldest to newest. Sets are immutable once
// built; the cache only ever replaces whole sets.
type ObservationSet struct {
	Location   Location                   `json:"location"`
	WindowDays int                        `json:"windowDays"`
	Series     map[Parameter][]DailyValue `json:"series"`
	Source     DataSource                 `json:"source"`
}

// Values returns the raw values of one parameter series, oldest first.
func (s *ObservationSet) Values(p Parameter) []float64 {
	series := s.Series[p]
	out := make([]float64, len(series))
	for i, dv := range series {
		out[i] = dv.Value
	}
	return out
}

// Validate checks the ObservationSet invariants.
func (s *ObservationSet) Validate() error {
	if s.WindowDays <= 0 {
		return fmt.Errorf("window days must be positive, got %d", s.WindowDays)
	}
	for _, p := range Parameters {
		series, ok := s.Series[p]
		if !ok {
			return fmt.Errorf("missing series for parameter %s", p)
		}
		if len(series) != s.WindowDays {
			return fmt.Errorf("parameter %s has %d entries, want %d", p, len(series), s.WindowDays)
		}
		for i := 1; i < len(series); i++ {
			if !series[i].Date.Equal(series[i-1].Date.AddDate(0, 0, 1)) {
				return fmt.Errorf("parameter %s dates not contiguous at index %d", p, i)
			}
		}
	}
	return nil
}
