// Package scenario holds the static catalog of farm scenarios. The catalog
// is loaded once at startup and never mutated; adding a scenario is a data
// change, not a code change.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/kelvins/geocoder"
	"gopkg.in/yaml.v3"

	"github.com/harvesthorizon/harvest-horizon/internal/climate"
)

//go:embed scenarios.yaml
var builtinYAML []byte

// ErrUnknownScenario is returned for a lookup with a key the catalog does
// not contain. This is a configuration error, not a retryable condition.
var ErrUnknownScenario = errors.New("unknown scenario")

// OptimalDecision is the irrigation/fertilizer pair the scoring function
// treats as the deviation baseline for a scenario.
type OptimalDecision struct {
	Irrigation int `yaml:"irrigation" json:"irrigation"`
	Fertilizer int `yaml:"fertilizer" json:"fertilizer"`
}

// Place names a location for geocoding when explicit coordinates are not
// configured. Resolution requires a geocoder API key.
type Place struct {
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Country string `yaml:"country"`
}

// Scenario is one supported crop/region pairing.
type Scenario struct {
	Key         string           `yaml:"-" json:"key"`
	Name        string           `yaml:"name" json:"name"`
	Difficulty  string           `yaml:"difficulty" json:"difficulty"`
	Description string           `yaml:"description" json:"description"`
	Location    climate.Location `yaml:"location" json:"location"`
	Place       *Place           `yaml:"place,omitempty" json:"-"`
	Optimal     OptimalDecision  `yaml:"optimal" json:"optimal"`
}

// Catalog is an immutable set of scenarios keyed by name.
type Catalog struct {
	scenarios map[string]Scenario
	keys      []string
}

type catalogFile struct {
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// LoadOptions controls catalog loading.
type LoadOptions struct {
	// FilePath optionally overrides the embedded catalog.
	FilePath string
	// GeocoderAPIKey enables resolving scenarios that give a place name
	// instead of coordinates.
	GeocoderAPIKey string
}

// Load builds the catalog from the embedded defaults or an override file.
func Load(opts LoadOptions) (*Catalog, error) {
	raw := builtinYAML
	if opts.FilePath != "" {
		b, err := os.ReadFile(opts.FilePath)
		if err != nil {
			return nil, fmt.Errorf("read scenario file: %w", err)
		}
		raw = b
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse scenario catalog: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, errors.New("scenario catalog is empty")
	}

	c := &Catalog{scenarios: make(map[string]Scenario, len(file.Scenarios))}
	for key, sc := range file.Scenarios {
		sc.Key = key
		if err := resolveLocation(&sc, opts.GeocoderAPIKey); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", key, err)
		}
		c.scenarios[key] = sc
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)

	return c, nil
}

// resolveLocation fills in coordinates, geocoding the place name when no
// explicit coordinates are configured.
func resolveLocation(sc *Scenario, apiKey string) error {
	if sc.Location != (climate.Location{}) {
		if !sc.Location.Valid() {
			return fmt.Errorf("invalid coordinates %+v", sc.Location)
		}
		return nil
	}
	if sc.Place == nil {
		return errors.New("scenario has neither coordinates nor a place name")
	}
	if apiKey == "" {
		return errors.New("place-name scenario requires a geocoder API key")
	}

	geocoder.ApiKey = apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    sc.Place.City,
		State:   sc.Place.State,
		Country: sc.Place.Country,
	})
	if err != nil {
		return fmt.Errorf("geocode %s: %w", sc.Place.City, err)
	}

	sc.Location = climate.Location{Lat: loc.Latitude, Lon: loc.Longitude}
	return nil
}

// Get returns the scenario for key.
func (c *Catalog) Get(key string) (Scenario, error) {
	sc, ok := c.scenarios[key]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, key)
	}
	return sc, nil
}

// All returns every scenario in stable key order.
func (c *Catalog) All() []Scenario {
	out := make([]Scenario, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.scenarios[k])
	}
	return out
}

// Locations returns the distinct locations of all scenarios.
func (c *Catalog) Locations() []climate.Location {
	seen := make(map[climate.Location]struct{})
	var out []climate.Location
	for _, k := range c.keys {
		loc := c.scenarios[k].Location
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	return out
}
