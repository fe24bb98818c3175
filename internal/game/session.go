package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/harvesthorizon/harvest-horizon/internal/climate"
	"github.com/harvesthorizon/harvest-horizon/internal/engine"
	"github.com/harvesthorizon/harvest-horizon/internal/scenario"
)

// State is a phase of the session flow.
type State string

const (
	StateWelcome State = "welcome"
	StatePlaying State = "playing"
	// StateMultiPlaying is the board-game branch; it bypasses scoring
	// entirely and only renders the dashboard artifact.
	StateMultiPlaying State = "multi-playing"
	StateResults      State = "results"
)

// ErrInvalidTransition is returned when an operation is attempted in the
// wrong state, e.g. harvesting before a game has started.
var ErrInvalidTransition = errors.New("invalid session state transition")

// validTransitions encodes the session flow. There is deliberately no path
// from welcome straight to results.
var validTransitions = map[State][]State{
	StateWelcome:      {StatePlaying, StateMultiPlaying},
	StatePlaying:      {StateResults, StateWelcome},
	StateMultiPlaying: {StateWelcome},
	StateResults:      {StatePlaying, StateWelcome},
}

// Session is one in-flight game: a scenario, the fetched observations, the
// derived summary and advisories, and (after harvest) the outcome.
type Session struct {
	ID              string                  `json:"id"`
	State           State                   `json:"state"`
	Scenario        scenario.Scenario       `json:"scenario"`
	Observations    *climate.ObservationSet `json:"-"`
	Summary         engine.Summary          `json:"summary"`
	Recommendations []string                `json:"recommendations"`
	Outcome         *engine.Outcome         `json:"outcome,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// transition moves the session to a new state, enforcing the flow above.
func (s *Session) transition(to State) error {
	for _, allowed := range validTransitions[s.State] {
		if allowed == to {
			s.State = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
}
