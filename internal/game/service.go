// Package game orchestrates the provider and the decision engine behind a
// session registry enforcing the welcome/playing/results flow.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harvesthorizon/harvest-horizon/internal/climate"
	"github.com/harvesthorizon/harvest-horizon/internal/engine"
	"github.com/harvesthorizon/harvest-horizon/internal/scenario"
)

// ErrSessionNotFound is returned for operations on an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// Mode selects the session branch at start.
type Mode string

const (
	ModeSolo  Mode = "solo"
	ModeBoard Mode = "board"
)

// Service owns the session registry and wires the climate provider and the
// decision engine together.
type Service struct {
	catalog    *scenario.Catalog
	provider   *climate.Provider
	windowDays int
	log        zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service. windowDays <= 0 uses the provider default.
func NewService(catalog *scenario.Catalog, provider *climate.Provider, windowDays int, log zerolog.Logger) *Service {
	return &Service{
		catalog:    catalog,
		provider:   provider,
		windowDays: windowDays,
		log:        log.With().Str("component", "game").Logger(),
		sessions:   make(map[string]*Session),
	}
}

// Catalog exposes the scenario catalog for read-only listing.
func (s *Service) Catalog() *scenario.Catalog {
	return s.catalog
}

// Start creates a session for a scenario, fetches climate data for its
// location, and moves it to playing (or multi-playing for the board mode).
// The provider never fails, so after a successful scenario lookup the
// session always reaches a playable state.
func (s *Service) Start(ctx context.Context, scenarioKey string, mode Mode) (*Session, error) {
	sc, err := s.catalog.Get(scenarioKey)
	if err != nil {
		return nil, err
	}

	set := s.provider.Fetch(ctx, sc.Location, s.windowDays)
	summary, err := engine.Analyze(set)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:              uuid.NewString(),
		State:           StateWelcome,
		Scenario:        sc,
		Observations:    set,
		Summary:         summary,
		Recommendations: engine.Recommend(summary),
		CreatedAt:       time.Now().UTC(),
	}

	target := StatePlaying
	if mode == ModeBoard {
		target = StateMultiPlaying
	}
	if err := sess.transition(target); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Info().
		Str("session", sess.ID).
		Str("scenario", sc.Key).
		Str("state", string(sess.State)).
		Str("dataSource", string(set.Source)).
		Msg("session started")

	return sess, nil
}

// Harvest scores the player's decision against the session's summary and
// moves the session from playing to results.
func (s *Service) Harvest(id string, d engine.Decision) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := sess.transition(StateResults); err != nil {
		return nil, err
	}

	outcome := engine.Score(sess.Scenario, sess.Summary, d)
	sess.Outcome = &outcome

	s.log.Info().
		Str("session", sess.ID).
		Float64("yield", outcome.YieldPercent).
		Msg("harvest scored")

	return sess, nil
}

// Retry moves a scored session back to playing, keeping the same scenario
// and summary so the player can try a different decision.
func (s *Service) Retry(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := sess.transition(StatePlaying); err != nil {
		return nil, err
	}
	sess.Outcome = nil

	return sess, nil
}

// Abandon returns the session to welcome, discarding in-memory game state.
func (s *Service) Abandon(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if err := sess.transition(StateWelcome); err != nil {
		return err
	}
	delete(s.sessions, id)

	return nil
}

// Get returns the session with the given ID.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
