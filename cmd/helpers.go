package cmd

import (
	"errors"
	"fmt"

	"github.com/mhollis/evlog/internal/clock"
	"github.com/mhollis/evlog/internal/session"
)

// loadSession loads the persisted session or fails with a user-facing
// error when none is open.
func loadSession() (session.Store, *session.Session, error) {
	store, err := session.NewStore()
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil, fmt.Errorf("no active session — run 'evlog start' first")
		}
		return nil, nil, err
	}
	return store, s, nil
}

// loadTracker wraps the persisted session in its state machine.
func loadTracker() (session.Store, *session.Tracker, error) {
	store, s, err := loadSession()
	if err != nil {
		return nil, nil, err
	}
	return store, session.NewTracker(s, clock.System{}), nil
}
