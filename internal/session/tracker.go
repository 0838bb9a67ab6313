package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/mhollis/evlog/internal/clock"
	"github.com/mhollis/evlog/internal/eventlog"
)

// ToggleStatus tells the caller which direction a Toggle went.
type ToggleStatus string

const (
	StatusStarted ToggleStatus = "started"
	StatusEnded   ToggleStatus = "ended"
)

// ToggleResult reports the outcome of a Toggle.
type ToggleResult struct {
	Status ToggleStatus
	Name   string
	Start  time.Time
	End    time.Time // zero when Status is StatusStarted
}

// EndResult reports the outcome of End. LogPath points at the finished
// log, ready for any external post-processing.
type EndResult struct {
	Duration string // HH:MM:SS, or "N/A" when the start marker was skipped
	LogPath  string
}

// Tracker is the session state machine. Every operation that settles a
// row appends it to the log before mutating the session, so a failed
// append leaves both the file and the state exactly as they were.
type Tracker struct {
	s     *Session
	clock clock.Clock
}

// NewTracker binds the state machine to a session and a clock.
func NewTracker(s *Session, c clock.Clock) *Tracker {
	return &Tracker{s: s, clock: c}
}

// Session exposes the underlying state for persistence and display.
func (t *Tracker) Session() *Session { return t.s }

// HasActiveEvent reports whether an event is currently active.
func (t *Tracker) HasActiveEvent() bool { return t.s.HasActiveEvent() }

// ActiveEventName returns the active event's name, or "" when none.
func (t *Tracker) ActiveEventName() string { return t.s.ActiveEventName() }

// StartSession opens the session. When record is true the SESSION START
// marker is appended and the start time retained for the closing
// duration; when false the session runs without a recorded start and the
// duration will report N/A. Calling it on an already-started session is
// an invalid transition.
func (t *Tracker) StartSession(record bool) (time.Time, error) {
	if t.s.Ended {
		return time.Time{}, ErrSessionEnded
	}
	if t.s.Started {
		return time.Time{}, fmt.Errorf("session already started: %w", ErrInvalidTransition)
	}

	now := t.clock.Now()
	if record {
		marker := eventlog.Record{
			Event: eventlog.MarkerSessionStart,
			Start: now,
			Notes: "Session started",
		}
		if err := eventlog.Append(t.s.LogPath, marker); err != nil {
			return time.Time{}, err
		}
		t.s.StartTime = &now
	}
	t.s.Started = true
	return now, nil
}

// Toggle starts the named event when no event is active, and ends it
// when the same event is active. A different active event rejects the
// toggle and changes nothing: silently dropping the in-flight event
// would lose its start time with no row ever written.
func (t *Tracker) Toggle(name, notes string) (ToggleResult, error) {
	if t.s.Ended {
		return ToggleResult{}, ErrSessionEnded
	}
	if err := t.checkName(name); err != nil {
		return ToggleResult{}, err
	}

	switch {
	case t.s.Active == nil:
		start := t.clock.Now()
		// No log write at event start; the row is settled on end or abort.
		t.s.Active = &ActiveEvent{Name: name, Start: start}
		return ToggleResult{Status: StatusStarted, Name: name, Start: start}, nil

	case t.s.Active.Name == name:
		end := t.clock.Now()
		rec := eventlog.Record{
			Event: name,
			Start: t.s.Active.Start,
			End:   end,
			Notes: notes,
		}
		if err := eventlog.Append(t.s.LogPath, rec); err != nil {
			return ToggleResult{}, err
		}
		res := ToggleResult{Status: StatusEnded, Name: name, Start: t.s.Active.Start, End: end}
		t.s.Active = nil
		return res, nil

	default:
		return ToggleResult{}, &ActiveEventError{Active: t.s.Active.Name}
	}
}

// Abort ends the active event without an end time. The row carries N/A
// end columns and ABORTED-prefixed notes.
func (t *Tracker) Abort(notes string) (string, error) {
	if t.s.Ended {
		return "", ErrSessionEnded
	}
	if t.s.Active == nil {
		return "", ErrNoActiveEvent
	}

	abortNotes := "ABORTED"
	if strings.TrimSpace(notes) != "" {
		abortNotes = "ABORTED: " + strings.TrimSpace(notes)
	}

	rec := eventlog.Record{
		Event: t.s.Active.Name,
		Start: t.s.Active.Start,
		Notes: abortNotes,
	}
	if err := eventlog.Append(t.s.LogPath, rec); err != nil {
		return "", err
	}

	name := t.s.Active.Name
	t.s.Active = nil
	return name, nil
}

// RecordMissing appends a retroactive entry for an event that was not
// logged in real time. It never touches the active-event slot and is
// valid whether or not an event is active.
func (t *Tracker) RecordMissing(name string, start, end time.Time, notes string) error {
	if t.s.Ended {
		return ErrSessionEnded
	}
	if err := t.checkName(name); err != nil {
		return err
	}
	if !end.After(start) {
		return ErrInvalidTimeRange
	}

	missingNotes := "Missing event"
	if strings.TrimSpace(notes) != "" {
		missingNotes += ": " + strings.TrimSpace(notes)
	}

	return eventlog.Append(t.s.LogPath, eventlog.Record{
		Event: name,
		Start: start,
		End:   end,
		Notes: missingNotes,
	})
}

// End closes the session with a SESSION END marker. The active event, if
// any, must be ended or aborted first. Terminal: every operation after a
// successful End fails with ErrSessionEnded.
func (t *Tracker) End() (EndResult, error) {
	if t.s.Ended {
		return EndResult{}, fmt.Errorf("session already ended: %w", ErrInvalidTransition)
	}
	if t.s.Active != nil {
		return EndResult{}, ErrActiveEventPending
	}

	now := t.clock.Now()
	marker := eventlog.Record{Event: eventlog.MarkerSessionEnd, End: now}

	duration := "N/A"
	if t.s.StartTime != nil {
		duration = eventlog.FormatDuration(now.Sub(*t.s.StartTime))
		marker.Start = *t.s.StartTime
		marker.Notes = "Session ended, duration: " + duration
	} else {
		marker.Notes = "Session ended, duration: N/A (session start was skipped)"
	}

	if err := eventlog.Append(t.s.LogPath, marker); err != nil {
		return EndResult{}, err
	}

	t.s.Ended = true
	return EndResult{Duration: duration, LogPath: t.s.LogPath}, nil
}

// checkName rejects names outside the session catalog and the reserved
// markers. Presentation keeps these paths unreachable in normal use; the
// core still refuses them.
func (t *Tracker) checkName(name string) error {
	if name == eventlog.MarkerSessionStart || name == eventlog.MarkerSessionEnd {
		return &UnknownEventError{Name: name}
	}
	if !t.s.InCatalog(name) {
		return &UnknownEventError{Name: name}
	}
	return nil
}
