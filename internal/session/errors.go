package session

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned by Store.Load when no session file exists on disk.
var ErrNoSession = errors.New("no active session")

// ErrInvalidTransition is returned when an operation is not valid in the
// current session state, such as recording the session start twice.
var ErrInvalidTransition = errors.New("operation not valid in current session state")

// ErrNoActiveEvent is returned by Abort when no event is active.
var ErrNoActiveEvent = errors.New("no active event to abort")

// ErrInvalidTimeRange is returned by RecordMissing when the end time is
// not strictly after the start time.
var ErrInvalidTimeRange = errors.New("end time must be after start time")

// ErrActiveEventPending is returned by End while an event is still
// active; the caller must end or abort it first.
var ErrActiveEventPending = errors.New("an event is still active")

// ErrSessionEnded is returned by every mutating operation after End has
// succeeded.
var ErrSessionEnded = errors.New("session already ended")

// ActiveEventError rejects starting a second event while one is active.
type ActiveEventError struct {
	Active string // name of the event currently active
}

func (e *ActiveEventError) Error() string {
	return fmt.Sprintf("event %q is already active", e.Active)
}

// UnknownEventError rejects an event name missing from the configured
// catalog, including the reserved marker names.
type UnknownEventError struct {
	Name string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event %q", e.Name)
}
