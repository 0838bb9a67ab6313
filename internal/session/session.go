// Package session holds the clinical-session state machine and its
// on-disk persistence. A session tracks at most one active event at a
// time; every transition that settles a row is appended to the durable
// CSV log before the in-memory state is allowed to change.
package session

import "time"

// ActiveEvent is the single in-flight event slot. The start time lives
// only here until the event ends or is aborted; nothing is written to
// the log at event start.
type ActiveEvent struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
}

// Session is the persisted state of one logging session.
type Session struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id,omitempty"`
	StudyID   string `json:"study_id,omitempty"`
	LogPath   string `json:"log_path"`

	// Started records that StartSession ran. StartTime is set only when
	// the SESSION START marker was recorded; a nil StartTime on a
	// started session means the operator skipped the marker, and the
	// closing duration will be N/A.
	Started   bool       `json:"started"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Ended     bool       `json:"ended,omitempty"`

	Active *ActiveEvent `json:"active_event,omitempty"`

	// Catalog is the deployment's ordered list of valid event names,
	// snapshotted at session start so a config edit mid-session cannot
	// orphan an active event.
	Catalog []string `json:"catalog"`
}

// HasActiveEvent reports whether an event is currently active.
func (s *Session) HasActiveEvent() bool {
	return s.Active != nil
}

// ActiveEventName returns the active event's name, or "" when none.
func (s *Session) ActiveEventName() string {
	if s.Active == nil {
		return ""
	}
	return s.Active.Name
}

// InCatalog reports whether name is a valid event for this session.
func (s *Session) InCatalog(name string) bool {
	for _, n := range s.Catalog {
		if n == name {
			return true
		}
	}
	return false
}
