// Package eventlog reads and writes the append-only session log: a CSV
// file with one row per completed, aborted, or retroactively entered
// event, plus the reserved session markers.
package eventlog

import (
	"fmt"
	"time"
)

// Reserved marker names. They occupy the Event column of marker rows and
// are never valid user event names.
const (
	MarkerSessionStart = "SESSION START"
	MarkerSessionEnd   = "SESSION END"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	// absent is written in place of a date or time that was never
	// recorded (aborted end, skipped session start).
	absent = "N/A"
)

// Header is the fixed first row of every log file.
var Header = []string{"Event", "Start Date", "Start Time", "End Date", "End Time", "Notes"}

// Record is one logged row. A zero End marks an aborted event (or a
// start-only marker); a zero Start is only legal on a SESSION END row
// whose session start was skipped.
type Record struct {
	Event string
	Start time.Time
	End   time.Time
	Notes string
}

// IsMarker reports whether the record is a reserved session marker
// rather than a user event.
func (r Record) IsMarker() bool {
	return r.Event == MarkerSessionStart || r.Event == MarkerSessionEnd
}

// Duration returns the elapsed time between Start and End, or false when
// either endpoint is absent.
func (r Record) Duration() (time.Duration, bool) {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0, false
	}
	return r.End.Sub(r.Start), true
}

// fields serializes the record into the 6-column row shape.
func (r Record) fields() []string {
	return []string{
		r.Event,
		formatDate(r.Start),
		formatTime(r.Start),
		formatDate(r.End),
		formatTime(r.End),
		r.Notes,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return absent
	}
	return t.Format(dateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return absent
	}
	return t.Format(timeLayout)
}

// FormatDuration renders d as HH:MM:SS. Hours widen past two digits for
// sessions longer than a day rather than wrapping.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
