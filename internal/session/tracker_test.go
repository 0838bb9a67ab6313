package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/mhollis/evlog/internal/clock"
	"github.com/mhollis/evlog/internal/eventlog"
	"github.com/mhollis/evlog/internal/session"
)

var testCatalog = []string{"Meal", "Walk", "Clinical Interview", "Other"}

// newTestTracker builds a tracker over a fresh log file with a scripted clock.
func newTestTracker(t *testing.T, times ...time.Time) (*session.Tracker, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	if err := eventlog.Create(path); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s := &session.Session{
		ID:      "test-session",
		LogPath: path,
		Catalog: testCatalog,
	}
	return session.NewTracker(s, &clock.Fixed{Times: times}), path
}

func at(hour, min, sec int) time.Time {
	return time.Date(2025, 3, 14, hour, min, sec, 0, time.Local)
}

func readRows(t *testing.T, path string) []eventlog.Record {
	t.Helper()
	records, err := eventlog.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return records
}

func TestToggleStartThenEndAppendsOneRow(t *testing.T) {
	tr, path := newTestTracker(t, at(10, 0, 0), at(10, 25, 30))

	res, err := tr.Toggle("Meal", "")
	if err != nil {
		t.Fatalf("first Toggle: %v", err)
	}
	if res.Status != session.StatusStarted {
		t.Errorf("first Toggle status = %q, want %q", res.Status, session.StatusStarted)
	}
	if rows := readRows(t, path); len(rows) != 0 {
		t.Errorf("rows after event start = %d, want 0 (row is settled on end)", len(rows))
	}
	if !tr.HasActiveEvent() || tr.ActiveEventName() != "Meal" {
		t.Fatalf("active event = %q, want Meal", tr.ActiveEventName())
	}

	res, err = tr.Toggle("Meal", "quiet lunch")
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if res.Status != session.StatusEnded {
		t.Errorf("second Toggle status = %q, want %q", res.Status, session.StatusEnded)
	}
	if tr.HasActiveEvent() {
		t.Error("event still active after end toggle")
	}

	rows := readRows(t, path)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Event != "Meal" {
		t.Errorf("row event = %q, want Meal", row.Event)
	}
	if row.End.IsZero() {
		t.Error("end time absent on a normally ended event")
	}
	if row.End.Before(row.Start) {
		t.Errorf("end %v before start %v", row.End, row.Start)
	}
	if row.Notes != "quiet lunch" {
		t.Errorf("notes = %q, want %q", row.Notes, "quiet lunch")
	}
}

func TestToggleRejectsDifferentEventWhileActive(t *testing.T) {
	tr, path := newTestTracker(t, at(9, 0, 0), at(9, 5, 0))

	if _, err := tr.Toggle("Walk", ""); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	_, err := tr.Toggle("Meal", "")
	var activeErr *session.ActiveEventError
	if !errors.As(err, &activeErr) {
		t.Fatalf("Toggle while active returned %v, want ActiveEventError", err)
	}
	if activeErr.Active != "Walk" {
		t.Errorf("ActiveEventError.Active = %q, want Walk", activeErr.Active)
	}

	// State unchanged, zero rows appended.
	if tr.ActiveEventName() != "Walk" {
		t.Errorf("active event = %q, want Walk", tr.ActiveEventName())
	}
	if rows := readRows(t, path); len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestAbortWritesAbsentEndAndAbortedNotes(t *testing.T) {
	for _, tc := range []struct {
		notes string
		want  string
	}{
		{notes: "", want: "ABORTED"},
		{notes: "subject fell asleep", want: "ABORTED: subject fell asleep"},
	} {
		tr, path := newTestTracker(t, at(14, 0, 0), at(14, 10, 0))

		if _, err := tr.Toggle("Walk", ""); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		name, err := tr.Abort(tc.notes)
		if err != nil {
			t.Fatalf("Abort: %v", err)
		}
		if name != "Walk" {
			t.Errorf("aborted event = %q, want Walk", name)
		}
		if tr.HasActiveEvent() {
			t.Error("event still active after abort")
		}

		rows := readRows(t, path)
		if len(rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(rows))
		}
		if !rows[0].End.IsZero() {
			t.Errorf("aborted row has end time %v, want absent", rows[0].End)
		}
		if rows[0].Notes != tc.want {
			t.Errorf("notes = %q, want %q", rows[0].Notes, tc.want)
		}
	}
}

func TestAbortWithoutActiveEvent(t *testing.T) {
	tr, _ := newTestTracker(t, at(8, 0, 0))
	if _, err := tr.Abort(""); !errors.Is(err, session.ErrNoActiveEvent) {
		t.Errorf("Abort with nothing active returned %v, want ErrNoActiveEvent", err)
	}
}

func TestRecordMissingValidatesTimeRange(t *testing.T) {
	tr, path := newTestTracker(t, at(12, 0, 0))

	// end == start and end < start both rejected, zero rows.
	for _, end := range []time.Time{at(11, 0, 0), at(10, 0, 0)} {
		err := tr.RecordMissing("Meal", at(11, 0, 0), end, "")
		if !errors.Is(err, session.ErrInvalidTimeRange) {
			t.Errorf("RecordMissing(end=%v) returned %v, want ErrInvalidTimeRange", end, err)
		}
	}
	if rows := readRows(t, path); len(rows) != 0 {
		t.Fatalf("rows after rejected entries = %d, want 0", len(rows))
	}

	if err := tr.RecordMissing("Meal", at(11, 0, 0), at(11, 30, 0), "forgot to press"); err != nil {
		t.Fatalf("RecordMissing: %v", err)
	}
	rows := readRows(t, path)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Notes != "Missing event: forgot to press" {
		t.Errorf("notes = %q, want Missing event prefix with user notes", rows[0].Notes)
	}
}

func TestRecordMissingLeavesActiveSlotUntouched(t *testing.T) {
	tr, path := newTestTracker(t, at(9, 0, 0))

	if _, err := tr.Toggle("Other", ""); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := tr.RecordMissing("Meal", at(7, 0, 0), at(7, 45, 0), ""); err != nil {
		t.Fatalf("RecordMissing: %v", err)
	}

	if tr.ActiveEventName() != "Other" {
		t.Errorf("active event = %q, want Other", tr.ActiveEventName())
	}
	rows := readRows(t, path)
	if len(rows) != 1 || rows[0].Notes != "Missing event" {
		t.Errorf("rows = %+v, want one Missing event row", rows)
	}
}

func TestEndWithActiveEventPending(t *testing.T) {
	tr, path := newTestTracker(t, at(10, 0, 0), at(10, 1, 0))

	if _, err := tr.StartSession(true); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := tr.Toggle("Meal", ""); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if _, err := tr.End(); !errors.Is(err, session.ErrActiveEventPending) {
		t.Fatalf("End with active event returned %v, want ErrActiveEventPending", err)
	}

	// Only the SESSION START marker is on disk; no SESSION END row.
	rows := readRows(t, path)
	if len(rows) != 1 || rows[0].Event != eventlog.MarkerSessionStart {
		t.Errorf("rows = %+v, want only the SESSION START marker", rows)
	}
}

func TestStartSessionTwice(t *testing.T) {
	tr, _ := newTestTracker(t, at(8, 0, 0), at(8, 0, 1))
	if _, err := tr.StartSession(true); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := tr.StartSession(true); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("double StartSession returned %v, want ErrInvalidTransition", err)
	}
}

func TestUnknownAndReservedEventNames(t *testing.T) {
	tr, _ := newTestTracker(t, at(8, 0, 0))

	for _, name := range []string{"Jazzercise", eventlog.MarkerSessionStart, eventlog.MarkerSessionEnd} {
		_, err := tr.Toggle(name, "")
		var unknown *session.UnknownEventError
		if !errors.As(err, &unknown) {
			t.Errorf("Toggle(%q) returned %v, want UnknownEventError", name, err)
		}
	}
}

func TestSessionLifecycleRowOrder(t *testing.T) {
	t0, t1, t2, t3 := at(9, 0, 0), at(9, 15, 0), at(9, 40, 0), at(10, 30, 0)
	tr, path := newTestTracker(t, t0, t1, t2, t3)

	if _, err := tr.StartSession(true); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := tr.Toggle("Meal", ""); err != nil {
		t.Fatalf("Toggle start: %v", err)
	}
	if _, err := tr.Toggle("Meal", ""); err != nil {
		t.Fatalf("Toggle end: %v", err)
	}
	res, err := tr.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if res.Duration != "01:30:00" {
		t.Errorf("duration = %q, want 01:30:00", res.Duration)
	}
	if res.LogPath != path {
		t.Errorf("LogPath = %q, want %q", res.LogPath, path)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Event != eventlog.MarkerSessionStart || !rows[0].Start.Equal(t0) {
		t.Errorf("row 0 = %+v, want SESSION START at %v", rows[0], t0)
	}
	if rows[1].Event != "Meal" || !rows[1].Start.Equal(t1) || !rows[1].End.Equal(t2) {
		t.Errorf("row 1 = %+v, want Meal %v–%v", rows[1], t1, t2)
	}
	if rows[2].Event != eventlog.MarkerSessionEnd || !rows[2].Start.Equal(t0) || !rows[2].End.Equal(t3) {
		t.Errorf("row 2 = %+v, want SESSION END %v–%v", rows[2], t0, t3)
	}
	if rows[2].Notes != "Session ended, duration: 01:30:00" {
		t.Errorf("SESSION END notes = %q", rows[2].Notes)
	}
}

func TestEndWithSkippedStart(t *testing.T) {
	tr, path := newTestTracker(t, at(9, 0, 0), at(11, 0, 0))

	if _, err := tr.StartSession(false); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	res, err := tr.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if res.Duration != "N/A" {
		t.Errorf("duration = %q, want N/A", res.Duration)
	}

	rows := readRows(t, path)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (no start marker)", len(rows))
	}
	if !rows[0].Start.IsZero() {
		t.Errorf("SESSION END start = %v, want absent", rows[0].Start)
	}
	if rows[0].Notes != "Session ended, duration: N/A (session start was skipped)" {
		t.Errorf("notes = %q", rows[0].Notes)
	}
}

func TestOperationsAfterEnd(t *testing.T) {
	tr, _ := newTestTracker(t, at(9, 0, 0), at(10, 0, 0))

	if _, err := tr.StartSession(true); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := tr.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if _, err := tr.Toggle("Meal", ""); !errors.Is(err, session.ErrSessionEnded) {
		t.Errorf("Toggle after end returned %v, want ErrSessionEnded", err)
	}
	if _, err := tr.Abort(""); !errors.Is(err, session.ErrSessionEnded) {
		t.Errorf("Abort after end returned %v, want ErrSessionEnded", err)
	}
	if err := tr.RecordMissing("Meal", at(9, 0, 0), at(9, 5, 0), ""); !errors.Is(err, session.ErrSessionEnded) {
		t.Errorf("RecordMissing after end returned %v, want ErrSessionEnded", err)
	}
	if _, err := tr.End(); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("second End returned %v, want ErrInvalidTransition", err)
	}
}

// TestAppendOnly verifies no operation rewrites earlier file content.
func TestAppendOnly(t *testing.T) {
	tr, path := newTestTracker(t,
		at(9, 0, 0), at(9, 10, 0), at(9, 20, 0), at(9, 30, 0), at(9, 40, 0), at(10, 0, 0))

	prev := fileContent(t, path)
	step := func(label string, op func() error) {
		t.Helper()
		if err := op(); err != nil {
			t.Fatalf("%s: %v", label, err)
		}
		cur := fileContent(t, path)
		if !strings.HasPrefix(cur, prev) {
			t.Fatalf("%s rewrote earlier log content", label)
		}
		prev = cur
	}

	step("StartSession", func() error { _, err := tr.StartSession(true); return err })
	step("Toggle start", func() error { _, err := tr.Toggle("Meal", ""); return err })
	step("Toggle end", func() error { _, err := tr.Toggle("Meal", ""); return err })
	step("RecordMissing", func() error { return tr.RecordMissing("Walk", at(8, 0, 0), at(8, 30, 0), "") })
	step("End", func() error { _, err := tr.End(); return err })
}

func fileContent(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

// TestAppendFailureLeavesStateUnchanged verifies the durable-append
// contract: if the row cannot be written, the transition is not committed.
func TestAppendFailureLeavesStateUnchanged(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are ineffective")
	}

	tr, path := newTestTracker(t, at(9, 0, 0), at(9, 30, 0))
	if _, err := tr.Toggle("Meal", ""); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	if _, err := tr.Toggle("Meal", ""); err == nil {
		t.Fatal("expected append failure on read-only log, got nil")
	}
	if tr.ActiveEventName() != "Meal" {
		t.Errorf("active event = %q after failed append, want Meal still active", tr.ActiveEventName())
	}
}

// Property: for any catalog event and any strictly ordered pair of
// timestamps, toggling start then end appends exactly one well-formed row.
func TestToggleRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom(testCatalog).Draw(rt, "event")
		startSec := rapid.Int64Range(0, 80_000).Draw(rt, "start_sec")
		durSec := rapid.Int64Range(1, 6_000).Draw(rt, "dur_sec")

		base := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
		start := base.Add(time.Duration(startSec) * time.Second)
		end := start.Add(time.Duration(durSec) * time.Second)

		// rapid.T has no TempDir; lean on the outer test for cleanup.
		path := filepath.Join(t.TempDir(), "log.csv")
		if err := eventlog.Create(path); err != nil {
			rt.Fatalf("Create: %v", err)
		}
		s := &session.Session{ID: "p", LogPath: path, Catalog: testCatalog}
		tr := session.NewTracker(s, &clock.Fixed{Times: []time.Time{start, end}})

		if _, err := tr.Toggle(name, ""); err != nil {
			rt.Fatalf("Toggle start: %v", err)
		}
		if _, err := tr.Toggle(name, ""); err != nil {
			rt.Fatalf("Toggle end: %v", err)
		}

		records, err := eventlog.ReadFile(path)
		if err != nil {
			rt.Fatalf("ReadFile: %v", err)
		}
		if len(records) != 1 {
			rt.Fatalf("rows = %d, want 1", len(records))
		}
		r := records[0]
		if r.Event != name {
			rt.Errorf("event = %q, want %q", r.Event, name)
		}
		if r.End.IsZero() || r.End.Before(r.Start) {
			rt.Errorf("bad window %v – %v", r.Start, r.End)
		}
	})
}
