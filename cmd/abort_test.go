package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/mhollis/evlog/internal/eventlog"
	"github.com/mhollis/evlog/internal/session"
)

func TestAbortActiveEvent(t *testing.T) {
	setupTestEnv(t)

	if out, err := executeCommand(rootCmd, "start"); err != nil {
		t.Fatalf("start: %v (output: %s)", err, out)
	}
	if _, err := executeCommand(rootCmd, "toggle", "Sleep Period"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	defer func() { abortNotes = "" }()
	out, err := executeCommand(rootCmd, "abort", "-m", "monitor detached")
	if err != nil {
		t.Fatalf("abort: %v", err)
	}
	if !strings.Contains(out, "Sleep Period aborted") {
		t.Errorf("output = %q, want abort notice", out)
	}

	s := activeSession(t)
	if s.HasActiveEvent() {
		t.Error("event still active after abort")
	}

	records, err := eventlog.ReadFile(s.LogPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	last := records[len(records)-1]
	if !last.End.IsZero() {
		t.Errorf("aborted row end = %v, want absent", last.End)
	}
	if last.Notes != "ABORTED: monitor detached" {
		t.Errorf("notes = %q", last.Notes)
	}
}

func TestAbortWithNothingActive(t *testing.T) {
	setupTestEnv(t)

	if out, err := executeCommand(rootCmd, "start"); err != nil {
		t.Fatalf("start: %v (output: %s)", err, out)
	}

	_, err := executeCommand(rootCmd, "abort")
	if !errors.Is(err, session.ErrNoActiveEvent) {
		t.Errorf("abort with nothing active returned %v, want ErrNoActiveEvent", err)
	}
}
