// Package files decides where session logs live on disk and how they
// are named: one dated directory per day under the root, one
// timestamped CSV per session.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mhollis/evlog/internal/eventlog"
)

// DefaultDirName is the folder under the user's home directory used when
// neither configuration nor environment names a root.
const DefaultDirName = "evlog-data"

// Manager resolves log file paths beneath a single root directory.
type Manager struct {
	root string
}

// NewManager constructs a Manager rooted at the provided directory. If
// root is empty it falls back to ResolveRoot.
func NewManager(root string) (*Manager, error) {
	var err error
	if root == "" {
		root, err = ResolveRoot()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Manager{root: abs}, nil
}

// Root returns the directory all session logs are placed under.
func (m *Manager) Root() string {
	return m.root
}

// LogPath resolves the path for a session opened at t:
// <root>/<YYYY-MM-DD>/event_log_<MMDD_HH_MM_SS>.csv, with the subject ID
// prefixed to the filename when present.
func (m *Manager) LogPath(subjectID string, t time.Time) string {
	day := t.Format("2006-01-02")
	name := fmt.Sprintf("event_log_%s.csv", t.Format("0102_15_04_05"))
	if subjectID != "" {
		name = subjectID + "_" + name
	}
	return filepath.Join(m.root, day, name)
}

// EnsureLogFile creates the dated directory and the session log file
// with its header, returning the absolute path.
func (m *Manager) EnsureLogFile(subjectID string, t time.Time) (string, error) {
	path := m.LogPath(subjectID, t)
	if err := eventlog.Create(path); err != nil {
		return "", err
	}
	return path, nil
}

// ResolveRoot determines where evlog stores session logs, defaulting to
// ~/evlog-data. The location can be overridden by exporting EVLOG_ROOT.
func ResolveRoot() (string, error) {
	if override, ok := os.LookupEnv("EVLOG_ROOT"); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return filepath.Abs(override)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}
