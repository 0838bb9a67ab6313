package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mhollis/evlog/internal/eventlog"
)

// Event pairs a display label (shown on the board, may carry an emoji)
// with the bare name written to the log.
type Event struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// Config holds all configurable evlog settings for a deployment.
type Config struct {
	Events             []Event           `json:"events"`
	RootDir            string            `json:"root_dir"`             // log root; empty → EVLOG_ROOT or ~/evlog-data
	RecordSessionStart *bool             `json:"record_session_start"` // nil → true
	ValidIDPrefixes    []string          `json:"valid_id_prefixes"`
	StudyIDs           map[string]string `json:"study_ids"`
}

// Defaults returns the stock deployment configuration.
func Defaults() Config {
	record := true
	return Config{
		RecordSessionStart: &record,
		Events: []Event{
			{Label: "🧠 DBS Programming", Name: "DBS Programming Session"},
			{Label: "💬 Clinical Interview", Name: "Clinical Interview"},
			{Label: "🛋️ Lounge Activity", Name: "Lounge Activity"},
			{Label: "🎉 Surprise", Name: "Surprise"},
			{Label: "🥽 VR-PAAT", Name: "VR-PAAT"},
			{Label: "😴 Sleep Period", Name: "Sleep Period"},
			{Label: "🍽️ Meal", Name: "Meal"},
			{Label: "👥 Social", Name: "Social"},
			{Label: "☕ Break", Name: "Break"},
			{Label: "🔌 IPG Charging", Name: "IPG Charging"},
			{Label: "📡 CTM Disconnect", Name: "CTM Disconnect"},
			{Label: "🚶 Walk", Name: "Walk"},
			{Label: "🍿 Snack", Name: "Snack"},
			{Label: "🧘 Resting State", Name: "Resting state"},
			{Label: "📝 Other", Name: "Other"},
		},
		ValidIDPrefixes: []string{"AA", "TRBD", "P"},
		StudyIDs: map[string]string{
			"AA":   "AA-56119",
			"TRBD": "TRBD-53761",
			"P":    "PerceptOCD-48392",
		},
	}
}

// RecordStart reports whether session start should be recorded by default.
func (c Config) RecordStart() bool {
	return c.RecordSessionStart == nil || *c.RecordSessionStart
}

// EventNames returns the catalog as loggable names only, in order.
func (c Config) EventNames() []string {
	names := make([]string, len(c.Events))
	for i, e := range c.Events {
		names[i] = e.Name
	}
	return names
}

// StudyID maps a subject ID to its study by prefix, falling back to
// "Unknown-Study" when no prefix matches.
func (c Config) StudyID(subjectID string) string {
	upper := strings.ToUpper(subjectID)
	for _, prefix := range c.ValidIDPrefixes {
		if strings.HasPrefix(upper, prefix) {
			if id, ok := c.StudyIDs[prefix]; ok {
				return id
			}
		}
	}
	return "Unknown-Study"
}

// Validate checks the catalog: non-empty, no duplicate names, and no
// collisions with the reserved session markers.
func (c Config) Validate() error {
	if len(c.Events) == 0 {
		return errors.New("event catalog must not be empty")
	}
	seen := make(map[string]bool, len(c.Events))
	for _, e := range c.Events {
		if strings.TrimSpace(e.Name) == "" {
			return errors.New("event catalog contains an empty name")
		}
		if e.Name == eventlog.MarkerSessionStart || e.Name == eventlog.MarkerSessionEnd {
			return fmt.Errorf("event name %q is reserved", e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate event name %q", e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

// LoadGlobal reads ~/.config/evlog/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "evlog", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .evlogconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".evlogconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if len(c.Events) > 0 {
			result.Events = c.Events
		}
		if c.RootDir != "" {
			result.RootDir = c.RootDir
		}
		if c.RecordSessionStart != nil {
			result.RecordSessionStart = c.RecordSessionStart
		}
		if len(c.ValidIDPrefixes) > 0 {
			result.ValidIDPrefixes = c.ValidIDPrefixes
		}
		if len(c.StudyIDs) > 0 {
			result.StudyIDs = c.StudyIDs
		}
	}

	apply(global)
	apply(project)
	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
