// Package report condenses a finished session log into a summary and
// renders it as Markdown or JSON.
package report

import (
	"strings"
	"time"

	"github.com/mhollis/evlog/internal/eventlog"
)

// EventTotal aggregates all rows logged under one event name.
type EventTotal struct {
	Name    string        `json:"name"`
	Count   int           `json:"count"`
	Total   time.Duration `json:"total"`
	Aborted int           `json:"aborted"`
	Missing int           `json:"missing"`
}

// Summary is the condensed view of one session log.
type Summary struct {
	Source       string       `json:"source"`
	Operator     string       `json:"operator,omitempty"`
	SessionStart time.Time    `json:"session_start,omitzero"`
	SessionEnd   time.Time    `json:"session_end,omitzero"`
	Duration     string       `json:"duration"` // HH:MM:SS or "N/A"
	Events       []EventTotal `json:"events"`
	TotalRows    int          `json:"total_rows"`
	Aborted      int          `json:"aborted"`
	Missing      int          `json:"missing"`
}

// Build aggregates parsed log records into a Summary. Event totals keep
// the order in which each event first appears in the log.
func Build(source, operator string, records []eventlog.Record) Summary {
	s := Summary{
		Source:   source,
		Operator: operator,
		Duration: "N/A",
	}

	index := make(map[string]int)
	for _, r := range records {
		switch r.Event {
		case eventlog.MarkerSessionStart:
			s.SessionStart = r.Start
			continue
		case eventlog.MarkerSessionEnd:
			s.SessionEnd = r.End
			if !r.Start.IsZero() && !r.End.IsZero() {
				s.Duration = eventlog.FormatDuration(r.End.Sub(r.Start))
			}
			continue
		}

		s.TotalRows++
		i, ok := index[r.Event]
		if !ok {
			i = len(s.Events)
			index[r.Event] = i
			s.Events = append(s.Events, EventTotal{Name: r.Event})
		}
		et := &s.Events[i]
		et.Count++

		if d, ok := r.Duration(); ok {
			et.Total += d
		}
		if r.End.IsZero() {
			et.Aborted++
			s.Aborted++
		}
		if strings.HasPrefix(r.Notes, "Missing event") {
			et.Missing++
			s.Missing++
		}
	}
	return s
}
