package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mhollis/evlog/internal/eventlog"
)

// Renderer serializes a Summary to bytes.
type Renderer interface {
	Render(s *Summary) ([]byte, error)
}

// JSONRenderer renders a Summary as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(s *Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// MarkdownRenderer renders a Summary as human-readable Markdown.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(s *Summary) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Session report: %s\n\n", s.Source)

	sb.WriteString("## Session\n\n")
	if s.Operator != "" {
		fmt.Fprintf(&sb, "- Operator: %s\n", s.Operator)
	}
	if !s.SessionStart.IsZero() {
		fmt.Fprintf(&sb, "- Started: %s\n", s.SessionStart.Format("2006-01-02 15:04:05"))
	} else {
		sb.WriteString("- Started: N/A (session start was skipped)\n")
	}
	if !s.SessionEnd.IsZero() {
		fmt.Fprintf(&sb, "- Ended: %s\n", s.SessionEnd.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&sb, "- Duration: %s\n", s.Duration)
	fmt.Fprintf(&sb, "- Rows: %d (aborted: %d, missing: %d)\n", s.TotalRows, s.Aborted, s.Missing)
	sb.WriteString("\n")

	sb.WriteString("## Events\n\n")
	if len(s.Events) == 0 {
		sb.WriteString("_No events logged._\n")
	} else {
		sb.WriteString("| Event | Count | Total | Aborted | Missing |\n")
		sb.WriteString("|-------|-------|-------|---------|--------|\n")
		for _, e := range s.Events {
			fmt.Fprintf(&sb, "| %s | %d | %s | %d | %d |\n",
				e.Name, e.Count, formatTotal(e), e.Aborted, e.Missing)
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// formatTotal renders the accumulated duration, or N/A when every row
// for the event was aborted and contributed no elapsed time.
func formatTotal(e EventTotal) string {
	if e.Total == 0 && e.Aborted == e.Count {
		return "N/A"
	}
	return eventlog.FormatDuration(e.Total)
}
