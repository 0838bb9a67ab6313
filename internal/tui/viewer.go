// Package tui provides the Bubble Tea front-ends: a read-only viewer
// for finished session logs and the interactive session board. Both are
// presentation only; every state change goes through the session core.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/mhollis/evlog/internal/eventlog"
	"github.com/mhollis/evlog/internal/report"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	kindEventStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	kindAbortStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	kindMissingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	kindMarkerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabEvents
	tabTimeline
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Events", "Timeline"}

// ── Messages ────────────────────────

// logChangedMsg signals that the watched log file was appended to.
type logChangedMsg struct{}

// reloadErrMsg carries a re-parse failure in follow mode.
type reloadErrMsg struct{ err error }

// ── Model ────────────────

// Viewer is the root Bubble Tea model for the log viewer.
type Viewer struct {
	path      string
	filename  string
	records   []eventlog.Record
	summary   report.Summary
	follow    bool
	loadErr   string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	sortAsc   bool
}

// NewViewer creates a viewer model for already-parsed records.
func NewViewer(path string, records []eventlog.Record, follow bool) Viewer {
	return Viewer{
		path:     path,
		filename: filepath.Base(path),
		records:  records,
		summary:  report.Build(filepath.Base(path), "", records),
		follow:   follow,
		sortAsc:  true,
	}
}

// RunViewer parses the log at path and runs the viewer. With follow set,
// an fsnotify watcher reloads the file on every write so a log being
// appended to by a live session can be tailed.
func RunViewer(path string, follow bool) error {
	records, err := eventlog.ReadFile(path)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewViewer(path, records, follow), tea.WithAltScreen())

	var watcher *fsnotify.Watcher
	if follow {
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("start log watcher: %w", err)
		}
		defer watcher.Close()
		// Watch the directory: editors and appenders may replace the file.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch log directory: %w", err)
		}

		abs, _ := filepath.Abs(path)
		go func() {
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					evAbs, _ := filepath.Abs(ev.Name)
					if evAbs != abs {
						continue
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						p.Send(logChangedMsg{})
					}
				case <-watcher.Errors:
				}
			}
		}()
	}

	_, err = p.Run()
	return err
}

// ── Bubble Tea interface ───────────────

func (m Viewer) Init() tea.Cmd { return nil }

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabTimeline {
				m.sortAsc = !m.sortAsc
				m.rebuildViewport(tabTimeline)
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case logChangedMsg:
		return m, func() tea.Msg {
			records, err := eventlog.ReadFile(m.path)
			if err != nil {
				return reloadErrMsg{err: err}
			}
			return records
		}

	case []eventlog.Record:
		m.records = msg
		m.summary = report.Build(m.filename, "", msg)
		m.loadErr = ""
		if m.ready {
			m.initViewports()
		}
		return m, nil

	case reloadErrMsg:
		m.loadErr = msg.err.Error()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Viewer) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := "  evlog  " + m.filename
	if m.follow {
		title += "  (following)"
	}
	titleBar := titleStyle.Width(m.width).Render(title)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-3 jump  q quit"
	if m.activeTab == tabTimeline {
		dir := "oldest first"
		if !m.sortAsc {
			dir = "newest first"
		}
		hint += "  s sort (" + dir + ")"
	}
	if m.loadErr != "" {
		hint = "  reload failed: " + m.loadErr
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Viewer) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Viewer) rebuildViewport(t tabID) {
	m.viewports[t].SetContent(m.renderTab(t))
	m.viewports[t].GotoTop()
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Viewer) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabEvents:
		return m.renderEvents()
	case tabTimeline:
		return m.renderTimeline()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Viewer) renderSummary() string {
	s := m.summary
	var sb strings.Builder
	sb.WriteString(heading("Session Summary"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Log File:", m.filename)
	if s.SessionStart.IsZero() {
		row("Started:", "N/A (session start was skipped)")
	} else {
		row("Started:", s.SessionStart.Format("2006-01-02 15:04:05"))
	}
	if !s.SessionEnd.IsZero() {
		row("Ended:", s.SessionEnd.Format("2006-01-02 15:04:05"))
	}
	row("Duration:", s.Duration)

	sb.WriteString("\n")
	sb.WriteString(heading("Counts"))
	row("Event Rows:", fmt.Sprintf("%d", s.TotalRows))
	row("Aborted:", fmt.Sprintf("%d", s.Aborted))
	row("Missing:", fmt.Sprintf("%d", s.Missing))
	return sb.String()
}

func (m *Viewer) renderEvents() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Events (%d rows)", m.summary.TotalRows)))
	if len(m.summary.Events) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, e := range m.summary.Events {
		total := "N/A"
		if e.Total > 0 || e.Aborted < e.Count {
			total = eventlog.FormatDuration(e.Total)
		}
		line := fmt.Sprintf("  %-28s  ×%-3d  %s", e.Name, e.Count, timeStyle.Render(total))
		if e.Aborted > 0 {
			line += "  " + kindAbortStyle.Render(fmt.Sprintf("%d aborted", e.Aborted))
		}
		if e.Missing > 0 {
			line += "  " + kindMissingStyle.Render(fmt.Sprintf("%d missing", e.Missing))
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (m *Viewer) renderTimeline() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Timeline (%d rows)", len(m.records))))
	if len(m.records) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}

	ordered := make([]eventlog.Record, len(m.records))
	copy(ordered, m.records)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := stampOf(ordered[i]), stampOf(ordered[j])
		if m.sortAsc {
			return a.Before(b)
		}
		return b.Before(a)
	})

	for _, r := range ordered {
		ts := timeStyle.Render(stampOf(r).Format("15:04:05"))
		badge := badgeFor(r)
		window := renderWindow(r)
		line := fmt.Sprintf("  %s  %s  %-28s %s", ts, badge, r.Event, window)
		sb.WriteString(line + "\n")
		if r.Notes != "" {
			sb.WriteString(dimStyle.Render("            "+r.Notes) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// stampOf picks the ordering timestamp for a record: its start, or its
// end for a start-skipped SESSION END row.
func stampOf(r eventlog.Record) time.Time {
	if r.Start.IsZero() {
		return r.End
	}
	return r.Start
}

func badgeFor(r eventlog.Record) string {
	switch {
	case r.IsMarker():
		return kindMarkerStyle.Render("[MARKER ]")
	case r.End.IsZero():
		return kindAbortStyle.Render("[ABORTED]")
	case strings.HasPrefix(r.Notes, "Missing event"):
		return kindMissingStyle.Render("[MISSING]")
	default:
		return kindEventStyle.Render("[EVENT  ]")
	}
}

func renderWindow(r eventlog.Record) string {
	if d, ok := r.Duration(); ok {
		return dimStyle.Render(fmt.Sprintf("%s → %s  (%s)",
			r.Start.Format("15:04:05"), r.End.Format("15:04:05"), eventlog.FormatDuration(d)))
	}
	return ""
}
