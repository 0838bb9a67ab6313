package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhollis/evlog/internal/clock"
	"github.com/mhollis/evlog/internal/config"
	"github.com/mhollis/evlog/internal/session"
)

var (
	boardIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	boardActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("36")).
				Padding(0, 1)

	boardCursorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	boardErrStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	boardOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))
)

// Board is the interactive session board: the live Presentation layer
// over the session core. Every key press becomes exactly one core
// operation followed by a state save; a failed append leaves the board
// showing the error and the state untouched.
type Board struct {
	store   session.Store
	tracker *session.Tracker
	events  []config.Event

	cursor int
	notes  textinput.Model
	typing bool

	status string
	errMsg string
	ended  bool

	width  int
	height int
}

// NewBoard builds the board over an open session.
func NewBoard(store session.Store, s *session.Session, events []config.Event) Board {
	ti := textinput.New()
	ti.Placeholder = "notes for the next end/abort"
	ti.CharLimit = 200
	ti.Width = 48

	return Board{
		store:   store,
		tracker: session.NewTracker(s, clock.System{}),
		events:  events,
		notes:   ti,
		status:  "Press a button to start an event",
	}
}

// RunBoard starts the full-screen board program.
func RunBoard(store session.Store, s *session.Session, events []config.Event) error {
	_, err := tea.NewProgram(NewBoard(store, s, events), tea.WithAltScreen()).Run()
	return err
}

func (b Board) Init() tea.Cmd { return nil }

func (b Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case tea.KeyMsg:
		if b.ended {
			return b, tea.Quit
		}
		if b.typing {
			switch msg.String() {
			case "enter", "esc":
				b.typing = false
				b.notes.Blur()
			default:
				var cmd tea.Cmd
				b.notes, cmd = b.notes.Update(msg)
				return b, cmd
			}
			return b, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			// Leaves the session running; it can be resumed from the CLI.
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.events)-1 {
				b.cursor++
			}
		case "n":
			b.typing = true
			b.notes.Focus()
		case "enter", " ":
			b.toggleSelected()
		case "a":
			b.abortActive()
		case "e":
			b.endSession()
			if b.ended {
				return b, tea.Quit
			}
		}
		return b, nil
	}
	return b, nil
}

// toggleSelected runs the core toggle for the event under the cursor.
func (b *Board) toggleSelected() {
	ev := b.events[b.cursor]
	res, err := b.tracker.Toggle(ev.Name, b.takeNotes())
	if err != nil {
		b.fail(err)
		return
	}
	if err := b.persist(); err != nil {
		b.fail(err)
		return
	}
	if res.Status == session.StatusStarted {
		b.ok(fmt.Sprintf("%s has started", res.Name))
	} else {
		b.ok(fmt.Sprintf("%s ended", res.Name))
	}
}

func (b *Board) abortActive() {
	name, err := b.tracker.Abort(b.takeNotes())
	if err != nil {
		b.fail(err)
		return
	}
	if err := b.persist(); err != nil {
		b.fail(err)
		return
	}
	b.ok(fmt.Sprintf("%s aborted", name))
}

func (b *Board) endSession() {
	res, err := b.tracker.End()
	if err != nil {
		b.fail(err)
		return
	}
	if err := b.store.Delete(); err != nil {
		b.fail(err)
		return
	}
	b.ended = true
	b.ok(fmt.Sprintf("Session ended, duration: %s — log: %s", res.Duration, res.LogPath))
}

// takeNotes drains the notes field, mirroring the original UI that
// cleared the box after each logged row.
func (b *Board) takeNotes() string {
	v := b.notes.Value()
	b.notes.SetValue("")
	return v
}

func (b *Board) persist() error {
	return b.store.Save(b.tracker.Session())
}

func (b *Board) ok(msg string) {
	b.status = msg
	b.errMsg = ""
}

func (b *Board) fail(err error) {
	b.errMsg = err.Error()
}

func (b Board) View() string {
	var sb strings.Builder

	s := b.tracker.Session()
	title := "  evlog session board"
	if s.SubjectID != "" {
		title += "  —  " + s.SubjectID + " (" + s.StudyID + ")"
	}
	sb.WriteString(titleStyle.Width(max(b.width, lipgloss.Width(title))).Render(title) + "\n\n")

	active := b.tracker.ActiveEventName()
	for i, ev := range b.events {
		cursor := "  "
		if i == b.cursor {
			cursor = boardCursorStyle.Render("▸ ")
		}
		label := boardIdleStyle.Render(ev.Label)
		if ev.Name == active {
			label = boardActiveStyle.Render(ev.Label + "  ● active")
		}
		sb.WriteString("  " + cursor + label + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("  Notes ") + b.notes.View() + "\n\n")

	if b.errMsg != "" {
		sb.WriteString(boardErrStyle.Render("  ✗ "+b.errMsg) + "\n")
	} else {
		sb.WriteString(boardOKStyle.Render("  "+b.status) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("  ↑/↓ select  enter toggle  a abort  n notes  e end session  q quit (keep running)") + "\n")
	return sb.String()
}
