// Package tui provides the terminal user interface for painting availability
// and reading the group heatmap.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/config"
	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/heatmap"
	"github.com/javiermolinar/freetogether/internal/llm"
	"github.com/javiermolinar/freetogether/internal/selection"
	"github.com/javiermolinar/freetogether/internal/slot"
	"github.com/javiermolinar/freetogether/internal/tui/commands"
	"github.com/javiermolinar/freetogether/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeGrid Mode = iota
	ModePrompt
)

// Tab is one of the two event pages.
type Tab int

const (
	TabSelect Tab = iota
	TabResults
)

func (t Tab) String() string {
	if t == TabResults {
		return "Results"
	}
	return "Select"
}

// Position is a cursor position in the grid.
type Position struct {
	Day  int // index into the event's days
	Hour int // 0-23
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	svc     *app.Service
	config  *config.Config
	eventID string
	viewer  string
	name    string
	timeout time.Duration

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	heat   heatmap.Palette

	// Loaded event
	event    *app.EventView
	days     []daterange.Entry
	machine  *selection.Machine
	readOnly error // why the viewer cannot respond, nil if they can

	interpreter *llm.Interpreter

	// State
	tab         Tab
	mode        Mode
	cursor      Position
	hourOffset  int // first visible hour
	dayOffset   int // first visible day
	loading     bool
	submitting  bool
	confirmQuit bool

	// Components
	prompt textinput.Model

	// Terminal dimensions and layout
	width  int
	height int
	layout Layout

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithInterpreter sets the interpreter used by /describe instead of one
// built from the [llm] config.
func WithInterpreter(in *llm.Interpreter) ModelOption {
	return func(m *Model) {
		m.interpreter = in
	}
}

// New creates a new TUI model for one event, seen by the configured user.
func New(svc *app.Service, cfg *config.Config, eventID string, opts ...ModelOption) *Model {
	ti := textinput.New()
	ti.Placeholder = "/describe free weekday mornings"
	ti.CharLimit = 512

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)
	ti.PromptStyle = styles.PromptStyle
	ti.TextStyle = styles.StatusStyle

	viewer, _ := cfg.Identity()
	timeout, _ := cfg.Storage.TimeoutDuration()

	m := &Model{
		svc:     svc,
		config:  cfg,
		eventID: eventID,
		viewer:  viewer,
		name:    cfg.DisplayName(),
		timeout: timeout,
		theme:   t,
		styles:  styles,
		heat:    t.Heatmap(),
		tab:     TabSelect,
		mode:    ModeGrid,
		loading: true,
		prompt:  ti,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init loads the event.
func (m Model) Init() tea.Cmd {
	return commands.LoadEvent(m.svc, m.eventID, m.viewer, m.timeout)
}

// Run starts the TUI.
func Run(svc *app.Service, cfg *config.Config, eventID string) error {
	return RunWithDebug(svc, cfg, eventID, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(svc *app.Service, cfg *config.Config, eventID string, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(svc, cfg, eventID)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// keyAt returns the slot key under a grid position.
func (m Model) keyAt(p Position) slot.Key {
	return slot.MustEncode(m.days[p.Day].Key, p.Hour)
}

// canEdit reports whether grid edits are accepted right now.
func (m Model) canEdit() bool {
	return m.tab == TabSelect && m.machine != nil && m.readOnly == nil && !m.submitting
}

// Selection exposes the selection machine, nil until the event is loaded.
func (m Model) Selection() *selection.Machine {
	return m.machine
}
