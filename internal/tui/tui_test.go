package tui

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/config"
	"github.com/javiermolinar/freetogether/internal/db"
	"github.com/javiermolinar/freetogether/internal/llm"
	"github.com/javiermolinar/freetogether/internal/selection"
	"github.com/javiermolinar/freetogether/internal/slot"
	"github.com/javiermolinar/freetogether/internal/tui/commands"
)

const (
	owner   = "owner@example.com"
	invitee = "ana@example.com"
)

type cannedClient struct {
	reply string
}

func (c cannedClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return c.reply, nil
}

func (c cannedClient) ChatJSON(ctx context.Context, messages []llm.Message, result any) error {
	return json.Unmarshal([]byte(c.reply), result)
}

type fixture struct {
	svc     *app.Service
	eventID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	svc := app.New(repo)
	e, err := svc.Create(context.Background(), owner, app.CreateRequest{
		Name:      "Team sync",
		StartDate: "2024-05-26",
		EndDate:   "2024-05-28",
		Invitees:  []string{invitee},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return fixture{svc: svc, eventID: e.ID}
}

// open builds a model for viewer, loads the event and sizes the window to
// 80x30. With three days the columns are 12 wide and hour h of day d sits
// at x = 6 + 12*d, y = 3 + h.
func (f fixture) open(t *testing.T, viewer string) Model {
	t.Helper()
	cfg := config.Default()
	cfg.User.Email = viewer
	cfg.User.Name = "Ana"

	in := llm.NewInterpreter(cannedClient{reply: `{"available":[{"day":"all","from":9,"to":10}]}`})
	m := *New(f.svc, cfg, f.eventID, WithInterpreter(in))

	msg := m.Init()()
	if _, ok := msg.(commands.EventLoadedMsg); !ok {
		t.Fatalf("expected EventLoadedMsg, got %#v", msg)
	}
	m = step(t, m, msg)
	return step(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func stepCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestLoad_InitialState(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	if m.loading {
		t.Error("still loading after EventLoadedMsg")
	}
	if m.tab != TabSelect {
		t.Errorf("tab = %v, want Select", m.tab)
	}
	if m.readOnly != nil {
		t.Errorf("invitee should be able to respond: %v", m.readOnly)
	}
	if m.cursor != (Position{Day: 0, Hour: 9}) {
		t.Errorf("cursor = %+v, want business start", m.cursor)
	}
	if m.layout.ColWidth != maxColWidth || m.layout.VisibleDays != 3 {
		t.Errorf("layout = %+v", m.layout)
	}
}

func TestCellAt(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	tests := []struct {
		name string
		x, y int
		want Position
		ok   bool
	}{
		{"first cell", 6, 3, Position{Day: 0, Hour: 0}, true},
		{"second day", 18, 12, Position{Day: 1, Hour: 9}, true},
		{"last visible cell", 41, 25, Position{Day: 2, Hour: 22}, true},
		{"label gutter", 5, 12, Position{}, false},
		{"header line", 10, 2, Position{}, false},
		{"past last day", 42, 12, Position{}, false},
		{"below grid", 10, 26, Position{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.cellAt(tt.x, tt.y)
			if ok != tt.ok || got != tt.want {
				t.Errorf("cellAt(%d, %d) = %+v, %v; want %+v, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMousePaint(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, mouse(tea.MouseActionPress, 7, 12))
	m = step(t, m, mouse(tea.MouseActionMotion, 19, 12))
	m = step(t, m, mouse(tea.MouseActionMotion, 19, 13))
	m = step(t, m, mouse(tea.MouseActionRelease, 60, 1))

	if m.machine.Painting() {
		t.Fatal("release outside the grid should end the gesture")
	}
	for _, p := range []Position{{0, 9}, {1, 9}, {1, 10}} {
		if got := m.machine.Mark(m.keyAt(p)); got != selection.Available {
			t.Errorf("mark at %+v = %v, want available", p, got)
		}
	}
	if got := len(m.machine.Available()); got != 3 {
		t.Errorf("available = %d, want 3", got)
	}

	// Dragging over painted cells from a painted cell removes them.
	m = step(t, m, mouse(tea.MouseActionPress, 19, 12))
	m = step(t, m, mouse(tea.MouseActionMotion, 19, 13))
	m = step(t, m, mouse(tea.MouseActionRelease, 19, 13))
	if got := len(m.machine.Available()); got != 1 {
		t.Errorf("available after erase = %d, want 1", got)
	}

	// Each gesture is one undo step.
	m = step(t, m, key("u"))
	if got := len(m.machine.Available()); got != 3 {
		t.Errorf("available after undo = %d, want 3", got)
	}
	m = step(t, m, key("u"))
	if m.machine.HasChanges() {
		t.Error("second undo should restore the loaded state")
	}
}

func TestKeyboardPaint(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key(" "))
	m = step(t, m, key("j"))
	m = step(t, m, key("l"))
	m = step(t, m, key(" "))

	if m.machine.Painting() {
		t.Fatal("second space should release")
	}
	if got := len(m.machine.Available()); got != 3 {
		t.Errorf("available = %d, want 3", got)
	}

	m = step(t, m, key("m"))
	if m.machine.Mode() != selection.Maybe {
		t.Fatalf("mode = %v, want maybe", m.machine.Mode())
	}
	m = step(t, m, key("j"))
	m = step(t, m, key(" "))
	m = step(t, m, key("esc"))
	if got := len(m.machine.Maybe()); got != 1 {
		t.Errorf("maybe = %d, want 1", got)
	}
}

func TestBulkKeys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		available int
		maybe     int
	}{
		{"select all", []string{"a"}, 72, 0},
		{"clear", []string{"a", "c"}, 0, 0},
		{"business", []string{"b"}, 3 * 9, 0},
		{"evening maybe", []string{"m", "e"}, 0, 3 * 5},
		{"undo bulk", []string{"b", "a", "u"}, 3 * 9, 0},
		{"discard", []string{"a", "d"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			m := f.open(t, invitee)
			for _, k := range tt.keys {
				m = step(t, m, key(k))
			}
			avail, maybe := m.machine.Counts()
			if avail != tt.available || maybe != tt.maybe {
				t.Errorf("counts = %d/%d, want %d/%d", avail, maybe, tt.available, tt.maybe)
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key(" "))
	m = step(t, m, key("j"))
	m, cmd := stepCmd(t, m, key("s"))
	if !m.submitting || !m.machine.Disabled() {
		t.Fatal("submit should lock input")
	}
	if m.machine.Painting() {
		t.Error("submit should end the gesture")
	}

	// Edits are ignored while the submit is in flight.
	m = step(t, m, key("a"))
	if got := len(m.machine.Available()); got != 2 {
		t.Fatalf("available while submitting = %d, want 2", got)
	}

	msg := cmd()
	if _, ok := msg.(commands.SubmittedMsg); !ok {
		t.Fatalf("expected SubmittedMsg, got %#v", msg)
	}
	m = step(t, m, msg)
	if m.submitting || m.machine.Disabled() || m.machine.HasChanges() {
		t.Errorf("after submit: submitting=%v disabled=%v dirty=%v",
			m.submitting, m.machine.Disabled(), m.machine.HasChanges())
	}

	v, err := f.svc.Load(context.Background(), f.eventID, invitee)
	if err != nil {
		t.Fatal(err)
	}
	own := v.Own()
	if own == nil || own.SlotCount() != 2 || own.Name != "Ana" {
		t.Fatalf("stored response = %+v", own)
	}

	// A fresh model starts from the stored response.
	again := f.open(t, invitee)
	if got := len(again.machine.Available()); got != 2 || again.machine.HasChanges() {
		t.Errorf("reloaded available = %d, dirty = %v", got, again.machine.HasChanges())
	}
}

func TestSubmit_Empty(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key("s"))
	if m.submitting {
		t.Fatal("empty selection should not be submitted")
	}
	if !strings.Contains(m.statusMsg, "Select at least one time slot") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestSubmitFailed_KeepsSelection(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key("a"))
	m = step(t, m, key("s"))
	m = step(t, m, commands.SubmitFailedMsg{Err: errors.New("disk full")})

	if m.submitting || m.machine.Disabled() {
		t.Error("failed submit should unlock input")
	}
	if got := len(m.machine.Available()); got != 72 || !m.machine.HasChanges() {
		t.Errorf("selection lost: available=%d dirty=%v", got, m.machine.HasChanges())
	}
	if !strings.Contains(m.statusMsg, "disk full") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestOwnerIsReadOnly(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, owner)

	if m.readOnly == nil {
		t.Fatal("owner should not be able to respond")
	}
	if m.tab != TabResults {
		t.Errorf("tab = %v, want Results", m.tab)
	}

	m = step(t, m, key("tab"))
	m = step(t, m, mouse(tea.MouseActionPress, 7, 12))
	m = step(t, m, key("a"))
	if m.machine.HasChanges() {
		t.Error("read-only viewer changed the selection")
	}
	if !strings.Contains(m.statusMsg, "not invited") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestTabSwitch_EndsGesture(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key(" "))
	m = step(t, m, key("tab"))
	if m.tab != TabResults || m.machine.Painting() {
		t.Fatalf("tab = %v painting = %v", m.tab, m.machine.Painting())
	}

	// Results tab ignores painting keys.
	m = step(t, m, key("a"))
	if got := len(m.machine.Available()); got != 1 {
		t.Errorf("available = %d, want 1", got)
	}
	m = step(t, m, key("tab"))
	if m.tab != TabSelect {
		t.Errorf("tab = %v, want Select", m.tab)
	}
}

func TestQuit_ConfirmsUnsavedChanges(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key("a"))
	m = step(t, m, key("q"))
	if !m.confirmQuit || !strings.Contains(m.statusMsg, "press q again") {
		t.Fatalf("first q should ask for confirmation, status %q", m.statusMsg)
	}

	_, cmd := stepCmd(t, m, key("q"))
	if cmd == nil {
		t.Fatal("second q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestPrompt_Describe(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key("/"))
	if m.mode != ModePrompt {
		t.Fatalf("mode = %v, want prompt", m.mode)
	}
	m.prompt.SetValue("/describe mornings")
	m, cmd := stepCmd(t, m, key("enter"))
	if m.mode != ModeGrid || cmd == nil {
		t.Fatalf("enter should close the prompt and interpret, mode %v", m.mode)
	}

	msg := cmd()
	if _, ok := msg.(commands.InterpretedMsg); !ok {
		t.Fatalf("expected InterpretedMsg, got %#v", msg)
	}
	m = step(t, m, msg)
	if got := len(m.machine.Available()); got != 6 {
		t.Fatalf("available = %d, want 6", got)
	}

	m = step(t, m, key("u"))
	if m.machine.HasChanges() {
		t.Error("description should undo in one step")
	}
}

func TestPrompt_Hours(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key(":"))
	m.prompt.SetValue("/hours 8-9")
	m = step(t, m, key("enter"))
	if got := len(m.machine.Available()); got != 6 {
		t.Errorf("available = %d, want 6", got)
	}

	m = step(t, m, key(":"))
	m.prompt.SetValue("/hours 9")
	m = step(t, m, key("enter"))
	if !strings.Contains(m.statusMsg, "Hours must look like") {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = step(t, m, key(":"))
	m.prompt.SetValue("/invite bo@example.com")
	m = step(t, m, key("enter"))
	if !strings.Contains(m.statusMsg, "Unknown command") {
		t.Errorf("invite is owner only, status = %q", m.statusMsg)
	}
}

func TestPrompt_EscCancels(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)

	m = step(t, m, key("/"))
	m.prompt.SetValue("/hours 0-23")
	m = step(t, m, key("esc"))
	if m.mode != ModeGrid || m.prompt.Value() != "" {
		t.Errorf("mode = %v value = %q", m.mode, m.prompt.Value())
	}
	if m.machine.HasChanges() {
		t.Error("cancelled prompt changed the selection")
	}
}

func TestView(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)

	f := newFixture(t)
	if _, err := f.svc.Submit(context.Background(), f.eventID, invitee, "Ana",
		[]slot.Key{"sunday_2024-05-26_9"}, nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	m := f.open(t, invitee)

	out := m.View()
	lines := strings.Split(out, "\n")
	if len(lines) != 30 {
		t.Errorf("view has %d lines, want 30", len(lines))
	}
	plain := ansi.Strip(out)
	for _, want := range []string{"Team sync", "collecting", "Select", "Results", "Sun 26 May", "9 AM", "available 1"} {
		if !strings.Contains(plain, want) {
			t.Errorf("select view missing %q", want)
		}
	}

	m = step(t, m, key("tab"))
	plain = ansi.Strip(m.View())
	for _, want := range []string{"[1]", "available Ana", "1 responded"} {
		if !strings.Contains(plain, want) {
			t.Errorf("results view missing %q:\n%s", want, plain)
		}
	}
}

func TestView_NoResponses(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, owner)

	plain := ansi.Strip(m.View())
	if !strings.Contains(plain, "No responses yet") {
		t.Errorf("missing empty state:\n%s", plain)
	}
}

func TestView_TooSmall(t *testing.T) {
	f := newFixture(t)
	m := f.open(t, invitee)
	m = step(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})

	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("expected too small message")
	}
}

func TestBestTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Submit(ctx, f.eventID, invitee, "Ana",
		[]slot.Key{"monday_2024-05-27_10", "sunday_2024-05-26_9"}, nil); err != nil {
		t.Fatal(err)
	}
	m := f.open(t, owner)

	got := strings.Split(m.bestTimes(), "\n")
	want := []string{
		"Sunday 26 May 9 AM: 1 available",
		"Monday 27 May 10 AM: 1 available",
	}
	if len(got) != len(want) {
		t.Fatalf("bestTimes = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDebugLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	t.Cleanup(func() { debugLog = nil })

	if err := initDebugLoggerAt(path, true); err != nil {
		t.Fatal(err)
	}
	LogError("submit", errors.New("boom"))
	LogModeChange(ModeGrid, ModePrompt, "test")
	CloseDebugLogger()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{`"event":"DEBUG_START"`, `"error":"boom"`, `"to":"Prompt"`, `"event":"DEBUG_END"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}
