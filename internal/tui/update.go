package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/selection"
	"github.com/javiermolinar/freetogether/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case commands.EventLoadedMsg:
		m.applyEvent(msg.View)
		return m, nil

	case commands.SubmittedMsg:
		m.submitting = false
		m.machine.Commit()
		m.machine.SetDisabled(m.readOnly != nil)
		LogSelection(m.machine, "submitted")
		status := m.setStatus(fmt.Sprintf("Saved %d slots", msg.Response.SlotCount()), 3*time.Second)
		return m, tea.Batch(status, m.reload())

	case commands.SubmitFailedMsg:
		m.submitting = false
		m.machine.SetDisabled(m.readOnly != nil)
		m.err = msg.Err
		LogError("submit", msg.Err)
		return m, m.setStatus(fmt.Sprintf("Submit failed: %v", msg.Err), 5*time.Second)

	case commands.InvitedMsg:
		text := "Everyone was already invited"
		if len(msg.Added) > 0 {
			text = "Invited " + strings.Join(msg.Added, ", ")
		}
		return m, tea.Batch(m.setStatus(text, 3*time.Second), m.reload())

	case commands.InterpretedMsg:
		return m.applyInterpretation(msg)

	case commands.ErrMsg:
		m.loading = false
		m.err = msg.Err
		LogError("command", msg.Err)
		return m, m.setStatus(fmt.Sprintf("Error: %v", msg.Err), 5*time.Second)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg, 3*time.Second)

	case commands.ClearStatusMsg:
		if !time.Now().Before(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Handle prompt input when in prompt mode
	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setStatus shows a temporary message and schedules its removal.
func (m *Model) setStatus(text string, d time.Duration) tea.Cmd {
	m.statusMsg = text
	m.statusTime = time.Now().Add(d)
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

func (m Model) reload() tea.Cmd {
	return commands.LoadEvent(m.svc, m.eventID, m.viewer, m.timeout)
}

// applyEvent installs a freshly loaded event. Unsaved edits survive a
// reload; otherwise the selection is reset to the stored response.
func (m *Model) applyEvent(v *app.EventView) {
	first := m.event == nil
	m.event = v
	m.days = v.Range.Entries()
	m.loading = false
	m.readOnly = v.Event.CanRespond(m.viewer)

	if m.machine == nil {
		m.machine = selection.New(v.Range)
	}
	if !m.machine.HasChanges() {
		if own := v.Own(); own != nil {
			m.machine.Load(own.Available, own.Maybe)
		} else {
			m.machine.Load(nil, nil)
		}
	}
	m.machine.SetDisabled(m.readOnly != nil || m.submitting)

	if first {
		if m.readOnly != nil {
			m.tab = TabResults
		}
		from, _ := m.config.Hours.BusinessBand()
		m.cursor = Position{Hour: from}
	}
	m.cursor.Day = min(m.cursor.Day, max(len(m.days)-1, 0))
	m.relayout()
	LogSelection(m.machine, "event_loaded")
}

func (m Model) applyInterpretation(msg commands.InterpretedMsg) (tea.Model, tea.Cmd) {
	if !m.canEditFromPrompt() {
		return m, m.setStatus("Response is locked", 3*time.Second)
	}
	res := msg.Result
	m.tab = TabSelect
	if !m.machine.Apply("describe", res.Available, res.Maybe) {
		return m, m.setStatus("The description matches the current selection", 3*time.Second)
	}
	LogSelection(m.machine, "describe")

	text := fmt.Sprintf("Marked %d available, %d maybe (u to undo)", len(res.Available), len(res.Maybe))
	if len(res.Problems) > 0 {
		text += fmt.Sprintf("; skipped: %s", strings.Join(res.Problems, "; "))
	}
	return m, m.setStatus(text, 6*time.Second)
}
