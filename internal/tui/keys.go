package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/llm"
	"github.com/javiermolinar/freetogether/internal/selection"
	"github.com/javiermolinar/freetogether/internal/tui/commands"
	"github.com/javiermolinar/freetogether/internal/tui/input"
	"github.com/javiermolinar/freetogether/internal/tui/view"
)

// bestCount is how many slots the results tab copies.
const bestCount = 5

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == ModePrompt {
		return m.handlePromptKeys(msg)
	}

	key := msg.String()
	if key != "q" {
		m.confirmQuit = false
	}

	switch key {
	case "q":
		if m.machine != nil && m.machine.HasChanges() && !m.confirmQuit {
			m.confirmQuit = true
			return m, m.setStatus("Unsaved changes: press q again to quit", 3*time.Second)
		}
		return m, tea.Quit

	case "tab":
		m.switchTab()
		return m, nil

	case "r":
		m.loading = true
		return m, m.reload()

	case "/", ":":
		return m.openPrompt(key)

	case "h", "left":
		m.move(-1, 0)
		return m, nil
	case "l", "right":
		m.move(1, 0)
		return m, nil
	case "k", "up":
		m.move(0, -1)
		return m, nil
	case "j", "down":
		m.move(0, 1)
		return m, nil
	case "pgup":
		m.scrollHours(-m.layout.VisibleHours)
		return m, nil
	case "pgdown":
		m.scrollHours(m.layout.VisibleHours)
		return m, nil
	}

	if m.machine == nil {
		return m, nil
	}
	if m.tab == TabResults {
		return m.handleResultsKeys(key)
	}
	return m.handleSelectKeys(key)
}

func (m *Model) switchTab() {
	m.endGesture()
	if m.tab == TabSelect {
		m.tab = TabResults
	} else {
		m.tab = TabSelect
	}
	LogTabChange(m.tab)
}

// move moves the cursor and extends a keyboard gesture to the new cell.
func (m *Model) move(dDay, dHour int) {
	m.moveCursor(dDay, dHour)
	if m.machine != nil && m.machine.Painting() && m.canEdit() {
		m.machine.Enter(m.keyAt(m.cursor))
	}
}

// endGesture releases an active drag.
func (m *Model) endGesture() {
	if m.machine != nil && m.machine.Painting() {
		m.machine.Release()
		LogSelection(m.machine, "release")
	}
}

// handleSelectKeys handles the keys of the painting tab.
func (m Model) handleSelectKeys(key string) (tea.Model, tea.Cmd) {
	if key == "s" || key == "enter" {
		return m.submit()
	}
	if !m.canEdit() {
		if m.readOnly != nil {
			return m, m.setStatus(m.readOnly.Error(), 3*time.Second)
		}
		return m, nil
	}

	mach := m.machine
	switch key {
	case " ":
		// Space toggles between pressing and releasing so a keyboard user
		// can paint a run of cells with the arrows.
		if mach.Painting() {
			m.endGesture()
			return m, nil
		}
		if len(m.days) > 0 {
			mach.Press(m.keyAt(m.cursor))
			LogSelection(mach, "press")
		}
		return m, nil

	case "esc":
		m.endGesture()
		return m, nil

	case "m":
		mode := mach.ToggleMode()
		return m, m.setStatus(fmt.Sprintf("Painting %s", mode), 2*time.Second)

	case "a":
		return m.bulk(mach.SelectAll(), "Marked every slot available")

	case "c":
		return m.bulk(mach.ClearAll(), "Cleared every slot")

	case "b":
		from, to := m.config.Hours.BusinessBand()
		return m.bulk(mach.SelectHours(from, to), fmt.Sprintf("Marked business hours %s", mach.Mode()))

	case "e":
		from, to := m.config.Hours.EveningBand()
		return m.bulk(mach.SelectHours(from, to), fmt.Sprintf("Marked evenings %s", mach.Mode()))

	case "u":
		desc, err := mach.Undo()
		if errors.Is(err, selection.ErrNothingToUndo) {
			return m, m.setStatus("Nothing to undo", 2*time.Second)
		}
		LogSelection(mach, "undo")
		return m, m.setStatus("Undid "+desc, 2*time.Second)

	case "d":
		if !mach.HasChanges() {
			return m, nil
		}
		mach.Discard()
		LogSelection(mach, "discard")
		return m, m.setStatus("Discarded unsaved changes", 2*time.Second)
	}
	return m, nil
}

func (m Model) bulk(changed bool, text string) (tea.Model, tea.Cmd) {
	if !changed {
		return m, nil
	}
	LogSelection(m.machine, text)
	return m, m.setStatus(text, 2*time.Second)
}

// submit sends the working selection. Input is locked until the result
// arrives.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.readOnly != nil {
		return m, m.setStatus(m.readOnly.Error(), 3*time.Second)
	}
	if m.submitting {
		return m, nil
	}
	m.endGesture()

	avail, maybe := m.machine.Available(), m.machine.Maybe()
	if len(avail)+len(maybe) == 0 {
		return m, m.setStatus(capitalize(event.ErrEmptyResponse.Error()), 3*time.Second)
	}

	m.submitting = true
	m.machine.SetDisabled(true)
	m.statusMsg = "Submitting..."
	return m, commands.Submit(m.svc, m.eventID, m.viewer, m.name, avail, maybe, m.timeout)
}

// handleResultsKeys handles the keys of the heatmap tab.
func (m Model) handleResultsKeys(key string) (tea.Model, tea.Cmd) {
	if key != "y" {
		return m, nil
	}
	text := m.bestTimes()
	if text == "" {
		return m, m.setStatus("No responses yet", 2*time.Second)
	}
	return m, commands.Copy(text, "best times")
}

// bestTimes lists the most available slots, one per line.
func (m Model) bestTimes() string {
	if m.event == nil {
		return ""
	}
	return strings.Join(view.BestTimes(m.event.Summary, m.days, bestCount), "\n")
}

func (m Model) promptCommands() []input.PromptCommand {
	owner := m.event != nil && m.event.Event.IsOwner(m.viewer)
	return input.Commands(owner)
}

func (m Model) promptMatches() []input.PromptCommand {
	return input.PromptMatchingCommands(m.prompt.Value(), m.promptCommands())
}

func (m Model) openPrompt(key string) (tea.Model, tea.Cmd) {
	m.endGesture()
	prev := m.mode
	m.mode = ModePrompt
	if key == "/" {
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
	} else {
		m.prompt.SetValue("")
	}
	LogModeChange(prev, m.mode, "open prompt")
	return m, m.prompt.Focus()
}

func (m *Model) closePrompt(reason string) {
	m.mode = ModeGrid
	m.prompt.Blur()
	m.prompt.SetValue("")
	LogModeChange(ModePrompt, ModeGrid, reason)
}

// handlePromptKeys handles keys while the command prompt is open.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt("cancel")
		return m, nil

	case "enter":
		value := m.prompt.Value()
		m.closePrompt("submit")
		return m.handlePromptSubmit(value)

	case "tab":
		if completion, ok := input.PromptAutocomplete(m.prompt.Value(), m.promptCommands()); ok {
			m.prompt.SetValue(completion)
			m.prompt.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handlePromptSubmit(value string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(value) == "" || strings.TrimSpace(value) == "/" {
		return m, nil
	}
	name, args, err := input.Parse(value, m.promptCommands())
	if err != nil {
		fields := strings.Fields(value)
		return m, m.setStatus(fmt.Sprintf("Unknown command: %s", fields[0]), 3*time.Second)
	}
	if m.event == nil {
		return m, m.setStatus("Event is still loading", 2*time.Second)
	}

	switch name {
	case input.CmdInvite:
		emails := strings.Split(args, ",")
		m.statusMsg = "Inviting..."
		return m, commands.Invite(m.svc, m.eventID, m.viewer, emails, m.timeout)

	case input.CmdHours:
		if !m.canEditFromPrompt() {
			return m, m.setStatus("Response is locked", 3*time.Second)
		}
		from, to, err := input.ParseHourRange(args)
		if err != nil {
			return m, m.setStatus(capitalize(err.Error()), 3*time.Second)
		}
		m.tab = TabSelect
		return m.bulk(m.machine.SelectHours(from, to), fmt.Sprintf("Marked %s to %s", hourText(from), hourText(to)))

	default:
		if !m.canEditFromPrompt() {
			return m, m.setStatus("Response is locked", 3*time.Second)
		}
		if args == "" {
			return m, m.setStatus("Describe when you are free, e.g. /describe weekday mornings", 3*time.Second)
		}
		if m.interpreter == nil {
			client, err := llm.NewClientFromConfig(m.config.LLM)
			if err != nil {
				LogError("llm client", err)
				return m, m.setStatus(fmt.Sprintf("LLM unavailable: %v", err), 5*time.Second)
			}
			m.interpreter = llm.NewInterpreter(client)
		}
		m.statusMsg = "Reading your description..."
		return m, commands.Interpret(m.interpreter, llm.InterpretRequest{
			Text:    args,
			Days:    m.days,
			Hours:   m.config.Hours,
			Compact: llm.IsLocal(m.config.LLM.Provider),
		})
	}
}

// canEditFromPrompt is canEdit without the tab check; prompt edits switch
// to the select tab.
func (m Model) canEditFromPrompt() bool {
	return m.machine != nil && m.readOnly == nil && !m.submitting
}

func hourText(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
