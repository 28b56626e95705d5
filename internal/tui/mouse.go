package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouseMsg maps pointer events onto the grid. A left press starts a
// paint gesture, motion with the button held extends it and a release
// anywhere ends it.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModePrompt || m.machine == nil {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollHours(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollHours(1)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		p, ok := m.cellAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.cursor = p
		if m.canEdit() && m.machine.Press(m.keyAt(p)) {
			LogMouse(msg, m.keyAt(p))
			LogSelection(m.machine, "press")
		}

	case tea.MouseActionMotion:
		if !m.machine.Painting() {
			return m, nil
		}
		p, ok := m.cellAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.cursor = p
		if m.machine.Enter(m.keyAt(p)) {
			LogMouse(msg, m.keyAt(p))
		}

	case tea.MouseActionRelease:
		m.endGesture()
	}
	return m, nil
}
