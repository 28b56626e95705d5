// Package view provides view composition helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewState contains the pre-rendered sections of the screen.
type ViewState struct {
	Width            int
	Height           int
	Sections         []string // rendered top to bottom
	Bg               lipgloss.Color
	EmptyPlaceholder string
}

// Render composes the final view output.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.EmptyPlaceholder != "" {
			return state.EmptyPlaceholder
		}
		return "Loading..."
	}

	sections := make([]string, 0, len(state.Sections))
	for _, s := range state.Sections {
		if s != "" {
			sections = append(sections, s)
		}
	}
	return PadLinesWithBackground(strings.Join(sections, "\n"), state.Width, state.Height, state.Bg)
}
