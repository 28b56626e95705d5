package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/freetogether/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg lipgloss.Color

	TitleStyle     lipgloss.Style
	BadgeStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style
	DirtyStyle     lipgloss.Style

	// Grid
	DayHeaderStyle       lipgloss.Style
	DayHeaderActiveStyle lipgloss.Style
	HourLabelStyle       lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style

	// cell styles keyed by background hex
	cells map[string]lipgloss.Style
}

// NewStyles creates styles from the given theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	return &Styles{
		palette: p,
		colorBg: p.Bg,

		TitleStyle:     base.Bold(true).Foreground(p.Accent),
		BadgeStyle:     lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Padding(0, 1),
		MutedStyle:     base.Foreground(p.FgMuted),
		TabStyle:       base.Foreground(p.FgMuted).Padding(0, 1),
		TabActiveStyle: lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true).Padding(0, 1),
		DirtyStyle:     base.Foreground(p.Warning),

		DayHeaderStyle:       base.Foreground(p.FgMuted),
		DayHeaderActiveStyle: base.Foreground(p.Accent).Bold(true),
		HourLabelStyle:       base.Foreground(p.FgMuted),

		StatusStyle: base,
		ErrorStyle:  base.Foreground(p.Warning),
		HelpStyle:   base.Foreground(p.FgMuted),
		PromptStyle: base.Foreground(p.Accent),

		cells: make(map[string]lipgloss.Style),
	}
}

// Cell returns the style for a grid cell with the given background.
func (s *Styles) Cell(hex string) lipgloss.Style {
	if st, ok := s.cells[hex]; ok {
		return st
	}
	st := lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(s.palette.TextOn(hex))
	s.cells[hex] = st
	return st
}

// Swatch renders a one-cell color sample followed by a label.
func (s *Styles) Swatch(hex, label string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Background(s.colorBg).Render("■") +
		s.MutedStyle.Render(" "+label)
}
