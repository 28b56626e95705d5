package view

import "github.com/charmbracelet/lipgloss"

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	FooterH    int
	DetailLine string
	LegendLine string
	StatusLine string
	HelpLine   string
	Bg         lipgloss.Color
}

// RenderFooter renders the detail, legend, status and help lines, dropping
// the first ones when the footer is short.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	lines := []string{state.DetailLine, state.LegendLine, state.StatusLine, state.HelpLine}
	if len(lines) > state.FooterH {
		lines = lines[len(lines)-state.FooterH:]
	}

	s := ""
	for i, l := range lines {
		if i > 0 {
			s += "\n"
		}
		s += l
	}
	return PlaceBox(state.InnerW, state.FooterH, lipgloss.Bottom, s, state.Bg)
}
