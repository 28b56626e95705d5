package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GridCell is one rendered grid cell.
type GridCell struct {
	Text  string
	Style lipgloss.Style
}

// GridViewState holds the visible window of the day by hour grid.
// Row r of Cells is RowLabels[r]; column c is Headers[c].
type GridViewState struct {
	LabelWidth  int
	ColWidth    int
	Headers     []string
	HeaderStyle lipgloss.Style
	// ActiveHeader is highlighted with ActiveStyle, -1 for none.
	ActiveHeader int
	ActiveStyle  lipgloss.Style
	RowLabels    []string
	LabelStyle   lipgloss.Style
	Cells        [][]GridCell
}

// RenderGrid renders the header line followed by one line per row. Every
// cell is exactly ColWidth wide so screen columns map back to grid columns.
func RenderGrid(state GridViewState) string {
	if state.ColWidth <= 0 || len(state.Headers) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(state.LabelStyle.Render(strings.Repeat(" ", state.LabelWidth)))
	for c, h := range state.Headers {
		style := state.HeaderStyle
		if c == state.ActiveHeader {
			style = state.ActiveStyle
		}
		b.WriteString(style.Render(Center(h, state.ColWidth)))
	}

	for r, label := range state.RowLabels {
		b.WriteByte('\n')
		b.WriteString(state.LabelStyle.Render(Fit(label, state.LabelWidth)))
		if r >= len(state.Cells) {
			continue
		}
		for c := range state.Headers {
			cell := GridCell{}
			if c < len(state.Cells[r]) {
				cell = state.Cells[r][c]
			}
			b.WriteString(cell.Style.Render(Center(cell.Text, state.ColWidth)))
		}
	}
	return b.String()
}

// ColumnAt maps a screen x offset to a grid column, or -1 if x falls in
// the label gutter or past the last column.
func ColumnAt(x, labelWidth, colWidth, columns int) int {
	if colWidth <= 0 || x < labelWidth {
		return -1
	}
	c := (x - labelWidth) / colWidth
	if c >= columns {
		return -1
	}
	return c
}
