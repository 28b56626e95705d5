package tui

import (
	"github.com/javiermolinar/freetogether/internal/slot"
	"github.com/javiermolinar/freetogether/internal/tui/view"
)

const (
	labelWidth  = 6 // "12 AM "
	minColWidth = 3
	maxColWidth = 12
	headerLines = 2 // title, tabs
	footerLines = 4 // detail, legend, status, help
)

// Layout holds the grid geometry for the current terminal size.
type Layout struct {
	ColWidth     int
	VisibleDays  int
	VisibleHours int
	GridTop      int // screen row of the day header line
}

// computeLayout fits the grid into width x height. Hours scroll vertically
// and days scroll horizontally when they do not fit.
func computeLayout(width, height, days int) Layout {
	avail := width - labelWidth
	cw := maxColWidth
	if days > 0 {
		cw = avail / days
	}
	cw = min(max(cw, minColWidth), maxColWidth)

	visibleDays := min(max(avail/cw, 1), max(days, 1))
	visibleHours := min(max(height-headerLines-1-footerLines, 1), slot.HoursPerDay)

	return Layout{
		ColWidth:     cw,
		VisibleDays:  visibleDays,
		VisibleHours: visibleHours,
		GridTop:      headerLines,
	}
}

func (m *Model) relayout() {
	m.layout = computeLayout(m.width, m.height, len(m.days))
	if m.width > 0 && m.height > 0 {
		m.ensureCursorVisible()
	}
}

// cellAt maps screen coordinates to a grid position.
func (m Model) cellAt(x, y int) (Position, bool) {
	row := y - (m.layout.GridTop + 1)
	if row < 0 || row >= m.layout.VisibleHours {
		return Position{}, false
	}
	col := view.ColumnAt(x, labelWidth, m.layout.ColWidth, m.layout.VisibleDays)
	if col < 0 {
		return Position{}, false
	}
	p := Position{Day: m.dayOffset + col, Hour: m.hourOffset + row}
	if p.Day >= len(m.days) || p.Hour >= slot.HoursPerDay {
		return Position{}, false
	}
	return p, true
}

// ensureCursorVisible scrolls so the cursor is on screen.
func (m *Model) ensureCursorVisible() {
	vh := max(m.layout.VisibleHours, 1)
	vd := max(m.layout.VisibleDays, 1)

	if m.cursor.Hour < m.hourOffset {
		m.hourOffset = m.cursor.Hour
	}
	if m.cursor.Hour >= m.hourOffset+vh {
		m.hourOffset = m.cursor.Hour - vh + 1
	}
	m.hourOffset = min(max(m.hourOffset, 0), max(slot.HoursPerDay-vh, 0))

	if m.cursor.Day < m.dayOffset {
		m.dayOffset = m.cursor.Day
	}
	if m.cursor.Day >= m.dayOffset+vd {
		m.dayOffset = m.cursor.Day - vd + 1
	}
	m.dayOffset = min(max(m.dayOffset, 0), max(len(m.days)-vd, 0))
}

// moveCursor moves by (dDay, dHour), clamped to the grid.
func (m *Model) moveCursor(dDay, dHour int) {
	if len(m.days) == 0 {
		return
	}
	m.cursor.Day = min(max(m.cursor.Day+dDay, 0), len(m.days)-1)
	m.cursor.Hour = min(max(m.cursor.Hour+dHour, 0), slot.HoursPerDay-1)
	m.ensureCursorVisible()
}

// scrollHours scrolls the view without moving the cursor off screen.
func (m *Model) scrollHours(delta int) {
	vh := max(m.layout.VisibleHours, 1)
	m.hourOffset = min(max(m.hourOffset+delta, 0), max(slot.HoursPerDay-vh, 0))
	m.cursor.Hour = min(max(m.cursor.Hour, m.hourOffset), m.hourOffset+vh-1)
}
