package tui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/freetogether/internal/availability"
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/heatmap"
	"github.com/javiermolinar/freetogether/internal/selection"
	"github.com/javiermolinar/freetogether/internal/slot"
	"github.com/javiermolinar/freetogether/internal/tui/view"
)

const cursorGlyph = "◆"

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	state := view.ViewState{
		Width:            m.width,
		Height:           m.height,
		Bg:               m.styles.colorBg,
		EmptyPlaceholder: "Loading...",
	}
	if m.width < labelWidth+minColWidth || m.height < headerLines+2+footerLines {
		state.Sections = []string{"Terminal too small"}
		return state
	}
	if m.event == nil {
		line := "Loading event..."
		if m.err != nil {
			line = m.styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		}
		state.Sections = []string{line}
		return state
	}

	state.Sections = []string{
		m.renderTitle(),
		m.renderTabs(),
		view.RenderGrid(m.gridViewState()),
		view.RenderFooter(m.footerViewState()),
	}
	return state
}

func (m Model) renderTitle() string {
	e := m.event.Event
	parts := []string{
		m.styles.TitleStyle.Render(e.Name),
		m.styles.BadgeStyle.Render(string(e.Status)),
		m.styles.MutedStyle.Render(m.event.Range.String()),
	}
	if e.Status == event.StatusScheduled {
		parts = append(parts, m.styles.MutedStyle.Render("on "+e.ScheduledDate+" "+e.ScheduledTime))
	}
	if m.machine != nil && m.machine.HasChanges() {
		parts = append(parts, m.styles.DirtyStyle.Render("● unsaved"))
	}
	return strings.Join(parts, m.styles.MutedStyle.Render(" "))
}

func (m Model) renderTabs() string {
	var b strings.Builder
	for _, t := range []Tab{TabSelect, TabResults} {
		style := m.styles.TabStyle
		if t == m.tab {
			style = m.styles.TabActiveStyle
		}
		b.WriteString(style.Render(t.String()))
	}
	if m.machine != nil && m.tab == TabSelect {
		b.WriteString(m.styles.MutedStyle.Render("  painting "))
		b.WriteString(m.styles.Swatch(m.markHex(m.machine.Mode()), m.machine.Mode().String()))
	}
	return b.String()
}

// visibleDays returns the index range of the days on screen.
func (m Model) visibleDays() (from, to int) {
	from = m.dayOffset
	to = min(from+m.layout.VisibleDays, len(m.days))
	return from, to
}

func (m Model) gridViewState() view.GridViewState {
	dFrom, dTo := m.visibleDays()
	hFrom := m.hourOffset
	hTo := min(hFrom+m.layout.VisibleHours, slot.HoursPerDay)

	days := m.days[dFrom:dTo]
	labels := make([]string, 0, hTo-hFrom)
	cells := make([][]view.GridCell, 0, hTo-hFrom)
	for h := hFrom; h < hTo; h++ {
		labels = append(labels, slot.HourLabel(h))
		row := make([]view.GridCell, 0, len(days))
		for d := dFrom; d < dTo; d++ {
			row = append(row, m.cell(Position{Day: d, Hour: h}))
		}
		cells = append(cells, row)
	}

	return view.GridViewState{
		LabelWidth:   labelWidth,
		ColWidth:     m.layout.ColWidth,
		Headers:      view.DayLabels(days, m.layout.ColWidth),
		HeaderStyle:  m.styles.DayHeaderStyle,
		ActiveHeader: m.cursor.Day - dFrom,
		ActiveStyle:  m.styles.DayHeaderActiveStyle,
		RowLabels:    labels,
		LabelStyle:   m.styles.HourLabelStyle,
		Cells:        cells,
	}
}

// cell renders one grid position for the active tab.
func (m Model) cell(p Position) view.GridCell {
	k := m.keyAt(p)
	var hex, text string
	if m.tab == TabResults {
		agg := m.event.Summary.Get(k)
		hex = m.heat.Hex(heatmap.ShadeSlot(agg, m.event.Summary))
		text = view.FormatCount(agg.AvailableCount, agg.MaybeCount)
	} else {
		hex = m.markHex(m.machine.Mark(k))
	}

	style := m.styles.Cell(hex)
	if p == m.cursor {
		style = style.Bold(true)
		if text == "" {
			text = cursorGlyph
		} else {
			text = "[" + text + "]"
		}
	}
	return view.GridCell{Text: text, Style: style}
}

func (m Model) markHex(mark selection.Mark) string {
	switch mark {
	case selection.Available:
		return m.theme.Available
	case selection.Maybe:
		return m.theme.Maybe
	default:
		return m.theme.Empty
	}
}

func (m Model) footerViewState() view.FooterViewState {
	return view.FooterViewState{
		InnerW:     m.width,
		FooterH:    footerLines,
		DetailLine: m.detailLine(),
		LegendLine: m.legendLine(),
		StatusLine: m.statusLine(),
		HelpLine:   m.helpLine(),
		Bg:         m.styles.colorBg,
	}
}

// detailLine describes the cell under the cursor.
func (m Model) detailLine() string {
	if len(m.days) == 0 {
		return ""
	}
	label := view.SlotLabel(m.days[m.cursor.Day], m.cursor.Hour)
	k := m.keyAt(m.cursor)

	if m.tab == TabSelect {
		return m.styles.StatusStyle.Render(label+": ") + m.styles.MutedStyle.Render(m.machine.Mark(k).String())
	}

	s := m.event.Summary
	switch {
	case m.event.SummaryErr != nil:
		return m.styles.ErrorStyle.Render("No data yet: " + m.event.SummaryErr.Error())
	case !s.HasData():
		return m.styles.MutedStyle.Render("No responses yet")
	}

	agg := s.Get(k)
	if agg.Empty() {
		return m.styles.StatusStyle.Render(label+": ") + m.styles.MutedStyle.Render("nobody")
	}
	width := max((m.width-len(label))/2-12, 10)
	text := fmt.Sprintf("available %s", view.FormatNames(agg.AvailableNames, width))
	if len(agg.MaybeNames) > 0 {
		text += fmt.Sprintf("  maybe %s", view.FormatNames(agg.MaybeNames, width))
	}
	return m.styles.StatusStyle.Render(label+": ") + m.styles.MutedStyle.Render(text)
}

func (m Model) legendLine() string {
	sep := m.styles.MutedStyle.Render("  ")
	if m.tab == TabSelect {
		avail, maybe := m.machine.Counts()
		return strings.Join([]string{
			m.styles.Swatch(m.theme.Available, fmt.Sprintf("available %d", avail)),
			m.styles.Swatch(m.theme.Maybe, fmt.Sprintf("maybe %d", maybe)),
			m.styles.Swatch(m.theme.Empty, "unmarked"),
		}, sep)
	}

	few := heatmap.Cell{Category: heatmap.CategoryAvailable, Alpha: heatmap.MinAlpha}
	all := heatmap.Cell{Category: heatmap.CategoryAvailable, Alpha: 1}
	maybe := heatmap.Cell{Category: heatmap.CategoryMaybe, Alpha: 1}
	respondents := availability.Respondents(m.event.Responses)
	return strings.Join([]string{
		m.styles.Swatch(m.heat.Hex(few), "few"),
		m.styles.Swatch(m.heat.Hex(all), "most available"),
		m.styles.Swatch(m.heat.Hex(maybe), "only maybe"),
		m.styles.MutedStyle.Render(fmt.Sprintf("%d responded", len(respondents))),
	}, sep)
}

func (m Model) statusLine() string {
	if m.mode == ModePrompt {
		line := m.prompt.View()
		if matches := m.matchingCommands(); matches != "" {
			line += m.styles.MutedStyle.Render("  " + matches)
		}
		return line
	}
	switch {
	case m.statusMsg != "":
		if strings.HasPrefix(m.statusMsg, "Error") || strings.HasPrefix(m.statusMsg, "Submit failed") {
			return m.styles.ErrorStyle.Render(m.statusMsg)
		}
		return m.styles.StatusStyle.Render(m.statusMsg)
	case m.loading:
		return m.styles.MutedStyle.Render("Loading...")
	case m.readOnly != nil && m.tab == TabSelect:
		return m.styles.MutedStyle.Render(m.readOnly.Error())
	}
	return ""
}

func (m Model) matchingCommands() string {
	var names []string
	for _, c := range m.promptMatches() {
		names = append(names, c.Name+" "+c.Description)
	}
	return strings.Join(names, " | ")
}

func (m Model) helpLine() string {
	var help string
	switch {
	case m.mode == ModePrompt:
		help = "enter run • tab complete • esc cancel"
	case m.tab == TabResults:
		help = "tab select • y copy best times • / command • r reload • q quit"
	case m.readOnly != nil:
		help = "tab results • r reload • q quit"
	default:
		help = "space paint • m mode • a all • c clear • b business • e evening • u undo • s submit • tab results • / command • q quit"
	}
	return m.styles.HelpStyle.Render(view.Fit(help, m.width))
}
