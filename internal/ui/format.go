package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/availability"
	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/heatmap"
	"github.com/javiermolinar/freetogether/internal/slot"
	"github.com/javiermolinar/freetogether/internal/tui/view"
)

const hourLabelWidth = 6 // "12 AM "

func statusSymbol(s event.Status) string {
	switch s {
	case event.StatusCollecting:
		return "○"
	case event.StatusClosed:
		return "■"
	case event.StatusScheduled:
		return "✓"
	default:
		return "?"
	}
}

func role(e *event.Event, viewer string) string {
	if e.IsOwner(viewer) {
		return "owner"
	}
	return "invited"
}

// formatEventRow formats one line of the event list.
func formatEventRow(e *event.Event, viewer string) string {
	rng, err := e.Range()
	span := "?"
	if err == nil {
		span = rng.String()
	}
	return fmt.Sprintf("%s %s  %-10s %-7s %s  %s",
		statusSymbol(e.Status),
		formatAccent(e.ID),
		e.Status,
		role(e, viewer),
		formatHeader(e.Name),
		formatMuted(span),
	)
}

// printEventDetail prints an event with its invitees and who has answered.
func printEventDetail(w io.Writer, v *app.EventView) {
	e := v.Event
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(e.Name))
	fmt.Fprintf(w, "  id        %s\n", formatAccent(e.ID))
	fmt.Fprintf(w, "  status    %s %s\n", statusSymbol(e.Status), e.Status)
	if e.Status == event.StatusScheduled {
		fmt.Fprintf(w, "  meeting   %s %s\n", e.ScheduledDate, e.ScheduledTime)
	}
	fmt.Fprintf(w, "  type      %s\n", e.Type)
	fmt.Fprintf(w, "  dates     %s\n", v.Range)
	fmt.Fprintf(w, "  timezone  %s\n", e.Timezone)
	fmt.Fprintf(w, "  owner     %s\n", e.OwnerEmail)

	answered := make(map[string]int, len(v.Responses))
	for _, r := range availability.Respondents(v.Responses) {
		answered[r.ParticipantID] = r.Slots
	}

	fmt.Fprintf(w, "\n  %s\n", formatHeader(fmt.Sprintf("Invitees (%d answered of %d)", len(answered), len(e.Invitees))))
	if len(e.Invitees) == 0 {
		fmt.Fprintln(w, formatMuted("  nobody yet: freetogether event invite "+e.ID+" EMAIL"))
	}
	for _, email := range e.Invitees {
		if n, ok := answered[email]; ok {
			fmt.Fprintf(w, "  %s %s %s\n", formatAvailable("✓"), email, formatMuted(fmt.Sprintf("(%d slots)", n)))
		} else {
			fmt.Fprintf(w, "  %s %s\n", formatMuted("○"), email)
		}
	}
	if v.SummaryErr != nil {
		fmt.Fprintf(w, "\n  %s\n", formatWarn("No data yet: "+v.SummaryErr.Error()))
	}
}

// heatmapOptions configures the text heatmap.
type heatmapOptions struct {
	Palette  heatmap.Palette
	TextOn   func(hex string) string // cell foreground for a background
	ColWidth int
	From, To int // inclusive hour rows
}

// hourSpan returns the rows worth printing: the given band widened to
// every hour somebody answered.
func hourSpan(s availability.Summary, from, to int) (int, int) {
	for _, d := range s.Days {
		for _, a := range d.Slots {
			if a.Empty() {
				continue
			}
			from = min(from, a.Hour)
			to = max(to, a.Hour)
		}
	}
	return max(from, 0), min(to, slot.HoursPerDay-1)
}

// columnWidth fits the day columns into the terminal width.
func columnWidth(width, days int) int {
	if days <= 0 {
		return 8
	}
	return min(max((width-hourLabelWidth)/days, 3), 10)
}

// renderHeatmap writes the day by hour count grid. Cells show how many
// people are available, "?n" when only maybes, and are shaded with the
// palette when colour output is on.
func renderHeatmap(w io.Writer, s availability.Summary, opts heatmapOptions) {
	entries := make([]daterange.Entry, 0, len(s.Days))
	for _, d := range s.Days {
		entries = append(entries, d.Entry)
	}

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", hourLabelWidth))
	for _, label := range view.DayLabels(entries, opts.ColWidth-1) {
		header.WriteString(view.Center(label, opts.ColWidth))
	}
	fmt.Fprintln(w, formatHeader(strings.TrimRight(header.String(), " ")))

	for h := opts.From; h <= opts.To; h++ {
		var row strings.Builder
		row.WriteString(formatMuted(view.Fit(slot.HourLabel(h), hourLabelWidth)))
		for _, d := range s.Days {
			a := d.Slots[h]
			text := view.FormatCount(a.AvailableCount, a.MaybeCount)
			hex := opts.Palette.Hex(heatmap.ShadeSlot(a, s))
			if text == "" && color.NoColor {
				text = "·"
			}
			fg := ""
			if opts.TextOn != nil {
				fg = opts.TextOn(hex)
			}
			row.WriteString(formatCell(view.Center(text, opts.ColWidth), hex, fg))
		}
		fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	}
}
