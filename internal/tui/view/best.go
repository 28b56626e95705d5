package view

import (
	"fmt"

	"github.com/javiermolinar/freetogether/internal/availability"
	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// BestTimes describes the n most available slots, one line each, e.g.
// "Sunday 26 May 9 AM: 2 available, 1 maybe".
func BestTimes(s availability.Summary, days []daterange.Entry, n int) []string {
	index := make(map[string]int, len(days))
	for i, d := range days {
		index[d.Key] = i
	}

	var lines []string
	for _, a := range availability.Best(s, n) {
		day, _, err := slot.Decode(a.Slot)
		if err != nil {
			continue
		}
		i, ok := index[day]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s: %d available", SlotLabel(days[i], a.Hour), a.AvailableCount)
		if m := len(a.MaybeNames); m > 0 {
			line += fmt.Sprintf(", %d maybe", m)
		}
		lines = append(lines, line)
	}
	return lines
}
