package view

import (
	"strconv"

	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// DayLabels builds column labels that fit in width cells. Dated columns
// shrink from "Sun 26 May" to "Sun 26" to "26"; generic ones from "Monday"
// to "Mon" to "M".
func DayLabels(days []daterange.Entry, width int) []string {
	labels := make([]string, 0, len(days))
	for _, d := range days {
		labels = append(labels, dayLabel(d, width))
	}
	return labels
}

func dayLabel(d daterange.Entry, width int) string {
	if d.Date == nil {
		name := d.DisplayName
		switch {
		case width >= len(name):
			return name
		case width >= 3:
			return name[:3]
		default:
			return name[:1]
		}
	}

	day := strconv.Itoa(d.Date.Day())
	weekday := d.Date.Format("Mon")
	switch {
	case width >= 10:
		return weekday + " " + day + " " + d.Date.Format("Jan")
	case width >= 6:
		return weekday + " " + day
	default:
		return day
	}
}

// SlotLabel is the long form of a cell position, e.g. "Sunday 26 May 10 AM".
func SlotLabel(d daterange.Entry, hour int) string {
	return d.DisplayName + " " + slot.HourLabel(hour)
}
