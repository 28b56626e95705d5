package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FormatNames joins names and truncates the list to width cells, noting how
// many were cut.
func FormatNames(names []string, width int) string {
	if len(names) == 0 {
		return "-"
	}
	full := strings.Join(names, ", ")
	if ansi.StringWidth(full) <= width {
		return full
	}
	for n := len(names) - 1; n > 0; n-- {
		s := fmt.Sprintf("%s +%d", strings.Join(names[:n], ", "), len(names)-n)
		if ansi.StringWidth(s) <= width {
			return s
		}
	}
	return ansi.Truncate(full, width, "…")
}

// FormatCount formats a heatmap cell count: "3" for available, "?2" when
// only maybes, blank when empty.
func FormatCount(available, maybe int) string {
	switch {
	case available > 0:
		return fmt.Sprint(available)
	case maybe > 0:
		return fmt.Sprintf("?%d", maybe)
	default:
		return ""
	}
}
