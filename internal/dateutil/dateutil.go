// Package dateutil resolves the human date shorthands accepted on the command line.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Layout is the canonical date format.
const Layout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be YYYY-MM-DD, today, tomorrow, a weekday or next-<weekday>")
	ErrDateInPast        = errors.New("date is in the past")
)

var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Resolve converts a date shorthand to YYYY-MM-DD relative to now.
// An empty input stays empty so optional dates can pass through.
func Resolve(s string, now time.Time) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, err := ParseRelativeDate(s, now)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}

// ParseRelativeDate parses a date that can be:
//   - "today" or "tomorrow"
//   - a weekday name: the next occurrence, never today
//   - "next-<weekday>": the same, spelled explicitly
//   - "next-week": seven days from today
//   - an absolute date in YYYY-MM-DD format
//
// Input is case-insensitive. Absolute dates before today return ErrDateInPast.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	if wd, ok := weekdayMap[strings.TrimPrefix(input, "next-")]; ok {
		return nextWeekday(today, wd), nil
	}

	result, err := time.ParseInLocation(Layout, input, today.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if result.Before(today) {
		return time.Time{}, ErrDateInPast
	}
	return result, nil
}

// NextWeek returns the Monday and Sunday of the week after now.
func NextWeek(now time.Time) (monday, sunday time.Time) {
	monday = nextWeekday(TruncateToDay(now), time.Monday)
	return monday, monday.AddDate(0, 0, 6)
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// nextWeekday returns the next occurrence of target after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	days := int(target) - int(today.Weekday())
	if days <= 0 {
		days += 7
	}
	return today.AddDate(0, 0, days)
}
