// Package slot encodes availability grid cells as stable string keys.
//
// A key combines a day identifier with an hour of the day:
//
//	monday_9              generic weekday, 09:00-10:00
//	sunday_2024-05-26_14  calendar date, 14:00-15:00
//
// The format matches what the web client stores, so keys can be exchanged
// with existing responses unchanged.
package slot

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Codec errors.
var (
	ErrInvalidInput = errors.New("invalid slot input")
	ErrMalformedKey = errors.New("malformed slot key")
)

const (
	// HoursPerDay is the number of one-hour rows in the grid.
	HoursPerDay = 24

	separator  = "_"
	dateLayout = "2006-01-02"
)

// Key identifies one (day, hour) cell. Two cells are the same slot iff their
// keys are equal.
type Key string

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Weekdays returns the generic weekday day keys, Monday first.
func Weekdays() []string {
	return slices.Clone(weekdayNames[:])
}

// WeekdayKey returns the generic day key for a weekday.
func WeekdayKey(wd time.Weekday) string {
	return weekdayNames[weekdayIndex(wd)]
}

// DateKey returns the day key for a calendar date, e.g. "sunday_2024-05-26".
func DateKey(t time.Time) string {
	return WeekdayKey(t.Weekday()) + separator + t.Format(dateLayout)
}

// Day is a decoded day identifier.
type Day struct {
	Weekday time.Weekday
	Date    time.Time // zero for generic weekdays
	HasDate bool
}

// ParseDay parses a day key produced by WeekdayKey or DateKey.
func ParseDay(dayKey string) (Day, error) {
	name, date, hasDate := strings.Cut(dayKey, separator)
	idx := slices.Index(weekdayNames[:], name)
	if idx < 0 {
		return Day{}, fmt.Errorf("unknown weekday %q", name)
	}
	wd := time.Weekday((idx + 1) % 7)
	if !hasDate {
		return Day{Weekday: wd}, nil
	}

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q", date)
	}
	if d.Weekday() != wd {
		return Day{}, fmt.Errorf("%s is a %s, not %s", date, WeekdayKey(d.Weekday()), name)
	}
	return Day{Weekday: wd, Date: d, HasDate: true}, nil
}

// Encode builds the key for dayKey at hour.
// Returns ErrInvalidInput if hour is outside [0,23] or dayKey is not a valid day.
func Encode(dayKey string, hour int) (Key, error) {
	if dayKey == "" {
		return "", fmt.Errorf("%w: empty day key", ErrInvalidInput)
	}
	if hour < 0 || hour >= HoursPerDay {
		return "", fmt.Errorf("%w: hour %d out of range", ErrInvalidInput, hour)
	}
	if _, err := ParseDay(dayKey); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return Key(dayKey + separator + strconv.Itoa(hour)), nil
}

// MustEncode is like Encode but panics on invalid input. It is meant for keys
// derived from a grid that has already been validated.
func MustEncode(dayKey string, hour int) Key {
	k, err := Encode(dayKey, hour)
	if err != nil {
		panic(err)
	}
	return k
}

// Decode splits a key into its day key and hour.
// Returns ErrMalformedKey if the key does not have the expected structure.
func Decode(k Key) (string, int, error) {
	s := string(k)
	i := strings.LastIndex(s, separator)
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	dayKey, hourStr := s[:i], s[i+1:]

	hour, ok := parseHour(hourStr)
	if !ok {
		return "", 0, fmt.Errorf("%w: bad hour in %q", ErrMalformedKey, s)
	}
	if _, err := ParseDay(dayKey); err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrMalformedKey, s, err)
	}
	return dayKey, hour, nil
}

// parseHour accepts only the canonical decimal form ("9", not "09").
func parseHour(s string) (int, bool) {
	if s == "" || len(s) > 2 || (len(s) == 2 && s[0] == '0') {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	h, err := strconv.Atoi(s)
	if err != nil || h >= HoursPerDay {
		return 0, false
	}
	return h, true
}

// Valid reports whether k decodes cleanly.
func (k Key) Valid() bool {
	_, _, err := Decode(k)
	return err == nil
}

// Compare orders keys in grid order: by day, then hour.
// Weekday keys sort Monday first and before any dated key; dated keys sort by
// date. Malformed keys sort last, lexically.
func Compare(a, b Key) int {
	ad, ah, aerr := Decode(a)
	bd, bh, berr := Decode(b)
	switch {
	case aerr != nil && berr != nil:
		return strings.Compare(string(a), string(b))
	case aerr != nil:
		return 1
	case berr != nil:
		return -1
	}

	if c := compareDays(ad, bd); c != 0 {
		return c
	}
	switch {
	case ah < bh:
		return -1
	case ah > bh:
		return 1
	}
	return 0
}

func compareDays(a, b string) int {
	if a == b {
		return 0
	}
	da, _ := ParseDay(a)
	db, _ := ParseDay(b)
	switch {
	case !da.HasDate && db.HasDate:
		return -1
	case da.HasDate && !db.HasDate:
		return 1
	case da.HasDate:
		return da.Date.Compare(db.Date)
	}
	return weekdayIndex(da.Weekday) - weekdayIndex(db.Weekday)
}

// Sort sorts keys in place in grid order.
func Sort(keys []Key) {
	slices.SortFunc(keys, Compare)
}

// HourLabel formats an hour the way grid rows are labelled ("12 AM", "5 PM").
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// weekdayIndex converts time.Weekday to a Monday-based index (0=Monday).
func weekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
