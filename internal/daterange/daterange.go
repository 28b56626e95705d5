// Package daterange expands an event's optional date range into the grid's
// day columns.
package daterange

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/javiermolinar/freetogether/internal/slot"
)

// Validation errors.
var (
	ErrInvalidRange      = errors.New("end date must be on or after start date")
	ErrRangeTooLong      = errors.New("date range is too long")
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

// MaxDays is the longest range that can be expanded into a grid.
const MaxDays = 62

const dateLayout = "2006-01-02"

// Entry is one day column of the grid.
type Entry struct {
	DisplayName string
	Key         string     // day key used inside slot keys
	Date        *time.Time // nil for generic weekdays
}

// Range is an expanded day sequence. The zero value is the generic week.
type Range struct {
	start, end time.Time
	dated      bool
}

// Expand builds the range for [start, end]. If either bound is nil the range
// is the seven generic weekdays, Monday first.
func Expand(start, end *time.Time) (Range, error) {
	if start == nil || end == nil {
		return Range{}, nil
	}
	s := truncate(*start)
	e := truncate(*end)
	if e.Before(s) {
		return Range{}, ErrInvalidRange
	}
	if days := dayCount(s, e); days > MaxDays {
		return Range{}, fmt.Errorf("%w: %d days, max %d", ErrRangeTooLong, days, MaxDays)
	}
	return Range{start: s, end: e, dated: true}, nil
}

// Parse parses YYYY-MM-DD bounds and expands them. Either string may be empty,
// which yields the generic week.
func Parse(start, end string) (Range, error) {
	s, err := parseDate(start)
	if err != nil {
		return Range{}, err
	}
	e, err := parseDate(end)
	if err != nil {
		return Range{}, err
	}
	return Expand(s, e)
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return &t, nil
}

// Dated reports whether the range covers explicit calendar dates.
func (r Range) Dated() bool {
	return r.dated
}

// Bounds returns the first and last date. ok is false for the generic week.
func (r Range) Bounds() (start, end time.Time, ok bool) {
	return r.start, r.end, r.dated
}

// Len returns the number of day columns.
func (r Range) Len() int {
	if !r.dated {
		return 7
	}
	return dayCount(r.start, r.end)
}

// All yields the entries in ascending order. The sequence can be ranged over
// any number of times.
func (r Range) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if !r.dated {
			for _, name := range slot.Weekdays() {
				if !yield(Entry{DisplayName: capitalize(name), Key: name}) {
					return
				}
			}
			return
		}
		for d := r.start; !d.After(r.end); d = d.AddDate(0, 0, 1) {
			date := d
			e := Entry{
				DisplayName: date.Format("Monday 2 January"),
				Key:         slot.DateKey(date),
				Date:        &date,
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Entries returns the entries as a slice.
func (r Range) Entries() []Entry {
	out := make([]Entry, 0, r.Len())
	for e := range r.All() {
		out = append(out, e)
	}
	return out
}

// DayKeys returns the day keys in grid order.
func (r Range) DayKeys() []string {
	out := make([]string, 0, r.Len())
	for e := range r.All() {
		out = append(out, e.Key)
	}
	return out
}

// Keys returns every slot key of the grid, day-major.
func (r Range) Keys() []slot.Key {
	out := make([]slot.Key, 0, r.Len()*slot.HoursPerDay)
	for e := range r.All() {
		for h := 0; h < slot.HoursPerDay; h++ {
			out = append(out, slot.MustEncode(e.Key, h))
		}
	}
	return out
}

// HourBand returns the keys for hours [from, to] inclusive on every day.
func (r Range) HourBand(from, to int) []slot.Key {
	from = max(from, 0)
	to = min(to, slot.HoursPerDay-1)
	if to < from {
		return nil
	}
	out := make([]slot.Key, 0, r.Len()*(to-from+1))
	for e := range r.All() {
		for h := from; h <= to; h++ {
			out = append(out, slot.MustEncode(e.Key, h))
		}
	}
	return out
}

// Contains reports whether k is a cell of this grid.
func (r Range) Contains(k slot.Key) bool {
	dayKey, _, err := slot.Decode(k)
	if err != nil {
		return false
	}
	return r.ContainsDay(dayKey)
}

// ContainsDay reports whether dayKey is one of the grid's columns.
func (r Range) ContainsDay(dayKey string) bool {
	d, err := slot.ParseDay(dayKey)
	if err != nil {
		return false
	}
	if !r.dated {
		return !d.HasDate
	}
	return d.HasDate && !d.Date.Before(r.start) && !d.Date.After(r.end)
}

// String describes the range for listings.
func (r Range) String() string {
	if !r.dated {
		return "any week"
	}
	if r.start.Equal(r.end) {
		return r.start.Format(dateLayout)
	}
	return r.start.Format(dateLayout) + " to " + r.end.Format(dateLayout)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayCount(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
