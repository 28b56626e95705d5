package daterange

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/freetogether/internal/slot"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestExpand_ThreeDays(t *testing.T) {
	r, err := Expand(date(2024, 5, 26), date(2024, 5, 28))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := r.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	wantNames := []string{"Sunday 26 May", "Monday 27 May", "Tuesday 28 May"}
	wantKeys := []string{"sunday_2024-05-26", "monday_2024-05-27", "tuesday_2024-05-28"}
	for i, e := range entries {
		if e.DisplayName != wantNames[i] {
			t.Errorf("entry %d name = %q, want %q", i, e.DisplayName, wantNames[i])
		}
		if e.Key != wantKeys[i] {
			t.Errorf("entry %d key = %q, want %q", i, e.Key, wantKeys[i])
		}
		if e.Date == nil {
			t.Errorf("entry %d has no date", i)
		}
	}
}

func TestExpand_GenericWeek(t *testing.T) {
	tests := []struct {
		name       string
		start, end *time.Time
	}{
		{name: "both nil"},
		{name: "start only", start: date(2024, 5, 26)},
		{name: "end only", end: date(2024, 5, 26)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Expand(tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Dated() {
				t.Error("expected generic range")
			}
			if got := r.DayKeys(); !slices.Equal(got, slot.Weekdays()) {
				t.Errorf("got %v", got)
			}
			for e := range r.All() {
				if e.Date != nil {
					t.Errorf("%s has a date", e.Key)
				}
			}
			first := r.Entries()[0]
			if first.DisplayName != "Monday" {
				t.Errorf("first = %q, want Monday", first.DisplayName)
			}
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	if _, err := Expand(date(2024, 5, 28), date(2024, 5, 26)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range: got %v", err)
	}
	if _, err := Expand(date(2024, 1, 1), date(2024, 6, 1)); !errors.Is(err, ErrRangeTooLong) {
		t.Errorf("long range: got %v", err)
	}
	if _, err := Expand(date(2024, 1, 1), date(2024, 3, 2)); err != nil {
		t.Errorf("62 days should be allowed: %v", err)
	}
}

func TestExpand_SingleDay(t *testing.T) {
	r, err := Expand(date(2024, 2, 29), date(2024, 2, 29))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestAll_Restartable(t *testing.T) {
	r, _ := Expand(date(2024, 5, 26), date(2024, 5, 30))

	var first, second []string
	for e := range r.All() {
		first = append(first, e.Key)
	}
	for e := range r.All() {
		second = append(second, e.Key)
	}
	if !slices.Equal(first, second) || len(first) != 5 {
		t.Errorf("first %v, second %v", first, second)
	}

	// early break
	n := 0
	for range r.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("n = %d", n)
	}
}

func TestAll_MonthBoundary(t *testing.T) {
	r, _ := Expand(date(2024, 12, 30), date(2025, 1, 2))
	got := r.DayKeys()
	want := []string{"monday_2024-12-30", "tuesday_2024-12-31", "wednesday_2025-01-01", "thursday_2025-01-02"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v", got)
	}
}

func TestParse(t *testing.T) {
	r, err := Parse("2024-05-26", "2024-05-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d", r.Len())
	}

	r, err = Parse("", "2024-05-28")
	if err != nil || r.Dated() {
		t.Errorf("empty start: %v %v", r, err)
	}

	if _, err := Parse("26/05/2024", ""); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("bad format: got %v", err)
	}
	if _, err := Parse("2024-05-28", "2024-05-26"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed: got %v", err)
	}
}

func TestKeysAndContains(t *testing.T) {
	r, _ := Parse("2024-05-26", "2024-05-28")

	keys := r.Keys()
	if len(keys) != 3*slot.HoursPerDay {
		t.Fatalf("got %d keys", len(keys))
	}
	if keys[0] != "sunday_2024-05-26_0" || keys[len(keys)-1] != "tuesday_2024-05-28_23" {
		t.Errorf("bounds %s .. %s", keys[0], keys[len(keys)-1])
	}

	tests := map[slot.Key]bool{
		"sunday_2024-05-26_9":   true,
		"tuesday_2024-05-28_0":  true,
		"saturday_2024-05-25_9": false,
		"monday_9":              false,
		"garbage":               false,
	}
	for k, want := range tests {
		if got := r.Contains(k); got != want {
			t.Errorf("Contains(%q) = %v, want %v", k, got, want)
		}
	}

	week := Range{}
	if !week.Contains("monday_9") || week.Contains("sunday_2024-05-26_9") {
		t.Error("generic week containment wrong")
	}
}

func TestHourBand(t *testing.T) {
	r, _ := Parse("2024-05-26", "2024-05-28")
	band := r.HourBand(9, 17)
	if len(band) != 27 {
		t.Errorf("got %d keys, want 27", len(band))
	}
	if got := r.HourBand(18, 3); got != nil {
		t.Errorf("inverted band = %v", got)
	}
}
