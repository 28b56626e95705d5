// Package availability aggregates participants' responses into per-slot
// counts for the group heatmap.
package availability

import (
	"cmp"
	"slices"

	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// SlotAggregate holds the counts for one grid cell.
//
// A participant counts at most once per slot. Available outranks maybe:
// MaybeCount is zero whenever AvailableCount is not, while MaybeNames still
// lists who answered maybe.
type SlotAggregate struct {
	Slot           slot.Key
	Hour           int
	AvailableCount int
	MaybeCount     int
	AvailableNames []string
	MaybeNames     []string
}

// Empty reports whether nobody marked the slot.
func (a SlotAggregate) Empty() bool {
	return len(a.AvailableNames) == 0 && len(a.MaybeNames) == 0
}

// DaySummary is one grid column with its 24 hourly aggregates.
type DaySummary struct {
	Entry daterange.Entry
	Slots []SlotAggregate
}

// Summary is the aggregated view of all responses over one grid.
type Summary struct {
	PerSlot      map[slot.Key]SlotAggregate
	Days         []DaySummary
	MaxAvailable int
	MaxMaybe     int
	Responses    []*event.Response
}

// Get returns the aggregate for k, or a zero aggregate if k is not in the
// grid.
func (s Summary) Get(k slot.Key) SlotAggregate {
	if a, ok := s.PerSlot[k]; ok {
		return a
	}
	return SlotAggregate{Slot: k}
}

// HasData reports whether at least one slot was marked.
func (s Summary) HasData() bool {
	return s.MaxAvailable > 0 || s.MaxMaybe > 0
}

// Aggregate counts responses over the grid. Keys outside the grid are ignored.
// The result does not depend on the order of responses.
func Aggregate(responses []*event.Response, rng daterange.Range) Summary {
	avail := map[slot.Key][]string{}
	maybe := map[slot.Key][]string{}

	for _, r := range responses {
		if r == nil {
			continue
		}
		name := displayName(r)
		marked := make(map[slot.Key]bool, len(r.Available))
		for _, k := range r.Available {
			if marked[k] || !rng.Contains(k) {
				continue
			}
			marked[k] = true
			avail[k] = append(avail[k], name)
		}
		for _, k := range r.Maybe {
			if marked[k] || !rng.Contains(k) {
				continue
			}
			marked[k] = true
			maybe[k] = append(maybe[k], name)
		}
	}

	sum := Summary{
		PerSlot:   make(map[slot.Key]SlotAggregate, rng.Len()*slot.HoursPerDay),
		Days:      make([]DaySummary, 0, rng.Len()),
		Responses: sortedResponses(responses),
	}
	for entry := range rng.All() {
		day := DaySummary{Entry: entry, Slots: make([]SlotAggregate, 0, slot.HoursPerDay)}
		for h := 0; h < slot.HoursPerDay; h++ {
			k := slot.MustEncode(entry.Key, h)
			agg := SlotAggregate{
				Slot:           k,
				Hour:           h,
				AvailableNames: sortedNames(avail[k]),
				MaybeNames:     sortedNames(maybe[k]),
			}
			agg.AvailableCount = len(agg.AvailableNames)
			if agg.AvailableCount == 0 {
				agg.MaybeCount = len(agg.MaybeNames)
			}
			sum.MaxAvailable = max(sum.MaxAvailable, agg.AvailableCount)
			sum.MaxMaybe = max(sum.MaxMaybe, agg.MaybeCount)
			sum.PerSlot[k] = agg
			day.Slots = append(day.Slots, agg)
		}
		sum.Days = append(sum.Days, day)
	}
	return sum
}

func displayName(r *event.Response) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ParticipantID
}

func sortedNames(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	if out == nil {
		return []string{}
	}
	return out
}

func sortedResponses(responses []*event.Response) []*event.Response {
	out := make([]*event.Response, 0, len(responses))
	for _, r := range responses {
		if r != nil {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *event.Response) int {
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})
	return out
}

// Best returns up to n marked slots, most available first. Ties break on the
// number of maybe answers, then grid order.
func Best(s Summary, n int) []SlotAggregate {
	var out []SlotAggregate
	for _, day := range s.Days {
		for _, a := range day.Slots {
			if !a.Empty() {
				out = append(out, a)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b SlotAggregate) int {
		if c := cmp.Compare(b.AvailableCount, a.AvailableCount); c != 0 {
			return c
		}
		return cmp.Compare(len(b.MaybeNames), len(a.MaybeNames))
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Respondent is a participant who submitted at least one slot.
type Respondent struct {
	ParticipantID string
	Name          string
	Slots         int
}

// Respondents lists participants with at least one marked slot, by name.
func Respondents(responses []*event.Response) []Respondent {
	var out []Respondent
	for _, r := range responses {
		if r == nil || r.SlotCount() == 0 {
			continue
		}
		out = append(out, Respondent{
			ParticipantID: r.ParticipantID,
			Name:          displayName(r),
			Slots:         r.SlotCount(),
		})
	}
	slices.SortFunc(out, func(a, b Respondent) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})
	return out
}
