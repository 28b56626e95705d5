package availability

import (
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// Payload is the serialized heatmap summary.
type Payload struct {
	HeatmapGrid   []PayloadDay           `json:"heatmapGrid"`
	UserResponses []event.ResponseRecord `json:"userResponses"`
	MaxCount      int                    `json:"maxCount"`
	MaxMaybeCount int                    `json:"maxMaybeCount"`
}

// PayloadDay is one column of the serialized heatmap.
type PayloadDay struct {
	Day   string        `json:"day"`
	Slots []PayloadSlot `json:"slots"`
}

// PayloadSlot is one cell of the serialized heatmap.
type PayloadSlot struct {
	Hour       int      `json:"hour"`
	Slot       slot.Key `json:"slot"`
	Count      int      `json:"count"`
	MaybeCount int      `json:"maybeCount"`
}

// Payload converts the summary to its serialized shape.
func (s Summary) Payload() Payload {
	p := Payload{
		HeatmapGrid:   make([]PayloadDay, 0, len(s.Days)),
		UserResponses: make([]event.ResponseRecord, 0, len(s.Responses)),
		MaxCount:      s.MaxAvailable,
		MaxMaybeCount: s.MaxMaybe,
	}
	for _, d := range s.Days {
		pd := PayloadDay{Day: d.Entry.Key, Slots: make([]PayloadSlot, 0, len(d.Slots))}
		for _, a := range d.Slots {
			pd.Slots = append(pd.Slots, PayloadSlot{
				Hour:       a.Hour,
				Slot:       a.Slot,
				Count:      a.AvailableCount,
				MaybeCount: a.MaybeCount,
			})
		}
		p.HeatmapGrid = append(p.HeatmapGrid, pd)
	}
	for _, r := range s.Responses {
		p.UserResponses = append(p.UserResponses, r.Record())
	}
	return p
}
