package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/freetogether/internal/slot"
)

// Response errors.
var (
	ErrEmptyResponse   = errors.New("select at least one time slot")
	ErrSlotOutsideGrid = errors.New("slot is not part of the event grid")
)

// Response is one participant's submitted availability for an event.
// A key is never in both lists.
type Response struct {
	EventID       string
	ParticipantID string // normalized email
	Name          string
	Available     []slot.Key
	Maybe         []slot.Key
	UpdatedAt     time.Time
}

// NewResponse validates a submission against the event grid. Keys are
// de-duplicated and sorted. A key in both lists is kept as available.
func NewResponse(e *Event, email, name string, available, maybe []slot.Key) (*Response, error) {
	if len(available)+len(maybe) == 0 {
		return nil, ErrEmptyResponse
	}
	rng, err := e.Range()
	if err != nil {
		return nil, fmt.Errorf("expanding event dates: %w", err)
	}

	var outside []string
	seen := make(map[slot.Key]bool, len(available)+len(maybe))
	var avail, mb []slot.Key
	for _, k := range available {
		if !rng.Contains(k) {
			outside = append(outside, string(k))
			continue
		}
		if !seen[k] {
			seen[k] = true
			avail = append(avail, k)
		}
	}
	for _, k := range maybe {
		if !rng.Contains(k) {
			outside = append(outside, string(k))
			continue
		}
		if !seen[k] {
			seen[k] = true
			mb = append(mb, k)
		}
	}
	if len(outside) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSlotOutsideGrid, strings.Join(outside, ", "))
	}

	slot.Sort(avail)
	slot.Sort(mb)
	email = NormalizeEmail(email)
	if name == "" {
		name = email
	}
	return &Response{
		EventID:       e.ID,
		ParticipantID: email,
		Name:          name,
		Available:     avail,
		Maybe:         mb,
		UpdatedAt:     time.Now(),
	}, nil
}

// SlotCount returns the number of marked slots.
func (r *Response) SlotCount() int {
	return len(r.Available) + len(r.Maybe)
}

// SubmitRequest is the write shape of a response: a full replace.
type SubmitRequest struct {
	TimeSlots  []slot.Key `json:"timeSlots"`
	MaybeSlots []slot.Key `json:"maybeSlots"`
}

// ResponseRecord is the read shape of a response in a listing.
type ResponseRecord struct {
	UserID     string     `json:"userId"`
	UserName   string     `json:"userName"`
	UserEmail  string     `json:"userEmail"`
	TimeSlots  []slot.Key `json:"timeSlots"`
	MaybeSlots []slot.Key `json:"maybeSlots"`
}

// Record converts r to its listing shape.
func (r *Response) Record() ResponseRecord {
	rec := ResponseRecord{
		UserID:     r.ParticipantID,
		UserName:   r.Name,
		UserEmail:  r.ParticipantID,
		TimeSlots:  r.Available,
		MaybeSlots: r.Maybe,
	}
	if rec.TimeSlots == nil {
		rec.TimeSlots = []slot.Key{}
	}
	if rec.MaybeSlots == nil {
		rec.MaybeSlots = []slot.Key{}
	}
	return rec
}
