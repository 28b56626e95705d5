// Package event defines events, invitations and availability responses.
package event

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/freetogether/internal/daterange"
)

// Validation errors.
var (
	ErrEmptyName         = errors.New("event name cannot be empty")
	ErrInvalidType       = errors.New("event type must be 'once' or 'weekly'")
	ErrInvalidTimezone   = errors.New("unknown timezone")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrNoInvitees        = errors.New("at least one email is required")
	ErrInviteOwner       = errors.New("cannot invite the event owner")
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
)

// Domain errors.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOwner          = errors.New("only the event owner can do this")
	ErrNotInvited        = errors.New("you are not invited to this event")
	ErrNotCollecting     = errors.New("event is not collecting responses")
	ErrAlreadyScheduled  = errors.New("event is already scheduled")
)

// Type is how often the event repeats.
type Type string

const (
	TypeOnce   Type = "once"
	TypeWeekly Type = "weekly"
)

// Status is the lifecycle state of an event.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusClosed     Status = "closed"
	StatusScheduled  Status = "scheduled"
)

// emailPattern matches the loose address check of the web client.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Event is a scheduling poll owned by one user.
type Event struct {
	ID            string
	Name          string
	Type          Type
	Timezone      string
	StartDate     *time.Time
	EndDate       *time.Time
	Status        Status
	OwnerEmail    string
	Invitees      []string
	ScheduledDate string // "YYYY-MM-DD", set when scheduled
	ScheduledTime string // "HH:MM", set when scheduled
	CreatedAt     time.Time
}

// New creates a collecting event with validation.
// typ defaults to once and timezone to UTC when empty. start and end are
// YYYY-MM-DD and may both be empty for a weekly-style generic week.
func New(name, typ, timezone, start, end, owner string) (*Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	t, err := parseType(typ)
	if err != nil {
		return nil, err
	}

	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, timezone)
	}

	owner = NormalizeEmail(owner)
	if !ValidEmail(owner) {
		return nil, fmt.Errorf("owner: %w: %q", ErrInvalidEmail, owner)
	}

	rng, err := daterange.Parse(start, end)
	if err != nil {
		return nil, err
	}

	e := &Event{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       t,
		Timezone:   timezone,
		Status:     StatusCollecting,
		OwnerEmail: owner,
		CreatedAt:  time.Now(),
	}
	if s, en, ok := rng.Bounds(); ok {
		e.StartDate, e.EndDate = &s, &en
	}
	return e, nil
}

func parseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once":
		return TypeOnce, nil
	case "weekly":
		return TypeWeekly, nil
	default:
		return "", ErrInvalidType
	}
}

// Range expands the event's dates into its grid columns.
func (e *Event) Range() (daterange.Range, error) {
	return daterange.Expand(e.StartDate, e.EndDate)
}

// IsOwner reports whether email owns the event.
func (e *Event) IsOwner(email string) bool {
	return NormalizeEmail(email) == e.OwnerEmail
}

// IsInvited reports whether email is on the invite list.
func (e *Event) IsInvited(email string) bool {
	return slices.Contains(e.Invitees, NormalizeEmail(email))
}

// CanManage returns ErrNotOwner unless email owns the event.
func (e *Event) CanManage(email string) error {
	if !e.IsOwner(email) {
		return ErrNotOwner
	}
	return nil
}

// CanRespond checks that email may submit availability right now.
// The owner does not respond to their own event.
func (e *Event) CanRespond(email string) error {
	if e.IsOwner(email) || !e.IsInvited(email) {
		return ErrNotInvited
	}
	if e.Status != StatusCollecting {
		return fmt.Errorf("%w (status %s)", ErrNotCollecting, e.Status)
	}
	return nil
}

// Invite validates and adds emails to the invite list. It returns the
// addresses that were not already invited. Nothing is added if any address
// is invalid.
func (e *Event) Invite(emails []string) ([]string, error) {
	if e.Status == StatusScheduled {
		return nil, ErrAlreadyScheduled
	}

	var cleaned, invalid []string
	for _, raw := range emails {
		for _, part := range strings.Split(raw, ",") {
			addr := NormalizeEmail(part)
			if addr == "" {
				continue
			}
			if !ValidEmail(addr) {
				invalid = append(invalid, addr)
				continue
			}
			cleaned = append(cleaned, addr)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, strings.Join(invalid, ", "))
	}
	if len(cleaned) == 0 {
		return nil, ErrNoInvitees
	}
	if slices.Contains(cleaned, e.OwnerEmail) {
		return nil, ErrInviteOwner
	}

	var added []string
	for _, addr := range cleaned {
		if slices.Contains(e.Invitees, addr) || slices.Contains(added, addr) {
			continue
		}
		added = append(added, addr)
	}
	e.Invitees = append(e.Invitees, added...)
	return added, nil
}

// Close stops collecting responses.
func (e *Event) Close() error {
	if e.Status != StatusCollecting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, StatusClosed)
	}
	e.Status = StatusClosed
	return nil
}

// Reopen resumes collecting responses and clears any scheduled time.
func (e *Event) Reopen() error {
	if e.Status == StatusCollecting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, StatusCollecting)
	}
	e.Status = StatusCollecting
	e.ScheduledDate = ""
	e.ScheduledTime = ""
	return nil
}

// Schedule fixes the meeting time. date is YYYY-MM-DD, at is HH:MM.
func (e *Event) Schedule(date, at string) error {
	if e.Status == StatusScheduled {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, StatusScheduled)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDateFormat
	}
	if err := validateTimeFormat(at); err != nil {
		return err
	}
	e.Status = StatusScheduled
	e.ScheduledDate = date
	e.ScheduledTime = at
	return nil
}

func validateTimeFormat(s string) error {
	if len(s) != 5 {
		return ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return ErrInvalidTimeFormat
	}
	return nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Descriptor is the read shape of an event as seen by one viewer.
type Descriptor struct {
	EventID       string   `json:"eventId"`
	Name          string   `json:"name"`
	Type          Type     `json:"type"`
	Timezone      string   `json:"timezone"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
	Status        Status   `json:"status"`
	Invitees      []string `json:"invitees"`
	OwnerEmail    string   `json:"ownerEmail"`
	IsOwner       bool     `json:"isOwner"`
	ScheduledDate string   `json:"scheduledDate,omitempty"`
	ScheduledTime string   `json:"scheduledTime,omitempty"`
}

// Describe returns the descriptor of e for viewer.
func (e *Event) Describe(viewer string) Descriptor {
	d := Descriptor{
		EventID:       e.ID,
		Name:          e.Name,
		Type:          e.Type,
		Timezone:      e.Timezone,
		Status:        e.Status,
		Invitees:      slices.Clone(e.Invitees),
		OwnerEmail:    e.OwnerEmail,
		IsOwner:       e.IsOwner(viewer),
		ScheduledDate: e.ScheduledDate,
		ScheduledTime: e.ScheduledTime,
	}
	if d.Invitees == nil {
		d.Invitees = []string{}
	}
	if e.StartDate != nil {
		d.StartDate = e.StartDate.Format("2006-01-02")
	}
	if e.EndDate != nil {
		d.EndDate = e.EndDate.Format("2006-01-02")
	}
	return d
}
