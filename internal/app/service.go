// Package app wires events, responses and aggregation behind the operations
// the CLI and TUI expose.
package app

import (
	"context"
	"fmt"

	"github.com/javiermolinar/freetogether/internal/availability"
	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// Service runs event operations against a repository with permission checks.
type Service struct {
	repo event.Repository
}

// New creates a Service backed by repo.
func New(repo event.Repository) *Service {
	return &Service{repo: repo}
}

// CreateRequest holds the fields for a new event.
type CreateRequest struct {
	Name      string
	Type      string
	Timezone  string
	StartDate string // YYYY-MM-DD, empty for a generic week
	EndDate   string
	Invitees  []string
}

// EventView is everything needed to render one event for one viewer.
type EventView struct {
	Event     *event.Event
	Range     daterange.Range
	Responses []*event.Response
	Summary   availability.Summary
	// SummaryErr is set when responses could not be loaded. The view still
	// renders with an empty summary.
	SummaryErr error
	Viewer     string
}

// Own returns the viewer's stored response, if any.
func (v *EventView) Own() *event.Response {
	for _, r := range v.Responses {
		if r.ParticipantID == v.Viewer {
			return r
		}
	}
	return nil
}

// Descriptor returns the event's read shape for the viewer.
func (v *EventView) Descriptor() event.Descriptor {
	return v.Event.Describe(v.Viewer)
}

// Create validates and stores a new event owned by owner.
func (s *Service) Create(ctx context.Context, owner string, req CreateRequest) (*event.Event, error) {
	e, err := event.New(req.Name, req.Type, req.Timezone, req.StartDate, req.EndDate, owner)
	if err != nil {
		return nil, err
	}
	if len(req.Invitees) > 0 {
		if _, err := e.Invite(req.Invitees); err != nil {
			return nil, err
		}
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return e, nil
}

// List returns the events email owns or is invited to.
func (s *Service) List(ctx context.Context, email string) ([]*event.Event, error) {
	events, err := s.repo.ListEvents(ctx, event.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// Load fetches an event with its grid and aggregated responses. Only the
// owner and invitees may view it.
func (s *Service) Load(ctx context.Context, id, viewer string) (*EventView, error) {
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	viewer = event.NormalizeEmail(viewer)
	if !e.IsOwner(viewer) && !e.IsInvited(viewer) {
		return nil, event.ErrNotInvited
	}

	rng, err := e.Range()
	if err != nil {
		return nil, fmt.Errorf("expanding event dates: %w", err)
	}

	v := &EventView{Event: e, Range: rng, Viewer: viewer}
	responses, err := s.repo.ListResponses(ctx, id)
	if err != nil {
		v.SummaryErr = fmt.Errorf("loading responses: %w", err)
		v.Summary = availability.Aggregate(nil, rng)
		return v, nil
	}
	v.Responses = responses
	v.Summary = availability.Aggregate(responses, rng)
	return v, nil
}

// Submit replaces email's response to the event.
func (s *Service) Submit(ctx context.Context, id, email, name string, available, maybe []slot.Key) (*event.Response, error) {
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.CanRespond(email); err != nil {
		return nil, err
	}
	r, err := event.NewResponse(e, email, name, available, maybe)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SubmitResponse(ctx, r); err != nil {
		return nil, fmt.Errorf("saving response: %w", err)
	}
	return r, nil
}

// Invite adds emails to the invite list and returns the new addresses.
func (s *Service) Invite(ctx context.Context, id, actor string, emails []string) ([]string, error) {
	e, err := s.manage(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	added, err := e.Invite(emails)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return nil, nil
	}
	if err := s.repo.AddInvitees(ctx, id, added); err != nil {
		return nil, fmt.Errorf("adding invitees: %w", err)
	}
	return added, nil
}

// Close stops the event from collecting responses.
func (s *Service) Close(ctx context.Context, id, actor string) (*event.Event, error) {
	return s.transition(ctx, id, actor, (*event.Event).Close)
}

// Reopen resumes collecting responses.
func (s *Service) Reopen(ctx context.Context, id, actor string) (*event.Event, error) {
	return s.transition(ctx, id, actor, (*event.Event).Reopen)
}

// Schedule fixes the meeting date and time.
func (s *Service) Schedule(ctx context.Context, id, actor, date, at string) (*event.Event, error) {
	return s.transition(ctx, id, actor, func(e *event.Event) error {
		return e.Schedule(date, at)
	})
}

// Delete removes the event and its responses.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	if _, err := s.manage(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

func (s *Service) transition(ctx context.Context, id, actor string, apply func(*event.Event) error) (*event.Event, error) {
	e, err := s.manage(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := apply(e); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	return e, nil
}

func (s *Service) manage(ctx context.Context, id, actor string) (*event.Event, error) {
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.CanManage(actor); err != nil {
		return nil, err
	}
	return e, nil
}
