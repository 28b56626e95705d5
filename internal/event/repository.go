package event

import "context"

// Repository defines the storage interface for events and responses.
type Repository interface {
	// CreateEvent stores a new event with its invitees.
	CreateEvent(ctx context.Context, e *Event) error

	// GetEvent retrieves an event by ID.
	// Returns ErrEventNotFound if it does not exist.
	GetEvent(ctx context.Context, id string) (*Event, error)

	// ListEvents returns the events email owns or is invited to, newest first.
	ListEvents(ctx context.Context, email string) ([]*Event, error)

	// UpdateEvent saves status and scheduling fields.
	UpdateEvent(ctx context.Context, e *Event) error

	// AddInvitees adds addresses to the invite list, ignoring duplicates.
	AddInvitees(ctx context.Context, eventID string, emails []string) error

	// DeleteEvent removes an event with its invitees and responses.
	DeleteEvent(ctx context.Context, id string) error

	// SubmitResponse replaces the participant's response for the event.
	SubmitResponse(ctx context.Context, r *Response) error

	// ListResponses returns every response for an event, ordered by participant.
	ListResponses(ctx context.Context, eventID string) ([]*Response, error)

	// Close releases any resources held by the repository.
	Close() error
}
