package domain

import (
	"context"
	"fmt"
	"time"
)

// RSVPStatus is an attendee's answer to an invitation.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "Going"
	RSVPMaybe    RSVPStatus = "Maybe"
	RSVPNotGoing RSVPStatus = "Not Going"
)

// Valid reports whether s is one of the accepted statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}

// ErrInvalidStatus is returned when a response status is not Going, Maybe or Not Going.
var ErrInvalidStatus = fmt.Errorf("%w: invalid status value", ErrInvalidInput)

// Search roles and the annotations written on matching events.
const (
	RoleOrganizer = "organizer"
	RoleAttendee  = "attendee"
	RoleAny       = "any"

	UserRoleOrganizer = "Organizer"
	UserRoleAttendee  = "Attendee"
)

// Response is a single RSVP entry. An event holds at most one per email.
// swagger:model Response
type Response struct {
	Email  string     `json:"email"`
	Status RSVPStatus `json:"status"`
}

// Event is a planned gathering owned by its organizer's email.
// swagger:model Event
type Event struct {
	ID             string     `json:"_id"`
	Title          string     `json:"title"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	OrganizerEmail string     `json:"organizer_email"`
	Attendees      []string   `json:"attendees"`
	Responses      []Response `json:"responses"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewEvent returns a new Event with empty attendee and response lists. ID is set by the repository on create.
func NewEvent(title, date, eventTime, location, description, organizerEmail string, createdAt time.Time) *Event {
	return &Event{
		Title:          title,
		Date:           date,
		Time:           eventTime,
		Location:       location,
		Description:    description,
		OrganizerEmail: organizerEmail,
		Attendees:      []string{},
		Responses:      []Response{},
		CreatedAt:      createdAt,
	}
}

// IsAttendee reports whether email is in the invitation list.
func (e *Event) IsAttendee(email string) bool {
	for _, a := range e.Attendees {
		if a == email {
			return true
		}
	}
	return false
}

// HasResponded reports whether email has an RSVP entry.
func (e *Event) HasResponded(email string) bool {
	for _, r := range e.Responses {
		if r.Email == email {
			return true
		}
	}
	return false
}

// EventResponses is the read model returned by GET /events/responses/{event_id}.
// swagger:model EventResponses
type EventResponses struct {
	EventID   string     `json:"event_id"`
	Title     string     `json:"title"`
	Responses []Response `json:"responses"`
}

// EventSearchResult is an Event annotated with the caller's role in it, if any.
// swagger:model EventSearchResult
type EventSearchResult struct {
	*Event
	UserRole string `json:"user_role,omitempty"`
}

// EventQuery is the store-side part of a search. Empty fields do not filter.
type EventQuery struct {
	Keyword string
	Date    string
}

// SearchParams holds all search inputs: the store filter plus the in-memory role filter.
type SearchParams struct {
	EventQuery
	Role      string
	UserEmail string
}

// EventRepository defines the interface for event storage.
// Methods taking an id return ErrInvalidID for ids the store cannot parse and ErrNotFound when no event matches.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOrganizer(ctx context.Context, email string) ([]*Event, error)
	ListByAttendee(ctx context.Context, email string) ([]*Event, error)
	ListAll(ctx context.Context) ([]*Event, error)
	Search(ctx context.Context, q EventQuery) ([]*Event, error)
	AddAttendee(ctx context.Context, id, email string) error
	RemoveResponse(ctx context.Context, id, email string) error
	AppendResponse(ctx context.Context, id string, resp Response) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for events, invitations and RSVPs.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListByOrganizer(ctx context.Context, email string) ([]*Event, error)
	ListByInvitee(ctx context.Context, email string) ([]*Event, error)
	ListAll(ctx context.Context) ([]*Event, error)
	// Invite adds email to the attendees. Returns (invited, err): invited is false if email was already invited.
	Invite(ctx context.Context, eventID, email string) (bool, error)
	Respond(ctx context.Context, eventID, email string, status RSVPStatus) error
	GetResponses(ctx context.Context, eventID string) (*EventResponses, error)
	Search(ctx context.Context, params SearchParams) ([]*EventSearchResult, error)
	DeleteEvent(ctx context.Context, eventID, email string) error
}
