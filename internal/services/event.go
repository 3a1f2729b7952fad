package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService. emailService may be nil, in which case invitations are not mailed.
func NewEventService(eventRepo domain.EventRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var missing []string
	if event.Title == "" {
		missing = append(missing, "title")
	}
	if event.Date == "" {
		missing = append(missing, "date")
	}
	if event.Time == "" {
		missing = append(missing, "time")
	}
	if event.OrganizerEmail == "" {
		missing = append(missing, "organizer_email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	event.Attendees = []string{}
	event.Responses = []domain.Response{}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) ListByOrganizer(ctx context.Context, email string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizer(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list organized events: %w", err)
	}
	return events, nil
}

// ListByInvitee only looks at attendees; a user who responded without being invited is not listed.
func (s *eventService) ListByInvitee(ctx context.Context, email string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByAttendee(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list invited events: %w", err)
	}
	return events, nil
}

func (s *eventService) ListAll(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Invite(ctx context.Context, eventID, email string) (bool, error) {
	if eventID == "" || email == "" {
		return false, fmt.Errorf("%w: event_id and email are required", domain.ErrInvalidInput)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(storeCtx, eventID)
	if err != nil {
		return false, err
	}
	if event.IsAttendee(email) {
		return false, nil
	}
	if err := s.eventRepo.AddAttendee(storeCtx, eventID, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("add attendee: %w", err)
	}

	if s.emailService != nil {
		data := &domain.InvitationEmailData{
			Email:          email,
			EventID:        event.ID,
			Title:          event.Title,
			Date:           event.Date,
			Time:           event.Time,
			Location:       event.Location,
			OrganizerEmail: event.OrganizerEmail,
		}
		// The invitation is already stored; a mail failure must not undo or fail it.
		if err := s.emailService.SendInvitation(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "invitation email failed", "event_id", eventID, "email", email, "err", err)
		}
	}
	return true, nil
}

// Respond replaces email's RSVP with a pull followed by a push. The two writes are not atomic:
// concurrent responses from the same email may interleave and leave zero or two entries.
func (s *eventService) Respond(ctx context.Context, eventID, email string, status domain.RSVPStatus) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if eventID == "" || email == "" || status == "" {
		return fmt.Errorf("%w: event_id, email and status are required", domain.ErrInvalidInput)
	}
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.RemoveResponse(ctx, eventID, email); err != nil {
		return fmt.Errorf("remove response: %w", err)
	}
	if err := s.eventRepo.AppendResponse(ctx, eventID, domain.Response{Email: email, Status: status}); err != nil {
		return fmt.Errorf("append response: %w", err)
	}
	return nil
}

func (s *eventService) GetResponses(ctx context.Context, eventID string) (*domain.EventResponses, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if eventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &domain.EventResponses{
		EventID:   event.ID,
		Title:     event.Title,
		Responses: event.Responses,
	}, nil
}

func (s *eventService) Search(ctx context.Context, params domain.SearchParams) ([]*domain.EventSearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	query := domain.EventQuery{
		Keyword: strings.TrimSpace(params.Keyword),
		Date:    strings.TrimSpace(params.Date),
	}
	events, err := s.eventRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return filterByRole(events, strings.TrimSpace(params.Role), strings.TrimSpace(params.UserEmail)), nil
}

// filterByRole applies the in-memory role pass of a search. Any role other than "" or "any"
// filters when userEmail is set; roles match exactly, so an unrecognised role matches nothing.
// Without a filter every event is kept and only annotated.
// Attendee filtering counts responders, the annotation-only pass counts invitees alone.
func filterByRole(events []*domain.Event, role, userEmail string) []*domain.EventSearchResult {
	results := make([]*domain.EventSearchResult, 0, len(events))
	filtering := userEmail != "" && role != "" && role != domain.RoleAny

	for _, ev := range events {
		if !filtering {
			res := &domain.EventSearchResult{Event: ev}
			if userEmail != "" {
				switch {
				case ev.OrganizerEmail == userEmail:
					res.UserRole = domain.UserRoleOrganizer
				case ev.IsAttendee(userEmail):
					res.UserRole = domain.UserRoleAttendee
				}
			}
			results = append(results, res)
			continue
		}

		switch role {
		case domain.RoleOrganizer:
			if ev.OrganizerEmail == userEmail {
				results = append(results, &domain.EventSearchResult{Event: ev, UserRole: domain.UserRoleOrganizer})
			}
		case domain.RoleAttendee:
			if ev.IsAttendee(userEmail) || ev.HasResponded(userEmail) {
				results = append(results, &domain.EventSearchResult{Event: ev, UserRole: domain.UserRoleAttendee})
			}
		}
	}
	return results
}

// DeleteEvent removes the event when email matches its organizer.
func (s *eventService) DeleteEvent(ctx context.Context, eventID, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if email == "" {
		return fmt.Errorf("%w: organizer email is required", domain.ErrInvalidInput)
	}
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerEmail != email {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// getEvent passes ErrInvalidID and ErrNotFound through unwrapped so callers can map them.
func (s *eventService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}
