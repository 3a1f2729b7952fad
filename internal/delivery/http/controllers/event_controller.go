package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title          string `json:"title" validate:"required"`
	Date           string `json:"date" validate:"required"`
	Time           string `json:"time" validate:"required"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	OrganizerEmail string `json:"organizer_email" validate:"required"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	return helpers.ValidateStruct(c)
}

// CreateEventResponse is the data payload for POST /events (201).
type CreateEventResponse struct {
	EventID string `json:"event_id"`
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data    CreateEventResponse `json:"data"`
	Message string              `json:"message"`
	Error   *helpers.APIError   `json:"error"`
}

// InviteRequest is the request body for POST /events/invite.
type InviteRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

// Validate implements Validator.
func (i InviteRequest) Validate() []string {
	return helpers.ValidateStruct(i)
}

// RespondRequest is the request body for POST /events/respond. Status is one of Going, Maybe, Not Going.
type RespondRequest struct {
	EventID string            `json:"event_id" validate:"required"`
	Email   string            `json:"email" validate:"required"`
	Status  domain.RSVPStatus `json:"status" validate:"required"`
}

// Validate implements Validator.
func (rr RespondRequest) Validate() []string {
	return helpers.ValidateStruct(rr)
}

// MessageResponse is the envelope for endpoints that only report a message.
type MessageResponse struct {
	Data    any               `json:"data"`
	Message string            `json:"message"`
	Error   *helpers.APIError `json:"error"`
}

// EventListResponse is the success response envelope for the event list endpoints (200).
type EventListResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventResponsesSuccessResponse is the success response envelope for GET /events/responses/{event_id} (200).
type EventResponsesSuccessResponse struct {
	Data  *domain.EventResponses `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// SearchEventsSuccessResponse is the success response envelope for GET /events/search (200).
type SearchEventsSuccessResponse struct {
	Data  []*domain.EventSearchResult `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// EventController handles event, invitation and RSVP endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

// NewEventController creates an EventController with the given logger and service.
func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event with empty attendees and responses. location and description are optional.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data.event_id is the generated id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(req.Title, req.Date, req.Time, req.Location, req.Description, req.OrganizerEmail, time.Now().UTC())
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusCreated, "Event created successfully", CreateEventResponse{EventID: event.ID})
}

// ListOrganized godoc
// @Summary List events organized by a user
// @Description Events whose organizer_email equals email. Events are returned in the data array of the response envelope.
// @Tags events
// @Produce json
// @Param email path string true "Organizer email"
// @Success 200 {object} controllers.EventListResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/organized/{email} [get]
func (c *EventController) ListOrganized(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListByOrganizer(r.Context(), r.PathValue("email"))
	c.writeList(w, r, events, err)
}

// ListInvited godoc
// @Summary List events a user is invited to
// @Description Only the attendees list is consulted; responding without an invitation does not count. Events are returned in the data array of the response envelope.
// @Tags events
// @Produce json
// @Param email path string true "Invitee email"
// @Success 200 {object} controllers.EventListResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/invited/{email} [get]
func (c *EventController) ListInvited(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListByInvitee(r.Context(), r.PathValue("email"))
	c.writeList(w, r, events, err)
}

// ListAll godoc
// @Summary List all events
// @Description Events are returned in the data array of the response envelope.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/all [get]
func (c *EventController) ListAll(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListAll(r.Context())
	c.writeList(w, r, events, err)
}

// Invite godoc
// @Summary Invite a user to an event
// @Description Adds email to the attendees. Inviting the same email twice succeeds without change.
// @Tags invitations
// @Accept json
// @Produce json
// @Param body body InviteRequest true "Invitation"
// @Success 200 {object} controllers.MessageResponse "message: User invited successfully or User already invited"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/invite [post]
func (c *EventController) Invite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invited, err := c.Service.Invite(r.Context(), req.EventID, req.Email)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if !invited {
		helpers.WriteJSONMessage(w, http.StatusOK, "User already invited", nil)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "User invited successfully", nil)
}

// Respond godoc
// @Summary Record an RSVP
// @Description Replaces any previous response from the same email.
// @Tags invitations
// @Accept json
// @Produce json
// @Param body body RespondRequest true "Response"
// @Success 200 {object} controllers.MessageResponse "message: Response saved successfully"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/respond [post]
func (c *EventController) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Respond(r.Context(), req.EventID, req.Email, req.Status); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Response saved successfully", nil)
}

// GetResponses godoc
// @Summary Get the RSVPs of an event
// @Tags invitations
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} controllers.EventResponsesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/responses/{event_id} [get]
func (c *EventController) GetResponses(w http.ResponseWriter, r *http.Request) {
	resp, err := c.Service.GetResponses(r.Context(), r.PathValue("event_id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if resp.Responses == nil {
		resp.Responses = []domain.Response{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}

// Search godoc
// @Summary Search events
// @Description keyword matches title or description case-insensitively; date matches exactly. With user_email, role organizer or attendee filters to the user's events; any other role except "any" matches nothing. Without a role filter events are only annotated with user_role. Events are returned in the data array of the response envelope.
// @Tags events
// @Produce json
// @Param keyword query string false "Substring of title or description"
// @Param date query string false "Exact date"
// @Param role query string false "organizer, attendee or any"
// @Param user_email query string false "Email used for role filtering and annotation"
// @Success 200 {object} controllers.SearchEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/search [get]
func (c *EventController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.SearchParams{
		EventQuery: domain.EventQuery{
			Keyword: q.Get("keyword"),
			Date:    q.Get("date"),
		},
		Role:      q.Get("role"),
		UserEmail: q.Get("user_email"),
	}
	results, err := c.Service.Search(r.Context(), params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []*domain.EventSearchResult{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, results)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Only the organizer, identified by the email query parameter, can delete.
// @Tags events
// @Produce json
// @Param event_id path string true "Event ID"
// @Param email query string true "Organizer email"
// @Success 200 {object} controllers.MessageResponse "message: Event deleted successfully"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{event_id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Organizer email is required")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), r.PathValue("event_id"), email); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Event deleted successfully", nil)
}

func (c *EventController) writeList(w http.ResponseWriter, r *http.Request, events []*domain.Event, err error) {
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// writeError maps service errors to status codes. ErrInvalidID and ErrInvalidStatus must be checked before ErrInvalidInput.
func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Invalid event_id format")
	case errors.Is(err, domain.ErrInvalidStatus):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Invalid status value")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "You are not the organizer of this event")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}
