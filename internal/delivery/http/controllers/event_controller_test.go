package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err           error
	events        []*domain.Event
	searchResults []*domain.EventSearchResult
	responses     *domain.EventResponses
	invited       bool

	lastCreate     *domain.Event
	lastEmail      string
	lastEventID    string
	lastStatus     domain.RSVPStatus
	lastSearch     domain.SearchParams
	lastListMethod string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	f.lastCreate = event
	if f.err != nil {
		return f.err
	}
	event.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (f *fakeEventService) list(method, email string) ([]*domain.Event, error) {
	f.lastListMethod, f.lastEmail = method, email
	return f.events, f.err
}

func (f *fakeEventService) ListByOrganizer(ctx context.Context, email string) ([]*domain.Event, error) {
	return f.list("organizer", email)
}

func (f *fakeEventService) ListByInvitee(ctx context.Context, email string) ([]*domain.Event, error) {
	return f.list("invitee", email)
}

func (f *fakeEventService) ListAll(ctx context.Context) ([]*domain.Event, error) {
	return f.list("all", "")
}

func (f *fakeEventService) Invite(ctx context.Context, eventID, email string) (bool, error) {
	f.lastEventID, f.lastEmail = eventID, email
	return f.invited, f.err
}

func (f *fakeEventService) Respond(ctx context.Context, eventID, email string, status domain.RSVPStatus) error {
	f.lastEventID, f.lastEmail, f.lastStatus = eventID, email, status
	return f.err
}

func (f *fakeEventService) GetResponses(ctx context.Context, eventID string) (*domain.EventResponses, error) {
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.responses, nil
}

func (f *fakeEventService) Search(ctx context.Context, params domain.SearchParams) ([]*domain.EventSearchResult, error) {
	f.lastSearch = params
	return f.searchResults, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID, email string) error {
	f.lastEventID, f.lastEmail = eventID, email
	return f.err
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"title":"Party","date":"2025-01-01","time":"18:00","location":"Hall","organizer_email":"o@x.com"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"date":"2025-01-01","time":"18:00","organizer_email":"o@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "extra fields ignored",
			body:       `{"title":"Party","date":"2025-01-01","time":"18:00","location":"Hall","organizer_email":"o@x.com","attendees":["x@y.com"]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "store failure",
			body:       `{"title":"Party","date":"2025-01-01","time":"18:00","organizer_email":"o@x.com"}`,
			serviceErr: errors.New("insert failed"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.serviceErr}
			ctrl := NewEventController(testLogger, svc)
			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				return
			}
			assert.Equal(t, "Event created successfully", resp.Message)
			assert.Equal(t, map[string]any{"event_id": "507f1f77bcf86cd799439011"}, resp.Data)
			require.NotNil(t, svc.lastCreate)
			assert.Equal(t, "Hall", svc.lastCreate.Location)
			assert.Equal(t, "o@x.com", svc.lastCreate.OrganizerEmail)
		})
	}
}

func TestEventController_Lists(t *testing.T) {
	events := []*domain.Event{{ID: "e1", Title: "Party", OrganizerEmail: "o@x.com", Attendees: []string{"a@x.com"}, Responses: []domain.Response{}}}

	tests := []struct {
		name       string
		path       string
		email      string
		handler    func(c *EventController) http.HandlerFunc
		wantMethod string
	}{
		{name: "organized", path: "/events/organized/o@x.com", email: "o@x.com", handler: func(c *EventController) http.HandlerFunc { return c.ListOrganized }, wantMethod: "organizer"},
		{name: "invited", path: "/events/invited/a@x.com", email: "a@x.com", handler: func(c *EventController) http.HandlerFunc { return c.ListInvited }, wantMethod: "invitee"},
		{name: "all", path: "/events/all", handler: func(c *EventController) http.HandlerFunc { return c.ListAll }, wantMethod: "all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{events: events}
			ctrl := NewEventController(testLogger, svc)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.SetPathValue("email", tt.email)
			rr := httptest.NewRecorder()

			tt.handler(ctrl)(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantMethod, svc.lastListMethod)
			assert.Equal(t, tt.email, svc.lastEmail)
			var body struct {
				Data []map[string]any `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			require.Len(t, body.Data, 1)
			assert.Equal(t, "e1", body.Data[0]["_id"])
		})
	}

	t.Run("empty list renders as array", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		rr := httptest.NewRecorder()

		ctrl.ListAll(rr, httptest.NewRequest(http.MethodGet, "/events/all", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{err: errors.New("boom")})
		rr := httptest.NewRecorder()

		ctrl.ListAll(rr, httptest.NewRequest(http.MethodGet, "/events/all", nil))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "boom")
	})
}

func TestEventController_Invite(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		invited    bool
		serviceErr error
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{name: "new invitation", body: `{"event_id":"e1","email":"a@x.com"}`, invited: true, wantStatus: http.StatusOK, wantMsg: "User invited successfully"},
		{name: "already invited", body: `{"event_id":"e1","email":"a@x.com"}`, wantStatus: http.StatusOK, wantMsg: "User already invited"},
		{name: "missing email", body: `{"event_id":"e1"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "malformed id", body: `{"event_id":"zzz","email":"a@x.com"}`, serviceErr: domain.ErrInvalidID, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantMsg: "Invalid event_id format"},
		{name: "unknown event", body: `{"event_id":"e9","email":"a@x.com"}`, serviceErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound, wantMsg: "Event not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{invited: tt.invited, err: tt.serviceErr}
			ctrl := NewEventController(testLogger, svc)
			req := httptest.NewRequest(http.MethodPost, "/events/invite", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Invite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, resp.Error.Message)
				}
				return
			}
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Equal(t, "e1", svc.lastEventID)
			assert.Equal(t, "a@x.com", svc.lastEmail)
		})
	}
}

func TestEventController_Respond(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{name: "saved", body: `{"event_id":"e1","email":"a@x.com","status":"Not Going"}`, wantStatus: http.StatusOK, wantMsg: "Response saved successfully"},
		{name: "invalid status", body: `{"event_id":"e1","email":"a@x.com","status":"Nope"}`, serviceErr: domain.ErrInvalidStatus, wantStatus: http.StatusBadRequest, wantMsg: "Invalid status value"},
		{name: "missing status", body: `{"event_id":"e1","email":"a@x.com"}`, wantStatus: http.StatusBadRequest, wantMsg: "status is required"},
		{name: "unknown event", body: `{"event_id":"e1","email":"a@x.com","status":"Going"}`, serviceErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "Event not found"},
		{name: "wrapped store failure", body: `{"event_id":"e1","email":"a@x.com","status":"Going"}`, serviceErr: fmt.Errorf("append response: %w", errors.New("conn reset")), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.serviceErr}
			ctrl := NewEventController(testLogger, svc)
			req := httptest.NewRequest(http.MethodPost, "/events/respond", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Respond(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeEnvelope(t, rr)
			if rr.Code == http.StatusOK {
				assert.Equal(t, tt.wantMsg, resp.Message)
				assert.Equal(t, domain.RSVPNotGoing, svc.lastStatus)
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestEventController_GetResponses(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEventService{responses: &domain.EventResponses{
			EventID:   "e1",
			Title:     "Party",
			Responses: []domain.Response{{Email: "a@x.com", Status: domain.RSVPMaybe}},
		}}
		ctrl := NewEventController(testLogger, svc)
		req := httptest.NewRequest(http.MethodGet, "/events/responses/e1", nil)
		req.SetPathValue("event_id", "e1")
		rr := httptest.NewRecorder()

		ctrl.GetResponses(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "e1", svc.lastEventID)
		assert.JSONEq(t, `{"data":{"event_id":"e1","title":"Party","responses":[{"email":"a@x.com","status":"Maybe"}]},"error":null}`, rr.Body.String())
	})

	t.Run("nil responses render as array", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{responses: &domain.EventResponses{EventID: "e1", Title: "Party"}})
		req := httptest.NewRequest(http.MethodGet, "/events/responses/e1", nil)
		req.SetPathValue("event_id", "e1")
		rr := httptest.NewRecorder()

		ctrl.GetResponses(rr, req)

		assert.Contains(t, rr.Body.String(), `"responses":[]`)
	})

	errCases := []struct {
		err        error
		wantStatus int
	}{
		{domain.ErrInvalidID, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range errCases {
		t.Run(tt.err.Error(), func(t *testing.T) {
			ctrl := NewEventController(testLogger, &fakeEventService{err: tt.err})
			req := httptest.NewRequest(http.MethodGet, "/events/responses/x", nil)
			req.SetPathValue("event_id", "x")
			rr := httptest.NewRecorder()

			ctrl.GetResponses(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestEventController_Search(t *testing.T) {
	ev := &domain.Event{ID: "e1", Title: "Team Party", OrganizerEmail: "o@x.com"}
	svc := &fakeEventService{searchResults: []*domain.EventSearchResult{{Event: ev, UserRole: domain.UserRoleOrganizer}}}
	ctrl := NewEventController(testLogger, svc)
	req := httptest.NewRequest(http.MethodGet, "/events/search?keyword=team&date=2025-01-01&role=organizer&user_email=o@x.com", nil)
	rr := httptest.NewRecorder()

	ctrl.Search(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.SearchParams{
		EventQuery: domain.EventQuery{Keyword: "team", Date: "2025-01-01"},
		Role:       domain.RoleOrganizer,
		UserEmail:  "o@x.com",
	}, svc.lastSearch)
	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "e1", body.Data[0]["_id"])
	assert.Equal(t, "Team Party", body.Data[0]["title"])
	assert.Equal(t, "Organizer", body.Data[0]["user_role"])

	t.Run("role passed through unchanged", func(t *testing.T) {
		svc := &fakeEventService{}
		rr := httptest.NewRecorder()
		NewEventController(testLogger, svc).Search(rr, httptest.NewRequest(http.MethodGet, "/events/search?role=Organizer&user_email=o@x.com", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Organizer", svc.lastSearch.Role)
	})

	t.Run("no results", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewEventController(testLogger, &fakeEventService{}).Search(rr, httptest.NewRequest(http.MethodGet, "/events/search", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
	})
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{name: "organizer", query: "?email=o@x.com", wantStatus: http.StatusOK, wantMsg: "Event deleted successfully"},
		{name: "missing email", query: "", wantStatus: http.StatusBadRequest, wantMsg: "Organizer email is required"},
		{name: "not organizer", query: "?email=a@x.com", serviceErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantMsg: "You are not the organizer of this event"},
		{name: "unknown event", query: "?email=o@x.com", serviceErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "Event not found"},
		{name: "malformed id", query: "?email=o@x.com", serviceErr: domain.ErrInvalidID, wantStatus: http.StatusBadRequest, wantMsg: "Invalid event_id format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.serviceErr}
			ctrl := NewEventController(testLogger, svc)
			req := httptest.NewRequest(http.MethodDelete, "/events/e1"+tt.query, nil)
			req.SetPathValue("event_id", "e1")
			rr := httptest.NewRecorder()

			ctrl.DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeEnvelope(t, rr)
			if rr.Code == http.StatusOK {
				assert.Equal(t, tt.wantMsg, resp.Message)
				assert.Equal(t, "e1", svc.lastEventID)
				assert.Equal(t, "o@x.com", svc.lastEmail)
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}
