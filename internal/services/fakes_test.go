package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"eventplanner/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byEmail   map[string]*domain.User
	getErr    error
	createErr error
	created   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created++
	u.ID = fmt.Sprintf("user-%d", f.created)
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	saltErr    error
	compareErr error
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if f.compareErr != nil {
		return f.compareErr
	}
	if hash != "hash-"+salt+"-"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeEventRepo is an in-memory domain.EventRepository. Ids must start with "ev-" to be well formed.
type fakeEventRepo struct {
	events  map[string]*domain.Event
	order   []string
	nextID  int
	err     error
	calls   []string
	lastQry domain.EventQuery
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{events: make(map[string]*domain.Event)}
	for _, e := range events {
		f.events[e.ID] = e
		f.order = append(f.order, e.ID)
	}
	return f
}

func (f *fakeEventRepo) check(id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !strings.HasPrefix(id, "ev-") {
		return nil, domain.ErrInvalidID
	}
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.calls = append(f.calls, "Create")
	if f.err != nil {
		return f.err
	}
	f.nextID++
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.events[e.ID] = e
	f.order = append(f.order, e.ID)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.calls = append(f.calls, "GetByID")
	e, err := f.check(id)
	if err != nil {
		return nil, err
	}
	cp := *e
	cp.Attendees = append([]string{}, e.Attendees...)
	cp.Responses = append([]domain.Response{}, e.Responses...)
	return &cp, nil
}

func (f *fakeEventRepo) filter(keep func(e *domain.Event) bool) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0)
	for _, id := range f.order {
		if e, ok := f.events[id]; ok && keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, email string) ([]*domain.Event, error) {
	return f.filter(func(e *domain.Event) bool { return e.OrganizerEmail == email })
}

func (f *fakeEventRepo) ListByAttendee(ctx context.Context, email string) ([]*domain.Event, error) {
	return f.filter(func(e *domain.Event) bool { return e.IsAttendee(email) })
}

func (f *fakeEventRepo) ListAll(ctx context.Context) ([]*domain.Event, error) {
	return f.filter(func(e *domain.Event) bool { return true })
}

func (f *fakeEventRepo) Search(ctx context.Context, q domain.EventQuery) ([]*domain.Event, error) {
	f.lastQry = q
	kw := strings.ToLower(q.Keyword)
	return f.filter(func(e *domain.Event) bool {
		if kw != "" && !strings.Contains(strings.ToLower(e.Title), kw) && !strings.Contains(strings.ToLower(e.Description), kw) {
			return false
		}
		return q.Date == "" || e.Date == q.Date
	})
}

func (f *fakeEventRepo) AddAttendee(ctx context.Context, id, email string) error {
	f.calls = append(f.calls, "AddAttendee")
	e, err := f.check(id)
	if err != nil {
		return err
	}
	if !e.IsAttendee(email) {
		e.Attendees = append(e.Attendees, email)
	}
	return nil
}

func (f *fakeEventRepo) RemoveResponse(ctx context.Context, id, email string) error {
	f.calls = append(f.calls, "RemoveResponse")
	e, err := f.check(id)
	if err != nil {
		return err
	}
	kept := e.Responses[:0]
	for _, r := range e.Responses {
		if r.Email != email {
			kept = append(kept, r)
		}
	}
	e.Responses = kept
	return nil
}

func (f *fakeEventRepo) AppendResponse(ctx context.Context, id string, resp domain.Response) error {
	f.calls = append(f.calls, "AppendResponse")
	e, err := f.check(id)
	if err != nil {
		return err
	}
	e.Responses = append(e.Responses, resp)
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "Delete")
	if _, err := f.check(id); err != nil {
		return err
	}
	delete(f.events, id)
	return nil
}

// fakeEmailService records invitations.
type fakeEmailService struct {
	sent []*domain.InvitationEmailData
	err  error
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

var errStore = errors.New("store unavailable")
