package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

const eventColumns = `id, title, date, time, location, description, organizer_email, attendees, responses, created_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// parseID returns the canonical form of a UUID event id.
func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", domain.ErrInvalidID
	}
	return u.String(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var responses []byte
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Description, &e.OrganizerEmail,
		pq.Array(&e.Attendees), &responses, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	e.Responses = []domain.Response{}
	if len(responses) > 0 {
		if err := json.Unmarshal(responses, &e.Responses); err != nil {
			return nil, fmt.Errorf("decode responses: %w", err)
		}
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, date, time, location, description, organizer_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.Title, e.Date, e.Time, e.Location, e.Description, e.OrganizerEmail, e.CreatedAt).
		Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, email string) ([]*domain.Event, error) {
	return r.list(ctx, `WHERE organizer_email = $1`, email)
}

func (r *eventRepository) ListByAttendee(ctx context.Context, email string) ([]*domain.Event, error) {
	return r.list(ctx, `WHERE $1 = ANY(attendees)`, email)
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	return r.list(ctx, "")
}

// Search matches the keyword literally and case-insensitively against title or description.
func (r *eventRepository) Search(ctx context.Context, q domain.EventQuery) ([]*domain.Event, error) {
	where, args := searchWhere(q)
	return r.list(ctx, where, args...)
}

func searchWhere(q domain.EventQuery) (string, []any) {
	var conds []string
	var args []any
	if q.Keyword != "" {
		args = append(args, "%"+escapeLike(q.Keyword)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if q.Date != "" {
		args = append(args, q.Date)
		conds = append(conds, fmt.Sprintf("date = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *eventRepository) AddAttendee(ctx context.Context, id, email string) error {
	query := `
		UPDATE events
		SET attendees = CASE WHEN $2 = ANY(attendees) THEN attendees ELSE array_append(attendees, $2) END
		WHERE id = $1
	`
	return r.exec(ctx, query, id, email)
}

func (r *eventRepository) RemoveResponse(ctx context.Context, id, email string) error {
	query := `
		UPDATE events
		SET responses = COALESCE((
			SELECT jsonb_agg(e.r ORDER BY e.i)
			FROM jsonb_array_elements(responses) WITH ORDINALITY AS e(r, i)
			WHERE e.r->>'email' <> $2
		), '[]'::jsonb)
		WHERE id = $1
	`
	return r.exec(ctx, query, id, email)
}

func (r *eventRepository) AppendResponse(ctx context.Context, id string, resp domain.Response) error {
	query := `
		UPDATE events
		SET responses = responses || jsonb_build_array(jsonb_build_object('email', $2::text, 'status', $3::text))
		WHERE id = $1
	`
	return r.exec(ctx, query, id, resp.Email, string(resp.Status))
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM events WHERE id = $1`, id)
}

// exec runs a statement keyed by event id and maps zero affected rows to ErrNotFound.
func (r *eventRepository) exec(ctx context.Context, query, id string, args ...any) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) list(ctx context.Context, where string, args ...any) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ` + where + ` ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
