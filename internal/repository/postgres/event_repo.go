package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

const selectEvents = `
		SELECT e.id, e.name, e.description, e.date, e.location,
		       u.id, u.first_name, u.last_name, u.email, u.password, u.is_organiser
		FROM events e
		JOIN users u ON u.id = e.organiser_id
	`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// eventRow is an event as scanned, before attendees are attached.
type eventRow struct {
	id        int64
	fields    domain.EventFields
	organiser domain.UserInput
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventRow(s rowScanner) (eventRow, error) {
	var row eventRow
	err := s.Scan(
		&row.id, &row.fields.Name, &row.fields.Description, &row.fields.Date, &row.fields.Location,
		&row.organiser.ID, &row.organiser.FirstName, &row.organiser.LastName, &row.organiser.Email,
		&row.organiser.Password, &row.organiser.IsOrganiser,
	)
	return row, err
}

func (r *eventRepository) FindAll(ctx context.Context) ([]*domain.Event, error) {
	return r.list(ctx, selectEvents+`ORDER BY e.date, e.id`)
}

func (r *eventRepository) FindByOrganiserID(ctx context.Context, organiserID int64) ([]*domain.Event, error) {
	return r.list(ctx, selectEvents+`WHERE e.organiser_id = $1 ORDER BY e.date, e.id`, organiserID)
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	row, err := scanEventRow(r.DB.QueryRowContext(ctx, selectEvents+`WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	events, err := r.hydrate(ctx, []eventRow{row})
	if err != nil {
		return nil, err
	}
	return events[0], nil
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scanned []eventRow
	for rows.Next() {
		row, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.hydrate(ctx, scanned)
}

// hydrate loads attendees for all rows in one query and builds the domain events.
func (r *eventRepository) hydrate(ctx context.Context, rows []eventRow) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0, len(rows))
	if len(rows) == 0 {
		return events, nil
	}
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.id
	}
	attendees, err := r.attendeesByEvent(ctx, ids)
	if err != nil {
		return nil, err
	}

	organisers := make(map[int64]*domain.User)
	for _, row := range rows {
		organiser, ok := organisers[row.organiser.ID]
		if !ok {
			organiser, err = domain.NewUser(row.organiser)
			if err != nil {
				return nil, fmt.Errorf("hydrate organiser %d: %w", row.organiser.ID, err)
			}
			organisers[row.organiser.ID] = organiser
		}
		e, err := domain.NewEvent(domain.EventInput{
			ID:          row.id,
			EventFields: row.fields,
			Organiser:   organiser,
			Attendees:   attendees[row.id],
		})
		if err != nil {
			return nil, fmt.Errorf("hydrate event %d: %w", row.id, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *eventRepository) attendeesByEvent(ctx context.Context, eventIDs []int64) (map[int64][]*domain.User, error) {
	query := `
		SELECT ea.event_id, u.id, u.first_name, u.last_name, u.email, u.password, u.is_organiser
		FROM event_attendees ea
		JOIN users u ON u.id = ea.user_id
		WHERE ea.event_id = ANY($1)
		ORDER BY ea.event_id, u.id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]*domain.User)
	for rows.Next() {
		var eventID int64
		var in domain.UserInput
		if err := rows.Scan(&eventID, &in.ID, &in.FirstName, &in.LastName, &in.Email, &in.Password, &in.IsOrganiser); err != nil {
			return nil, err
		}
		u, err := domain.NewUser(in)
		if err != nil {
			return nil, fmt.Errorf("hydrate attendee %d: %w", in.ID, err)
		}
		out[eventID] = append(out[eventID], u)
	}
	return out, rows.Err()
}

// Create inserts the event and its attendees in one transaction. event_day is generated
// from date in UTC, so the (organiser_id, event_day) unique constraint agrees with
// domain.DayOf and a concurrent duplicate fails with ErrEventDayTaken.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO events (name, description, date, location, organiser_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err = tx.QueryRowContext(ctx, query,
		e.Name(), e.Description(), e.Date().UTC(), e.Location(), e.Organiser().ID(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, eventDayConstraint) {
			return nil, domain.ErrEventDayTaken
		}
		return nil, err
	}

	attendees := e.Attendees()
	if len(attendees) > 0 {
		userIDs := make([]int64, len(attendees))
		for i, a := range attendees {
			userIDs[i] = a.ID()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO event_attendees (event_id, user_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING
		`, id, pq.Array(userIDs))
		if err != nil {
			return nil, fmt.Errorf("insert attendees: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return domain.NewEvent(domain.EventInput{
		ID:          id,
		EventFields: e.Fields(),
		Organiser:   e.Organiser(),
		Attendees:   attendees,
	})
}
