package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pocketcalendar/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository backed by the given
// database handle. The handle is passed in by the caller; the repository
// never opens or owns connections itself.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = "id, title, description, start_time, end_time, date, color"

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var color int64
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Date, &color); err != nil {
		return nil, err
	}
	e.Color = domain.Color(color)
	return e, nil
}

func (r *eventRepository) EventsByDate(ctx context.Context, date domain.Date) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date = $1
		ORDER BY start_time ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, int64(date))
	if err != nil {
		return nil, &domain.StorageError{Op: "query events by date", Err: err}
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) EventsInRange(ctx context.Context, from, to domain.Date) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC, start_time ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, int64(from), int64(to))
	if err != nil {
		return nil, &domain.StorageError{Op: "query events in range", Err: err}
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan event", Err: err}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate events", Err: err}
	}
	return events, nil
}

func (r *eventRepository) DatesWithEvents(ctx context.Context, from, to domain.Date) ([]domain.Date, error) {
	query := `
		SELECT DISTINCT date
		FROM events
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, int64(from), int64(to))
	if err != nil {
		return nil, &domain.StorageError{Op: "query dates with events", Err: err}
	}
	defer rows.Close()
	dates := make([]domain.Date, 0)
	for rows.Next() {
		var d int64
		if err := rows.Scan(&d); err != nil {
			return nil, &domain.StorageError{Op: "scan date", Err: err}
		}
		dates = append(dates, domain.Date(d))
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate dates", Err: err}
	}
	return dates, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "get event by id", Err: err}
	}
	return e, nil
}

func (r *eventRepository) Insert(ctx context.Context, e *domain.Event) (int64, error) {
	if e.ID == 0 {
		query := `
			INSERT INTO events (title, description, start_time, end_time, date, color)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := r.DB.QueryRowContext(ctx, query,
			e.Title, e.Description, int64(e.StartTime), int64(e.EndTime), int64(e.Date), int64(e.Color),
		).Scan(&e.ID)
		if err != nil {
			return 0, &domain.StorageError{Op: "insert event", Err: err}
		}
		return e.ID, nil
	}

	// Explicit id: replace any existing record sharing it.
	query := `
		INSERT INTO events (id, title, description, start_time, end_time, date, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			date = EXCLUDED.date,
			color = EXCLUDED.color
	`
	if _, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, int64(e.StartTime), int64(e.EndTime), int64(e.Date), int64(e.Color),
	); err != nil {
		return 0, &domain.StorageError{Op: "upsert event", Err: err}
	}
	return e.ID, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, start_time = $4, end_time = $5, date = $6, color = $7
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, int64(e.StartTime), int64(e.EndTime), int64(e.Date), int64(e.Color),
	)
	if err != nil {
		return &domain.StorageError{Op: "update event", Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		return &domain.StorageError{Op: "delete event", Err: err}
	}
	// Zero rows affected is fine: deletion is idempotent.
	return nil
}

func (r *eventRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return &domain.StorageError{Op: "delete all events", Err: err}
	}
	return nil
}
