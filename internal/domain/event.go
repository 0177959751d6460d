package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors shared across the domain.
var (
	// ErrNotFound is returned when a lookup by id matches no record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a request fails validation
	// (e.g. empty title, end time before start time).
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError wraps a failure of the storage medium itself (unavailable,
// full, corrupted). Callers can unwrap it with errors.As to distinguish
// storage failures from domain conditions such as ErrNotFound.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Color is a 32-bit ARGB display color. It doubles as an implicit category tag.
type Color uint32

// DefaultColor is the color assigned to events created without one.
const DefaultColor Color = 0xFF6A5AE0

// Event is a titled, timed, single-day calendar entry.
// ID zero means the event has not been persisted yet.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   TimeOfDay `json:"start_time"`
	EndTime     TimeOfDay `json:"end_time"`
	Date        Date      `json:"date"`
	Color       Color     `json:"color"`
}

// NewEvent returns a new unpersisted Event with the given fields.
// A zero color falls back to DefaultColor.
func NewEvent(title, description string, start, end TimeOfDay, date Date, color Color) *Event {
	if color == 0 {
		color = DefaultColor
	}
	return &Event{
		Title:       title,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		Date:        date,
		Color:       color,
	}
}

// EventRepository defines the snapshot storage contract for events.
// Range queries are inclusive on both ends. Empty results are returned as
// empty slices, never as an error; ErrNotFound is reserved for point lookups
// and updates of a missing id.
type EventRepository interface {
	// EventsByDate returns the events on the given date, ordered by start
	// time ascending, ties broken by id.
	EventsByDate(ctx context.Context, date Date) ([]*Event, error)
	// EventsInRange returns the events with from <= date <= to, ordered by
	// (date, start time, id) ascending.
	EventsInRange(ctx context.Context, from, to Date) ([]*Event, error)
	// DatesWithEvents returns the distinct dates in [from, to] that have at
	// least one event, ascending.
	DatesWithEvents(ctx context.Context, from, to Date) ([]Date, error)
	// GetByID returns the event with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Event, error)
	// Insert stores the event. When event.ID is zero a fresh id is assigned
	// and written back to the event; otherwise any existing record with that
	// id is replaced. Returns the id of the stored record.
	Insert(ctx context.Context, event *Event) (int64, error)
	// Update replaces the record matching event.ID, or returns ErrNotFound.
	Update(ctx context.Context, event *Event) error
	// Delete removes the record with the given id. Deleting a missing id is
	// not an error.
	Delete(ctx context.Context, id int64) error
	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error
}

// EventService defines the application operations on events, validation
// included.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) (int64, error)
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id int64) error
	DeleteAllEvents(ctx context.Context) error
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	EventsOnDate(ctx context.Context, date Date) ([]*Event, error)
	EventsInRange(ctx context.Context, from, to Date) ([]*Event, error)
}
