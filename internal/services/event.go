package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pocketcalendar/internal/domain"
	"pocketcalendar/internal/store"
)

type eventService struct {
	store          *store.Store
	contextTimeout time.Duration
}

// NewEventService returns the domain.EventService over the given store.
// All mutations go through the store so live watches get republished.
func NewEventService(st *store.Store, timeout time.Duration) domain.EventService {
	return &eventService{
		store:          st,
		contextTimeout: timeout,
	}
}

// validateEvent applies creation-form rules: a title is required and the end
// time must not precede the start time. Overlaps with other events are
// allowed.
func validateEvent(e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if e.EndTime < e.StartTime {
		return fmt.Errorf("%w: end time must not be before start time", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return 0, err
	}
	if event.Color == 0 {
		event.Color = domain.DefaultColor
	}

	id, err := s.store.Insert(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.ID == 0 {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if err := validateEvent(event); err != nil {
		return err
	}
	if event.Color == 0 {
		event.Color = domain.DefaultColor
	}

	if err := s.store.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) DeleteAllEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all events: %w", err)
	}
	return nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) EventsOnDate(ctx context.Context, date domain.Date) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.store.EventsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("events on date: %w", err)
	}
	return events, nil
}

func (s *eventService) EventsInRange(ctx context.Context, from, to domain.Date) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if to < from {
		return nil, fmt.Errorf("%w: range end before range start", domain.ErrInvalidInput)
	}
	events, err := s.store.EventsInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("events in range: %w", err)
	}
	return events, nil
}
