// Package store layers push-on-change queries over a domain.EventRepository.
// Every mutation routed through the Store re-runs all live watch queries and
// republishes their results. Updates are conflated: a watch channel holds at
// most one pending update and a newer result replaces an unconsumed older
// one, so a slow consumer can never block a mutation and always observes the
// latest state.
package store

import (
	"context"
	"sync"

	"pocketcalendar/internal/domain"
)

// EventsUpdate is one emission of an event-list watch. Err is set when the
// underlying query failed; the subscription stays alive and recovers on the
// next mutation.
type EventsUpdate struct {
	Events []*domain.Event
	Err    error
}

// DatesUpdate is one emission of a dates-with-events watch.
type DatesUpdate struct {
	Dates []domain.Date
	Err   error
}

// Store wraps an EventRepository with mutation notifications.
type Store struct {
	repo domain.EventRepository

	mu      sync.Mutex
	nextID  int
	wakeups map[int]chan struct{}
}

// New returns a Store over the given repository.
func New(repo domain.EventRepository) *Store {
	return &Store{
		repo:    repo,
		wakeups: make(map[int]chan struct{}),
	}
}

// subscribe registers a wakeup channel that receives a tick after every
// mutation. The channel is buffered so notifyAll never blocks; coalescing
// ticks is fine because watchers re-query the full result anyway.
func (s *Store) subscribe() (int, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.wakeups[id] = ch
	return id, ch
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wakeups, id)
}

func (s *Store) notifyAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.wakeups {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// WatchEventsOnDate emits the events on the given date immediately and again
// after every mutation, until ctx is cancelled. The channel is closed on
// cancellation.
func (s *Store) WatchEventsOnDate(ctx context.Context, date domain.Date) <-chan EventsUpdate {
	return s.watchEvents(ctx, func(ctx context.Context) ([]*domain.Event, error) {
		return s.repo.EventsByDate(ctx, date)
	})
}

// WatchEventsInRange emits the events in the inclusive range immediately and
// again after every mutation, until ctx is cancelled.
func (s *Store) WatchEventsInRange(ctx context.Context, from, to domain.Date) <-chan EventsUpdate {
	return s.watchEvents(ctx, func(ctx context.Context) ([]*domain.Event, error) {
		return s.repo.EventsInRange(ctx, from, to)
	})
}

func (s *Store) watchEvents(ctx context.Context, query func(context.Context) ([]*domain.Event, error)) <-chan EventsUpdate {
	out := make(chan EventsUpdate, 1)
	id, wakeup := s.subscribe()
	go func() {
		defer close(out)
		defer s.unsubscribe(id)
		for {
			events, err := query(ctx)
			if ctx.Err() != nil {
				return
			}
			conflateEvents(out, EventsUpdate{Events: events, Err: err})
			select {
			case <-ctx.Done():
				return
			case <-wakeup:
			}
		}
	}()
	return out
}

// WatchDatesWithEvents emits the distinct dates carrying events in the
// inclusive range immediately and again after every mutation, until ctx is
// cancelled.
func (s *Store) WatchDatesWithEvents(ctx context.Context, from, to domain.Date) <-chan DatesUpdate {
	out := make(chan DatesUpdate, 1)
	id, wakeup := s.subscribe()
	go func() {
		defer close(out)
		defer s.unsubscribe(id)
		for {
			dates, err := s.repo.DatesWithEvents(ctx, from, to)
			if ctx.Err() != nil {
				return
			}
			conflateDates(out, DatesUpdate{Dates: dates, Err: err})
			select {
			case <-ctx.Done():
				return
			case <-wakeup:
			}
		}
	}()
	return out
}

// conflateEvents delivers u to out, displacing an unconsumed older update if
// the buffer is full. Each watch channel has a single producer, so the
// drain-then-retry loop terminates.
func conflateEvents(out chan EventsUpdate, u EventsUpdate) {
	for {
		select {
		case out <- u:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}

func conflateDates(out chan DatesUpdate, u DatesUpdate) {
	for {
		select {
		case out <- u:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}

// EventsByDate is a one-shot snapshot query, passed through to the repository.
func (s *Store) EventsByDate(ctx context.Context, date domain.Date) ([]*domain.Event, error) {
	return s.repo.EventsByDate(ctx, date)
}

// EventsInRange is a one-shot snapshot query, passed through to the repository.
func (s *Store) EventsInRange(ctx context.Context, from, to domain.Date) ([]*domain.Event, error) {
	return s.repo.EventsInRange(ctx, from, to)
}

// DatesWithEvents is a one-shot snapshot query, passed through to the repository.
func (s *Store) DatesWithEvents(ctx context.Context, from, to domain.Date) ([]domain.Date, error) {
	return s.repo.DatesWithEvents(ctx, from, to)
}

// GetByID has no observable form; it is passed through to the repository.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// Insert stores the event and wakes all watches on success.
func (s *Store) Insert(ctx context.Context, event *domain.Event) (int64, error) {
	id, err := s.repo.Insert(ctx, event)
	if err != nil {
		return 0, err
	}
	s.notifyAll()
	return id, nil
}

// Update replaces the stored event and wakes all watches on success.
func (s *Store) Update(ctx context.Context, event *domain.Event) error {
	if err := s.repo.Update(ctx, event); err != nil {
		return err
	}
	s.notifyAll()
	return nil
}

// Delete removes the event and wakes all watches on success.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyAll()
	return nil
}

// DeleteAll clears the store and wakes all watches on success.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.notifyAll()
	return nil
}
