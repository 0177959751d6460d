package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"pocketcalendar/internal/domain"
)

// fixedClock pins "now" for deterministic tests.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// fakeEventRepo is an in-memory EventRepository. Queries for a date present
// in blockOn wait until the channel is closed, which lets tests hold a query
// in flight.
type fakeEventRepo struct {
	mu      sync.Mutex
	byID    map[int64]*domain.Event
	nextID  int64
	err     error
	blockOn map[domain.Date]chan struct{}
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:    make(map[int64]*domain.Event),
		nextID:  1,
		blockOn: make(map[domain.Date]chan struct{}),
	}
}

func (f *fakeEventRepo) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// block makes EventsByDate queries for the given date wait; the returned
// function releases them.
func (f *fakeEventRepo) block(date domain.Date) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.blockOn[date] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeEventRepo) EventsByDate(ctx context.Context, date domain.Date) ([]*domain.Event, error) {
	f.mu.Lock()
	gate := f.blockOn[date]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.Date == date {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeEventRepo) EventsInRange(ctx context.Context, from, to domain.Date) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.Date >= from && e.Date <= to {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeEventRepo) DatesWithEvents(ctx context.Context, from, to domain.Date) ([]domain.Date, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[domain.Date]struct{})
	for _, e := range f.byID {
		if e.Date >= from && e.Date <= to {
			seen[e.Date] = struct{}{}
		}
	}
	dates := make([]domain.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Insert(ctx context.Context, e *domain.Event) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if e.ID == 0 {
		e.ID = f.nextID
		f.nextID++
	}
	copied := *e
	f.byID[e.ID] = &copied
	return e.ID, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) DeleteAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byID = make(map[int64]*domain.Event)
	return nil
}
