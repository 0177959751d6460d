package services

import (
	"context"
	"sync"

	"pocketcalendar/internal/domain"
	"pocketcalendar/internal/store"
)

// ViewState is the single snapshot everything on a calendar screen renders
// from. It is recomputed, never stored.
// swagger:model ViewState
type ViewState struct {
	SelectedDate          domain.Date              `json:"selected_date"`
	VisibleMonth          domain.YearMonth         `json:"visible_month"`
	EventsForSelectedDate []*domain.Event          `json:"events_for_selected_date"`
	DatesWithEvents       map[domain.Date]struct{} `json:"-"`
	Loading               bool                     `json:"loading"`
	Error                 string                   `json:"error,omitempty"`
}

// BusyDates returns the dates-with-events set as a sorted slice, which is
// what serialized snapshots carry.
func (v ViewState) BusyDates() []domain.Date {
	dates := make([]domain.Date, 0, len(v.DatesWithEvents))
	for d := range v.DatesWithEvents {
		dates = append(dates, d)
	}
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j] < dates[j-1]; j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
	return dates
}

// CalendarSession aggregates the two control inputs (selected date, visible
// month) with the two store watches they imply, and republishes a combined
// snapshot whenever any of the four changes.
//
// Changing a control input cancels that input's previous watch and starts a
// new one; a per-input generation counter discards any result a superseded
// watch may still deliver, so the newest selection always wins. A session
// belongs to one consumer; its methods are safe for concurrent use but the
// output channel has a single logical reader.
type CalendarSession struct {
	store  *store.Store
	events domain.EventService

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       ViewState
	dateGen     int
	monthGen    int
	cancelDate  context.CancelFunc
	cancelMonth context.CancelFunc

	closeOnce sync.Once
	out       chan ViewState
}

// NewCalendarSession starts a session with the selected date defaulting to
// today and the visible month to the month containing it. The first snapshot
// is published as soon as both initial watches deliver.
func NewCalendarSession(ctx context.Context, st *store.Store, events domain.EventService, clock Clock) *CalendarSession {
	ctx, cancel := context.WithCancel(ctx)
	today := domain.DateOf(clock.Now())

	s := &CalendarSession{
		store:  st,
		events: events,
		ctx:    ctx,
		cancel: cancel,
		state: ViewState{
			SelectedDate: today,
			VisibleMonth: today.YearMonth(),
			Loading:      true,
		},
		out: make(chan ViewState, 1),
	}
	s.mu.Lock()
	s.restartDateWatch()
	s.restartMonthWatch()
	s.mu.Unlock()
	return s
}

// Updates returns the conflated snapshot stream. The channel is closed when
// the session is closed.
func (s *CalendarSession) Updates() <-chan ViewState {
	return s.out
}

// Close cancels all watches and closes the snapshot stream.
func (s *CalendarSession) Close() {
	s.cancel()
}

// SelectDate sets the selected date and re-subscribes its events query. The
// visible month is left untouched.
func (s *CalendarSession) SelectDate(date domain.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedDate == date {
		return
	}
	s.state.SelectedDate = date
	s.state.Loading = true
	s.restartDateWatch()
	s.publishLocked()
}

// NextMonth shifts the visible month forward by one calendar month.
func (s *CalendarSession) NextMonth() {
	s.shiftMonth(func(m domain.YearMonth) domain.YearMonth { return m.Next() })
}

// PreviousMonth shifts the visible month back by one calendar month.
func (s *CalendarSession) PreviousMonth() {
	s.shiftMonth(func(m domain.YearMonth) domain.YearMonth { return m.Prev() })
}

// SetMonth jumps the visible month directly.
func (s *CalendarSession) SetMonth(month domain.YearMonth) {
	s.shiftMonth(func(domain.YearMonth) domain.YearMonth { return month })
}

func (s *CalendarSession) shiftMonth(next func(domain.YearMonth) domain.YearMonth) {
	s.mu.Lock()
	defer s.mu.Unlock()
	month := next(s.state.VisibleMonth)
	if s.state.VisibleMonth == month {
		return
	}
	s.state.VisibleMonth = month
	s.restartMonthWatch()
	s.publishLocked()
}

// CreateEvent delegates to the event service. The published state is not
// touched directly; the store watches re-fire once the mutation lands.
func (s *CalendarSession) CreateEvent(ctx context.Context, event *domain.Event) (int64, error) {
	return s.events.CreateEvent(ctx, event)
}

// DeleteEvent delegates to the event service.
func (s *CalendarSession) DeleteEvent(ctx context.Context, id int64) error {
	return s.events.DeleteEvent(ctx, id)
}

// Snapshot returns a copy of the current state.
func (s *CalendarSession) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// restartDateWatch replaces the events-on-date subscription with one for the
// current selected date. Callers hold s.mu.
func (s *CalendarSession) restartDateWatch() {
	if s.cancelDate != nil {
		s.cancelDate()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelDate = cancel
	s.dateGen++
	gen := s.dateGen

	ch := s.store.WatchEventsOnDate(ctx, s.state.SelectedDate)
	go func() {
		for u := range ch {
			s.applyEvents(gen, u)
		}
		s.maybeClose()
	}()
}

// restartMonthWatch replaces the dates-with-events subscription with one for
// the current visible month. Callers hold s.mu.
func (s *CalendarSession) restartMonthWatch() {
	if s.cancelMonth != nil {
		s.cancelMonth()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelMonth = cancel
	s.monthGen++
	gen := s.monthGen

	month := s.state.VisibleMonth
	ch := s.store.WatchDatesWithEvents(ctx, month.FirstDay(), month.LastDay())
	go func() {
		for u := range ch {
			s.applyDates(gen, u)
		}
		s.maybeClose()
	}()
}

func (s *CalendarSession) applyEvents(gen int, u store.EventsUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.dateGen {
		// A newer selection superseded this watch while the result was in
		// flight; discard it.
		return
	}
	if u.Err != nil {
		s.state.Error = u.Err.Error()
	} else {
		s.state.EventsForSelectedDate = u.Events
		s.state.Error = ""
	}
	s.state.Loading = false
	s.publishLocked()
}

func (s *CalendarSession) applyDates(gen int, u store.DatesUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.monthGen {
		return
	}
	if u.Err != nil {
		s.state.Error = u.Err.Error()
	} else {
		busy := make(map[domain.Date]struct{}, len(u.Dates))
		for _, d := range u.Dates {
			busy[d] = struct{}{}
		}
		s.state.DatesWithEvents = busy
		s.state.Error = ""
	}
	s.publishLocked()
}

// publishLocked pushes a copy of the current state to the conflated output
// channel. Callers hold s.mu.
func (s *CalendarSession) publishLocked() {
	if s.ctx.Err() != nil {
		return
	}
	snapshot := s.state
	for {
		select {
		case s.out <- snapshot:
			return
		default:
			select {
			case <-s.out:
			default:
			}
		}
	}
}

// maybeClose closes the output channel once the session context is done and
// a watch goroutine has finished. It takes s.mu so a close can never
// interleave with a publish in progress.
func (s *CalendarSession) maybeClose() {
	if s.ctx.Err() == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.out) })
}
