package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"pocketcalendar/internal/domain"
	"pocketcalendar/internal/grid"
	"pocketcalendar/internal/ical"
	"pocketcalendar/internal/locale"
	"pocketcalendar/internal/store"
)

type calendarService struct {
	store          *store.Store
	locales        *locale.Provider
	clock          Clock
	contextTimeout time.Duration
}

// NewCalendarService returns the domain.CalendarService that assembles month
// views and calendar exports.
func NewCalendarService(st *store.Store, locales *locale.Provider, clock Clock, timeout time.Duration) domain.CalendarService {
	return &calendarService{
		store:          st,
		locales:        locales,
		clock:          clock,
		contextTimeout: timeout,
	}
}

func (s *calendarService) MonthView(ctx context.Context, month domain.YearMonth, lang string, selected domain.Date) (*domain.MonthView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	dates, err := s.store.DatesWithEvents(ctx, month.FirstDay(), month.LastDay())
	if err != nil {
		return nil, fmt.Errorf("dates with events: %w", err)
	}
	busy := make(map[domain.Date]struct{}, len(dates))
	for _, d := range dates {
		busy[d] = struct{}{}
	}

	firstDay := locale.FirstDayOfWeek(lang)
	today := domain.DateOf(s.clock.Now())

	return &domain.MonthView{
		Month:           month,
		WeekdayLabels:   s.locales.WeekdayLabels(lang, firstDay),
		Cells:           grid.Build(month, firstDay, today, selected, busy),
		DatesWithEvents: dates,
	}, nil
}

func (s *calendarService) ExportRange(ctx context.Context, w io.Writer, from, to domain.Date) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if to < from {
		return fmt.Errorf("%w: range end before range start", domain.ErrInvalidInput)
	}
	events, err := s.store.EventsInRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("export range: %w", err)
	}
	return ical.Encode(w, events, s.clock.Now())
}
