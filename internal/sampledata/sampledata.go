// Package sampledata seeds a handful of demo events so a fresh install has
// something to show. Seeding is opt-in via configuration and skipped when the
// store already holds events.
package sampledata

import (
	"context"
	"fmt"
	"log/slog"

	"pocketcalendar/internal/domain"
	"pocketcalendar/internal/services"
	"pocketcalendar/internal/store"
)

type sample struct {
	title       string
	description string
	start       domain.TimeOfDay
	end         domain.TimeOfDay
	dayOffset   int
	color       domain.Color
}

var samples = []sample{
	{"Design new UX flow for Michael", "Start from screen 16", domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(13, 0), 0, 0xFF6A5AE0},
	{"Brainstorm with the team", "Define the problem or question that...", domain.NewTimeOfDay(14, 0), domain.NewTimeOfDay(15, 0), 0, 0xFF4ECDC4},
	{"Workout with Ella", "We will do the legs and back workout", domain.NewTimeOfDay(19, 0), domain.NewTimeOfDay(20, 0), 0, 0xFFFF6B6B},
	{"Team Meeting", "Monthly sync meeting", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(10, 0), 2, 0xFFFFD93D},
	{"Lunch with Client", "Discuss project requirements", domain.NewTimeOfDay(12, 30), domain.NewTimeOfDay(14, 0), 5, 0xFF95E1D3},
	{"Code Review", "Review pending PRs", domain.NewTimeOfDay(15, 0), domain.NewTimeOfDay(16, 30), 8, 0xFF6A5AE0},
}

// Seed inserts the demo events relative to the clock's current day. It is a
// no-op when any events already exist in the seeded window.
func Seed(ctx context.Context, st *store.Store, clock services.Clock, logger *slog.Logger) error {
	today := domain.DateOf(clock.Now())

	existing, err := st.EventsInRange(ctx, today, today.AddDays(8))
	if err != nil {
		return fmt.Errorf("sample data: check existing events: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("sample data: events already present, skipping seed")
		return nil
	}

	for _, s := range samples {
		event := domain.NewEvent(s.title, s.description, s.start, s.end, today.AddDays(s.dayOffset), s.color)
		if _, err := st.Insert(ctx, event); err != nil {
			return fmt.Errorf("sample data: insert %q: %w", s.title, err)
		}
	}
	logger.Info("sample data seeded", "events", len(samples), "from", today.String())
	return nil
}
