// Package grid computes the 42-cell month grid a calendar view renders.
// Everything here is a pure function of its inputs; "today" is always passed
// in by the caller.
package grid

import (
	"time"

	"pocketcalendar/internal/domain"
)

// Cells is the fixed size of a month grid: 6 rows of 7 columns. Every month
// fits, whatever weekday it starts on.
const Cells = 42

// Days returns the 42 consecutive dates to render for the given month. The
// sequence starts on the last firstDay on or before the first of the month,
// so leading cells belong to the previous month and trailing cells to the
// next one.
func Days(month domain.YearMonth, firstDay time.Weekday) []domain.Date {
	first := month.FirstDay()
	offset := (int(first.Weekday()) - int(firstDay) + 7) % 7
	start := first.AddDays(-offset)

	days := make([]domain.Date, Cells)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// DaysOfWeek returns the seven weekdays in display order, starting at firstDay.
func DaysOfWeek(firstDay time.Weekday) []time.Weekday {
	days := make([]time.Weekday, 7)
	for i := range days {
		days[i] = time.Weekday((int(firstDay) + i) % 7)
	}
	return days
}

// IsInMonth reports whether the date belongs to the given month.
func IsInMonth(date domain.Date, month domain.YearMonth) bool {
	return month.Contains(date)
}

// Build produces the 42 grid cells for a month with all display flags
// resolved. hasEvents may be nil when no event information is available.
func Build(month domain.YearMonth, firstDay time.Weekday, today, selected domain.Date, hasEvents map[domain.Date]struct{}) []domain.GridCell {
	days := Days(month, firstDay)
	cells := make([]domain.GridCell, len(days))
	for i, d := range days {
		_, busy := hasEvents[d]
		cells[i] = domain.GridCell{
			Date:      d,
			InMonth:   month.Contains(d),
			Today:     d == today,
			Selected:  d == selected,
			HasEvents: busy,
		}
	}
	return cells
}
