package domain

import (
	"context"
	"io"
)

// GridCell is one of the 42 positions of a rendered month view. Every cell is
// bound to a concrete date; InMonth distinguishes padding from adjacent months.
// swagger:model GridCell
type GridCell struct {
	Date      Date `json:"date"`
	InMonth   bool `json:"in_month"`
	Today     bool `json:"today"`
	Selected  bool `json:"selected"`
	HasEvents bool `json:"has_events"`
}

// MonthView is the snapshot needed to render a month grid: the 42 cells, the
// localized weekday header in display order, and the dates in the month that
// carry at least one event.
// swagger:model MonthView
type MonthView struct {
	Month           YearMonth  `json:"month"`
	WeekdayLabels   []string   `json:"weekday_labels"`
	Cells           []GridCell `json:"cells"`
	DatesWithEvents []Date     `json:"dates_with_events"`
}

// CalendarService assembles read-only calendar views on top of the event store.
type CalendarService interface {
	// MonthView builds the grid for the given month. lang selects the weekday
	// labels and the first day of the week; selected marks the selected cell.
	MonthView(ctx context.Context, month YearMonth, lang string, selected Date) (*MonthView, error)
	// ExportRange writes the events with from <= date <= to as an iCalendar
	// stream.
	ExportRange(ctx context.Context, w io.Writer, from, to Date) error
}
