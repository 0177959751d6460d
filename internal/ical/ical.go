// Package ical serializes stored events to an iCalendar stream so the
// calendar can be imported elsewhere.
package ical

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"pocketcalendar/internal/domain"
)

const (
	prodID    = "-//pocketcalendar//EN"
	calDomain = "pocketcalendar.local"
)

// stubCalendar is emitted when there are no events; the encoder rejects a
// component-less VCALENDAR but clients still expect a valid feed.
const stubCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nEND:VCALENDAR\r\n"

// Encode writes the events as a VCALENDAR to w. Event times are day-local;
// they are stamped as UTC instants at the event's date plus time of day.
func Encode(w io.Writer, events []*domain.Event, now time.Time) error {
	if len(events) == 0 {
		if _, err := io.WriteString(w, stubCalendar); err != nil {
			return fmt.Errorf("write empty calendar: %w", err)
		}
		return nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	for _, e := range events {
		cal.Children = append(cal.Children, newEvent(e, now).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func newEvent(e *domain.Event, now time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("%d@%s", e.ID, calDomain))
	event.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != "" {
		event.Props.SetText(ical.PropDescription, e.Description)
	}

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())
	event.Props.Set(stamp)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDateTime(at(e.Date, e.StartTime))
	event.Props.Set(start)

	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDateTime(at(e.Date, e.EndTime))
	event.Props.Set(end)

	return event
}

func at(d domain.Date, t domain.TimeOfDay) time.Time {
	return d.Time().Add(time.Duration(t) * time.Millisecond)
}
