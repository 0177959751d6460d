package domain

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Date is a calendar day encoded as days since the Unix epoch. The encoding
// is timezone-free, compares and sorts as a plain integer, and is what the
// events table stores in its date column.
type Date int64

// NewDate builds the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// Midnight UTC divides evenly, so the division is exact.
	return Date(t.Unix() / secondsPerDay)
}

// DateOf returns the Date containing t, in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d Date) Year() int             { return d.Time().Year() }
func (d Date) Month() time.Month     { return d.Time().Month() }
func (d Date) Day() int              { return d.Time().Day() }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// AddDays returns the date n days later; n may be negative.
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// YearMonth returns the month containing the date.
func (d Date) YearMonth() YearMonth {
	t := d.Time()
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("parse date: expected quoted string, got %s", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time encoded as milliseconds since midnight.
type TimeOfDay int64

// NewTimeOfDay builds a TimeOfDay from hours and minutes.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay((int64(hour)*3600 + int64(minute)*60) * 1000)
}

// ParseTimeOfDay parses "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	return TimeOfDay(int64(t.Hour())*3600000 + int64(t.Minute())*60000 + int64(t.Second())*1000), nil
}

func (t TimeOfDay) Hour() int   { return int(t / 3600000) }
func (t TimeOfDay) Minute() int { return int(t/60000) % 60 }
func (t TimeOfDay) Second() int { return int(t/1000) % 60 }

// String renders "15:04", or "15:04:05" when the time has seconds.
func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("parse time: expected quoted string, got %s", b)
	}
	parsed, err := ParseTimeOfDay(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// FirstDay returns the first day of the month.
func (m YearMonth) FirstDay() Date {
	return NewDate(m.Year, m.Month, 1)
}

// LastDay returns the last day of the month.
func (m YearMonth) LastDay() Date {
	return m.Next().FirstDay().AddDays(-1)
}

// Len returns the number of days in the month.
func (m YearMonth) Len() int {
	return int(m.LastDay() - m.FirstDay() + 1)
}

// Contains reports whether d falls within the month.
func (m YearMonth) Contains(d Date) bool {
	return d >= m.FirstDay() && d <= m.LastDay()
}

// Next returns the following month.
func (m YearMonth) Next() YearMonth {
	if m.Month == time.December {
		return YearMonth{Year: m.Year + 1, Month: time.January}
	}
	return YearMonth{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the preceding month.
func (m YearMonth) Prev() YearMonth {
	if m.Month == time.January {
		return YearMonth{Year: m.Year - 1, Month: time.December}
	}
	return YearMonth{Year: m.Year, Month: m.Month - 1}
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
