package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_RoundTrip(t *testing.T) {
	d := NewDate(2024, time.June, 3)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 3, d.Day())
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2024-06-03", d.String())

	parsed, err := ParseDate("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestDate_AddDaysCrossesMonths(t *testing.T) {
	d := NewDate(2024, time.May, 31)
	assert.Equal(t, NewDate(2024, time.June, 1), d.AddDays(1))
	assert.Equal(t, NewDate(2024, time.May, 1), d.AddDays(-30))
}

func TestDate_EpochEncoding(t *testing.T) {
	assert.Equal(t, Date(0), NewDate(1970, time.January, 1))
	assert.Equal(t, Date(1), NewDate(1970, time.January, 2))
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.June, 3)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-03"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)

	require.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &back))
	require.Error(t, json.Unmarshal([]byte(`42`), &back))
}

func TestTimeOfDay(t *testing.T) {
	v := NewTimeOfDay(9, 15)
	assert.Equal(t, 9, v.Hour())
	assert.Equal(t, 15, v.Minute())
	assert.Equal(t, "09:15", v.String())

	parsed, err := ParseTimeOfDay("09:15")
	require.NoError(t, err)
	assert.Equal(t, v, parsed)

	withSeconds, err := ParseTimeOfDay("23:59:30")
	require.NoError(t, err)
	assert.Equal(t, 30, withSeconds.Second())
	assert.Equal(t, "23:59:30", withSeconds.String())

	_, err = ParseTimeOfDay("25:00")
	require.Error(t, err)
}

func TestTimeOfDay_JSON(t *testing.T) {
	b, err := json.Marshal(NewTimeOfDay(14, 30))
	require.NoError(t, err)
	assert.Equal(t, `"14:30"`, string(b))

	var back TimeOfDay
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, NewTimeOfDay(14, 30), back)
}

func TestYearMonth(t *testing.T) {
	m := YearMonth{Year: 2024, Month: time.June}
	assert.Equal(t, NewDate(2024, time.June, 1), m.FirstDay())
	assert.Equal(t, NewDate(2024, time.June, 30), m.LastDay())
	assert.Equal(t, 30, m.Len())
	assert.True(t, m.Contains(NewDate(2024, time.June, 15)))
	assert.False(t, m.Contains(NewDate(2024, time.July, 1)))
	assert.Equal(t, "2024-06", m.String())
}

func TestYearMonth_NextPrevAcrossYear(t *testing.T) {
	dec := YearMonth{Year: 2024, Month: time.December}
	assert.Equal(t, YearMonth{Year: 2025, Month: time.January}, dec.Next())

	jan := YearMonth{Year: 2024, Month: time.January}
	assert.Equal(t, YearMonth{Year: 2023, Month: time.December}, jan.Prev())
}

func TestYearMonth_LeapFebruary(t *testing.T) {
	assert.Equal(t, 29, YearMonth{Year: 2024, Month: time.February}.Len())
	assert.Equal(t, 28, YearMonth{Year: 2023, Month: time.February}.Len())
}

func TestNewEvent_DefaultColor(t *testing.T) {
	e := NewEvent("Standup", "", NewTimeOfDay(9, 0), NewTimeOfDay(9, 15), NewDate(2024, time.June, 3), 0)
	assert.Equal(t, DefaultColor, e.Color)

	e = NewEvent("Standup", "", NewTimeOfDay(9, 0), NewTimeOfDay(9, 15), NewDate(2024, time.June, 3), 0xFF4ECDC4)
	assert.Equal(t, Color(0xFF4ECDC4), e.Color)
}
