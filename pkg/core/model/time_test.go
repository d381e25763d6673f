package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock_Valid(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"09:30": 570,
		"9:05":  545,
		"19:00": 1140,
		"24:00": 1440,
	}

	for input, expected := range cases {
		minutes, err := ParseClock(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, minutes, input)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, input := range []string{"", "9", "25:00", "24:30", "10:60", "ab:cd", "10:5", "123:00"} {
		_, err := ParseClock(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrInvalidClock), input)

		var clockErr *ClockError
		assert.True(t, errors.As(err, &clockErr), input)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "15:30", FormatClock(930))
	assert.Equal(t, "24:00", FormatClock(1440))
}

func TestSpanMinutes_Overnight(t *testing.T) {
	assert.Equal(t, 360, SpanMinutes("08:00", "14:00"))
	assert.Equal(t, 480, SpanMinutes("22:00", "06:00"))
	assert.InDelta(t, 6.5, DurationHours("09:00", "15:30"), 0.0001)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("2025-13-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestWeekStart(t *testing.T) {
	// 2025-01-06 is a Monday
	assert.Equal(t, "2025-01-06", WeekStart("2025-01-06"))
	assert.Equal(t, "2025-01-06", WeekStart("2025-01-09"))
	assert.Equal(t, "2025-01-06", WeekStart("2025-01-12")) // Sunday belongs to the week before
	assert.Equal(t, "2025-01-13", WeekStart("2025-01-13"))
}

func TestDateHelpers(t *testing.T) {
	assert.Equal(t, "2025-01-01", AddDays("2024-12-31", 1))
	assert.Equal(t, time.Sunday, WeekdayOf("2025-01-12"))
	assert.Equal(t, 6, DaysBetween("2025-01-06", "2025-01-12"))
	assert.Equal(t, -1, DaysBetween("2025-01-06", "2025-01-05"))
	assert.Equal(t, []string{"2025-01-06", "2025-01-07", "2025-01-08"}, DateRange("2025-01-06", "2025-01-08"))
	assert.Empty(t, DateRange("2025-01-08", "2025-01-06"))
	assert.True(t, IsWeekend("2025-01-11"))
	assert.False(t, IsWeekend("2025-01-10"))
}

func TestStoreValidate(t *testing.T) {
	store := &Store{
		ID: "s1",
		OpeningHours: map[time.Weekday]DayHours{
			time.Monday: {Open: "09:00", Close: "19:00"},
		},
		ClosureDays: []ClosureDay{{Date: "2025-12-25", FullDay: true}},
	}
	assert.NoError(t, store.Validate())

	store.OpeningHours[time.Tuesday] = DayHours{Open: "19:00", Close: "09:00"}
	assert.Error(t, store.Validate())

	delete(store.OpeningHours, time.Tuesday)
	store.ClosureDays = append(store.ClosureDays, ClosureDay{Date: "2025-12-26", Open: "10:00", Close: "1x:00"})
	err := store.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidClock))
}

func TestValidateShiftTimes(t *testing.T) {
	valid := Shift{ID: "a", Date: "2025-01-06", StartTime: "09:00", EndTime: "17:00", BreakDuration: 30}
	assert.NoError(t, ValidateShiftTimes(valid))

	bad := valid
	bad.StartTime = "9am"
	assert.ErrorIs(t, ValidateShiftTimes(bad), ErrInvalidClock)

	bad = valid
	bad.Date = "06/01/2025"
	assert.ErrorIs(t, ValidateShiftTimes(bad), ErrInvalidDate)

	bad = valid
	bad.BreakDuration = -5
	assert.Error(t, ValidateShiftTimes(bad))
}

func TestAssignmentToShift(t *testing.T) {
	a := ShiftAssignment{EmployeeID: "e1", StoreID: "s1", Date: "2025-01-06", StartTime: "09:00", EndTime: "17:00", BreakDuration: 30, ActualHours: 7.5}
	s := a.ToShift("id-1")
	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, StatusDraft, s.Status)
	assert.Equal(t, 7.5, s.ActualHours)
	assert.InDelta(t, 7.5, ActualHoursFor("09:00", "17:00", 30), 0.0001)
}
