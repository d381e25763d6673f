package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used for every date string
const DateLayout = "2006-01-02"

// MinutesPerDay is the number of minutes in a calendar day
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidClock is returned for time-of-day strings that are not "HH:MM"
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrInvalidDate is returned for date strings that are not "YYYY-MM-DD"
	ErrInvalidDate = errors.New("invalid date")
)

// ClockError reports a malformed time-of-day value
type ClockError struct {
	Value  string
	Reason string
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidClock, e.Value, e.Reason)
}

func (e *ClockError) Unwrap() error {
	return ErrInvalidClock
}

// ParseClock converts "HH:MM" into minutes since midnight.
// "24:00" is accepted as end-of-day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, &ClockError{Value: s, Reason: "expected HH:MM"}
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || len(hh) == 0 || len(hh) > 2 {
		return 0, &ClockError{Value: s, Reason: "hours are not a number"}
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, &ClockError{Value: s, Reason: "minutes are not a two digit number"}
	}

	if minutes < 0 || minutes > 59 {
		return 0, &ClockError{Value: s, Reason: "minutes out of range"}
	}
	if hours < 0 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, &ClockError{Value: s, Reason: "hours out of range"}
	}

	return hours*60 + minutes, nil
}

// ClockMinutes converts "HH:MM" into minutes since midnight without error reporting.
// Inputs are expected to have been validated with ParseClock at the boundary.
func ClockMinutes(s string) int {
	minutes, _ := ParseClock(s)
	return minutes
}

// FormatClock converts minutes since midnight into "HH:MM"
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SpanMinutes returns the length of a start/end wall-clock span.
// An end at or before the start is treated as running past midnight.
func SpanMinutes(start, end string) int {
	s := ClockMinutes(start)
	e := ClockMinutes(end)
	if e <= s {
		e += MinutesPerDay
	}
	return e - s
}

// DurationHours returns the span between two wall-clock times in hours
func DurationHours(start, end string) float64 {
	return float64(SpanMinutes(start, end)) / 60
}

// ParseDate parses a "YYYY-MM-DD" date as UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

func mustDate(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)
	return t
}

// FormatDate formats a time as "YYYY-MM-DD"
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a date string by n calendar days
func AddDays(date string, n int) string {
	return FormatDate(mustDate(date).AddDate(0, 0, n))
}

// WeekdayOf returns the weekday of a date string
func WeekdayOf(date string) time.Weekday {
	return mustDate(date).Weekday()
}

// WeekStart returns the Monday of the week containing date
func WeekStart(date string) string {
	t := mustDate(date)
	// Monday = 0 offset, Sunday = 6
	offset := (int(t.Weekday()) + 6) % 7
	return FormatDate(t.AddDate(0, 0, -offset))
}

// DaysBetween returns the number of calendar days from a to b (negative if b is before a)
func DaysBetween(a, b string) int {
	return int(mustDate(b).Sub(mustDate(a)).Hours() / 24)
}

// DateRange returns every date from `from` to `to` inclusive
func DateRange(from, to string) []string {
	n := DaysBetween(from, to)
	if n < 0 {
		return []string{}
	}
	dates := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		dates = append(dates, AddDays(from, i))
	}
	return dates
}

// IsWeekend returns true for Saturdays and Sundays
func IsWeekend(date string) bool {
	weekday := WeekdayOf(date)
	return weekday == time.Saturday || weekday == time.Sunday
}
