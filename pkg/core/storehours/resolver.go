package storehours

import (
	"github.com/jakechorley/store-rota/pkg/core/model"
)

// Window is the effective open/close window of a store on a date
type Window struct {
	Open  string
	Close string

	OpenMinutes  int
	CloseMinutes int
}

// Minutes returns the length of the window in minutes
func (w Window) Minutes() int {
	return w.CloseMinutes - w.OpenMinutes
}

// Hours returns the length of the window in hours
func (w Window) Hours() float64 {
	return float64(w.Minutes()) / 60
}

// Overlap returns the minutes of [start, end) that fall inside the window
func (w Window) Overlap(start, end int) int {
	lo := max(start, w.OpenMinutes)
	hi := min(end, w.CloseMinutes)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func newWindow(hours model.DayHours) (Window, bool) {
	open := model.ClockMinutes(hours.Open)
	closeMin := model.ClockMinutes(hours.Close)
	if closeMin <= open {
		return Window{}, false
	}
	return Window{
		Open:         hours.Open,
		Close:        hours.Close,
		OpenMinutes:  open,
		CloseMinutes: closeMin,
	}, true
}

// Resolve returns the effective hours of the store on date.
// The second return value is false when the store is closed.
//
// Precedence:
//  1. A closure entry for the date: full-day closes the store, custom hours replace the day
//  2. An active weekly schedule whose week start matches the week containing date
//  3. The store's standard hours for the weekday
func Resolve(store *model.Store, date string) (Window, bool) {
	if store == nil {
		return Window{}, false
	}

	// 1. Closures
	if closure, ok := FindClosure(store, date); ok {
		if closure.FullDay {
			return Window{}, false
		}
		if closure.HasCustomHours() {
			return newWindow(model.DayHours{Open: closure.Open, Close: closure.Close})
		}
	}

	weekday := model.WeekdayOf(date)

	// 2. Weekly schedule overrides
	weekStart := model.WeekStart(date)
	for _, schedule := range store.WeeklySchedules {
		if !schedule.Active || schedule.WeekStart != weekStart {
			continue
		}
		hours, ok := schedule.Hours[weekday]
		if !ok {
			return Window{}, false
		}
		return newWindow(hours)
	}

	// 3. Standard hours
	hours, ok := store.OpeningHours[weekday]
	if !ok {
		return Window{}, false
	}
	return newWindow(hours)
}

// FindClosure returns the closure entry for date, if any
func FindClosure(store *model.Store, date string) (model.ClosureDay, bool) {
	for _, closure := range store.ClosureDays {
		if closure.Date == date {
			return closure, true
		}
	}
	return model.ClosureDay{}, false
}

// IsFullyClosed returns true when a full-day closure covers date
func IsFullyClosed(store *model.Store, date string) bool {
	closure, ok := FindClosure(store, date)
	return ok && closure.FullDay
}

// Day pairs a date with its resolved window
type Day struct {
	Date   string
	Window Window
	Open   bool
}

// ResolveWeek resolves the seven days starting at weekStart
func ResolveWeek(store *model.Store, weekStart string) []Day {
	days := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		date := model.AddDays(weekStart, i)
		window, open := Resolve(store, date)
		days = append(days, Day{Date: date, Window: window, Open: open})
	}
	return days
}
