package allocator

import (
	"time"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

// EmployeeTracker tracks one employee's progress through the rota
type EmployeeTracker struct {
	Employee model.Employee

	// TargetHours is the weekly convergence goal (contract hours x target utilization)
	TargetHours float64

	// AssignedHours counts the gross length of every shift assigned in this run
	AssignedHours float64

	// RemainingHours is TargetHours minus AssignedHours, floored at 0
	RemainingHours float64

	// DaysWorked is the current run of consecutive working days.
	// Reset on any day the employee does not work and on store-closed days.
	DaysWorked int

	// LastWorkDate is the last date the employee worked (empty if none)
	LastWorkDate string

	// WeekendDaysWorked counts Saturdays and Sundays worked in this run
	WeekendDaysWorked int

	// Priority is recomputed at the start of every open day
	Priority float64
}

// AssignedRatio returns assigned/target hours (0 when there is no target)
func (t *EmployeeTracker) AssignedRatio() float64 {
	if t.TargetHours <= 0 {
		return 0
	}
	return t.AssignedHours / t.TargetHours
}

// RotaState is the state carried from one day to the next.
// Trackers are held in a slice ordered by employee ID with an ID to index map.
type RotaState struct {
	StoreID string
	Store   *model.Store

	Trackers []EmployeeTracker

	// Shifts are the compliance context: history, existing assignments and
	// everything committed so far
	Shifts []model.Shift

	// Existing are the assignments already made inside the requested range
	Existing []model.ShiftAssignment

	Preferences map[string]EmployeePreference

	index map[string]int
}

// NewRotaState builds a state from trackers (indexed by employee ID) and preferences
func NewRotaState(store *model.Store, trackers []EmployeeTracker, preferences []EmployeePreference) RotaState {
	state := RotaState{
		Store:       store,
		Trackers:    trackers,
		Shifts:      []model.Shift{},
		Preferences: make(map[string]EmployeePreference, len(preferences)),
		index:       make(map[string]int, len(trackers)),
	}
	if store != nil {
		state.StoreID = store.ID
	}
	for i := range trackers {
		state.index[trackers[i].Employee.ID] = i
	}
	for _, pref := range preferences {
		state.Preferences[pref.EmployeeID] = pref
	}
	return state
}

// Tracker returns the tracker for an employee, or nil if the employee is not part of the rota
func (s *RotaState) Tracker(employeeID string) *EmployeeTracker {
	i, ok := s.index[employeeID]
	if !ok {
		return nil
	}
	return &s.Trackers[i]
}

// Preference returns the employee's preferences, if any
func (s *RotaState) Preference(employeeID string) (EmployeePreference, bool) {
	pref, ok := s.Preferences[employeeID]
	return pref, ok
}

// TeamAverageAssignedHours returns the mean assigned hours across all trackers
func (s *RotaState) TeamAverageAssignedHours() float64 {
	if len(s.Trackers) == 0 {
		return 0
	}
	total := 0.0
	for i := range s.Trackers {
		total += s.Trackers[i].AssignedHours
	}
	return total / float64(len(s.Trackers))
}

// clone copies the mutable parts of the state so a day can be planned without
// touching the previous day's state
func (s RotaState) clone() RotaState {
	next := s
	next.Trackers = append([]EmployeeTracker(nil), s.Trackers...)
	next.Shifts = append([]model.Shift(nil), s.Shifts...)
	return next
}

// Slot is a shift window to be filled on a day
type Slot struct {
	Date    string
	Weekday time.Weekday
	Kind    model.ShiftKind

	StartTime    string
	EndTime      string
	StartMinutes int
	EndMinutes   int

	ShiftTypeID  string
	BreakMinutes int
}

// Hours returns the gross length of the slot
func (s *Slot) Hours() float64 {
	return float64(s.EndMinutes-s.StartMinutes) / 60
}

// DayPlan is the outcome of planning a single day
type DayPlan struct {
	Date   string
	Open   bool
	Window storehours.Window

	MinShifts     int
	MaxShifts     int
	OptimalShifts int

	Slots []Slot

	// Assignments are the new assignments made on this day
	Assignments []model.ShiftAssignment

	// ExistingCount is the number of assignments that already existed for the day
	ExistingCount int

	UnfilledSlots int

	// Shortfall is the number of shifts still missing to reach MinShifts after the emergency fill
	Shortfall int
}

// AssignRequest is the input of a single engine run
type AssignRequest struct {
	StoreID    string
	Employees  []model.Employee
	ShiftTypes []model.ShiftType

	// StartDate and EndDate bound the run (inclusive, YYYY-MM-DD)
	StartDate string
	EndDate   string

	// ExistingAssignments are assignments already made in the range. They are kept,
	// count toward the day's shifts and are not returned again.
	ExistingAssignments []model.ShiftAssignment

	// History are persisted shifts used only as compliance context (e.g. the previous week)
	History []model.Shift
}

// WeeklyAnalysis summarises supply and demand of hours over the run
type WeeklyAnalysis struct {
	OpenDays            int
	TotalOpenHours      float64
	TotalContractHours  float64
	TargetHours         float64
	CoverageRatio       float64
	ActiveEmployeeCount int
}

// Diagnostics are computed from the final assignment list
type Diagnostics struct {
	UnderTargetEmployees []string
	OverTargetEmployees  []string
	UncoveredDays        []string
	EmergencyAssignments int
	UnfilledSlots        int
}

// AllocationOutcome represents the result of an engine run
type AllocationOutcome struct {
	// Assignments are the new assignments, in date then slot order
	Assignments []model.ShiftAssignment

	Days        []DayPlan
	Analysis    WeeklyAnalysis
	Diagnostics Diagnostics

	// FinalState is the state after the last day
	FinalState RotaState
}
