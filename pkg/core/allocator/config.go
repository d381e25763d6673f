package allocator

import (
	"time"

	"github.com/jakechorley/store-rota/pkg/core/model"
)

// PriorityWeights are the terms of the daily employee priority score
type PriorityWeights struct {
	// Base is the starting score
	Base float64

	// RemainingHours is multiplied by remainingHours/targetHours
	RemainingHours float64

	// UnderHalfTarget applies when assigned/target < 0.5, UnderTarget when < 0.8
	UnderHalfTarget float64
	UnderTarget     float64

	// OverTargetPenalty applies when assigned/target > 1.0
	OverTargetPenalty float64

	// Rested applies when the employee has not worked in the current run of days,
	// LightRun when the run is at most 2 days
	Rested   float64
	LightRun float64

	// HeavyRunPenalty applies from 5 days worked, MaxRunPenalty from 6 (replacing it)
	HeavyRunPenalty float64
	MaxRunPenalty   float64

	// TeamBand caps the bonus/penalty relative to the team's average assigned hours.
	// Deviations within TeamBandRatio scale linearly up to the cap.
	TeamBand      float64
	TeamBandRatio float64
}

// SelectionWeights are the terms of the per-slot selection score
type SelectionWeights struct {
	// CoversShift applies when remaining hours cover the whole slot,
	// HasHours when some remain and NoHoursPenalty when none do
	CoversShift    float64
	HasHours       float64
	NoHoursPenalty float64

	// SixthDayPenalty and LegalRiskPenalty both apply from 6 days worked
	SixthDayPenalty  float64
	LegalRiskPenalty float64

	// FourthDayPenalty applies from 4 days worked
	FourthDayPenalty float64

	// Rested applies when the employee has not worked in the current run of days
	Rested float64

	// UnderHalfTarget and UnderTarget mirror the priority bonuses
	UnderHalfTarget float64
	UnderTarget     float64
}

// StaffingConstraint fixes the number of shifts for a store on a weekday
type StaffingConstraint struct {
	StoreID   string
	Weekday   time.Weekday
	MinShifts int
	MaxShifts int
}

// EmployeePreference holds the scheduling wishes of one employee
type EmployeePreference struct {
	EmployeeID string

	PreferredDays   []time.Weekday
	UnavailableDays []time.Weekday

	// UnavailableDates are specific dates (YYYY-MM-DD) the employee cannot work
	UnavailableDates []string

	PreferredKinds []model.ShiftKind
}

// Config holds every tunable number of the rotation engine
type Config struct {
	// TargetUtilization is the share of contract hours each employee should converge to
	TargetUtilization float64

	// OpeningShiftFraction is where the opening shift ends in a two-shift day,
	// ClosingShiftStartFraction is where the closing shift starts (fractions of the open window)
	OpeningShiftFraction      float64
	ClosingShiftStartFraction float64

	// OverlapFraction is the overlap between consecutive shifts on days with three or more,
	// ShiftExtensionMinutes is added to each such shift's even share of the day
	OverlapFraction       float64
	ShiftExtensionMinutes int

	// MinRemainingHours is the remaining-hours threshold that makes an employee count
	// toward the optimal number of shifts
	MinRemainingHours float64

	// LongShiftMinutes is the length above which a slot carries DefaultBreakMinutes
	LongShiftMinutes    int
	DefaultBreakMinutes int

	// InitialPriority seeds every tracker before the first daily recompute
	InitialPriority float64

	Priority  PriorityWeights
	Selection SelectionWeights

	StaffingConstraints []StaffingConstraint
	Preferences         []EmployeePreference
}

// DefaultConfig returns the standard tuning
func DefaultConfig() Config {
	return Config{
		TargetUtilization:         0.97,
		OpeningShiftFraction:      0.65,
		ClosingShiftStartFraction: 0.45,
		OverlapFraction:           0.2,
		ShiftExtensionMinutes:     60,
		MinRemainingHours:         4,
		LongShiftMinutes:          6 * 60,
		DefaultBreakMinutes:       30,
		InitialPriority:           100,
		Priority: PriorityWeights{
			Base:              50,
			RemainingHours:    40,
			UnderHalfTarget:   30,
			UnderTarget:       15,
			OverTargetPenalty: 25,
			Rested:            25,
			LightRun:          10,
			HeavyRunPenalty:   30,
			MaxRunPenalty:     60,
			TeamBand:          20,
			TeamBandRatio:     0.2,
		},
		Selection: SelectionWeights{
			CoversShift:      30,
			HasHours:         10,
			NoHoursPenalty:   20,
			SixthDayPenalty:  50,
			LegalRiskPenalty: 100,
			FourthDayPenalty: 20,
			Rested:           15,
			UnderHalfTarget:  25,
			UnderTarget:      15,
		},
	}
}

// staffingConstraintFor returns the configured constraint for a store on a weekday
func (c *Config) staffingConstraintFor(storeID string, weekday time.Weekday) (StaffingConstraint, bool) {
	for _, constraint := range c.StaffingConstraints {
		if constraint.StoreID == storeID && constraint.Weekday == weekday {
			return constraint, true
		}
	}
	return StaffingConstraint{}, false
}
