package gridvalidator

import (
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

// IssueType identifies what a validation issue is about
type IssueType string

const (
	IssueNoShifts          IssueType = "no_shifts"
	IssueNoOpeningCoverage IssueType = "no_opening_coverage"
	IssueNoClosingCoverage IssueType = "no_closing_coverage"
	IssueCoverageGap       IssueType = "coverage_gap"
	IssueUnderstaffed      IssueType = "understaffed"
	IssueOverstaffed       IssueType = "overstaffed"
	IssueInvalidShift      IssueType = "invalid_shift"
	IssueWorkloadImbalance IssueType = "workload_imbalance"
)

// Severity of an issue. Critical issues make the grid invalid.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is a single finding of the grid validation
type Issue struct {
	Type     IssueType
	Severity Severity
	Message  string

	// Date is empty for issues spanning the whole week
	Date string

	// StartTime and EndTime bound the issue when it concerns a time range
	StartTime string
	EndTime   string

	ShiftIDs []string
}

// CoverageGap is a maximal run of minutes inside the open window with nobody scheduled
type CoverageGap struct {
	Start           string
	End             string
	StartMinutes    int
	EndMinutes      int
	DurationMinutes int
	Severity        Severity
}

// CoverageAnalysis describes how much of the open window is covered by at least one shift
type CoverageAnalysis struct {
	TotalMinutes       int
	CoveredMinutes     int
	CoveragePercentage float64
	Gaps               []CoverageGap
	HasOpeningCoverage bool
	HasClosingCoverage bool
}

// StaffingPeriod is a run of hourly buckets with the same staffing problem
type StaffingPeriod struct {
	Start    string
	End      string
	Staff    int
	Required int
	Severity Severity
}

// HourlyStaff is the staff count of one hourly bucket of the open window
type HourlyStaff struct {
	Start       string
	End         string
	Staff       int
	EmployeeIDs []string
}

// StaffingAnalysis describes staff counts across the open window
type StaffingAnalysis struct {
	RecommendedStaff int

	// MaximumStaff is the summed role maximum (0 when unbounded)
	MaximumStaff int

	Hourly              []HourlyStaff
	UnderstaffedPeriods []StaffingPeriod
	OverstaffedPeriods  []StaffingPeriod

	PeakStaff    int
	MinStaff     int
	AverageStaff float64
}

// DayResult is the validation of one day of the week
type DayResult struct {
	Date   string
	Open   bool
	Window storehours.Window

	ShiftCount int
	IsValid    bool

	// Coverage and Staffing are nil on closed days and days without shifts
	Coverage *CoverageAnalysis
	Staffing *StaffingAnalysis

	Issues []Issue
}

// EmployeeWorkload is one employee's hours across the week
type EmployeeWorkload struct {
	EmployeeID   string
	EmployeeName string
	TotalHours   float64
	DaysWorked   int
}

// WorkloadDistribution summarises how evenly hours are spread across employees who worked
type WorkloadDistribution struct {
	Employees []EmployeeWorkload

	MaxHours    float64
	MinHours    float64
	MeanHours   float64
	StdDevHours float64

	IsEquitable   bool
	InequityScore float64
}

// Result is the scored validation of a store's week
type Result struct {
	StoreID   string
	WeekStart string

	IsValid bool
	Score   int

	Days []DayResult

	// Issues are the week-level issues (per-day issues live in Days)
	Issues []Issue

	Workload WorkloadDistribution

	CriticalCount int
	WarningCount  int
	InfoCount     int
}

// AllIssues returns the day issues followed by the week-level issues
func (r *Result) AllIssues() []Issue {
	issues := make([]Issue, 0)
	for _, day := range r.Days {
		issues = append(issues, day.Issues...)
	}
	return append(issues, r.Issues...)
}

// Input is a finalized week to validate
type Input struct {
	Store     *model.Store
	Shifts    []model.Shift
	Employees []model.Employee

	// WeekStart is the Monday of the week
	WeekStart string
}

// Settings holds the thresholds of the grid validation
type Settings struct {
	Enabled bool

	// MinimumStaffPerHour applies when the store has no role requirements for the day
	MinimumStaffPerHour int

	// MinimumOverlapMinutes is the longest uncovered run tolerated by the continuous coverage check
	MinimumOverlapMinutes int

	// AllowSinglePersonCoverage false raises the recommended staff to at least 2
	AllowSinglePersonCoverage bool

	// EquityThreshold is the largest standard deviation, as a share of the mean, that is equitable
	EquityThreshold float64

	// CriticalGapMinutes is the gap length above which a gap is critical
	CriticalGapMinutes int

	// BoundaryToleranceMinutes is the slack allowed around opening and closing time
	BoundaryToleranceMinutes int

	// GapAttributionMinutes is how close a shift boundary must be to a gap to be blamed for it
	GapAttributionMinutes int

	// RecurringUnderstaffingDays is the number of understaffed days that makes understaffing recurring
	RecurringUnderstaffingDays int

	// LongShiftMinutes and MinBreakMinutes drive the informational break check
	LongShiftMinutes int
	MinBreakMinutes  int
}

// DefaultSettings returns the standard thresholds
func DefaultSettings() Settings {
	return Settings{
		Enabled:                    true,
		MinimumStaffPerHour:        1,
		MinimumOverlapMinutes:      0,
		AllowSinglePersonCoverage:  true,
		EquityThreshold:            0.2,
		CriticalGapMinutes:         60,
		BoundaryToleranceMinutes:   15,
		GapAttributionMinutes:      30,
		RecurringUnderstaffingDays: 3,
		LongShiftMinutes:           6 * 60,
		MinBreakMinutes:            30,
	}
}
