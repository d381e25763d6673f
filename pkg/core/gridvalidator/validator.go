package gridvalidator

import (
	"fmt"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

// Score penalties and bonuses
const (
	penaltyInvalidDay      = 15
	penaltyDayWithoutShift = 20
	penaltyCritical        = 10
	penaltyWarning         = 3
	bonusHighCoverage      = 5
	bonusGoodCoverage      = 3
	highCoveragePercent    = 95
	goodCoveragePercent    = 90
	minimumValidScore      = 80
)

// Validate audits a finalized week of shifts for a store.
// The result is fully determined by its inputs.
func Validate(in Input, settings Settings) *Result {
	result := &Result{
		WeekStart: in.WeekStart,
		Days:      []DayResult{},
		Issues:    []Issue{},
		Workload:  WorkloadDistribution{Employees: []EmployeeWorkload{}, IsEquitable: true},
	}
	if in.Store != nil {
		result.StoreID = in.Store.ID
	}

	// Validation switched off: trivially valid
	if !settings.Enabled {
		result.IsValid = true
		result.Score = 100
		return result
	}

	names := make(map[string]string, len(in.Employees))
	for _, employee := range in.Employees {
		names[employee.ID] = employee.FullName()
	}

	hours := make(map[string]float64)
	daysWorked := make(map[string]int)

	invalidDays, daysWithoutShifts, understaffedDays := 0, 0, 0
	coverageTotal, coverageDays := 0.0, 0

	// Step 1: Validate every day of the week
	for i := 0; i < 7; i++ {
		date := model.AddDays(in.WeekStart, i)
		dayShifts := shiftsOn(in.Shifts, result.StoreID, date)

		day := validateDay(in.Store, date, dayShifts, settings)

		if !day.IsValid {
			invalidDays++
		}
		if day.Open && day.ShiftCount == 0 {
			daysWithoutShifts++
		}
		if day.Staffing != nil && len(day.Staffing.UnderstaffedPeriods) > 0 {
			understaffedDays++
		}
		if day.Coverage != nil {
			coverageTotal += day.Coverage.CoveragePercentage
			coverageDays++
		}

		// Hours worked inside the open window count toward the workload
		if day.Open {
			for _, s := range dayShifts {
				if iv, ok := clip(shiftInterval(s), day.Window); ok {
					hours[s.EmployeeID] += float64(iv.end-iv.start) / 60
				}
			}
			for employeeID := range employeesIn(dayShifts) {
				daysWorked[employeeID]++
			}
		}

		result.Days = append(result.Days, day)
	}

	// Step 2: Week-level checks
	if daysWithoutShifts > 1 {
		result.Issues = append(result.Issues, Issue{
			Type:     IssueNoShifts,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d open days have no shifts", daysWithoutShifts),
		})
	}

	if understaffedDays >= settings.RecurringUnderstaffingDays {
		result.Issues = append(result.Issues, Issue{
			Type:     IssueUnderstaffed,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Understaffing recurs on %d days of the week", understaffedDays),
		})
	}

	result.Workload = buildWorkload(hours, daysWorked, names, settings.EquityThreshold)
	if !result.Workload.IsEquitable && len(result.Workload.Employees) > 1 {
		result.Issues = append(result.Issues, Issue{
			Type:     IssueWorkloadImbalance,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Hours are unevenly distributed: %.1fh to %.1fh (mean %.1fh, inequity %.0f)",
				result.Workload.MinHours, result.Workload.MaxHours, result.Workload.MeanHours, result.Workload.InequityScore),
		})
	}

	// Step 3: Score
	for _, issue := range result.AllIssues() {
		switch issue.Severity {
		case SeverityCritical:
			result.CriticalCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityInfo:
			result.InfoCount++
		}
	}

	score := 100
	score -= penaltyInvalidDay * invalidDays
	score -= penaltyDayWithoutShift * daysWithoutShifts
	score -= penaltyCritical * result.CriticalCount
	score -= penaltyWarning * result.WarningCount

	if coverageDays > 0 {
		average := coverageTotal / float64(coverageDays)
		switch {
		case average > highCoveragePercent:
			score += bonusHighCoverage
		case average > goodCoveragePercent:
			score += bonusGoodCoverage
		}
	}

	result.Score = max(0, min(100, score))
	result.IsValid = result.Score >= minimumValidScore && result.CriticalCount == 0

	return result
}

// validateDay runs every per-day check
func validateDay(store *model.Store, date string, shifts []model.Shift, settings Settings) DayResult {
	day := DayResult{
		Date:       date,
		ShiftCount: len(shifts),
		IsValid:    true,
		Issues:     []Issue{},
	}

	window, open := storehours.Resolve(store, date)
	day.Open = open
	day.Window = window

	// Closed day: only shifts scheduled on it are a problem
	if !open {
		if len(shifts) > 0 {
			day.Issues = append(day.Issues, Issue{
				Type:     IssueInvalidShift,
				Severity: SeverityWarning,
				Date:     date,
				Message:  fmt.Sprintf("%d shifts scheduled while the store is closed", len(shifts)),
				ShiftIDs: shiftIDs(shifts),
			})
		}
		return day
	}

	// Open day without anyone scheduled
	if len(shifts) == 0 {
		day.IsValid = false
		day.Issues = append(day.Issues, Issue{
			Type:      IssueNoShifts,
			Severity:  SeverityCritical,
			Date:      date,
			Message:   fmt.Sprintf("Store is open %s-%s but no shifts are scheduled", window.Open, window.Close),
			StartTime: window.Open,
			EndTime:   window.Close,
		})
		return day
	}

	day.Issues = append(day.Issues, checkShifts(date, window, shifts, settings)...)

	day.Coverage = analyzeCoverage(window, shifts, settings)

	day.Staffing = analyzeStaffing(store, date, window, shifts, settings)
	day.Issues = append(day.Issues, staffingIssues(date, day.Staffing)...)

	day.Issues = append(day.Issues, checkBoundaries(date, window, shifts, settings)...)
	day.Issues = append(day.Issues, checkContinuousCoverage(date, day.Coverage, shifts, settings)...)

	for _, issue := range day.Issues {
		if issue.Severity == SeverityCritical {
			day.IsValid = false
			break
		}
	}

	return day
}

// checkShifts flags individual shifts that do not fit the day
func checkShifts(date string, window storehours.Window, shifts []model.Shift, settings Settings) []Issue {
	var issues []Issue

	for _, s := range shifts {
		if model.ClockMinutes(s.EndTime) <= model.ClockMinutes(s.StartTime) {
			issues = append(issues, Issue{
				Type:      IssueInvalidShift,
				Severity:  SeverityWarning,
				Date:      date,
				Message:   fmt.Sprintf("Shift %s ends at %s, not after its start %s", s.ID, s.EndTime, s.StartTime),
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				ShiftIDs:  []string{s.ID},
			})
		}

		if window.Overlap(shiftInterval(s).start, shiftInterval(s).end) == 0 {
			issues = append(issues, Issue{
				Type:      IssueInvalidShift,
				Severity:  SeverityWarning,
				Date:      date,
				Message:   fmt.Sprintf("Shift %s (%s-%s) is outside opening hours %s-%s", s.ID, s.StartTime, s.EndTime, window.Open, window.Close),
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				ShiftIDs:  []string{s.ID},
			})
		}

		if model.SpanMinutes(s.StartTime, s.EndTime) > settings.LongShiftMinutes && s.BreakDuration < settings.MinBreakMinutes {
			issues = append(issues, Issue{
				Type:      IssueInvalidShift,
				Severity:  SeverityInfo,
				Date:      date,
				Message:   fmt.Sprintf("Shift %s is longer than %dh with a %d minute break", s.ID, settings.LongShiftMinutes/60, s.BreakDuration),
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				ShiftIDs:  []string{s.ID},
			})
		}
	}

	return issues
}

// shiftsOn returns the non-cancelled shifts of the store on date
func shiftsOn(shifts []model.Shift, storeID, date string) []model.Shift {
	result := make([]model.Shift, 0)
	for _, s := range shifts {
		if s.Date != date || s.Status == model.StatusCancelled {
			continue
		}
		if storeID != "" && s.StoreID != "" && s.StoreID != storeID {
			continue
		}
		result = append(result, s)
	}
	return result
}

func shiftIDs(shifts []model.Shift) []string {
	ids := make([]string, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}
	return ids
}

func employeesIn(shifts []model.Shift) map[string]bool {
	employees := make(map[string]bool)
	for _, s := range shifts {
		employees[s.EmployeeID] = true
	}
	return employees
}
