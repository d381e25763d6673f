package compliance

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/model"
)

// ReportStatus summarises a weekly compliance report
type ReportStatus string

const (
	StatusCompliant       ReportStatus = "compliant"
	StatusMinorViolations ReportStatus = "minor_violations"
	StatusMajorViolations ReportStatus = "major_violations"
)

// Score penalties for the weekly report
const (
	penaltyCritical        = 25
	penaltyWarning         = 10
	penaltyDailyRestDay    = 15
	penaltyWeeklyRest      = 30
	majorViolationsBelow   = 60
	minorViolationsBelow   = 80
	fallbackDailyRestHours = 11
)

// DailyRestCheck is the daily-rest result for one day of the week
type DailyRestCheck struct {
	Date     string
	HasShift bool

	// RestHours is the rest before the day's shift. Days without a shift, or without a
	// shift on the previous day, report a full 24 hours.
	RestHours float64
	Met       bool
}

// WeeklyRestAnalysis describes the longest uninterrupted rest in the week
type WeeklyRestAnalysis struct {
	LongestRestHours float64
	RequiredHours    float64
	Met              bool

	// From and To bound the longest rest ("YYYY-MM-DD HH:MM")
	From string
	To   string
}

// WeeklyReport is the compliance summary of one employee's week
type WeeklyReport struct {
	EmployeeID   string
	EmployeeName string
	WeekStart    string
	WeekEnd      string

	Violations         []Violation
	DailyRest          []DailyRestCheck
	WeeklyRest         WeeklyRestAnalysis
	MaxConsecutiveDays int
	TotalHours         float64

	Score  int
	Status ReportStatus
}

// CriticalCount returns the number of critical violations in the report
func (r *WeeklyReport) CriticalCount() int {
	count := 0
	for _, v := range r.Violations {
		if v.IsCritical() {
			count++
		}
	}
	return count
}

// GenerateWeeklyComplianceReport validates every shift the employee works in the week
// starting at weekStart and scores the result.
// shifts may contain other employees' shifts and shifts outside the week; both are used
// only as context.
func (v *Validator) GenerateWeeklyComplianceReport(employee model.Employee, weekStart string, shifts []model.Shift) *WeeklyReport {
	weekEnd := model.AddDays(weekStart, 6)

	report := &WeeklyReport{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName(),
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
		Violations:   []Violation{},
		DailyRest:    make([]DailyRestCheck, 0, 7),
	}

	employeeShifts := shiftsForEmployee(employee.ID, shifts)

	// Collect this week's shifts in date order
	weekShifts := make([]model.Shift, 0)
	for _, s := range employeeShifts {
		if s.Date >= weekStart && s.Date <= weekEnd {
			weekShifts = append(weekShifts, s)
		}
	}
	sort.SliceStable(weekShifts, func(i, j int) bool {
		if weekShifts[i].Date != weekShifts[j].Date {
			return weekShifts[i].Date < weekShifts[j].Date
		}
		return weekShifts[i].StartTime < weekShifts[j].StartTime
	})

	// Step 1: Validate every shift
	// A rest breach between two shifts of the same week is found, and scored, from both sides
	for _, s := range weekShifts {
		report.Violations = append(report.Violations, v.ValidateShift(s, employee, employeeShifts, s.Date, nil)...)
		report.TotalHours += model.ActualHoursFor(s.StartTime, s.EndTime, s.BreakDuration)
	}

	// Step 2: Daily rest per day
	minDailyRest := v.minDailyRestHours()
	failedDays := 0
	for i := 0; i < 7; i++ {
		date := model.AddDays(weekStart, i)
		check := DailyRestCheck{Date: date, RestHours: 24, Met: true}

		current, hasShift := findShiftOn(employeeShifts, date, "")
		if hasShift {
			check.HasShift = true
			if prev, hasPrev := findShiftOn(employeeShifts, model.AddDays(date, -1), ""); hasPrev {
				check.RestHours = restBefore(prev, current)
				check.Met = check.RestHours >= minDailyRest
			}
		}

		if !check.Met {
			failedDays++
		}
		report.DailyRest = append(report.DailyRest, check)
	}

	// Step 3: Weekly rest
	report.WeeklyRest = analyseWeeklyRest(weekStart, weekShifts, v.options.WeeklyRestHours)

	// Step 4: Longest run of working days inside the week
	report.MaxConsecutiveDays = maxConsecutiveInWeek(weekStart, weekShifts)

	// Step 5: Score and status
	criticalCount := report.CriticalCount()
	warningCount := len(report.Violations) - criticalCount

	score := 100
	score -= penaltyCritical * criticalCount
	score -= penaltyWarning * warningCount
	score -= penaltyDailyRestDay * failedDays
	if !report.WeeklyRest.Met {
		score -= penaltyWeeklyRest
	}
	report.Score = max(0, min(100, score))

	switch {
	case criticalCount > 0 || report.Score < majorViolationsBelow:
		report.Status = StatusMajorViolations
	case len(report.Violations) > 0 || report.Score < minorViolationsBelow:
		report.Status = StatusMinorViolations
	default:
		report.Status = StatusCompliant
	}

	v.logger.Debug("Weekly compliance report generated",
		zap.String("employee_id", employee.ID),
		zap.String("week_start", weekStart),
		zap.Int("violations", len(report.Violations)),
		zap.Int("score", report.Score),
		zap.String("status", string(report.Status)))

	return report
}

// minDailyRestHours returns the minimum of the highest-priority daily rest rule
func (v *Validator) minDailyRestHours() float64 {
	for _, rule := range v.rules {
		if rule.Type == RuleDailyRest {
			return rule.MinRestHours
		}
	}
	return fallbackDailyRestHours
}

// analyseWeeklyRest finds the longest gap between working intervals in the week.
// The week boundaries count as rest: the gap before the first shift starts on Monday 00:00
// and the gap after the last shift runs to the following Monday 00:00.
func analyseWeeklyRest(weekStart string, weekShifts []model.Shift, required float64) WeeklyRestAnalysis {
	type interval struct{ start, end int }

	intervals := make([]interval, 0, len(weekShifts))
	for _, s := range weekShifts {
		day := model.DaysBetween(weekStart, s.Date)
		start := day*model.MinutesPerDay + model.ClockMinutes(s.StartTime)
		intervals = append(intervals, interval{start: start, end: start + model.SpanMinutes(s.StartTime, s.EndTime)})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

	weekMinutes := 7 * model.MinutesPerDay
	longest, bestFrom, bestTo := 0, 0, weekMinutes
	cursor := 0

	for _, iv := range intervals {
		if gap := iv.start - cursor; gap > longest {
			longest, bestFrom, bestTo = gap, cursor, iv.start
		}
		cursor = max(cursor, iv.end)
	}
	if len(intervals) == 0 {
		longest = weekMinutes
	} else if gap := weekMinutes - cursor; gap > longest {
		longest, bestFrom, bestTo = gap, cursor, weekMinutes
	}

	hours := float64(longest) / 60
	return WeeklyRestAnalysis{
		LongestRestHours: hours,
		RequiredHours:    required,
		Met:              hours >= required,
		From:             formatWeekMinute(weekStart, bestFrom),
		To:               formatWeekMinute(weekStart, bestTo),
	}
}

func formatWeekMinute(weekStart string, minute int) string {
	day := minute / model.MinutesPerDay
	return model.AddDays(weekStart, day) + " " + model.FormatClock(minute%model.MinutesPerDay)
}

// maxConsecutiveInWeek returns the longest run of days with a shift inside the week
func maxConsecutiveInWeek(weekStart string, weekShifts []model.Shift) int {
	worked := make(map[string]bool)
	for _, s := range weekShifts {
		worked[s.Date] = true
	}

	best, run := 0, 0
	for i := 0; i < 7; i++ {
		if worked[model.AddDays(weekStart, i)] {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}
