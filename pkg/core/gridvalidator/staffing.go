package gridvalidator

import (
	"fmt"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

const bucketMinutes = 60

// staffingTargets returns the recommended and maximum staff for the day.
// Role requirements win over the global minimum; maximum is 0 when no role sets one.
func staffingTargets(store *model.Store, date string, settings Settings) (int, int) {
	recommended, maximum := 0, 0
	for _, req := range store.RequirementsFor(model.WeekdayOf(date)) {
		recommended += req.MinStaff
		maximum += req.MaxStaff
	}

	if recommended == 0 {
		recommended = settings.MinimumStaffPerHour
	}
	if !settings.AllowSinglePersonCoverage {
		recommended = max(recommended, 2)
	}

	return recommended, maximum
}

// analyzeStaffing counts the shifts active in each hourly bucket of the open window.
// The last bucket is shorter when the window is not a whole number of hours.
func analyzeStaffing(store *model.Store, date string, window storehours.Window, shifts []model.Shift, settings Settings) *StaffingAnalysis {
	recommended, maximum := staffingTargets(store, date, settings)

	analysis := &StaffingAnalysis{
		RecommendedStaff:    recommended,
		MaximumStaff:        maximum,
		Hourly:              []HourlyStaff{},
		UnderstaffedPeriods: []StaffingPeriod{},
		OverstaffedPeriods:  []StaffingPeriod{},
	}

	total := 0
	for start := window.OpenMinutes; start < window.CloseMinutes; start += bucketMinutes {
		bucket := interval{start: start, end: min(start+bucketMinutes, window.CloseMinutes)}

		hour := HourlyStaff{
			Start:       model.FormatClock(bucket.start),
			End:         model.FormatClock(bucket.end),
			EmployeeIDs: []string{},
		}
		for _, s := range shifts {
			iv := shiftInterval(s)
			if iv.start < bucket.end && iv.end > bucket.start {
				hour.Staff++
				hour.EmployeeIDs = append(hour.EmployeeIDs, s.EmployeeID)
			}
		}

		if len(analysis.Hourly) == 0 {
			analysis.PeakStaff, analysis.MinStaff = hour.Staff, hour.Staff
		}
		analysis.PeakStaff = max(analysis.PeakStaff, hour.Staff)
		analysis.MinStaff = min(analysis.MinStaff, hour.Staff)
		total += hour.Staff

		analysis.Hourly = append(analysis.Hourly, hour)

		// Understaffing, merged with the previous bucket when the problem is the same
		if hour.Staff < recommended {
			severity := SeverityWarning
			if hour.Staff == 0 {
				severity = SeverityCritical
			}
			analysis.UnderstaffedPeriods = extendPeriod(analysis.UnderstaffedPeriods, hour, recommended, severity)
		}

		if maximum > 0 && hour.Staff > maximum {
			analysis.OverstaffedPeriods = extendPeriod(analysis.OverstaffedPeriods, hour, maximum, SeverityWarning)
		}
	}

	if len(analysis.Hourly) > 0 {
		analysis.AverageStaff = float64(total) / float64(len(analysis.Hourly))
	}

	return analysis
}

// extendPeriod appends the bucket to the last period when they touch and match,
// otherwise starts a new period
func extendPeriod(periods []StaffingPeriod, hour HourlyStaff, required int, severity Severity) []StaffingPeriod {
	if n := len(periods); n > 0 {
		last := &periods[n-1]
		if last.End == hour.Start && last.Staff == hour.Staff && last.Severity == severity {
			last.End = hour.End
			return periods
		}
	}
	return append(periods, StaffingPeriod{
		Start:    hour.Start,
		End:      hour.End,
		Staff:    hour.Staff,
		Required: required,
		Severity: severity,
	})
}

func staffingIssues(date string, analysis *StaffingAnalysis) []Issue {
	var issues []Issue

	for _, period := range analysis.UnderstaffedPeriods {
		issues = append(issues, Issue{
			Type:      IssueUnderstaffed,
			Severity:  period.Severity,
			Date:      date,
			Message:   fmt.Sprintf("%d staff scheduled from %s to %s, %d recommended", period.Staff, period.Start, period.End, period.Required),
			StartTime: period.Start,
			EndTime:   period.End,
		})
	}

	for _, period := range analysis.OverstaffedPeriods {
		issues = append(issues, Issue{
			Type:      IssueOverstaffed,
			Severity:  period.Severity,
			Date:      date,
			Message:   fmt.Sprintf("%d staff scheduled from %s to %s, at most %d needed", period.Staff, period.Start, period.End, period.Required),
			StartTime: period.Start,
			EndTime:   period.End,
		})
	}

	return issues
}
