package compliance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/store-rota/pkg/core/model"
)

func TestWeeklyReport_CompliantWeek(t *testing.T) {
	validator := NewDefaultValidator(nil)

	var shifts []model.Shift
	for i, date := range model.DateRange("2025-01-06", "2025-01-10") {
		s := shift(fmt.Sprintf("s%d", i), "alice", date, "09:00", "17:00")
		s.BreakDuration = 30
		shifts = append(shifts, s)
	}
	// Another employee's breach must not leak into the report
	shifts = append(shifts,
		shift("b1", "bob", "2025-01-06", "14:00", "23:00"),
		shift("b2", "bob", "2025-01-07", "06:00", "12:00"),
	)

	report := validator.GenerateWeeklyComplianceReport(employee("alice"), "2025-01-06", shifts)

	assert.Equal(t, "2025-01-12", report.WeekEnd)
	assert.Empty(t, report.Violations)
	require.Len(t, report.DailyRest, 7)
	for _, day := range report.DailyRest {
		assert.True(t, day.Met, day.Date)
	}
	assert.InDelta(t, 16.0, report.DailyRest[1].RestHours, 0.001)
	assert.False(t, report.DailyRest[6].HasShift)

	// Friday 17:00 until Monday 00:00
	assert.True(t, report.WeeklyRest.Met)
	assert.InDelta(t, 55.0, report.WeeklyRest.LongestRestHours, 0.001)
	assert.Equal(t, "2025-01-10 17:00", report.WeeklyRest.From)
	assert.Equal(t, "2025-01-13 00:00", report.WeeklyRest.To)

	assert.Equal(t, 5, report.MaxConsecutiveDays)
	assert.InDelta(t, 37.5, report.TotalHours, 0.001)
	assert.Equal(t, 100, report.Score)
	assert.Equal(t, StatusCompliant, report.Status)
}

func TestWeeklyReport_DailyRestBreach(t *testing.T) {
	validator := NewDefaultValidator(nil)

	monday := shift("s1", "alice", "2025-01-06", "14:00", "22:00")
	monday.BreakDuration = 30
	tuesday := shift("s2", "alice", "2025-01-07", "06:00", "12:00")

	report := validator.GenerateWeeklyComplianceReport(employee("alice"), "2025-01-06", []model.Shift{monday, tuesday})

	// Monday sees the breach forward and Tuesday sees it backward
	restViolations := violationsOfType(report.Violations, RuleDailyRest)
	require.Len(t, restViolations, 2)
	assert.Equal(t, []string{"s1", "s2"}, []string{restViolations[0].ShiftIDs[0], restViolations[1].ShiftIDs[0]})
	assert.Len(t, violationsOfType(report.Violations, RuleShiftGap), 2)

	assert.False(t, report.DailyRest[1].Met)
	assert.InDelta(t, 8.0, report.DailyRest[1].RestHours, 0.001)

	// 100 - 2*25 (critical) - 2*10 (warning) - 15 (failed day)
	assert.Equal(t, 15, report.Score)
	assert.Equal(t, StatusMajorViolations, report.Status)
}

func TestWeeklyReport_NoWeeklyRest(t *testing.T) {
	validator := NewDefaultValidator(nil)

	var shifts []model.Shift
	for i, date := range model.DateRange("2025-01-06", "2025-01-12") {
		s := shift(fmt.Sprintf("s%d", i), "alice", date, "08:00", "20:00")
		s.BreakDuration = 60
		shifts = append(shifts, s)
	}

	report := validator.GenerateWeeklyComplianceReport(employee("alice"), "2025-01-06", shifts)

	assert.False(t, report.WeeklyRest.Met)
	assert.InDelta(t, 12.0, report.WeeklyRest.LongestRestHours, 0.001)
	assert.Equal(t, 7, report.MaxConsecutiveDays)
	assert.NotEmpty(t, violationsOfType(report.Violations, RuleConsecutiveDays))
	assert.Equal(t, 0, report.Score)
	assert.Equal(t, StatusMajorViolations, report.Status)
}

func TestWeeklyReport_WarningOnlyIsMinor(t *testing.T) {
	validator := NewDefaultValidator(nil)

	// Long shift without a break is the only finding
	report := validator.GenerateWeeklyComplianceReport(employee("alice"), "2025-01-06", []model.Shift{
		shift("s1", "alice", "2025-01-08", "09:00", "17:00"),
	})

	require.Len(t, report.Violations, 1)
	assert.Equal(t, 90, report.Score)
	assert.Equal(t, StatusMinorViolations, report.Status)
}

func TestWeeklyReport_EmptyWeek(t *testing.T) {
	validator := NewDefaultValidator(nil)

	report := validator.GenerateWeeklyComplianceReport(employee("alice"), "2025-01-06", nil)

	assert.Equal(t, 168.0, report.WeeklyRest.LongestRestHours)
	assert.Equal(t, 0, report.MaxConsecutiveDays)
	assert.Equal(t, 100, report.Score)
	assert.Equal(t, StatusCompliant, report.Status)
}
