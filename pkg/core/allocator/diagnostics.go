package allocator

import (
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/model"
)

// underTargetRatio is the share of the prorated target below which an employee is reported
const underTargetRatio = 0.8

// buildDiagnostics summarises the final assignments of a run.
// Targets are weekly, so they are prorated over the number of days in the run.
func buildDiagnostics(outcome *AllocationOutcome, state RotaState) Diagnostics {
	diagnostics := Diagnostics{
		UnderTargetEmployees: []string{},
		OverTargetEmployees:  []string{},
		UncoveredDays:        []string{},
	}
	if len(outcome.Days) == 0 {
		return diagnostics
	}

	inRange := make(map[string]bool, len(outcome.Days))
	for _, day := range outcome.Days {
		inRange[day.Date] = true
	}

	// Collect every assignment of the run, new and existing
	all := make([]model.ShiftAssignment, 0, len(outcome.Assignments)+len(state.Existing))
	all = append(all, outcome.Assignments...)
	for _, existing := range state.Existing {
		if !inRange[existing.Date] || (existing.StoreID != "" && existing.StoreID != state.StoreID) {
			continue
		}
		all = append(all, existing)
	}

	hours := make(map[string]float64)
	coveredDays := make(map[string]bool)
	for _, assignment := range all {
		hours[assignment.EmployeeID] += model.DurationHours(assignment.StartTime, assignment.EndTime)
		coveredDays[assignment.Date] = true
		if assignment.Emergency {
			diagnostics.EmergencyAssignments++
		}
	}

	weeks := float64(len(outcome.Days)) / 7
	for _, tracker := range state.Trackers {
		target := tracker.TargetHours * weeks
		if target <= 0 {
			continue
		}
		worked := hours[tracker.Employee.ID]
		switch {
		case worked < target*underTargetRatio:
			diagnostics.UnderTargetEmployees = append(diagnostics.UnderTargetEmployees, tracker.Employee.ID)
		case worked > target:
			diagnostics.OverTargetEmployees = append(diagnostics.OverTargetEmployees, tracker.Employee.ID)
		}
	}

	for _, day := range outcome.Days {
		diagnostics.UnfilledSlots += day.UnfilledSlots
		if day.Open && !coveredDays[day.Date] {
			diagnostics.UncoveredDays = append(diagnostics.UncoveredDays, day.Date)
		}
	}

	return diagnostics
}

func (e *Engine) logDiagnostics(storeID string, diagnostics Diagnostics, assignmentCount int) {
	e.logger.Info("Shift assignment complete",
		zap.String("store_id", storeID),
		zap.Int("assignments", assignmentCount),
		zap.Int("under_target", len(diagnostics.UnderTargetEmployees)),
		zap.Int("over_target", len(diagnostics.OverTargetEmployees)),
		zap.Int("uncovered_days", len(diagnostics.UncoveredDays)),
		zap.Int("emergency_assignments", diagnostics.EmergencyAssignments),
		zap.Int("unfilled_slots", diagnostics.UnfilledSlots))

	if len(diagnostics.UncoveredDays) > 0 {
		e.logger.Warn("Open days without any shift",
			zap.String("store_id", storeID),
			zap.Strings("dates", diagnostics.UncoveredDays))
	}
	if len(diagnostics.OverTargetEmployees) > 0 {
		e.logger.Warn("Employees over their target hours",
			zap.String("store_id", storeID),
			zap.Strings("employee_ids", diagnostics.OverTargetEmployees))
	}
}
