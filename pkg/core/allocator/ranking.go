package allocator

import (
	"sort"
)

// calculatePriority computes the daily priority of an employee.
// Higher values mean the employee should be scheduled sooner.
//
// Terms (PriorityWeights):
//   - Base
//   - RemainingHours x remaining/target
//   - Under-target bonuses on the assigned ratio, penalty above target
//   - Bonus for rested employees, penalties for long runs of working days
//   - Up to +/-TeamBand relative to the team's average assigned hours
func calculatePriority(weights PriorityWeights, tracker *EmployeeTracker, teamAverage float64) float64 {
	score := weights.Base

	// Built-in 1: Hours still to work
	if tracker.TargetHours > 0 {
		score += weights.RemainingHours * tracker.RemainingHours / tracker.TargetHours

		ratio := tracker.AssignedRatio()
		switch {
		case ratio < 0.5:
			score += weights.UnderHalfTarget
		case ratio < 0.8:
			score += weights.UnderTarget
		case ratio > 1.0:
			score -= weights.OverTargetPenalty
		}
	}

	// Built-in 2: Run of working days
	switch {
	case tracker.DaysWorked == 0:
		score += weights.Rested
	case tracker.DaysWorked <= 2:
		score += weights.LightRun
	case tracker.DaysWorked >= 6:
		score -= weights.MaxRunPenalty
	case tracker.DaysWorked >= 5:
		score -= weights.HeavyRunPenalty
	}

	// Built-in 3: Balance against the team
	if teamAverage > 0 {
		deviation := (teamAverage - tracker.AssignedHours) / teamAverage
		switch {
		case deviation > weights.TeamBandRatio:
			score += weights.TeamBand
		case deviation < -weights.TeamBandRatio:
			score -= weights.TeamBand
		case weights.TeamBandRatio > 0:
			score += deviation / weights.TeamBandRatio * weights.TeamBand
		}
	}

	return score
}

// recomputePriorities refreshes every tracker's priority against the current team average
func recomputePriorities(cfg *Config, state *RotaState) {
	teamAverage := state.TeamAverageAssignedHours()
	for i := range state.Trackers {
		state.Trackers[i].Priority = calculatePriority(cfg.Priority, &state.Trackers[i], teamAverage)
	}
}

// calculateSelectionScore scores an employee for a specific slot.
// It starts from the employee's priority and adds slot-specific terms plus the
// weighted affinity of every criterion.
func calculateSelectionScore(cfg *Config, state *RotaState, tracker *EmployeeTracker, slot *Slot, criteria []Criterion) float64 {
	weights := cfg.Selection
	score := tracker.Priority

	// Can the employee's remaining hours absorb the slot?
	shiftHours := slot.Hours()
	switch {
	case tracker.RemainingHours >= shiftHours:
		score += weights.CoversShift
	case tracker.RemainingHours > 0:
		score += weights.HasHours
	default:
		score -= weights.NoHoursPenalty
	}

	// Consecutive working days
	switch {
	case tracker.DaysWorked >= 6:
		score -= weights.SixthDayPenalty + weights.LegalRiskPenalty
	case tracker.DaysWorked >= 4:
		score -= weights.FourthDayPenalty
	case tracker.DaysWorked == 0:
		score += weights.Rested
	}

	// Under-target bonuses
	if tracker.TargetHours > 0 {
		ratio := tracker.AssignedRatio()
		switch {
		case ratio < 0.5:
			score += weights.UnderHalfTarget
		case ratio < 0.8:
			score += weights.UnderTarget
		}
	}

	return score + CalculateSlotAffinity(state, tracker, slot, criteria)
}

// candidate is an employee ranked for a slot
type candidate struct {
	trackerIndex int
	employeeID   string
	score        float64
}

// rankCandidates returns the employees not yet used today that pass every criterion veto,
// best first. Equal scores are ordered by lowest employee ID.
func rankCandidates(cfg *Config, state *RotaState, slot *Slot, used map[string]bool, criteria []Criterion) []candidate {
	candidates := make([]candidate, 0, len(state.Trackers))

	for i := range state.Trackers {
		tracker := &state.Trackers[i]

		// One shift per employee per day
		if used[tracker.Employee.ID] {
			continue
		}

		// Hard constraints from criteria
		if !IsSlotValidForEmployee(state, tracker, slot, criteria) {
			continue
		}

		candidates = append(candidates, candidate{
			trackerIndex: i,
			employeeID:   tracker.Employee.ID,
			score:        calculateSelectionScore(cfg, state, tracker, slot, criteria),
		})
	}

	sortCandidates(candidates)
	return candidates
}

// rankByPriority returns the employees not yet used today by priority, best first
func rankByPriority(state *RotaState, used map[string]bool) []candidate {
	candidates := make([]candidate, 0, len(state.Trackers))
	for i := range state.Trackers {
		tracker := &state.Trackers[i]
		if used[tracker.Employee.ID] {
			continue
		}
		candidates = append(candidates, candidate{
			trackerIndex: i,
			employeeID:   tracker.Employee.ID,
			score:        tracker.Priority,
		})
	}

	sortCandidates(candidates)
	return candidates
}

func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].employeeID < candidates[j].employeeID
	})
}
