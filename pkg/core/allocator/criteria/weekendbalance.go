package criteria

import (
	"time"

	"github.com/jakechorley/store-rota/pkg/core/allocator"
)

// WeekendBalanceCriterion spreads Saturday and Sunday work across the team.
//
// Validity:
//   - No validity constraints (always returns true)
//
// Affinity:
//   - Weekday slots score 0
//   - Weekend slots score 1.0 for the employees with the fewest weekend days so far,
//     falling linearly to 0 for the employees with the most
//   - When everyone has worked the same number of weekend days, all score 1.0
type WeekendBalanceCriterion struct {
	affinityWeight float64
}

// NewWeekendBalanceCriterion creates a new WeekendBalanceCriterion with the given affinity weight
func NewWeekendBalanceCriterion(affinityWeight float64) *WeekendBalanceCriterion {
	return &WeekendBalanceCriterion{
		affinityWeight: affinityWeight,
	}
}

func (c *WeekendBalanceCriterion) Name() string {
	return "WeekendBalance"
}

func (c *WeekendBalanceCriterion) IsSlotValid(state *allocator.RotaState, tracker *allocator.EmployeeTracker, slot *allocator.Slot) bool {
	return true
}

func (c *WeekendBalanceCriterion) SlotAffinity(state *allocator.RotaState, tracker *allocator.EmployeeTracker, slot *allocator.Slot) float64 {
	if slot.Weekday != time.Saturday && slot.Weekday != time.Sunday {
		return 0
	}

	// Find the team's range of weekend days worked
	fewest, most := tracker.WeekendDaysWorked, tracker.WeekendDaysWorked
	for i := range state.Trackers {
		worked := state.Trackers[i].WeekendDaysWorked
		fewest = min(fewest, worked)
		most = max(most, worked)
	}

	if most == fewest {
		return 1.0
	}

	return float64(most-tracker.WeekendDaysWorked) / float64(most-fewest)
}

func (c *WeekendBalanceCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}
