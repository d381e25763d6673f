package criteria

import (
	"slices"

	"github.com/jakechorley/store-rota/pkg/core/allocator"
)

// PreferenceCriterion applies each employee's scheduling preferences.
//
// Validity:
//   - Returns false on the employee's unavailable weekdays and dates
//
// Affinity:
//   - 0.5 when the slot falls on a preferred weekday
//   - 0.5 when the slot is of a preferred kind (opening, closing...)
//   - Employees without preferences score 0
type PreferenceCriterion struct {
	affinityWeight float64
}

// NewPreferenceCriterion creates a new PreferenceCriterion with the given affinity weight
func NewPreferenceCriterion(affinityWeight float64) *PreferenceCriterion {
	return &PreferenceCriterion{
		affinityWeight: affinityWeight,
	}
}

func (c *PreferenceCriterion) Name() string {
	return "Preference"
}

func (c *PreferenceCriterion) IsSlotValid(state *allocator.RotaState, tracker *allocator.EmployeeTracker, slot *allocator.Slot) bool {
	pref, ok := state.Preference(tracker.Employee.ID)
	if !ok {
		return true
	}

	if slices.Contains(pref.UnavailableDays, slot.Weekday) {
		return false
	}
	return !slices.Contains(pref.UnavailableDates, slot.Date)
}

func (c *PreferenceCriterion) SlotAffinity(state *allocator.RotaState, tracker *allocator.EmployeeTracker, slot *allocator.Slot) float64 {
	pref, ok := state.Preference(tracker.Employee.ID)
	if !ok {
		return 0
	}

	affinity := 0.0
	if slices.Contains(pref.PreferredDays, slot.Weekday) {
		affinity += 0.5
	}
	if slices.Contains(pref.PreferredKinds, slot.Kind) {
		affinity += 0.5
	}
	return affinity
}

func (c *PreferenceCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}
