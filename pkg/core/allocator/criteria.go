package allocator

// Criterion defines the interface for pluggable allocation criteria.
// Criteria can veto an employee for a slot and add affinity to the selection score.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsSlotValid determines if the employee may fill the slot.
	// This acts as a veto - if ANY criterion returns false, the employee is skipped for the slot.
	IsSlotValid(state *RotaState, tracker *EmployeeTracker, slot *Slot) bool

	// SlotAffinity calculates how well the slot matches the employee.
	// Returns a score between 0.0 and 1.0 that will be multiplied by the criterion's weight.
	// Return 0 if this criterion doesn't affect the slot.
	SlotAffinity(state *RotaState, tracker *EmployeeTracker, slot *Slot) float64

	// AffinityWeight returns the weight of the affinity (in selection score points)
	AffinityWeight() float64
}

// IsSlotValidForEmployee runs every criterion veto
func IsSlotValidForEmployee(state *RotaState, tracker *EmployeeTracker, slot *Slot, criteria []Criterion) bool {
	for _, criterion := range criteria {
		if !criterion.IsSlotValid(state, tracker, slot) {
			return false
		}
	}
	return true
}

// CalculateSlotAffinity returns the weighted sum of all criteria affinities
func CalculateSlotAffinity(state *RotaState, tracker *EmployeeTracker, slot *Slot, criteria []Criterion) float64 {
	totalAffinity := 0.0
	for _, criterion := range criteria {
		totalAffinity += criterion.SlotAffinity(state, tracker, slot) * criterion.AffinityWeight()
	}
	return totalAffinity
}
