package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/store-rota/pkg/core/allocator"
	"github.com/jakechorley/store-rota/pkg/core/model"
)

func TestWeekendBalanceCriterion_Name(t *testing.T) {
	criterion := NewWeekendBalanceCriterion(15)
	assert.Equal(t, "WeekendBalance", criterion.Name())
	assert.Equal(t, 15.0, criterion.AffinityWeight())
}

func TestWeekendBalanceCriterion_AlwaysValid(t *testing.T) {
	criterion := NewWeekendBalanceCriterion(1)
	state := allocator.NewRotaState(nil, []allocator.EmployeeTracker{newTracker("alice", 3)}, nil)

	assert.True(t, criterion.IsSlotValid(&state, state.Tracker("alice"), newSlot("2025-01-11", model.KindFullDay)))
}

func TestWeekendBalanceCriterion_WeekdayHasNoAffinity(t *testing.T) {
	criterion := NewWeekendBalanceCriterion(1)
	state := allocator.NewRotaState(nil, []allocator.EmployeeTracker{newTracker("alice", 0), newTracker("bob", 2)}, nil)

	assert.Equal(t, 0.0, criterion.SlotAffinity(&state, state.Tracker("alice"), newSlot("2025-01-08", model.KindOpening)))
}

func TestWeekendBalanceCriterion_FavoursFewestWeekends(t *testing.T) {
	criterion := NewWeekendBalanceCriterion(1)
	state := allocator.NewRotaState(nil, []allocator.EmployeeTracker{
		newTracker("alice", 0),
		newTracker("bob", 1),
		newTracker("carol", 2),
	}, nil)

	// 2025-01-11 is a Saturday
	saturday := newSlot("2025-01-11", model.KindOpening)
	assert.Equal(t, 1.0, criterion.SlotAffinity(&state, state.Tracker("alice"), saturday))
	assert.Equal(t, 0.5, criterion.SlotAffinity(&state, state.Tracker("bob"), saturday))
	assert.Equal(t, 0.0, criterion.SlotAffinity(&state, state.Tracker("carol"), saturday))
}

func TestWeekendBalanceCriterion_EvenTeam(t *testing.T) {
	criterion := NewWeekendBalanceCriterion(1)
	state := allocator.NewRotaState(nil, []allocator.EmployeeTracker{newTracker("alice", 1), newTracker("bob", 1)}, nil)

	// 2025-01-12 is a Sunday
	assert.Equal(t, 1.0, criterion.SlotAffinity(&state, state.Tracker("bob"), newSlot("2025-01-12", model.KindClosing)))
}
