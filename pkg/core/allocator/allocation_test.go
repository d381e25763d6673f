package allocator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/model"
)

// Week of Monday 2025-01-06 to Sunday 2025-01-12
const (
	monday = "2025-01-06"
	sunday = "2025-01-12"
)

func testStore() model.Store {
	hours := model.DayHours{Open: "09:00", Close: "19:00"}
	return model.Store{
		ID:   "s1",
		Name: "High Street",
		OpeningHours: map[time.Weekday]model.DayHours{
			time.Monday:    hours,
			time.Tuesday:   hours,
			time.Wednesday: hours,
			time.Thursday:  hours,
			time.Friday:    hours,
			time.Saturday:  hours,
		},
	}
}

func testEmployees(ids ...string) []model.Employee {
	employees := make([]model.Employee, 0, len(ids))
	for _, id := range ids {
		employees = append(employees, model.Employee{ID: id, FirstName: id, ContractHours: 40, Active: true})
	}
	return employees
}

func assignmentsOn(assignments []model.ShiftAssignment, date string) []model.ShiftAssignment {
	var result []model.ShiftAssignment
	for _, a := range assignments {
		if a.Date == date {
			result = append(result, a)
		}
	}
	return result
}

func TestAssignShifts_OpenWeekTwoEmployees(t *testing.T) {
	engine := NewEngine(DefaultConfig(), compliance.NewDefaultValidator(nil), []model.Store{testStore()}, nil, nil)

	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   sunday,
	})

	require.Len(t, outcome.Days, 7)

	// At least one shift on every open day, none on Sunday
	for _, date := range model.DateRange(monday, "2025-01-11") {
		assert.NotEmpty(t, assignmentsOn(outcome.Assignments, date), date)
	}
	assert.Empty(t, assignmentsOn(outcome.Assignments, sunday))

	// No more than 6 consecutive working days for anyone
	shifts := make([]model.Shift, 0, len(outcome.Assignments))
	for _, a := range outcome.Assignments {
		shifts = append(shifts, a.ToShift(a.Date+a.EmployeeID))
	}
	for _, a := range outcome.Assignments {
		assert.LessOrEqual(t, compliance.CalculateConsecutiveDaysAtDate(a.EmployeeID, a.Date, shifts), 6)
	}

	// Every assignment passes the compliance check against the others
	validator := compliance.NewDefaultValidator(nil)
	store := testStore()
	for _, shift := range shifts {
		employee := model.Employee{ID: shift.EmployeeID}
		for _, v := range validator.ValidateShift(shift, employee, shifts, shift.Date, &store) {
			assert.False(t, v.IsCritical(), v.Description)
		}
	}

	// Two shifts per open day, one per employee per day
	assert.Len(t, outcome.Assignments, 12)
	for _, date := range model.DateRange(monday, "2025-01-11") {
		day := assignmentsOn(outcome.Assignments, date)
		require.Len(t, day, 2, date)
		assert.NotEqual(t, day[0].EmployeeID, day[1].EmployeeID)
	}

	assert.Equal(t, 6, outcome.Analysis.OpenDays)
	assert.InDelta(t, 60.0, outcome.Analysis.TotalOpenHours, 0.001)
	assert.InDelta(t, 77.6, outcome.Analysis.TargetHours, 0.001)
	assert.Empty(t, outcome.Diagnostics.UncoveredDays)
	assert.Equal(t, 0, outcome.Diagnostics.EmergencyAssignments)
}

func TestAssignShifts_FailFast(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	inactive := testEmployees("alice")
	inactive[0].Active = false

	requests := map[string]AssignRequest{
		"no store ID":         {Employees: testEmployees("alice"), StartDate: monday, EndDate: sunday},
		"unknown store":       {StoreID: "nope", Employees: testEmployees("alice"), StartDate: monday, EndDate: sunday},
		"no employees":        {StoreID: "s1", StartDate: monday, EndDate: sunday},
		"no active employees": {StoreID: "s1", Employees: inactive, StartDate: monday, EndDate: sunday},
	}

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			outcome := engine.AssignShifts(req)
			require.NotNil(t, outcome)
			assert.Empty(t, outcome.Assignments)
			assert.Empty(t, outcome.Days)
		})
	}
}

func TestAssignShifts_ComplianceRejectsCandidate(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	// Alice closed late on Sunday: a 09:00 start leaves only 10h rest
	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   monday,
		History: []model.Shift{
			{ID: "h1", EmployeeID: "alice", StoreID: "s1", Date: "2025-01-05", StartTime: "14:00", EndTime: "23:00"},
		},
	})

	require.Len(t, outcome.Assignments, 2)

	opening := outcome.Assignments[0]
	closing := outcome.Assignments[1]
	assert.Equal(t, model.KindOpening, opening.Kind)
	assert.Equal(t, "bob", opening.EmployeeID)
	assert.Equal(t, model.KindClosing, closing.Kind)
	assert.Equal(t, "alice", closing.EmployeeID)
}

func TestAssignShifts_TieBreakLowestID(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	// Input order must not matter
	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("bob", "alice"),
		StartDate: monday,
		EndDate:   monday,
	})

	require.Len(t, outcome.Assignments, 2)
	assert.Equal(t, "alice", outcome.Assignments[0].EmployeeID)
	assert.Equal(t, "bob", outcome.Assignments[1].EmployeeID)
}

func TestAssignShifts_EmergencyFill(t *testing.T) {
	criteria := []Criterion{&mockCriterion{name: "veto", vetoEmployee: "bob"}}
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, criteria, nil)

	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   monday,
	})

	// Bob cannot take a regular slot, so the closing slot stays empty and bob covers
	// the whole day as an emergency
	require.Len(t, outcome.Assignments, 2)
	assert.Equal(t, "alice", outcome.Assignments[0].EmployeeID)
	assert.False(t, outcome.Assignments[0].Emergency)

	emergency := outcome.Assignments[1]
	assert.Equal(t, "bob", emergency.EmployeeID)
	assert.True(t, emergency.Emergency)
	assert.Equal(t, model.KindFullDay, emergency.Kind)
	assert.Equal(t, "09:00", emergency.StartTime)
	assert.Equal(t, "19:00", emergency.EndTime)
	assert.Equal(t, 30, emergency.BreakDuration)
	assert.InDelta(t, 9.5, emergency.ActualHours, 0.001)

	assert.Equal(t, 1, outcome.Diagnostics.EmergencyAssignments)
	assert.Equal(t, 1, outcome.Diagnostics.UnfilledSlots)
	assert.Equal(t, 0, outcome.Days[0].Shortfall)
}

func TestAssignShifts_Shortfall(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	// 22:00-23:30 on Sunday leaves 9.5h before any Monday shift
	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice"),
		StartDate: monday,
		EndDate:   monday,
		History: []model.Shift{
			{ID: "h1", EmployeeID: "alice", StoreID: "s1", Date: "2025-01-05", StartTime: "22:00", EndTime: "23:30"},
		},
	})

	assert.Empty(t, outcome.Assignments)
	require.Len(t, outcome.Days, 1)
	assert.Equal(t, 1, outcome.Days[0].Shortfall)
	assert.Equal(t, []string{monday}, outcome.Diagnostics.UncoveredDays)
}

func TestAssignShifts_ExistingAssignments(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   monday,
		ExistingAssignments: []model.ShiftAssignment{
			{EmployeeID: "alice", StoreID: "s1", Date: monday, StartTime: "09:00", EndTime: "17:00", BreakDuration: 30},
		},
	})

	// Only the new assignment is returned
	require.Len(t, outcome.Assignments, 1)
	assert.Equal(t, "bob", outcome.Assignments[0].EmployeeID)
	assert.Equal(t, 1, outcome.Days[0].ExistingCount)

	// The existing shift counts toward alice's hours
	alice := outcome.FinalState.Tracker("alice")
	require.NotNil(t, alice)
	assert.InDelta(t, 8.0, alice.AssignedHours, 0.001)
	assert.Equal(t, 1, alice.DaysWorked)
}

func TestAssignShifts_ExistingWithoutTrackerCountsTowardMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StaffingConstraints = []StaffingConstraint{{StoreID: "s1", Weekday: time.Monday, MinShifts: 1, MaxShifts: 1}}
	engine := NewEngine(cfg, nil, []model.Store{testStore()}, nil, nil)

	// zoe has left but her shift still staffs the store
	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   monday,
		ExistingAssignments: []model.ShiftAssignment{
			{EmployeeID: "zoe", StoreID: "s1", Date: monday, StartTime: "09:00", EndTime: "19:00", BreakDuration: 30},
		},
	})

	assert.Empty(t, outcome.Assignments)
	require.Len(t, outcome.Days, 1)
	assert.Equal(t, 1, outcome.Days[0].ExistingCount)
	assert.Equal(t, 0, outcome.Days[0].Shortfall)
	assert.Nil(t, outcome.FinalState.Tracker("zoe"))
}

func TestAssignShifts_BusyAtAnotherStore(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   monday,
		History: []model.Shift{
			{ID: "elsewhere", EmployeeID: "alice", StoreID: "s2", Date: monday, StartTime: "09:00", EndTime: "19:00", BreakDuration: 30},
		},
	})

	require.NotEmpty(t, outcome.Assignments)
	for _, a := range outcome.Assignments {
		assert.Equal(t, "bob", a.EmployeeID)
	}

	// Hours worked elsewhere are not credited to this store's tracker
	alice := outcome.FinalState.Tracker("alice")
	require.NotNil(t, alice)
	assert.Equal(t, 0.0, alice.AssignedHours)
}

func TestAssignShifts_RestBeforeLaterShift(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	// alice opens another store at 05:00 the day after the run
	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   monday,
		History: []model.Shift{
			{ID: "early", EmployeeID: "alice", StoreID: "s2", Date: "2025-01-07", StartTime: "05:00", EndTime: "13:00", BreakDuration: 30},
		},
	})

	for _, a := range outcome.Assignments {
		if a.EmployeeID == "alice" {
			assert.LessOrEqual(t, model.ClockMinutes(a.EndTime), 18*60, "alice ends %s", a.EndTime)
		}
	}
}

func TestAssignShifts_StaffingConstraint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StaffingConstraints = []StaffingConstraint{{StoreID: "s1", Weekday: time.Monday, MinShifts: 1, MaxShifts: 1}}
	engine := NewEngine(cfg, nil, []model.Store{testStore()}, nil, nil)

	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob", "carol"),
		StartDate: monday,
		EndDate:   monday,
	})

	require.Len(t, outcome.Assignments, 1)
	assert.Equal(t, model.KindFullDay, outcome.Assignments[0].Kind)
}

func TestAssignShifts_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)
	req := AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("dan", "alice", "carol", "bob"),
		StartDate: monday,
		EndDate:   "2025-01-19",
	}

	first := engine.AssignShifts(req)
	second := engine.AssignShifts(req)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestPlanDay_ClosedDayResetsRun(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, nil, nil, nil)
	store := testStore()

	state := engine.initState(&store, testEmployees("alice", "bob"), AssignRequest{StoreID: "s1"})
	state.Trackers[0].DaysWorked = 3

	plan, next := engine.planDay(state, sunday, nil)

	assert.False(t, plan.Open)
	assert.Empty(t, plan.Assignments)
	assert.Equal(t, 0, next.Trackers[0].DaysWorked)

	// The input state is untouched
	assert.Equal(t, 3, state.Trackers[0].DaysWorked)
}

func TestPlanDay_DoesNotModifyInput(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, nil, nil, nil)
	store := testStore()

	state := engine.initState(&store, testEmployees("alice", "bob"), AssignRequest{StoreID: "s1"})
	shiftsBefore := len(state.Shifts)

	plan, next := engine.planDay(state, monday, nil)

	require.Len(t, plan.Assignments, 2)
	assert.Len(t, next.Shifts, shiftsBefore+2)
	assert.Len(t, state.Shifts, shiftsBefore)

	for i := range state.Trackers {
		assert.Equal(t, 0.0, state.Trackers[i].AssignedHours)
		assert.Equal(t, 0, state.Trackers[i].DaysWorked)
		assert.Equal(t, 1, next.Trackers[i].DaysWorked)
		assert.Greater(t, next.Trackers[i].AssignedHours, 0.0)
	}
}

func TestAssignShifts_TrackerHoursUseGrossDuration(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, []model.Store{testStore()}, nil, nil)

	outcome := engine.AssignShifts(AssignRequest{
		StoreID:   "s1",
		Employees: testEmployees("alice", "bob"),
		StartDate: monday,
		EndDate:   monday,
	})

	alice := outcome.FinalState.Tracker("alice")
	require.NotNil(t, alice)

	// Opening 09:00-15:30 with a 30 minute break
	assert.InDelta(t, 6.5, alice.AssignedHours, 0.001)
	assert.InDelta(t, 38.8-6.5, alice.RemainingHours, 0.001)
	assert.InDelta(t, 6.0, outcome.Assignments[0].ActualHours, 0.001)
}
