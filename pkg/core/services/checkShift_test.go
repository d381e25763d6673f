package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

func checkShiftDatabase(existing ...model.Shift) *mockDatabase {
	return &mockDatabase{
		stores: []model.Store{
			testStore("s1", "06:00", "22:00"),
			testStore("s2", "06:00", "22:00"),
		},
		employees: []model.Employee{testEmployee("alice", 40)},
		shifts:    existing,
	}
}

func tuesdayMorning() ShiftProposal {
	return ShiftProposal{
		EmployeeID: "alice",
		StoreID:    "s1",
		Date:       "2025-01-07",
		StartTime:  "06:00",
		EndTime:    "12:00",
	}
}

func TestCheckShift_RestBreachAcrossStores(t *testing.T) {
	database := checkShiftDatabase(testShift("a-1", "alice", "s2", testMonday, "12:00", "20:00"))

	check, err := CheckShift(t.Context(), database, testConfig(), zap.NewNop(), tuesdayMorning())

	require.NoError(t, err)
	assert.False(t, check.CanAssign)

	var dailyRest []compliance.Violation
	for _, v := range check.Violations {
		if v.RuleType == compliance.RuleDailyRest {
			dailyRest = append(dailyRest, v)
		}
	}
	require.Len(t, dailyRest, 1)
	assert.InDelta(t, 10.0, dailyRest[0].CurrentValue, 0.001)
}

func TestCheckShift_EnoughRest(t *testing.T) {
	database := checkShiftDatabase(testShift("a-1", "alice", "s2", testMonday, "09:00", "15:00"))

	check, err := CheckShift(t.Context(), database, testConfig(), zap.NewNop(), tuesdayMorning())

	require.NoError(t, err)
	assert.True(t, check.CanAssign)
	assert.Empty(t, check.Violations)
}

func TestCheckShift_CancelledShiftsIgnored(t *testing.T) {
	cancelled := testShift("a-1", "alice", "s2", testMonday, "12:00", "20:00")
	cancelled.Status = model.StatusCancelled
	database := checkShiftDatabase(cancelled)

	check, err := CheckShift(t.Context(), database, testConfig(), zap.NewNop(), tuesdayMorning())

	require.NoError(t, err)
	assert.True(t, check.CanAssign)
}

func TestCheckShift_ConfiguredRestThreshold(t *testing.T) {
	database := checkShiftDatabase(testShift("a-1", "alice", "s2", testMonday, "12:00", "20:00"))
	cfg := testConfig()
	dailyRest := 9.0
	shiftGap := 9.0
	cfg.Compliance.DailyRestHours = &dailyRest
	cfg.Compliance.ShiftGapHours = &shiftGap

	check, err := CheckShift(t.Context(), database, cfg, zap.NewNop(), tuesdayMorning())

	require.NoError(t, err)
	assert.True(t, check.CanAssign)
}

func TestCheckShift_Errors(t *testing.T) {
	database := checkShiftDatabase()

	badClock := tuesdayMorning()
	badClock.StartTime = "25:00"
	_, err := CheckShift(t.Context(), database, testConfig(), zap.NewNop(), badClock)
	assert.ErrorIs(t, err, model.ErrInvalidClock)

	badDate := tuesdayMorning()
	badDate.Date = "2025-02-30"
	_, err = CheckShift(t.Context(), database, testConfig(), zap.NewNop(), badDate)
	assert.ErrorIs(t, err, model.ErrInvalidDate)

	unknownEmployee := tuesdayMorning()
	unknownEmployee.EmployeeID = "zed"
	_, err = CheckShift(t.Context(), database, testConfig(), zap.NewNop(), unknownEmployee)
	assert.ErrorIs(t, err, db.ErrNotFound)

	unknownStore := tuesdayMorning()
	unknownStore.StoreID = "missing"
	_, err = CheckShift(t.Context(), database, testConfig(), zap.NewNop(), unknownStore)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
