package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/gridvalidator"
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

// mondayOnlyStore is open 08:00-20:00 on Mondays only
func mondayOnlyStore(id string) model.Store {
	return model.Store{
		ID: id,
		OpeningHours: map[time.Weekday]model.DayHours{
			time.Monday: {Open: "08:00", Close: "20:00"},
		},
	}
}

func gridDatabase() *mockDatabase {
	fullDay := testShift("shift-1", "alice", "s1", testMonday, "08:00", "20:00")
	fullDay.BreakDuration = 60

	return &mockDatabase{
		stores:    []model.Store{mondayOnlyStore("s1"), mondayOnlyStore("s2")},
		employees: []model.Employee{testEmployee("alice", 40)},
		shifts:    []model.Shift{fullDay},
	}
}

func TestValidateGrid_FullyCoveredWeek(t *testing.T) {
	// Any day of the week selects the week
	result, err := ValidateGrid(t.Context(), gridDatabase(), testConfig(), zap.NewNop(), "s1", "2025-01-08")

	require.NoError(t, err)
	assert.Equal(t, "s1", result.StoreID)
	assert.Equal(t, testMonday, result.WeekStart)
	assert.True(t, result.IsValid)
	assert.Equal(t, 100, result.Score)
	require.Len(t, result.Workload.Employees, 1)
	assert.Equal(t, "Employee alice", result.Workload.Employees[0].EmployeeName)
}

func TestValidateGrid_ClosureRuleAppliesToWeek(t *testing.T) {
	cfg := testConfig()
	cfg.ClosureRules = []config.ClosureRule{
		{StoreID: "s1", RRule: "FREQ=WEEKLY;BYDAY=MO", FullDay: true, Reason: "Refit"},
	}

	result, err := ValidateGrid(t.Context(), gridDatabase(), cfg, zap.NewNop(), "s1", testMonday)

	require.NoError(t, err)
	assert.False(t, result.Days[0].Open)

	// The shift now falls on a closed day
	require.Len(t, result.Days[0].Issues, 1)
	assert.Equal(t, gridvalidator.IssueInvalidShift, result.Days[0].Issues[0].Type)
	assert.Equal(t, gridvalidator.SeverityWarning, result.Days[0].Issues[0].Severity)
	assert.Equal(t, 97, result.Score)
	assert.True(t, result.IsValid)
}

func TestValidateGrid_Disabled(t *testing.T) {
	cfg := testConfig()
	disabled := false
	cfg.Grid.Enabled = &disabled

	result, err := ValidateGrid(t.Context(), gridDatabase(), cfg, zap.NewNop(), "s2", testMonday)

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Days)
}

func TestValidateGrid_Errors(t *testing.T) {
	_, err := ValidateGrid(t.Context(), gridDatabase(), testConfig(), zap.NewNop(), "s1", "not-a-date")
	assert.ErrorIs(t, err, model.ErrInvalidDate)

	_, err = ValidateGrid(t.Context(), gridDatabase(), testConfig(), zap.NewNop(), "missing", testMonday)
	assert.ErrorIs(t, err, db.ErrNotFound)

	database := gridDatabase()
	database.listShiftsErr = errors.New("timeout")
	_, err = ValidateGrid(t.Context(), database, testConfig(), zap.NewNop(), "s1", testMonday)
	assert.ErrorContains(t, err, "failed to fetch shifts")
}

func TestValidateStores_ResultsFollowStoreOrder(t *testing.T) {
	result, err := ValidateStores(t.Context(), gridDatabase(), testConfig(), zap.NewNop(), []string{"s2", "s1"}, testMonday)

	require.NoError(t, err)
	require.Len(t, result, 2)

	// s2 has no shifts on its only open day
	assert.Equal(t, "s2", result[0].StoreID)
	assert.Equal(t, 55, result[0].Score)
	assert.False(t, result[0].IsValid)

	assert.Equal(t, "s1", result[1].StoreID)
	assert.Equal(t, 100, result[1].Score)
}

func TestValidateStores_AllStores(t *testing.T) {
	result, err := ValidateStores(t.Context(), gridDatabase(), testConfig(), zap.NewNop(), nil, testMonday)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "s1", result[0].StoreID)
	assert.Equal(t, "s2", result[1].StoreID)
}

func TestValidateStores_UnknownStore(t *testing.T) {
	_, err := ValidateStores(t.Context(), gridDatabase(), testConfig(), zap.NewNop(), []string{"s1", "missing"}, testMonday)

	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorContains(t, err, "store missing")
}
