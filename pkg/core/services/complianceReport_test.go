package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

func complianceDatabase() *mockDatabase {
	cancelled := testShift("c-1", "bob", "s1", "2025-01-07", "06:00", "10:00")
	cancelled.Status = model.StatusCancelled

	return &mockDatabase{
		stores: []model.Store{
			testStore("s1", "06:00", "22:00"),
			testStore("s2", "06:00", "22:00"),
		},
		employees: []model.Employee{
			testEmployee("alice", 40),
			testEmployee("bob", 40),
			testEmployee("carol", 40),
		},
		shifts: []model.Shift{
			// alice gets 8 hours of rest between Monday and Tuesday
			testShift("a-1", "alice", "s1", "2025-01-06", "14:00", "22:00"),
			testShift("a-2", "alice", "s1", "2025-01-07", "06:00", "14:00"),
			testShift("b-1", "bob", "s1", "2025-01-06", "09:00", "17:00"),
			cancelled,
			testShift("c-2", "carol", "s2", "2025-01-06", "09:00", "17:00"),
		},
	}
}

func TestComplianceReport_OneReportPerScheduledEmployee(t *testing.T) {
	result, err := ComplianceReport(t.Context(), complianceDatabase(), testConfig(), zap.NewNop(), "s1", testMonday)

	require.NoError(t, err)
	assert.Equal(t, "s1", result.StoreID)
	assert.Equal(t, testMonday, result.WeekStart)

	// carol only works at s2
	require.Len(t, result.Reports, 2)
	alice, bob := result.Reports[0], result.Reports[1]

	assert.Equal(t, "alice", alice.EmployeeID)
	assert.Equal(t, "Employee alice", alice.EmployeeName)
	assert.Greater(t, alice.CriticalCount(), 0)
	assert.Equal(t, 16.0, alice.TotalHours)

	// The cancelled shift is not worked
	assert.Equal(t, "bob", bob.EmployeeID)
	assert.Equal(t, 0, bob.CriticalCount())
	assert.Equal(t, 8.0, bob.TotalHours)

	assert.Equal(t, 1, result.NonCompliant)
}

func TestComplianceReport_ShiftsAtOtherStoresCount(t *testing.T) {
	database := complianceDatabase()
	// bob closes s2 on Sunday night and opens s1 on Monday morning
	database.shifts = append(database.shifts, testShift("b-0", "bob", "s2", "2025-01-05", "14:00", "23:00"))

	result, err := ComplianceReport(t.Context(), database, testConfig(), zap.NewNop(), "s1", testMonday)

	require.NoError(t, err)
	require.Len(t, result.Reports, 2)
	assert.Greater(t, result.Reports[1].CriticalCount(), 0)
	assert.Equal(t, 2, result.NonCompliant)
}

func TestComplianceReport_UnknownStore(t *testing.T) {
	_, err := ComplianceReport(t.Context(), complianceDatabase(), testConfig(), zap.NewNop(), "missing", testMonday)

	assert.ErrorIs(t, err, db.ErrNotFound)
}
