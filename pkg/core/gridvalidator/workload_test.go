package gridvalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWorkload_Inequitable(t *testing.T) {
	hours := map[string]float64{"alice": 10, "bob": 10, "carol": 20}
	days := map[string]int{"alice": 2, "bob": 2, "carol": 3}
	names := map[string]string{"alice": "Alice Smith"}

	workload := buildWorkload(hours, days, names, 0.2)

	require.Len(t, workload.Employees, 3)
	assert.Equal(t, "alice", workload.Employees[0].EmployeeID)
	assert.Equal(t, "Alice Smith", workload.Employees[0].EmployeeName)
	assert.Equal(t, 3, workload.Employees[2].DaysWorked)

	assert.Equal(t, 20.0, workload.MaxHours)
	assert.Equal(t, 10.0, workload.MinHours)
	assert.InDelta(t, 13.333, workload.MeanHours, 0.001)
	assert.InDelta(t, 4.714, workload.StdDevHours, 0.001)
	assert.False(t, workload.IsEquitable)
	assert.InDelta(t, 35.36, workload.InequityScore, 0.01)
}

func TestBuildWorkload_IdenticalHours(t *testing.T) {
	hours := map[string]float64{"alice": 7.5, "bob": 7.5, "carol": 7.5}

	workload := buildWorkload(hours, nil, nil, 0.2)

	assert.Zero(t, workload.StdDevHours)
	assert.Zero(t, workload.InequityScore)
	assert.True(t, workload.IsEquitable)
}

func TestBuildWorkload_SkipsEmployeesWithoutHours(t *testing.T) {
	hours := map[string]float64{"alice": 8, "bob": 0}

	workload := buildWorkload(hours, nil, nil, 0.2)

	require.Len(t, workload.Employees, 1)
	assert.Equal(t, "alice", workload.Employees[0].EmployeeID)
}

func TestBuildWorkload_Empty(t *testing.T) {
	workload := buildWorkload(map[string]float64{}, nil, nil, 0.2)

	assert.Empty(t, workload.Employees)
	assert.True(t, workload.IsEquitable)
}
