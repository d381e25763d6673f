package gridvalidator

import (
	"math"
	"sort"
)

// buildWorkload computes the distribution of hours across employees who worked.
// Equitable when the standard deviation is at most threshold x mean.
func buildWorkload(hours map[string]float64, days map[string]int, names map[string]string, threshold float64) WorkloadDistribution {
	distribution := WorkloadDistribution{
		Employees:   []EmployeeWorkload{},
		IsEquitable: true,
	}

	for employeeID, total := range hours {
		if total <= 0 {
			continue
		}
		distribution.Employees = append(distribution.Employees, EmployeeWorkload{
			EmployeeID:   employeeID,
			EmployeeName: names[employeeID],
			TotalHours:   total,
			DaysWorked:   days[employeeID],
		})
	}
	sort.Slice(distribution.Employees, func(i, j int) bool {
		return distribution.Employees[i].EmployeeID < distribution.Employees[j].EmployeeID
	})

	n := len(distribution.Employees)
	if n == 0 {
		return distribution
	}

	sum := 0.0
	distribution.MaxHours = distribution.Employees[0].TotalHours
	distribution.MinHours = distribution.Employees[0].TotalHours
	for _, e := range distribution.Employees {
		sum += e.TotalHours
		distribution.MaxHours = math.Max(distribution.MaxHours, e.TotalHours)
		distribution.MinHours = math.Min(distribution.MinHours, e.TotalHours)
	}
	mean := sum / float64(n)

	stdDev := 0.0
	if distribution.MaxHours != distribution.MinHours {
		variance := 0.0
		for _, e := range distribution.Employees {
			variance += (e.TotalHours - mean) * (e.TotalHours - mean)
		}
		stdDev = math.Sqrt(variance / float64(n))
	}

	distribution.MeanHours = mean
	distribution.StdDevHours = stdDev
	distribution.IsEquitable = stdDev <= threshold*mean
	distribution.InequityScore = math.Min(100, 100*stdDev/mean)

	return distribution
}
