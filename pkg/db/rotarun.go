package db

// RotaRun records one generated rota for a store
type RotaRun struct {
	ID      string
	StoreID string

	// Start and End are the generated date range (YYYY-MM-DD, inclusive)
	Start string
	End   string

	AssignmentCount int

	// GeneratedAt is an RFC 3339 timestamp
	GeneratedAt string
}

// LatestRotaRun returns the run that ends last, or nil when there are none.
// Equal end dates resolve to the most recently generated run.
func LatestRotaRun(runs []RotaRun) *RotaRun {
	var latest *RotaRun
	for i := range runs {
		run := &runs[i]
		if latest == nil ||
			run.End > latest.End ||
			(run.End == latest.End && run.GeneratedAt > latest.GeneratedAt) {
			latest = run
		}
	}
	return latest
}
