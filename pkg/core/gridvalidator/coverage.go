package gridvalidator

import (
	"fmt"
	"sort"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

// interval is a half-open [start, end) range in minutes since midnight
type interval struct {
	start, end int
}

// shiftInterval returns the minutes a shift spans on its day. Shifts ending at or before
// their start run past midnight.
func shiftInterval(s model.Shift) interval {
	start := model.ClockMinutes(s.StartTime)
	return interval{start: start, end: start + model.SpanMinutes(s.StartTime, s.EndTime)}
}

// clip restricts an interval to the window; ok is false when nothing remains
func clip(iv interval, window storehours.Window) (interval, bool) {
	clipped := interval{start: max(iv.start, window.OpenMinutes), end: min(iv.end, window.CloseMinutes)}
	return clipped, clipped.end > clipped.start
}

// mergeIntervals returns the union of the intervals as sorted, non-overlapping intervals
func mergeIntervals(intervals []interval) []interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := append([]interval(nil), intervals...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})

	merged := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			last.end = max(last.end, iv.end)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// analyzeCoverage computes the covered share of the open window and its uncovered gaps
func analyzeCoverage(window storehours.Window, shifts []model.Shift, settings Settings) *CoverageAnalysis {
	analysis := &CoverageAnalysis{
		TotalMinutes: window.Minutes(),
		Gaps:         []CoverageGap{},
	}

	clipped := make([]interval, 0, len(shifts))
	for _, s := range shifts {
		if iv, ok := clip(shiftInterval(s), window); ok {
			clipped = append(clipped, iv)
		}
	}
	covered := mergeIntervals(clipped)

	// Walk the covered runs, collecting the holes between them
	cursor := window.OpenMinutes
	for _, iv := range covered {
		analysis.CoveredMinutes += iv.end - iv.start
		if iv.start > cursor {
			analysis.Gaps = append(analysis.Gaps, newGap(cursor, iv.start, settings))
		}
		cursor = iv.end
	}
	if cursor < window.CloseMinutes {
		analysis.Gaps = append(analysis.Gaps, newGap(cursor, window.CloseMinutes, settings))
	}

	if analysis.TotalMinutes > 0 {
		analysis.CoveragePercentage = float64(analysis.CoveredMinutes) / float64(analysis.TotalMinutes) * 100
	}

	if len(covered) > 0 {
		analysis.HasOpeningCoverage = covered[0].start == window.OpenMinutes
		analysis.HasClosingCoverage = covered[len(covered)-1].end == window.CloseMinutes
	}

	return analysis
}

func newGap(start, end int, settings Settings) CoverageGap {
	severity := SeverityWarning
	if end-start > settings.CriticalGapMinutes {
		severity = SeverityCritical
	}
	return CoverageGap{
		Start:           model.FormatClock(start),
		End:             model.FormatClock(end),
		StartMinutes:    start,
		EndMinutes:      end,
		DurationMinutes: end - start,
		Severity:        severity,
	}
}

// checkBoundaries requires a shift around opening time and one around closing time,
// each within the boundary tolerance
func checkBoundaries(date string, window storehours.Window, shifts []model.Shift, settings Settings) []Issue {
	tolerance := settings.BoundaryToleranceMinutes
	hasOpening, hasClosing := false, false

	for _, s := range shifts {
		iv := shiftInterval(s)
		if iv.start <= window.OpenMinutes+tolerance && iv.end > window.OpenMinutes {
			hasOpening = true
		}
		if iv.end >= window.CloseMinutes-tolerance && iv.start < window.CloseMinutes {
			hasClosing = true
		}
	}

	var issues []Issue
	if !hasOpening {
		issues = append(issues, Issue{
			Type:      IssueNoOpeningCoverage,
			Severity:  SeverityCritical,
			Date:      date,
			Message:   fmt.Sprintf("No shift covers opening time %s", window.Open),
			StartTime: window.Open,
		})
	}
	if !hasClosing {
		issues = append(issues, Issue{
			Type:     IssueNoClosingCoverage,
			Severity: SeverityCritical,
			Date:     date,
			Message:  fmt.Sprintf("No shift covers closing time %s", window.Close),
			EndTime:  window.Close,
		})
	}
	return issues
}

// checkContinuousCoverage flags every gap longer than the tolerated overlap and blames the
// shifts whose boundaries lie close to it
func checkContinuousCoverage(date string, coverage *CoverageAnalysis, shifts []model.Shift, settings Settings) []Issue {
	var issues []Issue

	for _, gap := range coverage.Gaps {
		if gap.DurationMinutes <= settings.MinimumOverlapMinutes {
			continue
		}

		affected := []string{}
		for _, s := range shifts {
			iv := shiftInterval(s)
			endsNearGap := abs(iv.end-gap.StartMinutes) <= settings.GapAttributionMinutes
			startsNearGap := abs(iv.start-gap.EndMinutes) <= settings.GapAttributionMinutes
			if endsNearGap || startsNearGap {
				affected = append(affected, s.ID)
			}
		}

		issues = append(issues, Issue{
			Type:      IssueCoverageGap,
			Severity:  gap.Severity,
			Date:      date,
			Message:   fmt.Sprintf("Nobody is scheduled from %s to %s (%d minutes)", gap.Start, gap.End, gap.DurationMinutes),
			StartTime: gap.Start,
			EndTime:   gap.End,
			ShiftIDs:  affected,
		})
	}

	return issues
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
