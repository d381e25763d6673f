package compliance

import (
	"sort"
)

// RuleType identifies what a compliance rule measures
type RuleType string

const (
	RuleDailyRest       RuleType = "daily_rest"
	RuleShiftGap        RuleType = "shift_gap"
	RuleConsecutiveDays RuleType = "consecutive_days"

	// Store and break checks are not configurable rules but are reported with their own types
	ViolationStoreClosed RuleType = "store_closed"
	ViolationStoreHours  RuleType = "store_hours"
	ViolationBreak       RuleType = "break_duration"
)

// IsConfigurable returns true for rule types that can be defined as rules
func (t RuleType) IsConfigurable() bool {
	return t == RuleDailyRest || t == RuleShiftGap || t == RuleConsecutiveDays
}

// Severity of a violation. Critical violations block automatic assignment.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Rule is a single labor-rest rule
type Rule struct {
	ID   string
	Type RuleType
	Name string

	// MinRestHours applies to daily_rest and shift_gap rules
	MinRestHours float64

	// MaxConsecutiveDays applies to consecutive_days rules
	MaxConsecutiveDays int

	Severity       Severity
	LegalReference string
	Active         bool

	// Priority orders rule evaluation, highest first
	Priority int
}

// DefaultRules returns the built-in rest rules
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:             "builtin-daily-rest",
			Type:           RuleDailyRest,
			Name:           "Minimum daily rest",
			MinRestHours:   11,
			Severity:       SeverityCritical,
			LegalReference: "D.Lgs. 66/2003 art. 7",
			Active:         true,
			Priority:       100,
		},
		{
			ID:                 "builtin-consecutive-days",
			Type:               RuleConsecutiveDays,
			Name:               "Maximum consecutive working days",
			MaxConsecutiveDays: 6,
			Severity:           SeverityCritical,
			LegalReference:     "D.Lgs. 66/2003 art. 9",
			Active:             true,
			Priority:           90,
		},
		{
			ID:             "builtin-shift-gap",
			Type:           RuleShiftGap,
			Name:           "Minimum gap between shifts",
			MinRestHours:   11,
			Severity:       SeverityWarning,
			LegalReference: "CCNL Commercio art. 138",
			Active:         true,
			Priority:       80,
		},
	}
}

// activeRules filters out inactive rules and sorts the rest by priority, highest first.
// Equal priorities keep their input order.
func activeRules(rules []Rule) []Rule {
	active := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active {
			active = append(active, rule)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	return active
}
