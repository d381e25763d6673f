package compliance

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

// ProposedShiftID is the ID given to the temporary shift built by CanAssignShiftSafely
const ProposedShiftID = "proposed"

// Violation is a single broken rule for one employee
type Violation struct {
	RuleType   RuleType
	RuleID     string
	EmployeeID string

	// ShiftIDs are the shifts involved (the validated shift first)
	ShiftIDs []string

	Date        string
	Description string
	Severity    Severity

	// CurrentValue is what was measured (rest hours, consecutive days, overlap minutes...)
	CurrentValue float64

	// RequiredValue is what the rule requires
	RequiredValue float64

	LegalReference string
	Suggestion     string
	Resolved       bool
}

// IsCritical returns true if the violation blocks automatic assignment
func (v Violation) IsCritical() bool {
	return v.Severity == SeverityCritical
}

// Options holds the thresholds that are not expressed as rules
type Options struct {
	// MinStoreOverlapMinutes is the minimum overlap between a shift and the store hours
	MinStoreOverlapMinutes int

	// WeeklyRestHours is the minimum uninterrupted rest within a week
	WeeklyRestHours float64

	// LongShiftMinutes is the length above which a break is expected
	LongShiftMinutes int

	// MinBreakMinutes is the break expected on long shifts
	MinBreakMinutes int
}

// DefaultOptions returns the statutory defaults
func DefaultOptions() Options {
	return Options{
		MinStoreOverlapMinutes: 60,
		WeeklyRestHours:        35,
		LongShiftMinutes:       6 * 60,
		MinBreakMinutes:        30,
	}
}

// Validator checks shifts against labor-rest rules.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	rules   []Rule
	options Options
	logger  *zap.Logger
}

// NewValidator creates a validator from a rule set. Inactive rules are dropped and the
// remaining rules are evaluated highest priority first.
func NewValidator(rules []Rule, options Options, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		rules:   activeRules(rules),
		options: options,
		logger:  logger,
	}
}

// NewDefaultValidator creates a validator with the built-in rules and default options
func NewDefaultValidator(logger *zap.Logger) *Validator {
	return NewValidator(DefaultRules(), DefaultOptions(), logger)
}

// Rules returns the active rules in evaluation order
func (v *Validator) Rules() []Rule {
	return append([]Rule(nil), v.rules...)
}

// Options returns the validator thresholds
func (v *Validator) Options() Options {
	return v.options
}

// ValidateShift checks a shift against the store hours (when store is given) and every
// active rule, using the employee's shift history to find neighbouring shifts.
// The model assumes at most one shift per employee per day.
func (v *Validator) ValidateShift(shift model.Shift, employee model.Employee, history []model.Shift, effectiveDate string, store *model.Store) []Violation {
	violations := []Violation{}

	if store != nil {
		violations = append(violations, v.validateStoreHours(shift, employee, effectiveDate, store)...)
	}

	// Only the employee's own shifts matter from here on
	employeeShifts := shiftsForEmployee(employee.ID, history)

	prev, hasPrev := findShiftOn(employeeShifts, model.AddDays(effectiveDate, -1), shift.ID)
	next, hasNext := findShiftOn(employeeShifts, model.AddDays(effectiveDate, 1), shift.ID)

	for _, rule := range v.rules {
		switch rule.Type {
		case RuleDailyRest, RuleShiftGap:
			if hasPrev {
				rest := restBefore(prev, shift)
				if rest < rule.MinRestHours {
					violations = append(violations, restViolation(rule, employee.ID, shift, prev, effectiveDate, rest, true))
				}
			}
			if hasNext {
				rest := restBefore(shift, next)
				if rest < rule.MinRestHours {
					violations = append(violations, restViolation(rule, employee.ID, shift, next, effectiveDate, rest, false))
				}
			}

		case RuleConsecutiveDays:
			consecutive := CalculateConsecutiveDaysAtDate(employee.ID, effectiveDate, employeeShifts)
			if consecutive > rule.MaxConsecutiveDays {
				violations = append(violations, Violation{
					RuleType:       rule.Type,
					RuleID:         rule.ID,
					EmployeeID:     employee.ID,
					ShiftIDs:       []string{shift.ID},
					Date:           effectiveDate,
					Description:    fmt.Sprintf("%d consecutive working days exceeds the maximum of %d", consecutive, rule.MaxConsecutiveDays),
					Severity:       rule.Severity,
					CurrentValue:   float64(consecutive),
					RequiredValue:  float64(rule.MaxConsecutiveDays),
					LegalReference: rule.LegalReference,
					Suggestion:     "Schedule a rest day within the run of working days",
				})
			}
		}
	}

	// Long shifts should carry a break. Flagged, never blocking.
	span := model.SpanMinutes(shift.StartTime, shift.EndTime)
	if span > v.options.LongShiftMinutes && shift.BreakDuration < v.options.MinBreakMinutes {
		violations = append(violations, Violation{
			RuleType:      ViolationBreak,
			EmployeeID:    employee.ID,
			ShiftIDs:      []string{shift.ID},
			Date:          effectiveDate,
			Description:   fmt.Sprintf("Shift of %.1fh has a %d minute break", float64(span)/60, shift.BreakDuration),
			Severity:      SeverityWarning,
			CurrentValue:  float64(shift.BreakDuration),
			RequiredValue: float64(v.options.MinBreakMinutes),
			Suggestion:    fmt.Sprintf("Add a break of at least %d minutes", v.options.MinBreakMinutes),
		})
	}

	return violations
}

// validateStoreHours checks that the store is open and the shift overlaps its hours
func (v *Validator) validateStoreHours(shift model.Shift, employee model.Employee, date string, store *model.Store) []Violation {
	closed := func(description string) []Violation {
		return []Violation{{
			RuleType:    ViolationStoreClosed,
			EmployeeID:  employee.ID,
			ShiftIDs:    []string{shift.ID},
			Date:        date,
			Description: description,
			Severity:    SeverityCritical,
			Suggestion:  "Move the shift to a day the store is open",
		}}
	}

	if closure, ok := storehours.FindClosure(store, date); ok && closure.FullDay {
		reason := closure.Reason
		if reason == "" {
			reason = "closure"
		}
		return closed(fmt.Sprintf("Store %s is closed on %s (%s)", store.ID, date, reason))
	}

	window, open := storehours.Resolve(store, date)
	if !open {
		return closed(fmt.Sprintf("Store %s has no opening hours on %s", store.ID, model.WeekdayOf(date)))
	}

	start := model.ClockMinutes(shift.StartTime)
	end := start + model.SpanMinutes(shift.StartTime, shift.EndTime)
	overlap := window.Overlap(start, end)

	if overlap == 0 {
		return closed(fmt.Sprintf("Shift %s-%s is entirely outside store hours %s-%s", shift.StartTime, shift.EndTime, window.Open, window.Close))
	}

	if overlap < v.options.MinStoreOverlapMinutes {
		return []Violation{{
			RuleType:      ViolationStoreHours,
			EmployeeID:    employee.ID,
			ShiftIDs:      []string{shift.ID},
			Date:          date,
			Description:   fmt.Sprintf("Shift %s-%s overlaps store hours %s-%s by only %d minutes", shift.StartTime, shift.EndTime, window.Open, window.Close, overlap),
			Severity:      SeverityWarning,
			CurrentValue:  float64(overlap),
			RequiredValue: float64(v.options.MinStoreOverlapMinutes),
			Suggestion:    "Align the shift with the store opening hours",
		}}
	}

	return nil
}

// AssignmentCheck is the outcome of CanAssignShiftSafely
type AssignmentCheck struct {
	CanAssign  bool
	Violations []Violation
}

// CanAssignShiftSafely validates a proposed assignment against all known shifts.
// The assignment is allowed when no violation is critical.
func (v *Validator) CanAssignShiftSafely(proposed model.ShiftAssignment, employee model.Employee, allShifts []model.Shift, store *model.Store) AssignmentCheck {
	temp := proposed.ToShift(ProposedShiftID)

	violations := v.ValidateShift(temp, employee, allShifts, proposed.Date, store)

	canAssign := true
	for _, violation := range violations {
		if violation.IsCritical() {
			canAssign = false
			break
		}
	}

	if !canAssign {
		v.logger.Debug("Assignment rejected by compliance",
			zap.String("employee_id", employee.ID),
			zap.String("date", proposed.Date),
			zap.String("start", proposed.StartTime),
			zap.String("end", proposed.EndTime),
			zap.Int("violations", len(violations)))
	}

	return AssignmentCheck{
		CanAssign:  canAssign,
		Violations: violations,
	}
}

// CalculateConsecutiveDaysAtDate counts the run of contiguous working days through date.
// The date itself counts as worked, so a proposed shift can be checked before it exists.
func CalculateConsecutiveDaysAtDate(employeeID, date string, shifts []model.Shift) int {
	worked := make(map[string]bool)
	for _, s := range shifts {
		if s.EmployeeID == employeeID {
			worked[s.Date] = true
		}
	}

	count := 1

	// Walk backwards
	for d := model.AddDays(date, -1); worked[d]; d = model.AddDays(d, -1) {
		count++
	}

	// Walk forwards
	for d := model.AddDays(date, 1); worked[d]; d = model.AddDays(d, 1) {
		count++
	}

	return count
}

// restBefore returns the rest in hours between the end of `earlier` and the start of `later`.
// `later` is expected on the calendar day after `earlier`.
func restBefore(earlier, later model.Shift) float64 {
	dayOffset := model.DaysBetween(earlier.Date, later.Date)

	earlierEnd := model.ClockMinutes(earlier.StartTime) + model.SpanMinutes(earlier.StartTime, earlier.EndTime)
	laterStart := dayOffset*model.MinutesPerDay + model.ClockMinutes(later.StartTime)

	return float64(laterStart-earlierEnd) / 60
}

func restViolation(rule Rule, employeeID string, shift, neighbour model.Shift, date string, rest float64, neighbourBefore bool) Violation {
	var description, suggestion string
	restMinutes := int(rule.MinRestHours * 60)

	if neighbourBefore {
		// Earliest start that respects the rule, relative to this shift's day
		prevEnd := model.ClockMinutes(neighbour.StartTime) + model.SpanMinutes(neighbour.StartTime, neighbour.EndTime) - model.MinutesPerDay
		earliest := prevEnd + restMinutes
		description = fmt.Sprintf("Only %.1fh rest after the shift ending %s on %s (minimum %.0fh)", rest, neighbour.EndTime, neighbour.Date, rule.MinRestHours)
		if earliest < model.MinutesPerDay {
			suggestion = fmt.Sprintf("Start the shift at %s or later", model.FormatClock(earliest))
		} else {
			suggestion = "Remove the shift or the previous day's shift"
		}
	} else {
		// Latest end that respects the rule
		nextStart := model.MinutesPerDay + model.ClockMinutes(neighbour.StartTime)
		latest := nextStart - restMinutes
		description = fmt.Sprintf("Only %.1fh rest before the shift starting %s on %s (minimum %.0fh)", rest, neighbour.StartTime, neighbour.Date, rule.MinRestHours)
		if latest > 0 && latest <= model.MinutesPerDay {
			suggestion = fmt.Sprintf("End the shift by %s", model.FormatClock(latest))
		} else {
			suggestion = "Remove the shift or the next day's shift"
		}
	}

	return Violation{
		RuleType:       rule.Type,
		RuleID:         rule.ID,
		EmployeeID:     employeeID,
		ShiftIDs:       []string{shift.ID, neighbour.ID},
		Date:           date,
		Description:    description,
		Severity:       rule.Severity,
		CurrentValue:   rest,
		RequiredValue:  rule.MinRestHours,
		LegalReference: rule.LegalReference,
		Suggestion:     suggestion,
	}
}

func shiftsForEmployee(employeeID string, shifts []model.Shift) []model.Shift {
	result := make([]model.Shift, 0)
	for _, s := range shifts {
		if s.EmployeeID == employeeID {
			result = append(result, s)
		}
	}
	return result
}

// findShiftOn returns the first shift on date, skipping the shift with excludeID
func findShiftOn(shifts []model.Shift, date, excludeID string) (model.Shift, bool) {
	for _, s := range shifts {
		if s.Date != date {
			continue
		}
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		return s, true
	}
	return model.Shift{}, false
}
