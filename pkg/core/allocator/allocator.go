package allocator

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

// Engine generates shift assignments for a store over a date range.
// An engine holds no per-run state: concurrent AssignShifts calls are independent.
type Engine struct {
	config    Config
	validator *compliance.Validator
	stores    map[string]*model.Store
	criteria  []Criterion
	logger    *zap.Logger
}

// NewEngine creates an engine over the given stores.
// A nil validator falls back to the default rules.
func NewEngine(cfg Config, validator *compliance.Validator, stores []model.Store, criteria []Criterion, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = compliance.NewDefaultValidator(logger)
	}

	storeMap := make(map[string]*model.Store, len(stores))
	for i := range stores {
		store := stores[i]
		storeMap[store.ID] = &store
	}

	return &Engine{
		config:    cfg,
		validator: validator,
		stores:    storeMap,
		criteria:  criteria,
		logger:    logger,
	}
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// AssignShifts runs the rotation over the request's date range.
// Invalid requests (no store ID, unknown store, no active employees) produce an empty outcome.
func (e *Engine) AssignShifts(req AssignRequest) *AllocationOutcome {
	outcome := &AllocationOutcome{
		Assignments: []model.ShiftAssignment{},
		Days:        []DayPlan{},
	}

	// Fail fast on invalid input
	if req.StoreID == "" {
		e.logger.Warn("Cannot assign shifts: no store ID")
		return outcome
	}
	store, ok := e.stores[req.StoreID]
	if !ok {
		e.logger.Warn("Cannot assign shifts: unknown store", zap.String("store_id", req.StoreID))
		return outcome
	}
	employees := activeEmployees(req.Employees)
	if len(employees) == 0 {
		e.logger.Warn("Cannot assign shifts: no active employees", zap.String("store_id", req.StoreID))
		return outcome
	}

	dates := model.DateRange(req.StartDate, req.EndDate)

	// Step 1: Weekly analysis, for reporting only
	outcome.Analysis = e.analyse(store, dates, employees)
	e.logger.Info("Starting shift assignment",
		zap.String("store_id", store.ID),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int("employees", len(employees)),
		zap.Int("open_days", outcome.Analysis.OpenDays),
		zap.Float64("open_hours", outcome.Analysis.TotalOpenHours),
		zap.Float64("target_hours", outcome.Analysis.TargetHours),
		zap.Float64("coverage_ratio", outcome.Analysis.CoverageRatio))

	// Step 2: Initial state
	state := e.initState(store, employees, req)

	// Step 3: Fold planDay over the range
	for _, date := range dates {
		var plan DayPlan
		plan, state = e.planDay(state, date, req.ShiftTypes)

		outcome.Days = append(outcome.Days, plan)
		outcome.Assignments = append(outcome.Assignments, plan.Assignments...)
	}
	outcome.FinalState = state

	// Step 4: Diagnostics over the final assignment list
	outcome.Diagnostics = buildDiagnostics(outcome, state)
	e.logDiagnostics(store.ID, outcome.Diagnostics, len(outcome.Assignments))

	return outcome
}

// activeEmployees returns the active employees ordered by ID
func activeEmployees(employees []model.Employee) []model.Employee {
	active := make([]model.Employee, 0, len(employees))
	for _, employee := range employees {
		if employee.Active {
			active = append(active, employee)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}

func (e *Engine) analyse(store *model.Store, dates []string, employees []model.Employee) WeeklyAnalysis {
	analysis := WeeklyAnalysis{ActiveEmployeeCount: len(employees)}

	for _, date := range dates {
		if window, open := storehours.Resolve(store, date); open {
			analysis.OpenDays++
			analysis.TotalOpenHours += window.Hours()
		}
	}

	for _, employee := range employees {
		analysis.TotalContractHours += employee.ContractHours
	}
	analysis.TargetHours = analysis.TotalContractHours * e.config.TargetUtilization

	if analysis.TotalOpenHours > 0 {
		analysis.CoverageRatio = analysis.TargetHours / analysis.TotalOpenHours
	}

	return analysis
}

// initState builds one tracker per employee and the compliance context
func (e *Engine) initState(store *model.Store, employees []model.Employee, req AssignRequest) RotaState {
	trackers := make([]EmployeeTracker, 0, len(employees))
	for _, employee := range employees {
		target := employee.ContractHours * e.config.TargetUtilization
		trackers = append(trackers, EmployeeTracker{
			Employee:       employee,
			TargetHours:    target,
			RemainingHours: target,
			Priority:       e.config.InitialPriority,
		})
	}

	state := NewRotaState(store, trackers, e.config.Preferences)
	state.Existing = req.ExistingAssignments

	// Compliance context: persisted history then existing assignments
	state.Shifts = make([]model.Shift, 0, len(req.History)+len(req.ExistingAssignments))
	state.Shifts = append(state.Shifts, req.History...)
	for i, assignment := range req.ExistingAssignments {
		state.Shifts = append(state.Shifts, assignment.ToShift(fmt.Sprintf("existing-%d", i)))
	}

	return state
}

// planDay plans a single day. It does not modify the given state; the state for the
// next day is returned alongside the plan.
func (e *Engine) planDay(prev RotaState, date string, shiftTypes []model.ShiftType) (DayPlan, RotaState) {
	state := prev.clone()
	plan := DayPlan{Date: date, Assignments: []model.ShiftAssignment{}}

	// Step 1: Effective hours
	window, open := storehours.Resolve(state.Store, date)
	if !open {
		// A closed day is a full rest day for everyone
		for i := range state.Trackers {
			state.Trackers[i].DaysWorked = 0
		}
		e.logger.Debug("Store closed, skipping day", zap.String("date", date))
		return plan, state
	}
	plan.Open = true
	plan.Window = window

	// Step 2: Shift bounds
	plan.MinShifts, plan.MaxShifts = e.shiftBounds(state.StoreID, date, window, len(state.Trackers))

	// Step 3: Priorities
	recomputePriorities(&e.config, &state)

	// Step 4: Number of shifts and coverage pattern
	plan.OptimalShifts = e.optimalShiftCount(&state, window, plan.MinShifts, plan.MaxShifts)
	plan.Slots = e.buildCoveragePattern(date, window, plan.OptimalShifts, shiftTypes)

	// Existing assignments on this day take their employee out of the pool.
	// They staff the store even when the employee has no tracker.
	used := make(map[string]bool)
	worked := make(map[string]float64)
	for _, existing := range state.Existing {
		if existing.Date != date || (existing.StoreID != "" && existing.StoreID != state.StoreID) {
			continue
		}
		if used[existing.EmployeeID] {
			continue
		}
		used[existing.EmployeeID] = true
		plan.ExistingCount++
		if state.Tracker(existing.EmployeeID) != nil {
			worked[existing.EmployeeID] = float64(model.SpanMinutes(existing.StartTime, existing.EndTime)) / 60
		}
	}
	filled := plan.ExistingCount

	// A shift at another store on the same day makes the employee unavailable
	for _, s := range state.Shifts {
		if s.Date == date && !used[s.EmployeeID] && state.Tracker(s.EmployeeID) != nil {
			used[s.EmployeeID] = true
			e.logger.Debug("Employee already working elsewhere",
				zap.String("employee_id", s.EmployeeID),
				zap.String("date", date),
				zap.String("store_id", s.StoreID))
		}
	}

	// Step 5: Fill each slot with the best compliant candidate
	for i := range plan.Slots {
		// Existing assignments may already cover the day
		if filled >= plan.MaxShifts {
			break
		}
		slot := &plan.Slots[i]

		assignment, ok := e.fillSlot(&state, slot, used)
		if !ok {
			plan.UnfilledSlots++
			e.logger.Debug("Slot left unfilled",
				zap.String("date", date),
				zap.String("kind", string(slot.Kind)),
				zap.String("start", slot.StartTime),
				zap.String("end", slot.EndTime))
			continue
		}

		e.commit(&state, &plan, assignment, used, worked)
		filled++
	}

	// Step 6: Emergency fill up to the minimum
	if filled < plan.MinShifts {
		filled += e.emergencyFill(&state, &plan, window, plan.MinShifts-filled, shiftTypes, used, worked)
	}
	if filled < plan.MinShifts {
		plan.Shortfall = plan.MinShifts - filled
		e.logger.Warn("Minimum staffing not reached",
			zap.String("store_id", state.StoreID),
			zap.String("date", date),
			zap.Int("min_shifts", plan.MinShifts),
			zap.Int("filled", filled))
	}

	// Step 7: Tracker update
	weekend := model.IsWeekend(date)
	for i := range state.Trackers {
		tracker := &state.Trackers[i]

		hours, didWork := worked[tracker.Employee.ID]
		if !didWork {
			tracker.DaysWorked = 0
			continue
		}

		tracker.AssignedHours += hours
		tracker.RemainingHours = max(0, tracker.RemainingHours-hours)
		tracker.DaysWorked++
		tracker.LastWorkDate = date
		if weekend {
			tracker.WeekendDaysWorked++
		}
	}

	e.logger.Debug("Day planned",
		zap.String("date", date),
		zap.Int("min_shifts", plan.MinShifts),
		zap.Int("max_shifts", plan.MaxShifts),
		zap.Int("optimal_shifts", plan.OptimalShifts),
		zap.Int("assigned", len(plan.Assignments)),
		zap.Int("existing", plan.ExistingCount),
		zap.Int("unfilled_slots", plan.UnfilledSlots))

	return plan, state
}

// fillSlot walks the ranked candidates and returns the first assignment that passes
// the compliance check
func (e *Engine) fillSlot(state *RotaState, slot *Slot, used map[string]bool) (model.ShiftAssignment, bool) {
	for _, c := range rankCandidates(&e.config, state, slot, used, e.criteria) {
		tracker := &state.Trackers[c.trackerIndex]
		assignment := newAssignment(state.StoreID, tracker.Employee.ID, slot, c.score)

		check := e.validator.CanAssignShiftSafely(assignment, tracker.Employee, state.Shifts, state.Store)
		if !check.CanAssign {
			e.logger.Debug("Candidate rejected by compliance",
				zap.String("employee_id", tracker.Employee.ID),
				zap.String("date", slot.Date),
				zap.String("kind", string(slot.Kind)),
				zap.Int("violations", len(check.Violations)))
			continue
		}

		return assignment, true
	}
	return model.ShiftAssignment{}, false
}

// emergencyFill assigns unused employees a shift over the whole open window until
// needed shifts are added or nobody is left. Critical compliance violations still
// reject a candidate. Returns the number of shifts added.
func (e *Engine) emergencyFill(state *RotaState, plan *DayPlan, window storehours.Window, needed int, shiftTypes []model.ShiftType, used map[string]bool, worked map[string]float64) int {
	slot := Slot{
		Date:         plan.Date,
		Weekday:      model.WeekdayOf(plan.Date),
		Kind:         model.KindFullDay,
		StartTime:    window.Open,
		EndTime:      window.Close,
		StartMinutes: window.OpenMinutes,
		EndMinutes:   window.CloseMinutes,
	}
	e.applyShiftType(&slot, shiftTypes)

	added := 0
	for _, c := range rankByPriority(state, used) {
		if added >= needed {
			break
		}

		tracker := &state.Trackers[c.trackerIndex]
		assignment := newAssignment(state.StoreID, tracker.Employee.ID, &slot, c.score)
		assignment.Emergency = true

		if !e.validator.CanAssignShiftSafely(assignment, tracker.Employee, state.Shifts, state.Store).CanAssign {
			continue
		}

		e.commit(state, plan, assignment, used, worked)
		added++

		e.logger.Info("Emergency shift assigned",
			zap.String("store_id", state.StoreID),
			zap.String("date", plan.Date),
			zap.String("employee_id", tracker.Employee.ID))
	}

	return added
}

// commit records an assignment in the plan and the compliance context
func (e *Engine) commit(state *RotaState, plan *DayPlan, assignment model.ShiftAssignment, used map[string]bool, worked map[string]float64) {
	plan.Assignments = append(plan.Assignments, assignment)
	used[assignment.EmployeeID] = true
	worked[assignment.EmployeeID] = float64(model.SpanMinutes(assignment.StartTime, assignment.EndTime)) / 60

	id := fmt.Sprintf("assignment-%s-%s", assignment.Date, assignment.EmployeeID)
	state.Shifts = append(state.Shifts, assignment.ToShift(id))
}

func newAssignment(storeID, employeeID string, slot *Slot, score float64) model.ShiftAssignment {
	return model.ShiftAssignment{
		EmployeeID:    employeeID,
		StoreID:       storeID,
		Date:          slot.Date,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		BreakDuration: slot.BreakMinutes,
		ActualHours:   model.ActualHoursFor(slot.StartTime, slot.EndTime, slot.BreakMinutes),
		ShiftTypeID:   slot.ShiftTypeID,
		Kind:          slot.Kind,
		Status:        model.StatusDraft,
		Score:         score,
	}
}
