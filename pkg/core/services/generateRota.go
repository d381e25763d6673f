package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/allocator"
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

// contextDays is how far either side of the run compliance context is loaded
const contextDays = 7

// GenerateRotaStore defines the database operations needed for generating a rota
type GenerateRotaStore interface {
	GetStore(ctx context.Context, storeID string) (*model.Store, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListShiftTypes(ctx context.Context) ([]model.ShiftType, error)
	ListShifts(ctx context.Context, storeID, from, to string) ([]model.Shift, error)
	ListEmployeeShifts(ctx context.Context, employeeID, from, to string) ([]model.Shift, error)
	InsertShifts(ctx context.Context, shifts []model.Shift) error
	GetRotaRuns(ctx context.Context, storeID string) ([]db.RotaRun, error)
	InsertRotaRun(ctx context.Context, run *db.RotaRun) error
}

// GenerateRotaResult contains the generated shifts and the engine's report
type GenerateRotaResult struct {
	StoreID string
	Start   string
	End     string
	DryRun  bool

	// Shifts are the new shifts, with IDs assigned
	Shifts []model.Shift

	Outcome *allocator.AllocationOutcome

	// Run is the recorded run, nil on a dry run
	Run *db.RotaRun
}

// GenerateRota runs the rotation engine for a store and persists the new shifts.
// An empty from continues after the store's latest run (or starts next Monday),
// an empty to makes the run one week long.
// If dryRun is true, nothing is saved to the database.
func GenerateRota(
	ctx context.Context,
	database GenerateRotaStore,
	cfg *config.Config,
	logger *zap.Logger,
	storeID string,
	from string,
	to string,
	dryRun bool,
) (*GenerateRotaResult, error) {
	logger.Debug("Starting generateRota",
		zap.String("store_id", storeID),
		zap.String("from", from),
		zap.String("to", to),
		zap.Bool("dry_run", dryRun))

	// Step 1: Resolve the date range
	if from == "" {
		logger.Debug("Fetching rota runs")
		runs, err := database.GetRotaRuns(ctx, storeID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch rota runs: %w", err)
		}

		if latest := db.LatestRotaRun(runs); latest != nil {
			from = model.AddDays(latest.End, 1)
			logger.Debug("Continuing after latest run",
				zap.String("run_id", latest.ID),
				zap.String("latest_end", latest.End),
				zap.String("from", from))
		} else {
			from = nextMonday(time.Now())
			logger.Info("No previous runs found, starting from next Monday", zap.String("from", from))
		}
	}
	if err := validateDate("start date", from); err != nil {
		return nil, err
	}
	if to == "" {
		to = model.AddDays(from, 6)
	}
	if err := validateDate("end date", to); err != nil {
		return nil, err
	}
	if to < from {
		return nil, fmt.Errorf("end date %s is before start date %s", to, from)
	}

	// Step 2: Store with closures applied
	store, err := loadStore(ctx, database, cfg, logger, storeID, from, to)
	if err != nil {
		return nil, err
	}

	// Step 3: Employees and shift templates
	logger.Debug("Fetching employees")
	employees, err := database.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	logger.Debug("Found employees", zap.Int("count", len(employees)))

	shiftTypes, err := database.ListShiftTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift types: %w", err)
	}

	// Step 4: Shifts already in the run and each employee's shifts around it
	existingShifts, err := database.ListShifts(ctx, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing shifts: %w", err)
	}
	existing := make([]model.ShiftAssignment, 0, len(existingShifts))
	for _, s := range activeShifts(existingShifts) {
		existing = append(existing, s.ToAssignment())
	}

	// Rest rules see each employee's shifts at every store
	contextFrom := model.AddDays(from, -contextDays)
	contextTo := model.AddDays(to, contextDays)
	history := []model.Shift{}
	for _, employee := range employees {
		if !employee.Active {
			continue
		}
		employeeShifts, err := database.ListEmployeeShifts(ctx, employee.ID, contextFrom, contextTo)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch shifts for employee %s: %w", employee.ID, err)
		}
		for _, s := range activeShifts(employeeShifts) {
			// Already passed in as existing assignments
			if s.StoreID == storeID && s.Date >= from && s.Date <= to {
				continue
			}
			history = append(history, s)
		}
	}
	logger.Debug("Loaded shift context",
		zap.String("context_from", contextFrom),
		zap.String("context_to", contextTo),
		zap.Int("history", len(history)),
		zap.Int("existing", len(existing)))

	// Step 5: Run the engine
	engine := allocator.NewEngine(cfg.AllocatorConfig(), newValidator(cfg, logger), []model.Store{*store}, cfg.Criteria(), logger)
	outcome := engine.AssignShifts(allocator.AssignRequest{
		StoreID:             storeID,
		Employees:           employees,
		ShiftTypes:          shiftTypes,
		StartDate:           from,
		EndDate:             to,
		ExistingAssignments: existing,
		History:             history,
	})

	shifts := make([]model.Shift, 0, len(outcome.Assignments))
	for _, assignment := range outcome.Assignments {
		shifts = append(shifts, assignment.ToShift(uuid.New().String()))
	}

	result := &GenerateRotaResult{
		StoreID: storeID,
		Start:   from,
		End:     to,
		DryRun:  dryRun,
		Shifts:  shifts,
		Outcome: outcome,
	}

	if dryRun {
		logger.Info("Dry run, rota not saved", zap.Int("shifts", len(shifts)))
		return result, nil
	}

	// Step 6: Persist shifts and record the run
	if len(shifts) > 0 {
		if err := database.InsertShifts(ctx, shifts); err != nil {
			return nil, fmt.Errorf("failed to insert shifts: %w", err)
		}
	}

	run := &db.RotaRun{
		ID:              uuid.New().String(),
		StoreID:         storeID,
		Start:           from,
		End:             to,
		AssignmentCount: len(shifts),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := database.InsertRotaRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record rota run: %w", err)
	}
	result.Run = run

	logger.Info("Rota generated",
		zap.String("store_id", storeID),
		zap.String("run_id", run.ID),
		zap.Int("shifts", len(shifts)))

	return result, nil
}
