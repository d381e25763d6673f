package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

// CheckShiftStore defines the database operations needed for checking a proposed shift
type CheckShiftStore interface {
	GetStore(ctx context.Context, storeID string) (*model.Store, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListEmployeeShifts(ctx context.Context, employeeID, from, to string) ([]model.Shift, error)
}

// ShiftProposal is a shift a manager wants to add by hand
type ShiftProposal struct {
	EmployeeID   string
	StoreID      string
	Date         string
	StartTime    string
	EndTime      string
	BreakMinutes int
}

// CheckShift reports whether the proposed shift can be assigned without a critical violation
func CheckShift(
	ctx context.Context,
	database CheckShiftStore,
	cfg *config.Config,
	logger *zap.Logger,
	proposal ShiftProposal,
) (*compliance.AssignmentCheck, error) {
	logger.Debug("Checking proposed shift",
		zap.String("employee_id", proposal.EmployeeID),
		zap.String("store_id", proposal.StoreID),
		zap.String("date", proposal.Date),
		zap.String("start", proposal.StartTime),
		zap.String("end", proposal.EndTime))

	// Step 1: Validate the proposal at the boundary
	candidate := model.Shift{
		ID:            compliance.ProposedShiftID,
		EmployeeID:    proposal.EmployeeID,
		StoreID:       proposal.StoreID,
		Date:          proposal.Date,
		StartTime:     proposal.StartTime,
		EndTime:       proposal.EndTime,
		BreakDuration: proposal.BreakMinutes,
	}
	if err := model.ValidateShiftTimes(candidate); err != nil {
		return nil, fmt.Errorf("invalid proposal: %w", err)
	}

	// Step 2: Employee and store
	employees, err := database.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	employee, ok := findEmployee(employees, proposal.EmployeeID)
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", proposal.EmployeeID, db.ErrNotFound)
	}

	store, err := loadStore(ctx, database, cfg, logger, proposal.StoreID, proposal.Date, proposal.Date)
	if err != nil {
		return nil, err
	}

	// Step 3: The employee's shifts around the date, at any store
	shifts, err := database.ListEmployeeShifts(ctx, employee.ID,
		model.AddDays(proposal.Date, -contextDays), model.AddDays(proposal.Date, contextDays))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee shifts: %w", err)
	}

	assignment := model.ShiftAssignment{
		EmployeeID:    employee.ID,
		StoreID:       store.ID,
		Date:          proposal.Date,
		StartTime:     proposal.StartTime,
		EndTime:       proposal.EndTime,
		BreakDuration: proposal.BreakMinutes,
		ActualHours:   model.ActualHoursFor(proposal.StartTime, proposal.EndTime, proposal.BreakMinutes),
	}

	check := newValidator(cfg, logger).CanAssignShiftSafely(assignment, employee, activeShifts(shifts), store)

	logger.Info("Shift checked",
		zap.String("employee_id", employee.ID),
		zap.String("date", proposal.Date),
		zap.Bool("can_assign", check.CanAssign),
		zap.Int("violations", len(check.Violations)))

	return &check, nil
}
