package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/model"
)

// ComplianceReportStore defines the database operations needed for a weekly compliance report
type ComplianceReportStore interface {
	GetStore(ctx context.Context, storeID string) (*model.Store, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListShifts(ctx context.Context, storeID, from, to string) ([]model.Shift, error)
	ListEmployeeShifts(ctx context.Context, employeeID, from, to string) ([]model.Shift, error)
}

// ComplianceReportResult holds one report per employee who works the week at the store
type ComplianceReportResult struct {
	StoreID   string
	WeekStart string
	Reports   []*compliance.WeeklyReport

	// NonCompliant counts reports with at least one critical violation
	NonCompliant int
}

// ComplianceReport builds the weekly compliance report of everyone scheduled at a store.
// Each employee's shifts at other stores and in the surrounding days are used as context.
func ComplianceReport(
	ctx context.Context,
	database ComplianceReportStore,
	cfg *config.Config,
	logger *zap.Logger,
	storeID string,
	weekStart string,
) (*ComplianceReportResult, error) {
	if err := validateDate("week", weekStart); err != nil {
		return nil, err
	}
	monday := model.WeekStart(weekStart)
	weekEnd := model.AddDays(monday, 6)

	// Step 1: The store must exist
	if _, err := loadStore(ctx, database, cfg, logger, storeID, monday, weekEnd); err != nil {
		return nil, err
	}

	// Step 2: Who works the week here
	storeShifts, err := database.ListShifts(ctx, storeID, monday, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	employeeIDs := employeeIDsIn(activeShifts(storeShifts))
	logger.Debug("Employees scheduled", zap.Int("count", len(employeeIDs)))

	employees, err := database.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	// Step 3: One report per employee
	validator := newValidator(cfg, logger)
	result := &ComplianceReportResult{
		StoreID:   storeID,
		WeekStart: monday,
		Reports:   make([]*compliance.WeeklyReport, 0, len(employeeIDs)),
	}

	for _, employeeID := range employeeIDs {
		employee, ok := findEmployee(employees, employeeID)
		if !ok {
			logger.Warn("Shift belongs to unknown employee", zap.String("employee_id", employeeID))
			employee = model.Employee{ID: employeeID}
		}

		shifts, err := database.ListEmployeeShifts(ctx, employeeID, model.AddDays(monday, -contextDays), model.AddDays(weekEnd, 1))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch shifts for employee %s: %w", employeeID, err)
		}

		report := validator.GenerateWeeklyComplianceReport(employee, monday, activeShifts(shifts))
		if report.CriticalCount() > 0 {
			result.NonCompliant++
		}
		result.Reports = append(result.Reports, report)
	}

	logger.Info("Compliance report generated",
		zap.String("store_id", storeID),
		zap.String("week_start", monday),
		zap.Int("employees", len(result.Reports)),
		zap.Int("non_compliant", result.NonCompliant))

	return result, nil
}
