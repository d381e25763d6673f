package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/model"
)

// EmployeeSource provides the staff roster
type EmployeeSource interface {
	ListEmployees(ctx context.Context, cfg *config.Config) ([]model.Employee, error)
}

// ImportStaffStore defines the database operations needed for importing staff
type ImportStaffStore interface {
	UpsertEmployees(ctx context.Context, employees []model.Employee) error
}

// ImportStaffResult summarises an import
type ImportStaffResult struct {
	Imported int
	Active   int
	Inactive int
}

// ImportStaff reads the roster from the source and upserts it into the database
func ImportStaff(
	ctx context.Context,
	database ImportStaffStore,
	source EmployeeSource,
	cfg *config.Config,
	logger *zap.Logger,
) (*ImportStaffResult, error) {
	// Step 1: Read the roster
	logger.Debug("Fetching staff roster")
	employees, err := source.ListEmployees(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff roster: %w", err)
	}
	logger.Debug("Found employees", zap.Int("count", len(employees)))

	// Step 2: Check the roster before writing any of it
	seen := make(map[string]bool, len(employees))
	result := &ImportStaffResult{}
	for _, e := range employees {
		if e.ID == "" {
			return nil, fmt.Errorf("employee %q has no ID", e.FullName())
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate employee ID %s", e.ID)
		}
		seen[e.ID] = true

		if !e.Role.IsValid() {
			return nil, fmt.Errorf("employee %s has unknown role %q", e.ID, e.Role)
		}
		if e.FixedHours > e.ContractHours {
			logger.Warn("Fixed hours exceed contract hours",
				zap.String("employee_id", e.ID),
				zap.Float64("fixed_hours", e.FixedHours),
				zap.Float64("contract_hours", e.ContractHours))
		}

		if e.Active {
			result.Active++
		} else {
			result.Inactive++
		}
	}

	if len(employees) == 0 {
		logger.Warn("Staff roster is empty, nothing imported")
		return result, nil
	}

	// Step 3: Upsert
	if err := database.UpsertEmployees(ctx, employees); err != nil {
		return nil, fmt.Errorf("failed to save employees: %w", err)
	}
	result.Imported = len(employees)

	logger.Info("Staff imported",
		zap.Int("imported", result.Imported),
		zap.Int("active", result.Active),
		zap.Int("inactive", result.Inactive))

	return result, nil
}
