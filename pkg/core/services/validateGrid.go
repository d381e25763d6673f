package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/gridvalidator"
	"github.com/jakechorley/store-rota/pkg/core/model"
)

// maxParallelValidations bounds the stores validated at once
const maxParallelValidations = 4

// ValidateGridStore defines the database operations needed for validating a week
type ValidateGridStore interface {
	GetStore(ctx context.Context, storeID string) (*model.Store, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListShifts(ctx context.Context, storeID, from, to string) ([]model.Shift, error)
}

// ValidateStoresStore adds store listing for validating every store
type ValidateStoresStore interface {
	ValidateGridStore
	ListStores(ctx context.Context) ([]model.Store, error)
}

// ValidateGrid audits a store's finalized week.
// Any date inside the week is accepted; the audit starts on its Monday.
func ValidateGrid(
	ctx context.Context,
	database ValidateGridStore,
	cfg *config.Config,
	logger *zap.Logger,
	storeID string,
	weekStart string,
) (*gridvalidator.Result, error) {
	if err := validateDate("week", weekStart); err != nil {
		return nil, err
	}
	monday := model.WeekStart(weekStart)
	if monday != weekStart {
		logger.Debug("Aligning week to Monday", zap.String("given", weekStart), zap.String("week_start", monday))
	}
	weekEnd := model.AddDays(monday, 6)

	employees, err := database.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	return validateStoreWeek(ctx, database, cfg, logger, storeID, monday, weekEnd, employees)
}

// ValidateStores audits the same week for several stores in parallel.
// No store IDs means every store. Results follow the order of the store IDs.
func ValidateStores(
	ctx context.Context,
	database ValidateStoresStore,
	cfg *config.Config,
	logger *zap.Logger,
	storeIDs []string,
	weekStart string,
) ([]*gridvalidator.Result, error) {
	if err := validateDate("week", weekStart); err != nil {
		return nil, err
	}
	monday := model.WeekStart(weekStart)
	weekEnd := model.AddDays(monday, 6)

	if len(storeIDs) == 0 {
		stores, err := database.ListStores(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stores: %w", err)
		}
		for _, s := range stores {
			storeIDs = append(storeIDs, s.ID)
		}
	}
	logger.Debug("Validating stores", zap.Int("count", len(storeIDs)), zap.String("week_start", monday))

	// Employees are shared by every store
	employees, err := database.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	results := make([]*gridvalidator.Result, len(storeIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelValidations)
	for i, storeID := range storeIDs {
		g.Go(func() error {
			result, err := validateStoreWeek(gctx, database, cfg, logger, storeID, monday, weekEnd, employees)
			if err != nil {
				return fmt.Errorf("store %s: %w", storeID, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// validateStoreWeek loads one store's week and runs the grid validator
func validateStoreWeek(
	ctx context.Context,
	database ValidateGridStore,
	cfg *config.Config,
	logger *zap.Logger,
	storeID string,
	weekStart string,
	weekEnd string,
	employees []model.Employee,
) (*gridvalidator.Result, error) {
	store, err := loadStore(ctx, database, cfg, logger, storeID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	shifts, err := database.ListShifts(ctx, storeID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}

	result := gridvalidator.Validate(gridvalidator.Input{
		Store:     store,
		Shifts:    shifts,
		Employees: employees,
		WeekStart: weekStart,
	}, cfg.GridSettings())

	logger.Info("Grid validated",
		zap.String("store_id", storeID),
		zap.String("week_start", weekStart),
		zap.Int("score", result.Score),
		zap.Bool("valid", result.IsValid),
		zap.Int("critical", result.CriticalCount),
		zap.Int("warnings", result.WarningCount))

	return result, nil
}
