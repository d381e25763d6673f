package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

// storeGetter is the lookup every store-scoped service starts from
type storeGetter interface {
	GetStore(ctx context.Context, storeID string) (*model.Store, error)
}

// loadStore fetches a store and merges in the closures the configured rules produce
// between from and to. The merged store is validated before use.
func loadStore(ctx context.Context, database storeGetter, cfg *config.Config, logger *zap.Logger, storeID, from, to string) (*model.Store, error) {
	if storeID == "" {
		return nil, errors.New("store ID is required")
	}

	store, err := database.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("store %s: %w", storeID, err)
		}
		return nil, fmt.Errorf("failed to fetch store: %w", err)
	}

	closures, err := cfg.ExpandClosures(storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to expand closure rules: %w", err)
	}
	if len(closures) > 0 {
		logger.Debug("Applying closure rules",
			zap.String("store_id", storeID),
			zap.Int("closures", len(closures)))
		store.ClosureDays = append(store.ClosureDays, closures...)
	}

	if err := store.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store: %w", err)
	}

	return store, nil
}

// newValidator builds the compliance validator the configuration describes
func newValidator(cfg *config.Config, logger *zap.Logger) *compliance.Validator {
	return compliance.NewValidator(cfg.ComplianceRules(), cfg.ComplianceOptions(), logger)
}

// validateDate checks a YYYY-MM-DD argument, naming it in the error
func validateDate(name, value string) error {
	if _, err := model.ParseDate(value); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// nextMonday returns the first Monday strictly after the given time
func nextMonday(from time.Time) string {
	normalized := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	daysUntilMonday := (8 - int(normalized.Weekday())) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}

	return model.FormatDate(normalized.AddDate(0, 0, daysUntilMonday))
}

// activeShifts drops cancelled shifts
func activeShifts(shifts []model.Shift) []model.Shift {
	active := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Status != model.StatusCancelled {
			active = append(active, s)
		}
	}
	return active
}

// findEmployee returns the employee with the given ID
func findEmployee(employees []model.Employee, employeeID string) (model.Employee, bool) {
	for _, e := range employees {
		if e.ID == employeeID {
			return e, true
		}
	}
	return model.Employee{}, false
}

// employeeIDsIn returns the distinct employees of the shifts, sorted
func employeeIDsIn(shifts []model.Shift) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, s := range shifts {
		if s.EmployeeID == "" || seen[s.EmployeeID] {
			continue
		}
		seen[s.EmployeeID] = true
		ids = append(ids, s.EmployeeID)
	}
	sort.Strings(ids)
	return ids
}
