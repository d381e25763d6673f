package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/model"
)

// SetShiftLockStore defines the database operations needed for locking shifts
type SetShiftLockStore interface {
	GetShift(ctx context.Context, shiftID string) (*model.Shift, error)
	SetShiftLocked(ctx context.Context, shiftID string, locked bool) error
}

// SetShiftLock locks or unlocks a shift. Locked shifts are kept as they are by later runs.
// Cancelled shifts cannot be locked.
func SetShiftLock(ctx context.Context, database SetShiftLockStore, logger *zap.Logger, shiftID string, locked bool) (*model.Shift, error) {
	shift, err := database.GetShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift %s: %w", shiftID, err)
	}

	if shift.IsLocked == locked {
		logger.Debug("Shift lock unchanged", zap.String("shift_id", shiftID), zap.Bool("locked", locked))
		return shift, nil
	}

	if locked && shift.Status == model.StatusCancelled {
		return nil, fmt.Errorf("shift %s is cancelled and cannot be locked", shiftID)
	}

	if err := database.SetShiftLocked(ctx, shiftID, locked); err != nil {
		return nil, fmt.Errorf("failed to update shift %s: %w", shiftID, err)
	}
	shift.IsLocked = locked

	logger.Info("Shift lock updated", zap.String("shift_id", shiftID), zap.Bool("locked", locked))

	return shift, nil
}
