package db

import (
	"context"
	"errors"

	"github.com/jakechorley/store-rota/pkg/core/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// EmployeeStore defines the interface for employee database operations
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	UpsertEmployees(ctx context.Context, employees []model.Employee) error
}

// StoreStore defines the interface for store database operations
type StoreStore interface {
	GetStore(ctx context.Context, storeID string) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
}

// ShiftStore defines the interface for shift database operations
type ShiftStore interface {
	// ListShifts returns the store's shifts dated from..to inclusive
	ListShifts(ctx context.Context, storeID, from, to string) ([]model.Shift, error)

	// ListEmployeeShifts returns the employee's shifts across every store dated from..to inclusive
	ListEmployeeShifts(ctx context.Context, employeeID, from, to string) ([]model.Shift, error)

	GetShift(ctx context.Context, shiftID string) (*model.Shift, error)
	InsertShifts(ctx context.Context, shifts []model.Shift) error
	SetShiftLocked(ctx context.Context, shiftID string, locked bool) error

	ListShiftTypes(ctx context.Context) ([]model.ShiftType, error)
}

// RotaRunStore defines the interface for rota run database operations
type RotaRunStore interface {
	GetRotaRuns(ctx context.Context, storeID string) ([]RotaRun, error)
	InsertRotaRun(ctx context.Context, run *RotaRun) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	EmployeeStore
	StoreStore
	ShiftStore
	RotaRunStore
}
