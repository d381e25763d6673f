package services

import (
	"context"
	"sync"
	"time"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

// mockDatabase implements every store interface the services need
type mockDatabase struct {
	mu sync.Mutex

	stores     []model.Store
	employees  []model.Employee
	shiftTypes []model.ShiftType
	shifts     []model.Shift
	rotaRuns   []db.RotaRun

	insertedShifts   []model.Shift
	insertedRuns     []db.RotaRun
	upsertedEmployee []model.Employee
	lockCalls        int

	getStoreErr     error
	listShiftsErr   error
	insertShiftsErr error
	upsertErr       error
}

func (m *mockDatabase) GetStore(ctx context.Context, storeID string) (*model.Store, error) {
	if m.getStoreErr != nil {
		return nil, m.getStoreErr
	}
	for _, s := range m.stores {
		if s.ID == storeID {
			// Callers may append closures, so never hand out the shared slices
			store := s
			store.ClosureDays = append([]model.ClosureDay(nil), s.ClosureDays...)
			return &store, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockDatabase) ListStores(ctx context.Context) ([]model.Store, error) {
	return m.stores, nil
}

func (m *mockDatabase) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return m.employees, nil
}

func (m *mockDatabase) UpsertEmployees(ctx context.Context, employees []model.Employee) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedEmployee = append(m.upsertedEmployee, employees...)
	return nil
}

func (m *mockDatabase) ListShifts(ctx context.Context, storeID, from, to string) ([]model.Shift, error) {
	if m.listShiftsErr != nil {
		return nil, m.listShiftsErr
	}
	result := []model.Shift{}
	for _, s := range m.shifts {
		if s.StoreID == storeID && s.Date >= from && s.Date <= to {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockDatabase) ListEmployeeShifts(ctx context.Context, employeeID, from, to string) ([]model.Shift, error) {
	result := []model.Shift{}
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID && s.Date >= from && s.Date <= to {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockDatabase) GetShift(ctx context.Context, shiftID string) (*model.Shift, error) {
	for _, s := range m.shifts {
		if s.ID == shiftID {
			shift := s
			return &shift, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockDatabase) InsertShifts(ctx context.Context, shifts []model.Shift) error {
	if m.insertShiftsErr != nil {
		return m.insertShiftsErr
	}
	m.insertedShifts = append(m.insertedShifts, shifts...)
	return nil
}

func (m *mockDatabase) SetShiftLocked(ctx context.Context, shiftID string, locked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockCalls++
	for i := range m.shifts {
		if m.shifts[i].ID == shiftID {
			m.shifts[i].IsLocked = locked
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *mockDatabase) ListShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	return m.shiftTypes, nil
}

func (m *mockDatabase) GetRotaRuns(ctx context.Context, storeID string) ([]db.RotaRun, error) {
	result := []db.RotaRun{}
	for _, run := range m.rotaRuns {
		if run.StoreID == storeID {
			result = append(result, run)
		}
	}
	return result, nil
}

func (m *mockDatabase) InsertRotaRun(ctx context.Context, run *db.RotaRun) error {
	m.insertedRuns = append(m.insertedRuns, *run)
	return nil
}

// mockEmployeeSource implements EmployeeSource for testing
type mockEmployeeSource struct {
	employees []model.Employee
	listErr   error
}

func (m *mockEmployeeSource) ListEmployees(ctx context.Context, cfg *config.Config) ([]model.Employee, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.employees, nil
}

// Test fixtures

// testMonday is a Monday
const testMonday = "2025-01-06"

func testStore(id string, open, closeTime string) model.Store {
	hours := make(map[time.Weekday]model.DayHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = model.DayHours{Open: open, Close: closeTime}
	}
	return model.Store{ID: id, Name: "Store " + id, OpeningHours: hours}
}

func testEmployee(id string, contractHours float64) model.Employee {
	return model.Employee{
		ID:            id,
		FirstName:     "Employee",
		LastName:      id,
		Role:          model.RoleSales,
		ContractHours: contractHours,
		Active:        true,
	}
}

func testShift(id, employeeID, storeID, date, start, end string) model.Shift {
	return model.Shift{
		ID:          id,
		EmployeeID:  employeeID,
		StoreID:     storeID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		ActualHours: model.DurationHours(start, end),
		Status:      model.StatusPublished,
	}
}

func testConfig() *config.Config {
	return &config.Config{DatabaseURL: "postgres://localhost/rota"}
}
