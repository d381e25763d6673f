package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

const shiftColumns = `id, employee_id, store_id, shift_date, start_time, end_time, break_duration,
	actual_hours, shift_type_id, is_locked, status, created_at, updated_at`

// ListShifts retrieves the store's shifts dated from..to inclusive, ordered by date and start time
func (d *DB) ListShifts(ctx context.Context, storeID, from, to string) ([]model.Shift, error) {
	return d.queryShifts(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE store_id = $1 AND shift_date BETWEEN $2 AND $3
		ORDER BY shift_date, start_time, id
	`, storeID, from, to)
}

// ListEmployeeShifts retrieves the employee's shifts in every store dated from..to inclusive
func (d *DB) ListEmployeeShifts(ctx context.Context, employeeID, from, to string) ([]model.Shift, error) {
	return d.queryShifts(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE employee_id = $1 AND shift_date BETWEEN $2 AND $3
		ORDER BY shift_date, start_time, id
	`, employeeID, from, to)
}

// GetShift retrieves a single shift
func (d *DB) GetShift(ctx context.Context, shiftID string) (*model.Shift, error) {
	shifts, err := d.queryShifts(ctx, `SELECT `+shiftColumns+` FROM shift WHERE id = $1`, shiftID)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return nil, fmt.Errorf("shift %s: %w", shiftID, db.ErrNotFound)
	}
	return &shifts[0], nil
}

func (d *DB) queryShifts(ctx context.Context, query string, args ...any) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		var date time.Time
		var shiftTypeID *string
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.StoreID, &date, &s.StartTime, &s.EndTime, &s.BreakDuration,
			&s.ActualHours, &shiftTypeID, &s.IsLocked, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		s.Date = model.FormatDate(date)
		if shiftTypeID != nil {
			s.ShiftTypeID = *shiftTypeID
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// InsertShifts inserts shift records in a single transaction
func (d *DB) InsertShifts(ctx context.Context, shifts []model.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range shifts {
		var shiftTypeID *string
		if s.ShiftTypeID != "" {
			shiftTypeID = &s.ShiftTypeID
		}
		batch.Queue(`
			INSERT INTO shift (id, employee_id, store_id, shift_date, start_time, end_time, break_duration,
				actual_hours, shift_type_id, is_locked, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, s.ID, s.EmployeeID, s.StoreID, s.Date, s.StartTime, s.EndTime, s.BreakDuration,
			s.ActualHours, shiftTypeID, s.IsLocked, s.Status)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert shifts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetShiftLocked locks or unlocks a shift
func (d *DB) SetShiftLocked(ctx context.Context, shiftID string, locked bool) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE shift SET is_locked = $2, updated_at = NOW() WHERE id = $1
	`, shiftID, locked)
	if err != nil {
		return fmt.Errorf("failed to update shift lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %s: %w", shiftID, db.ErrNotFound)
	}
	return nil
}

// ListShiftTypes retrieves all shift templates ordered by ID
func (d *DB) ListShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name, kind, break_minutes FROM shift_type ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift types: %w", err)
	}
	defer rows.Close()

	var shiftTypes []model.ShiftType
	for rows.Next() {
		var st model.ShiftType
		var kind string
		if err := rows.Scan(&st.ID, &st.Name, &kind, &st.BreakMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan shift type: %w", err)
		}
		st.Kind = model.ShiftKind(kind)
		shiftTypes = append(shiftTypes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift types: %w", err)
	}

	return shiftTypes, nil
}
