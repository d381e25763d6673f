package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/db"
)

const storeColumns = `id, name, opening_hours, weekly_schedules, closure_days, staff_requirements`

// GetStore retrieves a single store with its hours, overrides and staffing requirements
func (d *DB) GetStore(ctx context.Context, storeID string) (*model.Store, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM store WHERE id = $1`, storeID)

	store, err := scanStore(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("store %s: %w", storeID, db.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ListStores retrieves all stores ordered by ID
func (d *DB) ListStores(ctx context.Context) ([]model.Store, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+storeColumns+` FROM store ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}

	return stores, nil
}

// scanStore reads a store row, decoding the JSONB columns
func scanStore(row pgx.Row) (*model.Store, error) {
	var store model.Store
	var openingHours, weeklySchedules, closureDays, staffRequirements []byte
	if err := row.Scan(&store.ID, &store.Name, &openingHours, &weeklySchedules, &closureDays, &staffRequirements); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan store: %w", err)
	}

	if err := json.Unmarshal(openingHours, &store.OpeningHours); err != nil {
		return nil, fmt.Errorf("failed to decode opening hours of store %s: %w", store.ID, err)
	}
	if err := json.Unmarshal(weeklySchedules, &store.WeeklySchedules); err != nil {
		return nil, fmt.Errorf("failed to decode weekly schedules of store %s: %w", store.ID, err)
	}
	if err := json.Unmarshal(closureDays, &store.ClosureDays); err != nil {
		return nil, fmt.Errorf("failed to decode closure days of store %s: %w", store.ID, err)
	}
	if err := json.Unmarshal(staffRequirements, &store.StaffRequirements); err != nil {
		return nil, fmt.Errorf("failed to decode staff requirements of store %s: %w", store.ID, err)
	}

	return &store, nil
}
