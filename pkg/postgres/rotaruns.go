package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/store-rota/pkg/db"
)

// GetRotaRuns retrieves the rota runs recorded for a store
func (d *DB) GetRotaRuns(ctx context.Context, storeID string) ([]db.RotaRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, store_id, start_date, end_date, assignment_count, generated_at
		FROM rota_run
		WHERE store_id = $1
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rota runs: %w", err)
	}
	defer rows.Close()

	var runs []db.RotaRun
	for rows.Next() {
		var r db.RotaRun
		var start, end, generatedAt time.Time
		if err := rows.Scan(&r.ID, &r.StoreID, &start, &end, &r.AssignmentCount, &generatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rota run: %w", err)
		}
		r.Start = start.Format("2006-01-02")
		r.End = end.Format("2006-01-02")
		r.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rota runs: %w", err)
	}

	return runs, nil
}

// InsertRotaRun inserts a new rota run record
func (d *DB) InsertRotaRun(ctx context.Context, run *db.RotaRun) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO rota_run (id, store_id, start_date, end_date, assignment_count)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.StoreID, run.Start, run.End, run.AssignmentCount)
	if err != nil {
		return fmt.Errorf("failed to insert rota run: %w", err)
	}
	return nil
}
