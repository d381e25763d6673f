package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/store-rota/pkg/core/model"
)

// ListEmployees retrieves all employee records ordered by ID
func (d *DB) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, role, contract_hours, fixed_hours, active
		FROM employee
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		var role string
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &role, &e.ContractHours, &e.FixedHours, &e.Active); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.Role = model.Role(role)
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// UpsertEmployees inserts employees, replacing the details of those that already exist
func (d *DB) UpsertEmployees(ctx context.Context, employees []model.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range employees {
		_, err := tx.Exec(ctx, `
			INSERT INTO employee (id, first_name, last_name, email, role, contract_hours, fixed_hours, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				email = EXCLUDED.email,
				role = EXCLUDED.role,
				contract_hours = EXCLUDED.contract_hours,
				fixed_hours = EXCLUDED.fixed_hours,
				active = EXCLUDED.active
		`, e.ID, e.FirstName, e.LastName, e.Email, string(e.Role), e.ContractHours, e.FixedHours, e.Active)
		if err != nil {
			return fmt.Errorf("failed to upsert employee %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
