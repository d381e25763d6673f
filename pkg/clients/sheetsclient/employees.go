package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/core/model"
)

// Expected column names in the staff sheet
const (
	colID            = "Employee ID"
	colFirstName     = "First name"
	colLastName      = "Last name"
	colEmail         = "Email"
	colRole          = "Role"
	colContractHours = "Contract hours"
	colFixedHours    = "Fixed hours"
	colStatus        = "Status"
)

var employeeFields = []string{
	colID,
	colFirstName,
	colLastName,
	colEmail,
	colRole,
	colContractHours,
	colFixedHours,
	colStatus,
}

// ListEmployees retrieves and parses the staff roster from the configured spreadsheet
func (c *Client) ListEmployees(ctx context.Context, cfg *config.Config) ([]model.Employee, error) {
	values, err := c.GetValues(ctx, cfg.StaffSheet.SheetID, cfg.StaffSheet.Tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	employees, err := parseEmployees(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse employees: %w", err)
	}

	return employees, nil
}

// parseEmployees converts raw spreadsheet data into employees.
// Rows without an ID are skipped; a status other than "Active" marks the employee inactive.
func parseEmployees(raw [][]interface{}) ([]model.Employee, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	for _, field := range employeeFields {
		index := -1
		for i, cell := range raw[0] {
			if cellStr, ok := cell.(string); ok && strings.TrimSpace(cellStr) == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []interface{}) string {
		index := fieldIndexes[field]
		if index >= len(row) {
			return ""
		}
		switch v := row[index].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return ""
		}
	}

	getHours := func(field string, row []interface{}, rowNum int) (float64, error) {
		value := getField(field, row)
		if value == "" {
			return 0, nil
		}
		hours, err := strconv.ParseFloat(value, 64)
		if err != nil || hours < 0 {
			return 0, fmt.Errorf("invalid %s %q in row %d", strings.ToLower(field), value, rowNum)
		}
		return hours, nil
	}

	employees := make([]model.Employee, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField(colID, row)
		if id == "" {
			continue
		}

		role := model.Role(getField(colRole, row))
		if !role.IsValid() {
			return nil, fmt.Errorf("invalid role %q in row %d", role, i+1)
		}

		contractHours, err := getHours(colContractHours, row, i+1)
		if err != nil {
			return nil, err
		}
		fixedHours, err := getHours(colFixedHours, row, i+1)
		if err != nil {
			return nil, err
		}

		employees = append(employees, model.Employee{
			ID:            id,
			FirstName:     getField(colFirstName, row),
			LastName:      getField(colLastName, row),
			Email:         getField(colEmail, row),
			Role:          role,
			ContractHours: contractHours,
			FixedHours:    fixedHours,
			Active:        strings.EqualFold(getField(colStatus, row), "active"),
		})
	}

	return employees, nil
}
