package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/store-rota/pkg/core/services"
)

// ImportStaffCmd creates the importStaff command
func ImportStaffCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importStaff",
		Short: "Import the staff roster from the staff sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("importStaff command")

			sheetsClient, err := app.SheetsClient()
			if err != nil {
				return err
			}

			result, err := services.ImportStaff(app.Ctx, app.Database, sheetsClient, app.Cfg, app.Logger)
			if err != nil {
				return fmt.Errorf("staff import failed: %w", err)
			}

			fmt.Printf("\n✓ Imported %d employees (%d active, %d inactive)\n\n", result.Imported, result.Active, result.Inactive)

			return nil
		},
	}
}
