package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/services"
)

// GenerateRotaCmd creates the generateRota command
func GenerateRotaCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateRota",
		Short: "Generate shifts for a store",
		Long: `Run the rotation engine for a store and save the new shifts.
Without --from the rota continues after the store's latest run (or starts next Monday).
Without --to the rota covers one week.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, _ := cmd.Flags().GetString("store")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.Logger.Debug("generateRota command",
				zap.String("store_id", storeID),
				zap.String("from", from),
				zap.String("to", to),
				zap.Bool("dry_run", dryRun))

			result, err := services.GenerateRota(app.Ctx, app.Database, app.Cfg, app.Logger, storeID, from, to, dryRun)
			if err != nil {
				return fmt.Errorf("rota generation failed: %w", err)
			}

			// Display header
			fmt.Printf("\n%sRota for store %s%s\n\n", colorBold, result.StoreID, colorReset)
			fmt.Printf("Period:  %s to %s\n", result.Start, result.End)
			if result.DryRun {
				fmt.Printf("Mode:    DRY RUN (not saved)\n")
			} else {
				fmt.Printf("Run ID:  %s\n", result.Run.ID)
			}
			fmt.Printf("Shifts:  %d\n\n", len(result.Shifts))

			names := make(map[string]string)
			for _, e := range result.Outcome.FinalState.Trackers {
				names[e.Employee.ID] = e.Employee.FullName()
			}

			// Display shifts day by day
			fmt.Printf("%s%-12s  %-11s  %-24s  %-9s  %s%s\n", colorBold, "Date", "Time", "Employee", "Kind", "Hours", colorReset)
			fmt.Println(strings.Repeat("-", 72))
			for _, day := range result.Outcome.Days {
				if !day.Open {
					fmt.Printf("%s%-12s  closed%s\n", colorDim, day.Date, colorReset)
					continue
				}
				if len(day.Assignments) == 0 && day.ExistingCount == 0 {
					fmt.Printf("%s%-12s  no shifts%s\n", colorRed, day.Date, colorReset)
					continue
				}
				for _, a := range day.Assignments {
					marker := ""
					if a.Emergency {
						marker = colorYellow + " (emergency)" + colorReset
					}
					fmt.Printf("%-12s  %-11s  %-24s  %-9s  %s%s\n",
						a.Date,
						a.StartTime+"-"+a.EndTime,
						displayName(names, a.EmployeeID),
						string(a.Kind),
						formatHours(model.ActualHoursFor(a.StartTime, a.EndTime, a.BreakDuration)),
						marker)
				}
				if day.ExistingCount > 0 {
					fmt.Printf("%s%-12s  +%d existing%s\n", colorDim, "", day.ExistingCount, colorReset)
				}
			}
			fmt.Println()

			// Display diagnostics
			diagnostics := result.Outcome.Diagnostics
			if len(diagnostics.UncoveredDays) > 0 {
				fmt.Printf("%sUncovered days:%s %s\n", colorRed, colorReset, strings.Join(diagnostics.UncoveredDays, ", "))
			}
			if diagnostics.EmergencyAssignments > 0 {
				fmt.Printf("%sEmergency assignments:%s %d\n", colorYellow, colorReset, diagnostics.EmergencyAssignments)
			}
			if diagnostics.UnfilledSlots > 0 {
				fmt.Printf("%sUnfilled slots:%s %d\n", colorYellow, colorReset, diagnostics.UnfilledSlots)
			}
			if len(diagnostics.UnderTargetEmployees) > 0 {
				fmt.Printf("Under target: %s\n", strings.Join(diagnostics.UnderTargetEmployees, ", "))
			}
			if len(diagnostics.OverTargetEmployees) > 0 {
				fmt.Printf("Over target:  %s\n", strings.Join(diagnostics.OverTargetEmployees, ", "))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("store", "", "Store ID")
	cmd.Flags().String("from", "", "First date of the rota (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last date of the rota (YYYY-MM-DD)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.MarkFlagRequired("store")

	return cmd
}

// displayName returns the employee's name, or the ID when the name is unknown
func displayName(names map[string]string, employeeID string) string {
	if name := names[employeeID]; name != "" {
		return name
	}
	return employeeID
}
