package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/services"
)

// CheckShiftCmd creates the checkShift command
func CheckShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkShift <employee_id> <store_id> <date> <start> <end>",
		Short: "Check whether a shift can be added without breaking rest rules",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			breakMinutes, _ := cmd.Flags().GetInt("break")

			proposal := services.ShiftProposal{
				EmployeeID:   args[0],
				StoreID:      args[1],
				Date:         args[2],
				StartTime:    args[3],
				EndTime:      args[4],
				BreakMinutes: breakMinutes,
			}

			app.Logger.Debug("checkShift command", zap.Any("proposal", proposal))

			check, err := services.CheckShift(app.Ctx, app.Database, app.Cfg, app.Logger, proposal)
			if err != nil {
				return fmt.Errorf("shift check failed: %w", err)
			}

			fmt.Printf("\nShift %s %s-%s for %s at %s\n\n",
				proposal.Date, proposal.StartTime, proposal.EndTime, proposal.EmployeeID, proposal.StoreID)

			if check.CanAssign {
				fmt.Printf("%s✓ Can be assigned%s\n", colorGreen, colorReset)
			} else {
				fmt.Printf("%s✗ Cannot be assigned%s\n", colorRed, colorReset)
			}

			for _, v := range check.Violations {
				fmt.Printf("  %s%-8s%s %s\n", complianceSeverityColor(v.Severity), v.Severity, colorReset, v.Description)
				if v.LegalReference != "" {
					fmt.Printf("  %s         %s%s\n", colorDim, v.LegalReference, colorReset)
				}
				if v.Suggestion != "" {
					fmt.Printf("  %s         %s%s\n", colorDim, v.Suggestion, colorReset)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("break", 0, "Break length in minutes")

	return cmd
}
