package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/services"
)

// LockShiftCmd creates the lockShift command
func LockShiftCmd(app *AppContext) *cobra.Command {
	return shiftLockCmd(app, "lockShift", "Lock a shift so later runs keep it", true)
}

// UnlockShiftCmd creates the unlockShift command
func UnlockShiftCmd(app *AppContext) *cobra.Command {
	return shiftLockCmd(app, "unlockShift", "Unlock a shift", false)
}

func shiftLockCmd(app *AppContext, name, short string, locked bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <shift_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug(name+" command", zap.String("shift_id", args[0]))

			shift, err := services.SetShiftLock(app.Ctx, app.Database, app.Logger, args[0], locked)
			if err != nil {
				return err
			}

			state := "unlocked"
			if shift.IsLocked {
				state = "locked"
			}
			fmt.Printf("\n✓ Shift %s (%s %s-%s, %s) is %s\n\n",
				shift.ID, shift.Date, shift.StartTime, shift.EndTime, shift.EmployeeID, state)

			return nil
		},
	}
}
