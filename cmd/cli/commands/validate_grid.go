package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/gridvalidator"
	"github.com/jakechorley/store-rota/pkg/core/services"
)

// ValidateGridCmd creates the validateGrid command
func ValidateGridCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validateGrid",
		Short: "Audit a store's week of shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, _ := cmd.Flags().GetString("store")
			week, _ := cmd.Flags().GetString("week")

			app.Logger.Debug("validateGrid command", zap.String("store_id", storeID), zap.String("week", week))

			result, err := services.ValidateGrid(app.Ctx, app.Database, app.Cfg, app.Logger, storeID, week)
			if err != nil {
				return fmt.Errorf("grid validation failed: %w", err)
			}

			printGridResult(result)
			return nil
		},
	}

	cmd.Flags().String("store", "", "Store ID")
	cmd.Flags().String("week", "", "Any date in the week to audit (YYYY-MM-DD)")
	cmd.MarkFlagRequired("store")
	cmd.MarkFlagRequired("week")

	return cmd
}

// ValidateStoresCmd creates the validateStores command
func ValidateStoresCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validateStores [store_id...]",
		Short: "Audit the same week for several stores (all stores by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			week, _ := cmd.Flags().GetString("week")

			app.Logger.Debug("validateStores command", zap.Strings("store_ids", args), zap.String("week", week))

			results, err := services.ValidateStores(app.Ctx, app.Database, app.Cfg, app.Logger, args, week)
			if err != nil {
				return fmt.Errorf("grid validation failed: %w", err)
			}

			fmt.Printf("\n%s%-16s  %-5s  %-7s  %-8s  %s%s\n", colorBold, "Store", "Score", "Valid", "Critical", "Warnings", colorReset)
			fmt.Println(strings.Repeat("-", 52))
			for _, result := range results {
				valid := colorGreen + "yes    " + colorReset
				if !result.IsValid {
					valid = colorRed + "no     " + colorReset
				}
				fmt.Printf("%-16s  %s%-5d%s  %s  %-8d  %d\n",
					result.StoreID,
					scoreColor(result.Score, colorGreen, colorYellow, colorRed), result.Score, colorReset,
					valid,
					result.CriticalCount,
					result.WarningCount)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("week", "", "Any date in the week to audit (YYYY-MM-DD)")
	cmd.MarkFlagRequired("week")

	return cmd
}

// printGridResult renders a grid validation day by day
func printGridResult(result *gridvalidator.Result) {
	color := scoreColor(result.Score, colorGreen, colorYellow, colorRed)

	fmt.Printf("\n%sGrid validation for store %s, week of %s%s\n\n", colorBold, result.StoreID, result.WeekStart, colorReset)
	fmt.Printf("Score:    %s%d%s\n", color, result.Score, colorReset)
	if result.IsValid {
		fmt.Printf("Status:   %sVALID%s\n", colorGreen, colorReset)
	} else {
		fmt.Printf("Status:   %sINVALID%s\n", colorRed, colorReset)
	}
	fmt.Printf("Issues:   %d critical, %d warnings, %d info\n\n", result.CriticalCount, result.WarningCount, result.InfoCount)

	for _, day := range result.Days {
		switch {
		case !day.Open:
			fmt.Printf("%s%s  closed%s\n", colorDim, day.Date, colorReset)
		case day.Coverage != nil:
			fmt.Printf("%s  %s-%s  %d shifts  %.1f%% covered\n",
				day.Date, day.Window.Open, day.Window.Close, day.ShiftCount, day.Coverage.CoveragePercentage)
		default:
			fmt.Printf("%s  %s-%s  %d shifts\n", day.Date, day.Window.Open, day.Window.Close, day.ShiftCount)
		}

		for _, issue := range day.Issues {
			printIssue(issue)
		}
	}

	if len(result.Issues) > 0 {
		fmt.Printf("\nWeek:\n")
		for _, issue := range result.Issues {
			printIssue(issue)
		}
	}

	if len(result.Workload.Employees) > 0 {
		fmt.Printf("\n%sWorkload%s (mean %s, inequity %.0f)\n", colorBold, colorReset,
			formatHours(result.Workload.MeanHours), result.Workload.InequityScore)
		for _, e := range result.Workload.Employees {
			name := e.EmployeeName
			if name == "" {
				name = e.EmployeeID
			}
			fmt.Printf("  %-24s  %-7s  %d days\n", name, formatHours(e.TotalHours), e.DaysWorked)
		}
	}
	fmt.Println()
}

func printIssue(issue gridvalidator.Issue) {
	timeRange := issueTimeRange(issue)
	if timeRange != "" {
		timeRange = " [" + timeRange + "]"
	}
	fmt.Printf("    %s%-8s%s %s%s\n", gridSeverityColor(issue.Severity), issue.Severity, colorReset, issue.Message, timeRange)
}
