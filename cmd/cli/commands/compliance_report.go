package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/services"
)

// ComplianceReportCmd creates the complianceReport command
func ComplianceReportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complianceReport",
		Short: "Show rest and working-day compliance for everyone scheduled at a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, _ := cmd.Flags().GetString("store")
			week, _ := cmd.Flags().GetString("week")

			app.Logger.Debug("complianceReport command", zap.String("store_id", storeID), zap.String("week", week))

			result, err := services.ComplianceReport(app.Ctx, app.Database, app.Cfg, app.Logger, storeID, week)
			if err != nil {
				return fmt.Errorf("compliance report failed: %w", err)
			}

			fmt.Printf("\n%sCompliance for store %s, week of %s%s\n\n", colorBold, result.StoreID, result.WeekStart, colorReset)

			if len(result.Reports) == 0 {
				fmt.Println("No shifts scheduled this week.")
				return nil
			}

			fmt.Printf("%s%-24s  %-7s  %-5s  %-11s  %-12s  %s%s\n", colorBold, "Employee", "Hours", "Score", "Consecutive", "Weekly rest", "Status", colorReset)
			fmt.Println(strings.Repeat("-", 84))
			for _, report := range result.Reports {
				printReportRow(report)
			}
			fmt.Println()

			for _, report := range result.Reports {
				if len(report.Violations) == 0 {
					continue
				}
				fmt.Printf("%s%s%s\n", colorBold, displayReportName(report), colorReset)
				for _, v := range report.Violations {
					fmt.Printf("  %s%-8s%s %s  %s\n", complianceSeverityColor(v.Severity), v.Severity, colorReset, v.Date, v.Description)
					if v.Suggestion != "" {
						fmt.Printf("  %s         %s%s\n", colorDim, v.Suggestion, colorReset)
					}
				}
				fmt.Println()
			}

			if result.NonCompliant > 0 {
				fmt.Printf("%s%d of %d employees have critical violations%s\n\n", colorRed, result.NonCompliant, len(result.Reports), colorReset)
			}

			return nil
		},
	}

	cmd.Flags().String("store", "", "Store ID")
	cmd.Flags().String("week", "", "Any date in the week to report on (YYYY-MM-DD)")
	cmd.MarkFlagRequired("store")
	cmd.MarkFlagRequired("week")

	return cmd
}

func printReportRow(report *compliance.WeeklyReport) {
	weeklyRest := "met"
	if !report.WeeklyRest.Met {
		weeklyRest = "not met"
	}
	fmt.Printf("%-24s  %-7s  %s%-5d%s  %-11d  %-12s  %s\n",
		displayReportName(report),
		formatHours(report.TotalHours),
		scoreColor(report.Score, colorGreen, colorYellow, colorRed), report.Score, colorReset,
		report.MaxConsecutiveDays,
		weeklyRest,
		report.Status)
}

func displayReportName(report *compliance.WeeklyReport) string {
	if report.EmployeeName != "" {
		return report.EmployeeName
	}
	return report.EmployeeID
}
