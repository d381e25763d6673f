package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/cmd/cli/commands"
	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/postgres"
	"github.com/jakechorley/store-rota/pkg/utils/logging"
)

var (
	env      string
	logsDir  string
	verbose  bool
	database *postgres.DB
	app      = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rota",
		Short: "Store rota CLI - Generate and audit retail shift rotas",
		Long:  `A CLI tool for generating store shift rotas, auditing weekly grids and checking rest-rule compliance.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs-dir", logging.DefaultLogsDir, "Directory for log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateRotaCmd(app))
	rootCmd.AddCommand(commands.ValidateGridCmd(app))
	rootCmd.AddCommand(commands.ValidateStoresCmd(app))
	rootCmd.AddCommand(commands.ComplianceReportCmd(app))
	rootCmd.AddCommand(commands.CheckShiftCmd(app))
	rootCmd.AddCommand(commands.ImportStaffCmd(app))
	rootCmd.AddCommand(commands.LockShiftCmd(app))
	rootCmd.AddCommand(commands.UnlockShiftCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and database.
// The sheets client is created on first use by the commands that need it.
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, logsDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("closure_rules", len(app.Cfg.ClosureRules)),
		zap.Int("custom_rules", len(app.Cfg.Compliance.CustomRules)))

	// Connect to the database
	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.Database = database
	app.Migrator = database
	app.Logger.Info("Database initialized successfully")

	return nil
}

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without reconnecting.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Sibling commands, excluding interactive itself
			rootCmd := cmd.Parent()
			available := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				switch subCmd.Name() {
				case "interactive", "completion", "help":
					continue
				}
				available[subCmd.Name()] = subCmd
			}

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}
				if cmdName == "help" {
					printInteractiveHelp(available)
					continue
				}

				targetCmd, exists := available[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset flags left over from a previous run
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Run RunE directly so PersistentPreRunE does not reconnect
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}
				cmdArgs = targetCmd.Flags().Args()

				if targetCmd.Args != nil {
					if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n\n", err)
						continue
					}
				}
				if err := targetCmd.ValidateRequiredFlags(); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}
}

func printInteractiveHelp(available map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("  %-58s %s\n", available[name].Use, available[name].Short)
	}

	fmt.Println("\n  help                                                       Show this help message")
	fmt.Println("  exit, quit                                                 Exit the interactive session")
}
