package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/store-rota/internal/config"
	"github.com/jakechorley/store-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/store-rota/pkg/db"
)

// Migrator applies pending schema migrations
type Migrator interface {
	RunMigrations(ctx context.Context) ([]string, error)
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Migrator Migrator
	Logger   *zap.Logger
	Ctx      context.Context

	sheetsClient *sheetsclient.Client
}

// SheetsClient returns the roster client, authorizing on first use.
// Only importStaff reads the sheet, so other commands never start the OAuth flow.
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := app.Cfg.LoadOAuthClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Logger.Debug("Sheets client initialized successfully")

	app.sheetsClient = client
	return client, nil
}
