package main

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/issue-manager/internal/app"
	"github.com/adanyl0v/issue-manager/internal/config"
	"github.com/adanyl0v/issue-manager/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tasks table if it doesn't exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := app.NewDefaultLogger()
		cfg := app.MustReadEnv(logger, config.NewEnvReader())
		logger = app.MustInitApplicationLogger(logger, cfg)

		if cfg.Debug {
			app.CloseSQLite(logger, app.MustOpenSQLite(cmd.Context(), logger, cfg.SQLite))
			return nil
		}

		pool := app.MustConnectPostgres(cmd.Context(), logger, cfg.Postgres)
		defer app.DisconnectPostgres(logger, pool)

		app.MustMigratePostgres(cmd.Context(), logger, postgres.NewTaskRepository(pool))
		return nil
	},
}
