package main

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/issue-manager/internal/app"
	"github.com/adanyl0v/issue-manager/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		logger := app.NewDefaultLogger()
		cfg := app.MustReadEnv(logger, config.NewEnvReader())
		logger = app.MustInitApplicationLogger(logger, cfg)

		repo, closeRepo := app.MustOpenTaskRepository(cmd.Context(), logger, cfg)
		defer closeRepo()

		app.MustListenAndServeHTTP(logger, cfg.HTTP, app.NewHTTPHandler(logger, cfg, repo))
	},
}
