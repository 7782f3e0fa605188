package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "issue-manager",
	Short: "issue-manager - HTTP service for managing tasks",
	Long: `issue-manager serves a small CRUD API over tasks.

Tasks have a title, an optional description and a status of created,
in_progress or completed. Completed tasks can no longer be updated.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
