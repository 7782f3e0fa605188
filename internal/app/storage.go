package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/issue-manager/internal/config"
	"github.com/adanyl0v/issue-manager/internal/services"
	"github.com/adanyl0v/issue-manager/internal/storage/postgres"
	"github.com/adanyl0v/issue-manager/internal/storage/sqlite"
)

// MustOpenTaskRepository picks the task backend: a SQLite file in debug
// mode, postgres otherwise. The returned func releases the backend.
func MustOpenTaskRepository(ctx context.Context, logger zerolog.Logger, cfg *config.Config) (services.TaskRepository, func()) {
	if cfg.Debug {
		repo := MustOpenSQLite(ctx, logger, cfg.SQLite)
		return repo, func() { CloseSQLite(logger, repo) }
	}

	pool := MustConnectPostgres(ctx, logger, cfg.Postgres)
	repo := postgres.NewTaskRepository(pool)

	if cfg.Postgres.AutoMigrate {
		MustMigratePostgres(ctx, logger, repo)
	}

	return repo, func() { DisconnectPostgres(logger, pool) }
}

func MustMigratePostgres(ctx context.Context, logger zerolog.Logger, repo *postgres.TaskRepository) {
	err := repo.EnsureSchema(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ensure tasks schema")
		panic(err)
	}
	logger.Info().Msg("ensured tasks schema")
}

// MustOpenSQLite opens the debug database, creating the file and the tasks
// table when they are missing.
func MustOpenSQLite(ctx context.Context, logger zerolog.Logger, cfg config.SQLiteConfig) *sqlite.TaskRepository {
	repo, err := sqlite.Open(ctx, cfg.Path)
	if err != nil {
		logger.Error().
			Err(err).
			Str("path", cfg.Path).
			Msg("failed to open sqlite database")
		panic(err)
	}
	logger.Warn().
		Str("path", cfg.Path).
		Msg("debug mode: tasks are kept in sqlite")
	return repo
}

func CloseSQLite(logger zerolog.Logger, repo *sqlite.TaskRepository) {
	err := repo.Close()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to close sqlite database")
		return
	}
	logger.Info().Msg("closed sqlite database")
}
