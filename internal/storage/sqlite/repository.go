// Package sqlite keeps tasks in a single SQLite file. It backs debug runs
// so that tasks survive a restart without a postgres server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/adanyl0v/issue-manager/internal/models"
	"github.com/adanyl0v/issue-manager/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL CHECK (length(title) BETWEEN 1 AND 128),
		description TEXT,
		status TEXT NOT NULL CHECK (status IN ('created', 'in_progress', 'completed'))
	);
`

const (
	selectAll  = `SELECT id, title, description, status FROM tasks`
	selectOne  = selectAll + ` WHERE id = ?`
	insertTask = `INSERT INTO tasks (id, title, description, status) VALUES (?, ?, ?, ?)`
	updateTask = `UPDATE tasks SET title = ?, description = ?, status = ? WHERE id = ?`
	deleteTask = `DELETE FROM tasks WHERE id = ?`
)

type TaskRepository struct {
	db *sql.DB
}

var _ storage.Repository[uuid.UUID, models.Task] = (*TaskRepository)(nil)

// Open opens or creates the database at path and makes sure the tasks
// table exists.
func Open(ctx context.Context, path string) (*TaskRepository, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// _txlock=immediate takes the write lock at BEGIN, so a read-modify-write
	// in another process waits instead of failing on commit.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	repo := &TaskRepository{db: db}
	err = repo.migrate(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *TaskRepository) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("ensure tasks schema: %w", mapError(err))
	}
	return nil
}

func (r *TaskRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Status)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectAll)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err)
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, selectOne, id))
	if err != nil {
		return nil, mapError(err)
	}
	return task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	var stored *models.Task
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertTask, task.ID, task.Title, task.Description, string(task.Status))
		if err != nil {
			return err
		}

		stored, err = scanTask(tx.QueryRowContext(ctx, selectOne, task.ID))
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return stored, nil
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, apply func(*models.Task) error) (*models.Task, error) {
	var (
		stored   *models.Task
		applyErr error
	)
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		task, err := scanTask(tx.QueryRowContext(ctx, selectOne, id))
		if err != nil {
			return err
		}

		if applyErr = apply(task); applyErr != nil {
			return applyErr
		}

		_, err = tx.ExecContext(ctx, updateTask, task.Title, task.Description, string(task.Status), id)
		if err != nil {
			return err
		}

		stored, err = scanTask(tx.QueryRowContext(ctx, selectOne, id))
		return err
	})
	if applyErr != nil {
		return nil, applyErr
	}
	if err != nil {
		return nil, mapError(err)
	}
	return stored, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteTask, id)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	return mapError(err)
}

// inTx commits only if fn succeeds and rolls back on every other exit.
func (r *TaskRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	err = fn(tx)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %w", storage.ErrDuplicateKey, err)
		}
	}
	return fmt.Errorf("%w: %w", storage.ErrFailure, err)
}
