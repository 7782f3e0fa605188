// Package postgres implements storage.Repository on top of pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/issue-manager/internal/storage"
)

// DB is satisfied by *pgxpool.Pool and *pgx.Conn.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Table describes how entities of type T map onto a single table.
// T must carry `db` struct tags matching the key and columns.
type Table[K comparable, T any] struct {
	Name    string
	Key     string
	Columns []string
	// Values returns the key followed by the Columns values, in order.
	Values func(*T) []any
	// Schema holds idempotent DDL statements run by EnsureSchema.
	Schema []string
}

type queries struct {
	selectAll       string
	selectOne       string
	selectForUpdate string
	insert    string
	update    string
	delete    string
}

func buildQueries(name, key string, columns []string) queries {
	table := pgx.Identifier{name}.Sanitize()
	keyCol := pgx.Identifier{key}.Sanitize()

	all := make([]string, 0, len(columns)+1)
	all = append(all, keyCol)
	for _, col := range columns {
		all = append(all, pgx.Identifier{col}.Sanitize())
	}
	returning := strings.Join(all, ", ")

	placeholders := make([]string, len(all))
	for i := range all {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, 0, len(columns))
	for i, col := range all[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}

	selectOne := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", returning, table, keyCol)

	return queries{
		selectAll:       fmt.Sprintf("SELECT %s FROM %s", returning, table),
		selectOne:       selectOne,
		selectForUpdate: selectOne + " FOR UPDATE",
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			table, returning, strings.Join(placeholders, ", "), returning),
		update: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1 RETURNING %s",
			table, strings.Join(sets, ", "), keyCol, returning),
		delete: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, keyCol),
	}
}

type Repository[K comparable, T any] struct {
	db      DB
	table   Table[K, T]
	queries queries
}

func New[K comparable, T any](db DB, table Table[K, T]) *Repository[K, T] {
	return &Repository[K, T]{
		db:      db,
		table:   table,
		queries: buildQueries(table.Name, table.Key, table.Columns),
	}
}

// EnsureSchema creates the table if it doesn't exist.
func (r *Repository[K, T]) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.table.Schema {
		_, err := r.db.Exec(ctx, stmt)
		if err != nil {
			return fmt.Errorf("ensure %s schema: %w", r.table.Name, mapError(err))
		}
	}
	return nil
}

func (r *Repository[K, T]) List(ctx context.Context) ([]*T, error) {
	rows, err := r.db.Query(ctx, r.queries.selectAll)
	if err != nil {
		return nil, mapError(err)
	}

	entities, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, mapError(err)
	}
	return entities, nil
}

func (r *Repository[K, T]) Get(ctx context.Context, key K) (*T, error) {
	rows, err := r.db.Query(ctx, r.queries.selectOne, key)
	if err != nil {
		return nil, mapError(err)
	}

	entity, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, mapError(err)
	}
	return entity, nil
}

func (r *Repository[K, T]) Create(ctx context.Context, entity *T) (*T, error) {
	var stored *T
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		stored, err = r.write(ctx, tx, r.queries.insert, entity)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return stored, nil
}

// Update holds a row lock from the read until commit, so concurrent
// updates of the same key are applied one after another.
func (r *Repository[K, T]) Update(ctx context.Context, key K, apply func(*T) error) (*T, error) {
	var (
		stored   *T
		applyErr error
	)
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, r.queries.selectForUpdate, key)
		if err != nil {
			return err
		}

		entity, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
		if err != nil {
			return err
		}

		if applyErr = apply(entity); applyErr != nil {
			return applyErr
		}

		stored, err = r.write(ctx, tx, r.queries.update, entity)
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

func (r *Repository[K, T]) write(ctx context.Context, tx pgx.Tx, query string, entity *T) (*T, error) {
	rows, err := tx.Query(ctx, query, r.table.Values(entity)...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
}

func (r *Repository[K, T]) Delete(ctx context.Context, key K) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, r.queries.delete, key)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapError(err)
}

// inTx commits only if fn succeeds and rolls back on every other exit.
func (r *Repository[K, T]) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	err = fn(tx)
	if err != nil {
		rbErr := tx.Rollback(ctx)
		if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %w", storage.ErrDuplicateKey, err)
	}
	return fmt.Errorf("%w: %w", storage.ErrFailure, err)
}
