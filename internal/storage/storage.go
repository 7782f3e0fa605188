// Package storage defines the CRUD contract shared by every task backend
// and the error kinds each backend reports.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrFailure      = errors.New("storage failure")
)

// Repository is a keyed CRUD store over entities of type T.
//
// Mutating methods are atomic: on error the store is left as it was.
type Repository[K comparable, T any] interface {
	// List returns every stored entity in no particular order.
	List(ctx context.Context) ([]*T, error)

	// Get returns ErrNotFound if no entity has the given key.
	Get(ctx context.Context, key K) (*T, error)

	// Create stores entity and returns the stored representation.
	// It returns ErrDuplicateKey if the key is taken.
	Create(ctx context.Context, entity *T) (*T, error)

	// Update loads the entity with the given key, lets apply modify it
	// and stores the result, all in one unit of work that concurrent
	// writers of the same key cannot interleave with. apply must not
	// change the key. An error from apply aborts the write and is
	// returned unchanged. It returns ErrNotFound if there is no entity.
	Update(ctx context.Context, key K, apply func(*T) error) (*T, error)

	// Delete removes the entity with the given key.
	// It returns ErrNotFound if there is none.
	Delete(ctx context.Context, key K) error
}
