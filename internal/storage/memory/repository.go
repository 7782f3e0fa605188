// Package memory keeps entities in process memory. Tests use it as a
// stand-in for the persistent backends.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/adanyl0v/issue-manager/internal/models"
	"github.com/adanyl0v/issue-manager/internal/storage"
)

type Repository[K comparable, T any] struct {
	mu    sync.RWMutex
	keyOf func(*T) K
	clone func(*T) T
	items map[K]T
}

var _ storage.Repository[uuid.UUID, models.Task] = (*Repository[uuid.UUID, models.Task])(nil)

// New returns an empty repository. clone must return a deep copy so that
// callers never share memory with stored entities.
func New[K comparable, T any](keyOf func(*T) K, clone func(*T) T) *Repository[K, T] {
	return &Repository[K, T]{
		keyOf: keyOf,
		clone: clone,
		items: make(map[K]T),
	}
}

func NewTaskRepository() *Repository[uuid.UUID, models.Task] {
	return New((*models.Task).Key, (*models.Task).Clone)
}

func (r *Repository[K, T]) copyOf(entity *T) *T {
	c := r.clone(entity)
	return &c
}

func (r *Repository[K, T]) List(ctx context.Context) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entities := make([]*T, 0, len(r.items))
	for _, item := range r.items {
		entities = append(entities, r.copyOf(&item))
	}
	return entities, nil
}

func (r *Repository[K, T]) Get(ctx context.Context, key K) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r.copyOf(&item), nil
}

func (r *Repository[K, T]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.keyOf(entity)
	if _, ok := r.items[key]; ok {
		return nil, storage.ErrDuplicateKey
	}

	r.items[key] = r.clone(entity)
	return r.copyOf(entity), nil
}

func (r *Repository[K, T]) Update(ctx context.Context, key K, apply func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	entity := r.copyOf(&item)
	if err := apply(entity); err != nil {
		return nil, err
	}

	r.items[key] = r.clone(entity)
	return r.copyOf(entity), nil
}

func (r *Repository[K, T]) Delete(ctx context.Context, key K) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		return storage.ErrNotFound
	}
	delete(r.items, key)
	return nil
}
