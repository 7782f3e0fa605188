package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/issue-manager/internal/models"
	"github.com/adanyl0v/issue-manager/internal/storage"
)

func newTask(title string) *models.Task {
	return &models.Task{
		ID:     uuid.New(),
		Title:  title,
		Status: models.StatusCreated,
	}
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	task := newTask("Test Task")
	created, err := repo.Create(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, task, created)

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	updated, err := repo.Update(ctx, task.ID, func(task *models.Task) error {
		task.Title = "Updated Task"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Task", updated.Title)

	got, err = repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Task", got.Title)

	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err = repo.Get(ctx, task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRepositoryCreateDuplicateKey(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	task := newTask("first")
	_, err := repo.Create(ctx, task)
	require.NoError(t, err)

	duplicate := *task
	duplicate.Title = "second"
	_, err = repo.Create(ctx, &duplicate)
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
}

func TestRepositoryMissingKey(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	_, err := repo.Update(ctx, uuid.New(), func(*models.Task) error {
		t.Fatal("apply called for a missing key")
		return nil
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), storage.ErrNotFound)
}

func TestRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	description := "original"
	task := newTask("original")
	task.Description = &description
	created, err := repo.Create(ctx, task)
	require.NoError(t, err)
	created.Title = "mutated"
	*created.Description = "mutated"
	task.Title = "mutated"
	description = "mutated"

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "original", *got.Description)

	*got.Description = "mutated"
	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "original", *tasks[0].Description)

	updated, err := repo.Update(ctx, task.ID, func(task *models.Task) error {
		task.Title = "renamed"
		return nil
	})
	require.NoError(t, err)
	*updated.Description = "mutated"

	got, err = repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", *got.Description)
}

func TestRepositoryUpdateApplyErrorLeavesEntity(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	task := newTask("original")
	_, err := repo.Create(ctx, task)
	require.NoError(t, err)

	errRejected := errors.New("rejected")
	_, err = repo.Update(ctx, task.ID, func(task *models.Task) error {
		task.Title = "changed"
		return errRejected
	})
	require.ErrorIs(t, err, errRejected)

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
}

func TestRepositoryConcurrentUpdatesKeepEveryChange(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	task := newTask("")
	_, err := repo.Create(ctx, task)
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, task.ID, func(task *models.Task) error {
				task.Title += "x"
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, got.Title, writers)
}

func TestRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	for i := 0; i < 3; i++ {
		_, err = repo.Create(ctx, newTask("task"))
		require.NoError(t, err)
	}

	tasks, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestRepositoryHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTaskRepository().Create(ctx, newTask("task"))
	assert.ErrorIs(t, err, context.Canceled)
}
