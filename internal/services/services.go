package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/adanyl0v/issue-manager/internal/models"
	"github.com/adanyl0v/issue-manager/internal/storage"
	"github.com/adanyl0v/issue-manager/internal/validation"
)

var (
	ErrInvalidTask          = validation.ErrInvalid
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrTaskAlreadyExists    = errors.New("task already exists")
	ErrStorageFailure       = errors.New("task storage failure")
)

type TaskRepository = storage.Repository[uuid.UUID, models.Task]

type TaskService interface {
	// ListTasks returns every task in no particular order.
	ListTasks(ctx context.Context) ([]*models.Task, error)

	// GetTask returns ErrTaskNotFound if no task has the given ID.
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)

	// CreateTask validates params, generates an ID unless one is
	// given and stores the task.
	//
	// It returns ErrInvalidTask if params break a field rule or
	// ErrTaskAlreadyExists if the ID is taken.
	CreateTask(ctx context.Context, params models.CreateTaskParams) (*models.Task, error)

	// UpdateTask writes the fields present in params over task.
	//
	// It returns ErrTaskAlreadyCompleted if task is completed,
	// whatever params hold, and ErrInvalidTask if params break
	// a field rule.
	UpdateTask(ctx context.Context, task *models.Task, params models.UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes task permanently.
	DeleteTask(ctx context.Context, task *models.Task) error
}

// CheckTaskUpdatable rejects any update of a completed task.
func CheckTaskUpdatable(task *models.Task) error {
	if task.Status.Frozen() {
		return ErrTaskAlreadyCompleted
	}
	return nil
}
