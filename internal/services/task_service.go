package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/issue-manager/internal/models"
	"github.com/adanyl0v/issue-manager/internal/storage"
	"github.com/adanyl0v/issue-manager/internal/validation"
)

type taskServiceImpl struct {
	logger    zerolog.Logger
	repo      TaskRepository
	validator *validation.Validator
	newID     func() (uuid.UUID, error)
}

func NewTaskService(
	logger zerolog.Logger,
	repo TaskRepository,
	validator *validation.Validator,
) TaskService {
	return &taskServiceImpl{
		logger:    logger,
		repo:      repo,
		validator: validator,
		newID:     uuid.NewV7,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		return nil, translateStorageError(err)
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().
				Stringer("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Stringer("task_id", id).
			Msg("failed to get task")
		return nil, translateStorageError(err)
	}
	return task, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params models.CreateTaskParams) (*models.Task, error) {
	err := s.validator.ValidateCreate(params)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("rejected task")
		return nil, err
	}

	var id uuid.UUID
	if params.ID != nil {
		id = *params.ID
	} else {
		id, err = s.newID()
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to generate task uuid")
			return nil, fmt.Errorf("generate task id: %w", err)
		}
	}

	task := &models.Task{
		ID:          id,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Stringer("task_id", id).
			Msg("failed to create task")
		return nil, translateStorageError(err)
	}

	s.logger.Info().
		Stringer("task_id", created.ID).
		Str("status", string(created.Status)).
		Msg("created task")
	return created, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, task *models.Task, params models.UpdateTaskParams) (*models.Task, error) {
	err := CheckTaskUpdatable(task)
	if err != nil {
		s.logger.Debug().
			Stringer("task_id", task.ID).
			Msg("task already completed")
		return nil, err
	}

	err = s.validator.ValidateUpdate(params)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Stringer("task_id", task.ID).
			Msg("rejected task update")
		return nil, err
	}

	if params.Empty() {
		s.logger.Warn().
			Stringer("task_id", task.ID).
			Msg("no fields to update")
		unchanged := *task
		return &unchanged, nil
	}

	updated, err := s.repo.Update(ctx, task.ID, func(current *models.Task) error {
		// task may be stale; the stored status decides.
		err := CheckTaskUpdatable(current)
		if err != nil {
			return err
		}
		*current = params.Apply(*current)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskAlreadyCompleted) {
			s.logger.Debug().
				Stringer("task_id", task.ID).
				Msg("task completed concurrently")
			return nil, err
		}

		s.logger.Error().
			Err(err).
			Stringer("task_id", task.ID).
			Msg("failed to update task")
		return nil, translateStorageError(err)
	}

	s.logger.Info().
		Stringer("task_id", updated.ID).
		Str("status", string(updated.Status)).
		Msg("updated task")
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, task *models.Task) error {
	err := s.repo.Delete(ctx, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Stringer("task_id", task.ID).
			Msg("failed to delete task")
		return translateStorageError(err)
	}

	s.logger.Info().
		Stringer("task_id", task.ID).
		Msg("deleted task")
	return nil
}

func translateStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrTaskNotFound, err)
	case errors.Is(err, storage.ErrDuplicateKey):
		return fmt.Errorf("%w: %w", ErrTaskAlreadyExists, err)
	default:
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
}
