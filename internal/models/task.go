package models

import "github.com/google/uuid"

type Status string

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status a task may hold.
var Statuses = []Status{StatusCreated, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Frozen reports whether a task in this status rejects updates.
// There is no transition graph: any status may be written over any
// other, except that nothing may be written once a task is completed.
func (s Status) Frozen() bool {
	return s == StatusCompleted
}

type Task struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Status      Status    `db:"status"`
}

func (t *Task) Key() uuid.UUID {
	return t.ID
}

// Clone returns a copy that shares no memory with t.
func (t *Task) Clone() Task {
	clone := *t
	if t.Description != nil {
		description := *t.Description
		clone.Description = &description
	}
	return clone
}

type CreateTaskParams struct {
	// ID is generated when nil.
	ID          *uuid.UUID `json:"id"`
	Title       string     `json:"title" validate:"required,min=1,max=128"`
	Description *string    `json:"description"`
	Status      Status     `json:"status" validate:"required,task_status"`
}

// UpdateTaskParams carries a partial update: nil fields are left unchanged.
type UpdateTaskParams struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=128"`
	Description *string `json:"description"`
	Status      *Status `json:"status" validate:"omitnil,task_status"`
}

func (p UpdateTaskParams) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Apply returns a copy of task with the present fields of p written over it.
func (p UpdateTaskParams) Apply(task Task) Task {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		description := *p.Description
		task.Description = &description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	return task
}
