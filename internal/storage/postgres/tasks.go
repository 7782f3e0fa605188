package postgres

import (
	"github.com/google/uuid"

	"github.com/adanyl0v/issue-manager/internal/models"
	"github.com/adanyl0v/issue-manager/internal/storage"
)

var TaskTable = Table[uuid.UUID, models.Task]{
	Name:    "tasks",
	Key:     "id",
	Columns: []string{"title", "description", "status"},
	Values: func(t *models.Task) []any {
		return []any{t.ID, t.Title, t.Description, string(t.Status)}
	},
	Schema: []string{`
CREATE TABLE IF NOT EXISTS tasks (
    id          UUID PRIMARY KEY,
    title       VARCHAR(128) NOT NULL CHECK (char_length(title) >= 1),
    description TEXT,
    status      TEXT NOT NULL CHECK (status IN ('created', 'in_progress', 'completed'))
)`,
	},
}

type TaskRepository = Repository[uuid.UUID, models.Task]

var _ storage.Repository[uuid.UUID, models.Task] = (*TaskRepository)(nil)

func NewTaskRepository(db DB) *TaskRepository {
	return New(db, TaskTable)
}
