package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adanyl0v/issue-manager/internal/models"
	"github.com/adanyl0v/issue-manager/internal/services"
)

// parseTaskID aborts with 422 when the path id is not a uuid.
func (h *handlerImpl) parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Str("task_id", raw).
			Msg("malformed task id")
		abort(c, newUnprocessableEntityError(errInvalidTaskID.Error()))
		return uuid.Nil, false
	}
	return id, true
}

// checkTaskExists aborts with 400 naming the id when there is no such task.
func (h *handlerImpl) checkTaskExists(c *gin.Context, id uuid.UUID) (*models.Task, bool) {
	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newBadRequestError(fmt.Sprintf("task with id %s does not exist", id)))
			return nil, false
		}

		h.logger.Error().
			Err(err).
			Stringer("task_id", id).
			Msg("failed to get task")
		abortWithTaskError(c, err)
		return nil, false
	}
	return task, true
}

// checkTaskUpdatable aborts with 400 naming the task when it is completed.
func (h *handlerImpl) checkTaskUpdatable(c *gin.Context, task *models.Task) bool {
	err := services.CheckTaskUpdatable(task)
	if err != nil {
		h.logger.Warn().
			Stringer("task_id", task.ID).
			Msg("update of completed task")
		abort(c, newBadRequestError(fmt.Sprintf("task %q has already been completed", task.Title)))
		return false
	}
	return true
}
