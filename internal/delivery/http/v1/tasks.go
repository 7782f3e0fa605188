package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adanyl0v/issue-manager/internal/models"
)

// taskResponse omits a missing description rather than sending null.
type taskResponse struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Status      models.Status `json:"status"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
	}
}

type createTaskRequest struct {
	ID          *uuid.UUID    `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      models.Status `json:"status"`
}

func (r createTaskRequest) params() models.CreateTaskParams {
	return models.CreateTaskParams{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

// A JSON null is treated the same as an absent field.
type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *models.Status `json:"status"`
}

func (r updateTaskRequest) params() models.UpdateTaskParams {
	return models.UpdateTaskParams{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c.Request.Context())
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abortWithTaskError(c, err)
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	task, ok := h.checkTaskExists(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), req.params())
	if err != nil {
		abortWithTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	task, ok := h.checkTaskExists(c, id)
	if !ok {
		return
	}

	if !h.checkTaskUpdatable(c, task) {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err = h.tasks.UpdateTask(c.Request.Context(), task, req.params())
	if err != nil {
		abortWithTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	task, ok := h.checkTaskExists(c, id)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c.Request.Context(), task)
	if err != nil {
		abortWithTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
