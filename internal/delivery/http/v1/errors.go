package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/issue-manager/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidTaskID      = errors.New("task id must be a valid uuid")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnprocessableEntityError(message string) apiError {
	return newAPIError(http.StatusUnprocessableEntity, message)
}

// abortWithTaskError maps task service errors onto responses. Client
// mistakes get 400 with a message; storage faults get a bare 500.
func abortWithTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTask):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newBadRequestError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrTaskAlreadyCompleted):
		abort(c, newBadRequestError(services.ErrTaskAlreadyCompleted.Error()))
	case errors.Is(err, services.ErrTaskAlreadyExists):
		abort(c, newBadRequestError(services.ErrTaskAlreadyExists.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
