package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
	"github.com/adanyl0v/go-taskmaster/internal/events"
	"github.com/adanyl0v/go-taskmaster/internal/models"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

type getTaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	Overdue     bool       `json:"overdue"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newGetTaskResponse(task *models.Task, now time.Time) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		Overdue:     task.IsOverdue(now),
		CreatedAt:   task.CreatedAt,
	}
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	id, _ := session.FromContext(c)

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	priority, err := models.ParsePriority(req.Priority)
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      id.UserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.abortTaskError(c, err, "failed to create task")
		return
	}

	h.publish(c, events.TaskCreated, task)
	c.JSON(http.StatusCreated, newGetTaskResponse(task, time.Now()))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	id, _ := session.FromContext(c)

	tasks, err := h.tasks.ListTasks(c, id.UserID)
	if err != nil {
		h.abortTaskError(c, err, "failed to list tasks")
		return
	}

	now := time.Now()
	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task, now)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	id, _ := session.FromContext(c)

	status, err := models.ParseStatus(c.Query("status"))
	if err != nil {
		h.logger.Warn().
			Str("status", c.Query("status")).
			Msg("invalid status")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	task, err := h.tasks.SetTaskStatus(c, services.SetTaskStatusParams{
		ID:     c.Param("id"),
		UserID: id.UserID,
		Status: status,
	})
	if err != nil {
		h.abortTaskError(c, err, "failed to set task status")
		return
	}

	h.publish(c, events.TaskUpdated, task)
	c.JSON(http.StatusOK, newGetTaskResponse(task, time.Now()))
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	id, _ := session.FromContext(c)

	task, err := h.tasks.ToggleTaskStatus(c, services.TaskRef{
		ID:     c.Param("id"),
		UserID: id.UserID,
	})
	if err != nil {
		h.abortTaskError(c, err, "failed to toggle task status")
		return
	}

	h.publish(c, events.TaskUpdated, task)
	c.JSON(http.StatusOK, newGetTaskResponse(task, time.Now()))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, _ := session.FromContext(c)

	ref := services.TaskRef{
		ID:     c.Param("id"),
		UserID: id.UserID,
	}
	err := h.tasks.DeleteTask(c, ref)
	if err != nil {
		h.abortTaskError(c, err, "failed to delete task")
		return
	}

	h.publish(c, events.TaskDeleted, &models.Task{ID: ref.ID, UserID: ref.UserID})
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(err.Error()))
	case errors.Is(err, services.ErrInvalidTaskTitle),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority):
		abort(c, newBadRequestError(err.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg(msg)
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

func (h *handlerImpl) publish(c *gin.Context, typ events.Type, task *models.Task) {
	if h.events == nil {
		return
	}
	h.events.Publish(c, events.Event{
		Type:   typ,
		UserID: task.UserID,
		TaskID: task.ID,
	})
}
