// Package dashboard holds the task creation form and task list that
// make up the main page, independent of how they are rendered.
package dashboard

import (
	"context"

	"github.com/adanyl0v/go-taskmaster/internal/models"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient message shown to the user after an action.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(message string) Notice {
	return Notice{Level: LevelSuccess, Message: message}
}

func Failure(message string) Notice {
	return Notice{Level: LevelError, Message: message}
}

type UserResolver interface {
	GetUser(ctx context.Context, sessionID string) (*models.User, error)
}

type TaskCreator interface {
	CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error)
}

type TaskStore interface {
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	SetTaskStatus(ctx context.Context, params services.SetTaskStatusParams) (*models.Task, error)
	DeleteTask(ctx context.Context, params services.TaskRef) error
}
