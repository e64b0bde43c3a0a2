package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskmaster/internal/events"
	"github.com/adanyl0v/go-taskmaster/internal/models"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

// TaskView is a task plus the attributes derived for display.
type TaskView struct {
	*models.Task
	Overdue bool
	Icon    models.Icon
}

// TaskList is one view's copy of the user's tasks. It is not safe
// for concurrent use; every request builds its own.
type TaskList struct {
	logger zerolog.Logger
	store  TaskStore
	events events.Publisher
	userID string

	tasks   []*models.Task
	loading bool
	notices []Notice
}

func NewTaskList(
	logger zerolog.Logger,
	store TaskStore,
	publisher events.Publisher,
	userID string,
) *TaskList {
	return &TaskList{
		logger:  logger,
		store:   store,
		events:  publisher,
		userID:  userID,
		loading: true,
	}
}

// Load replaces the list with the user's tasks, newest first. On
// failure the list is left empty.
func (l *TaskList) Load(ctx context.Context) error {
	defer func() { l.loading = false }()

	tasks, err := l.store.ListTasks(ctx, l.userID)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("user_id", l.userID).
			Msg("failed to load tasks")
		l.tasks = nil
		l.notices = append(l.notices, Failure(err.Error()))
		return err
	}

	l.tasks = tasks
	l.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", l.userID).
		Msg("loaded tasks")
	return nil
}

// ToggleStatus flips the task from current to the opposite status.
// On success the in-memory entry takes the row the store returned; on
// failure the displayed state is left as it was.
func (l *TaskList) ToggleStatus(ctx context.Context, taskID string, current models.Status) error {
	updated, err := l.store.SetTaskStatus(ctx, services.SetTaskStatusParams{
		ID:     taskID,
		UserID: l.userID,
		Status: current.Toggled(),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to toggle task status")
		l.notices = append(l.notices, Failure(err.Error()))
		return err
	}

	for i, task := range l.tasks {
		if task.ID == taskID {
			updated.ID = task.ID
			updated.UserID = task.UserID
			l.tasks[i] = updated
			break
		}
	}

	l.publish(ctx, events.TaskUpdated, taskID)
	l.notices = append(l.notices, Success("Task status updated"))
	return nil
}

func (l *TaskList) Delete(ctx context.Context, taskID string) error {
	err := l.store.DeleteTask(ctx, services.TaskRef{
		ID:     taskID,
		UserID: l.userID,
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		l.notices = append(l.notices, Failure(err.Error()))
		return err
	}

	for i, task := range l.tasks {
		if task.ID == taskID {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			break
		}
	}

	l.publish(ctx, events.TaskDeleted, taskID)
	l.notices = append(l.notices, Success("Task deleted"))
	return nil
}

func (l *TaskList) Tasks() []*models.Task {
	return l.tasks
}

// Views derives the display attributes relative to now.
func (l *TaskList) Views(now time.Time) []TaskView {
	views := make([]TaskView, len(l.tasks))
	for i, task := range l.tasks {
		views[i] = TaskView{
			Task:    task,
			Overdue: task.IsOverdue(now),
			Icon:    task.Priority.Icon(),
		}
	}
	return views
}

func (l *TaskList) isLoading() bool {
	return l.loading
}

func (l *TaskList) Notices() []Notice {
	return l.notices
}

func (l *TaskList) publish(ctx context.Context, typ events.Type, taskID string) {
	if l.events == nil {
		return
	}
	l.events.Publish(ctx, events.Event{
		Type:   typ,
		UserID: l.userID,
		TaskID: taskID,
	})
}
