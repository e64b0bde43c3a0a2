package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskmaster/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool PgxPool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool PgxPool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (task *models.Task, err error) {
	defer func() { observe(taskOperations, "create", err) }()

	title := strings.TrimSpace(params.Title)
	if title == "" || utf8.RuneCountInString(title) > models.MaxTitleLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskTitle, params.Title)
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if _, err = models.ParsePriority(string(priority)); err != nil {
		return nil, ErrInvalidTaskPriority
	}

	task = &models.Task{
		UserID:      params.UserID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Priority:    priority,
		Status:      models.StatusPending,
		DueDate:     params.DueDate,
	}

	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   priority,
                   status,
                   due_date)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
RETURNING id, created_at
`
	err = s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.DueDate,
	).Scan(
		&task.ID,
		&task.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.UserID).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string) (tasks []*models.Task, err error) {
	defer func() { observe(taskOperations, "list", err) }()

	const selectTasksByUserIDQuery = `
SELECT id,
       title,
       COALESCE(description, ''),
       priority,
       status,
       due_date,
       created_at
FROM tasks
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByUserIDQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks = make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		var priority, status string
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&priority,
			&status,
			&task.DueDate,
			&task.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		task.Priority = models.Priority(priority)
		task.Status = models.Status(status)
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")

	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("tasks listed")
	return tasks, nil
}

func (s *taskServiceImpl) SetTaskStatus(ctx context.Context, params SetTaskStatusParams) (task *models.Task, err error) {
	defer func() { observe(taskOperations, "set_status", err) }()

	if _, err = models.ParseStatus(string(params.Status)); err != nil {
		return nil, ErrInvalidTaskStatus
	}

	task = &models.Task{
		ID:     params.ID,
		UserID: params.UserID,
		Status: params.Status,
	}

	const updateTaskStatusQuery = `
UPDATE tasks
SET status = $1
WHERE id = $2 AND user_id = $3
RETURNING title, COALESCE(description, ''), priority, due_date, created_at
`
	var priority string
	err = s.pgPool.QueryRow(
		ctx,
		updateTaskStatusQuery,
		string(task.Status),
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&priority,
		&task.DueDate,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, s.taskQueryError(err, task, "failed to update task status")
	}
	task.Priority = models.Priority(priority)
	s.logger.Debug().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("updated task status")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) ToggleTaskStatus(ctx context.Context, params TaskRef) (task *models.Task, err error) {
	defer func() { observe(taskOperations, "toggle_status", err) }()

	task = &models.Task{
		ID:     params.ID,
		UserID: params.UserID,
	}

	const toggleTaskStatusQuery = `
UPDATE tasks
SET status = CASE WHEN status = 'completed' THEN 'pending' ELSE 'completed' END
WHERE id = $1 AND user_id = $2
RETURNING title, COALESCE(description, ''), priority, status, due_date, created_at
`
	var priority, status string
	err = s.pgPool.QueryRow(
		ctx,
		toggleTaskStatusQuery,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&task.DueDate,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, s.taskQueryError(err, task, "failed to toggle task status")
	}
	task.Priority = models.Priority(priority)
	task.Status = models.Status(status)
	s.logger.Debug().
		Str("task_id", task.ID).
		Str("status", status).
		Msg("toggled task status")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("toggled task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params TaskRef) (err error) {
	defer func() { observe(taskOperations, "delete", err) }()

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		params.ID,
		params.UserID,
	)
	if err != nil {
		return s.taskQueryError(err, &models.Task{ID: params.ID, UserID: params.UserID}, "failed to delete task")
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", params.ID).
			Str("user_id", params.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", params.ID).
		Msg("deleted task")

	s.logger.Info().
		Str("task_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

// taskQueryError maps a missing row or a malformed id to ErrTaskNotFound.
func (s *taskServiceImpl) taskQueryError(err error, task *models.Task, msg string) error {
	if isNoRows(err) {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("user_id", task.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Error().
		Err(err).
		Str("task_id", task.ID).
		Msg(msg)
	return err
}
