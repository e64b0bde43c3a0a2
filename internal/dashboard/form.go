package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskmaster/internal/events"
	"github.com/adanyl0v/go-taskmaster/internal/models"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

const (
	FieldTitle    = "title"
	FieldPriority = "priority"
	FieldDueDate  = "due_date"

	// DueDateLayout is the format of an HTML date input.
	DueDateLayout = "2006-01-02"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type FormInput struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Priority    string `form:"priority" json:"priority"`
	DueDate     string `form:"due_date" json:"due_date"`
}

type FormState struct {
	Input  FormInput
	Errors map[string]string
}

// EmptyFormState is what the form shows before input and after a
// successful submission.
func EmptyFormState() FormState {
	return FormState{Input: FormInput{Priority: string(models.PriorityMedium)}}
}

func (s FormState) HasErrors() bool {
	return len(s.Errors) > 0
}

type SubmitResult struct {
	State  FormState
	Notice *Notice
	Task   *models.Task
	// Err is ErrUnauthenticated or the store error, nil on success
	// and on field errors.
	Err error
}

type TaskForm struct {
	logger   zerolog.Logger
	users    UserResolver
	tasks    TaskCreator
	events   events.Publisher
	location *time.Location
}

func NewTaskForm(
	logger zerolog.Logger,
	users UserResolver,
	tasks TaskCreator,
	publisher events.Publisher,
	location *time.Location,
) *TaskForm {
	if location == nil {
		location = time.UTC
	}
	return &TaskForm{
		logger:   logger,
		users:    users,
		tasks:    tasks,
		events:   publisher,
		location: location,
	}
}

// Validate checks the input without touching the backend. The due
// date becomes midnight of the picked day in the form's location.
func (f *TaskForm) Validate(in FormInput) (services.CreateTaskParams, map[string]string) {
	params := services.CreateTaskParams{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	fieldErrors := make(map[string]string)

	switch {
	case params.Title == "":
		fieldErrors[FieldTitle] = "Title is required"
	case utf8.RuneCountInString(params.Title) > models.MaxTitleLength:
		fieldErrors[FieldTitle] = "Title is too long"
	}

	priority, err := models.ParsePriority(in.Priority)
	if err != nil {
		fieldErrors[FieldPriority] = "Select a valid priority"
	}
	params.Priority = priority

	if s := strings.TrimSpace(in.DueDate); s != "" {
		due, err := time.ParseInLocation(DueDateLayout, s, f.location)
		if err != nil {
			fieldErrors[FieldDueDate] = "Pick a valid date"
		} else {
			params.DueDate = &due
		}
	}

	if len(fieldErrors) == 0 {
		return params, nil
	}
	return params, fieldErrors
}

// Submit creates one task owned by the session's user. On any failure
// the input is handed back unchanged so the user can retry.
func (f *TaskForm) Submit(ctx context.Context, sessionID string, in FormInput) SubmitResult {
	params, fieldErrors := f.Validate(in)
	if fieldErrors != nil {
		f.logger.Debug().
			Interface("errors", fieldErrors).
			Msg("task form rejected")
		return SubmitResult{State: FormState{Input: in, Errors: fieldErrors}}
	}

	user, err := f.users.GetUser(ctx, sessionID)
	if err != nil || user == nil {
		f.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to resolve user")
		notice := Failure("User not found")
		return SubmitResult{State: FormState{Input: in}, Notice: &notice, Err: ErrUnauthenticated}
	}
	params.UserID = user.ID

	task, err := f.tasks.CreateTask(ctx, params)
	if err != nil {
		f.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to create task")
		notice := Failure(err.Error())
		return SubmitResult{State: FormState{Input: in}, Notice: &notice, Err: err}
	}

	if f.events != nil {
		f.events.Publish(ctx, events.Event{
			Type:   events.TaskCreated,
			UserID: user.ID,
			TaskID: task.ID,
		})
	}

	f.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", user.ID).
		Msg("task form submitted")
	notice := Success("Task created successfully")
	return SubmitResult{State: EmptyFormState(), Notice: &notice, Task: task}
}
