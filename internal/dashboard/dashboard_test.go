package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-taskmaster/internal/events"
	"github.com/adanyl0v/go-taskmaster/internal/models"
	"github.com/adanyl0v/go-taskmaster/internal/services"
)

type fakeUsers struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeUsers) GetUser(_ context.Context, _ string) (*models.User, error) {
	f.calls++
	return f.user, f.err
}

// fakeStore keeps tasks in memory, scoped by user like the real store.
type fakeStore struct {
	tasks []*models.Task
	err   error

	creates  []services.CreateTaskParams
	updates  []services.SetTaskStatusParams
	deletes  []services.TaskRef
	listings int
	nextID   int
}

func (f *fakeStore) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	f.creates = append(f.creates, params)
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	task := &models.Task{
		ID:          "task-" + string(rune('0'+f.nextID)),
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Status:      models.StatusPending,
		DueDate:     params.DueDate,
		CreatedAt:   time.Now(),
	}
	f.tasks = append([]*models.Task{task}, f.tasks...)
	return task, nil
}

func (f *fakeStore) ListTasks(_ context.Context, userID string) ([]*models.Task, error) {
	f.listings++
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Task
	for _, task := range f.tasks {
		if task.UserID == userID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStore) SetTaskStatus(_ context.Context, params services.SetTaskStatusParams) (*models.Task, error) {
	f.updates = append(f.updates, params)
	if f.err != nil {
		return nil, f.err
	}
	for _, task := range f.tasks {
		if task.ID == params.ID && task.UserID == params.UserID {
			task.Status = params.Status
			copied := *task
			return &copied, nil
		}
	}
	return nil, services.ErrTaskNotFound
}

func (f *fakeStore) DeleteTask(_ context.Context, params services.TaskRef) error {
	f.deletes = append(f.deletes, params)
	if f.err != nil {
		return f.err
	}
	for i, task := range f.tasks {
		if task.ID == params.ID && task.UserID == params.UserID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return services.ErrTaskNotFound
}

func newForm(users *fakeUsers, store *fakeStore, publisher events.Publisher) *TaskForm {
	return NewTaskForm(zerolog.Nop(), users, store, publisher, time.UTC)
}

func TestSubmitEmptyTitleMakesNoBackendCall(t *testing.T) {
	users := &fakeUsers{user: &models.User{ID: "user-1"}}
	store := &fakeStore{}
	form := newForm(users, store, nil)

	for _, title := range []string{"", "   "} {
		in := FormInput{Title: title, Description: "keep me", Priority: "high"}
		result := form.Submit(context.Background(), "session-1", in)

		assert.Equal(t, "Title is required", result.State.Errors[FieldTitle])
		assert.Equal(t, in, result.State.Input)
		assert.Nil(t, result.Notice)
		assert.Nil(t, result.Task)
	}
	assert.Zero(t, users.calls)
	assert.Empty(t, store.creates)
}

func TestSubmitRejectsInvalidFields(t *testing.T) {
	store := &fakeStore{}
	form := newForm(&fakeUsers{user: &models.User{ID: "user-1"}}, store, nil)

	result := form.Submit(context.Background(), "session-1", FormInput{
		Title:    strings.Repeat("a", models.MaxTitleLength+1),
		Priority: "urgent",
		DueDate:  "31/12/2026",
	})

	assert.Contains(t, result.State.Errors, FieldTitle)
	assert.Contains(t, result.State.Errors, FieldPriority)
	assert.Contains(t, result.State.Errors, FieldDueDate)
	assert.Empty(t, store.creates)
}

func TestSubmitCreatesExactlyOnePendingTask(t *testing.T) {
	users := &fakeUsers{user: &models.User{ID: "user-1"}}
	store := &fakeStore{}
	bus := events.NewBus(zerolog.Nop())
	ch, cancel := bus.Subscribe("user-1")
	defer cancel()

	form := newForm(users, store, bus)
	result := form.Submit(context.Background(), "session-1", FormInput{
		Title:       "Pay rent",
		Description: "landlord",
		Priority:    "high",
		DueDate:     "2026-03-09",
	})

	require.NoError(t, result.Err)
	require.Len(t, store.creates, 1)
	created := store.creates[0]
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, "Pay rent", created.Title)
	assert.Equal(t, models.PriorityHigh, created.Priority)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), *created.DueDate)

	require.NotNil(t, result.Task)
	assert.Equal(t, models.StatusPending, result.Task.Status)

	assert.Equal(t, EmptyFormState(), result.State)
	require.NotNil(t, result.Notice)
	assert.Equal(t, Success("Task created successfully"), *result.Notice)

	require.Len(t, ch, 1)
	event := <-ch
	assert.Equal(t, events.TaskCreated, event.Type)
	assert.Equal(t, result.Task.ID, event.TaskID)
}

func TestSubmitDefaultsPriorityAndOmitsDueDate(t *testing.T) {
	store := &fakeStore{}
	form := newForm(&fakeUsers{user: &models.User{ID: "user-1"}}, store, nil)

	result := form.Submit(context.Background(), "session-1", FormInput{Title: "Read"})
	require.NoError(t, result.Err)
	require.Len(t, store.creates, 1)
	assert.Equal(t, models.PriorityMedium, store.creates[0].Priority)
	assert.Nil(t, store.creates[0].DueDate)
}

func TestSubmitUnauthenticated(t *testing.T) {
	users := &fakeUsers{err: services.ErrUserNotFound}
	store := &fakeStore{}
	form := newForm(users, store, nil)

	in := FormInput{Title: "Pay rent"}
	result := form.Submit(context.Background(), "", in)

	assert.ErrorIs(t, result.Err, ErrUnauthenticated)
	require.NotNil(t, result.Notice)
	assert.Equal(t, LevelError, result.Notice.Level)
	assert.Equal(t, in, result.State.Input)
	assert.Empty(t, store.creates)
}

func TestSubmitBackendFailurePreservesInput(t *testing.T) {
	store := &fakeStore{err: errors.New("new row violates check constraint")}
	form := newForm(&fakeUsers{user: &models.User{ID: "user-1"}}, store, nil)

	in := FormInput{Title: "Pay rent", Priority: "low", DueDate: "2026-01-01"}
	result := form.Submit(context.Background(), "session-1", in)

	require.Error(t, result.Err)
	assert.Equal(t, in, result.State.Input)
	require.NotNil(t, result.Notice)
	assert.Equal(t, Failure("new row violates check constraint"), *result.Notice)
	assert.Len(t, store.creates, 1)
}

func TestTaskListLoad(t *testing.T) {
	store := &fakeStore{tasks: []*models.Task{
		{ID: "b", UserID: "user-1", Status: models.StatusPending},
		{ID: "x", UserID: "user-2", Status: models.StatusPending},
		{ID: "a", UserID: "user-1", Status: models.StatusCompleted},
	}}
	list := NewTaskList(zerolog.Nop(), store, nil, "user-1")
	assert.True(t, list.isLoading())

	require.NoError(t, list.Load(context.Background()))
	assert.False(t, list.isLoading())

	tasks := list.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[0].ID)
	assert.Equal(t, "a", tasks[1].ID)
	for _, task := range tasks {
		assert.Equal(t, "user-1", task.UserID)
	}
}

func TestTaskListLoadFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("network down")}
	list := NewTaskList(zerolog.Nop(), store, nil, "user-1")

	err := list.Load(context.Background())
	assert.Error(t, err)
	assert.False(t, list.isLoading())
	assert.Empty(t, list.Tasks())
	assert.Equal(t, []Notice{Failure("network down")}, list.Notices())
}

func TestTaskListToggleStatus(t *testing.T) {
	store := &fakeStore{tasks: []*models.Task{
		{ID: "a", UserID: "user-1", Status: models.StatusPending},
		{ID: "b", UserID: "user-1", Status: models.StatusPending},
	}}
	list := NewTaskList(zerolog.Nop(), store, nil, "user-1")
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.ToggleStatus(context.Background(), "a", models.StatusPending))
	assert.Equal(t, models.StatusCompleted, list.Tasks()[0].Status)
	assert.Equal(t, models.StatusPending, list.Tasks()[1].Status)

	require.NoError(t, list.ToggleStatus(context.Background(), "a", models.StatusCompleted))
	assert.Equal(t, models.StatusPending, list.Tasks()[0].Status)

	require.Len(t, store.updates, 2)
	assert.Equal(t, services.SetTaskStatusParams{ID: "a", UserID: "user-1", Status: models.StatusCompleted}, store.updates[0])
	assert.Equal(t, 1, store.listings)
	assert.Equal(t, Success("Task status updated"), list.Notices()[0])
}

func TestTaskListToggleFailureKeepsDisplayedState(t *testing.T) {
	store := &fakeStore{tasks: []*models.Task{
		{ID: "a", UserID: "user-1", Status: models.StatusPending},
	}}
	list := NewTaskList(zerolog.Nop(), store, nil, "user-1")
	require.NoError(t, list.Load(context.Background()))

	store.err = errors.New("permission denied")
	err := list.ToggleStatus(context.Background(), "a", models.StatusPending)
	assert.Error(t, err)
	assert.Equal(t, models.StatusPending, list.Tasks()[0].Status)
	assert.Equal(t, Failure("permission denied"), list.Notices()[0])
}

func TestTaskListDelete(t *testing.T) {
	store := &fakeStore{tasks: []*models.Task{
		{ID: "a", UserID: "user-1"},
		{ID: "b", UserID: "user-1"},
		{ID: "c", UserID: "user-1"},
	}}
	bus := events.NewBus(zerolog.Nop())
	ch, cancel := bus.Subscribe("user-1")
	defer cancel()

	list := NewTaskList(zerolog.Nop(), store, bus, "user-1")
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.Delete(context.Background(), "b"))
	require.Len(t, list.Tasks(), 2)
	assert.Equal(t, "a", list.Tasks()[0].ID)
	assert.Equal(t, "c", list.Tasks()[1].ID)
	assert.Equal(t, []services.TaskRef{{ID: "b", UserID: "user-1"}}, store.deletes)

	require.Len(t, ch, 1)
	assert.Equal(t, events.TaskDeleted, (<-ch).Type)
}

func TestTaskListDeleteFailure(t *testing.T) {
	store := &fakeStore{tasks: []*models.Task{{ID: "a", UserID: "user-1"}}}
	list := NewTaskList(zerolog.Nop(), store, nil, "user-1")
	require.NoError(t, list.Load(context.Background()))

	err := list.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
	assert.Len(t, list.Tasks(), 1)
	assert.Equal(t, LevelError, list.Notices()[0].Level)
}

func TestPayRentScenarioThroughFormAndList(t *testing.T) {
	store := &fakeStore{}
	bus := events.NewBus(zerolog.Nop())
	ch, cancel := bus.Subscribe("user-1")
	defer cancel()

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1).Format(DueDateLayout)

	form := newForm(&fakeUsers{user: &models.User{ID: "user-1"}}, store, bus)
	result := form.Submit(context.Background(), "session-1", FormInput{
		Title:    "Pay rent",
		Priority: "high",
		DueDate:  yesterday,
	})
	require.NoError(t, result.Err)

	// The list reloads because it was notified.
	require.Len(t, ch, 1)
	<-ch
	list := NewTaskList(zerolog.Nop(), store, bus, "user-1")
	require.NoError(t, list.Load(context.Background()))

	views := list.Views(now)
	require.Len(t, views, 1)
	assert.True(t, views[0].Overdue)
	assert.Equal(t, models.IconAlert, views[0].Icon)

	require.NoError(t, list.ToggleStatus(context.Background(), views[0].ID, views[0].Status))
	views = list.Views(now)
	assert.Equal(t, models.StatusCompleted, views[0].Status)
	assert.False(t, views[0].Overdue)
}
