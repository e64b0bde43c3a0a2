package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	at := func(d time.Time) *time.Time { return &d }

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "no due date",
			task: Task{Status: StatusPending},
			want: false,
		},
		{
			name: "due yesterday and pending",
			task: Task{Status: StatusPending, DueDate: at(now.AddDate(0, 0, -1))},
			want: true,
		},
		{
			name: "due yesterday but completed",
			task: Task{Status: StatusCompleted, DueDate: at(now.AddDate(0, 0, -1))},
			want: false,
		},
		{
			name: "due earlier today",
			task: Task{Status: StatusPending, DueDate: at(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))},
			want: false,
		},
		{
			name: "due later today",
			task: Task{Status: StatusPending, DueDate: at(now.Add(time.Hour))},
			want: false,
		},
		{
			name: "due tomorrow",
			task: Task{Status: StatusPending, DueDate: at(now.AddDate(0, 0, 1))},
			want: false,
		},
		{
			name: "due last year",
			task: Task{Status: StatusPending, DueDate: at(now.AddDate(-1, 0, 0))},
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.task.IsOverdue(now))
		})
	}
}

func TestTaskIsOverdueUsesViewerLocation(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	// 23:30 UTC on the 9th is already the 10th in Tokyo.
	due := time.Date(2026, time.March, 9, 23, 30, 0, 0, time.UTC)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, tokyo)

	task := Task{Status: StatusPending, DueDate: &due}
	assert.False(t, task.IsOverdue(now))
	assert.True(t, task.IsOverdue(now.In(time.UTC)))
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityMedium, false},
		{"low", PriorityLow, false},
		{"Medium", PriorityMedium, false},
		{" high ", PriorityHigh, false},
		{"urgent", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePriority(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPriorityIcon(t *testing.T) {
	assert.Equal(t, IconAlert, PriorityHigh.Icon())
	assert.Equal(t, IconCircle, PriorityMedium.Icon())
	assert.Equal(t, IconCheck, PriorityLow.Icon())
	assert.Equal(t, Icon(""), Priority("other").Icon())
}

func TestStatusToggled(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusPending.Toggled())
	assert.Equal(t, StatusPending, StatusCompleted.Toggled())
}

func TestPayRentScenario(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	task := Task{
		Title:    "Pay rent",
		Priority: PriorityHigh,
		Status:   StatusPending,
		DueDate:  &yesterday,
	}

	assert.True(t, task.IsOverdue(now))
	assert.Equal(t, IconAlert, task.Priority.Icon())

	task.Status = task.Status.Toggled()
	assert.False(t, task.IsOverdue(now))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Session{ExpiresAt: now.Add(-time.Second)}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
}
