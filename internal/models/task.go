package models

import (
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Icon string

const (
	IconAlert  Icon = "alert"
	IconCircle Icon = "circle"
	IconCheck  Icon = "check"
)

const MaxTitleLength = 255

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
	CreatedAt   time.Time
}

// ParsePriority maps form input to a Priority. Empty input means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", ErrInvalidPriority
	}
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusCompleted:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (p Priority) Icon() Icon {
	switch p {
	case PriorityHigh:
		return IconAlert
	case PriorityMedium:
		return IconCircle
	case PriorityLow:
		return IconCheck
	default:
		return ""
	}
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the due date lies strictly before the
// current day in now's location and the task is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed() {
		return false
	}

	due := t.DueDate.In(now.Location())
	if !due.Before(now) {
		return false
	}

	y1, m1, d1 := due.Date()
	y2, m2, d2 := now.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}
