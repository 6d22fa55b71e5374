package entities

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Status represents the current state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusArchived   Status = "archived"
)

// Priority indicates task importance level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Estimate bounds. Minutes cover one full day; intensity is a fixed 1-5 scale.
const (
	MinEstimatedMins = 1
	MaxEstimatedMins = 1440
	MinIntensity     = 1
	MaxIntensity     = 5
)

// Task represents a unit of work carrying an estimate (time, intensity) and,
// once completed, an outcome (actual time, actual intensity).
type Task struct {
	ID                 string     `json:"id" validate:"required,uuid"`
	Title              string     `json:"title" validate:"required,min=1,max=255"`
	ProjectID          string     `json:"project_id,omitempty"`
	Status             Status     `json:"status" validate:"required,oneof=todo in_progress done archived"`
	Priority           Priority   `json:"priority" validate:"required,oneof=low medium high"`
	EstimatedMins      int        `json:"estimated_mins" validate:"min=1,max=1440"`
	EstimatedIntensity int        `json:"estimated_intensity" validate:"min=1,max=5"`
	ActualMins         *int       `json:"actual_mins,omitempty"`
	ActualIntensity    *int       `json:"actual_intensity,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TaskOptions holds optional parameters for task creation
type TaskOptions struct {
	ProjectID string
	Priority  Priority
	DueDate   *time.Time
}

// NewTask creates a new task in todo state with validated estimates.
func NewTask(title string, estimatedMins, estimatedIntensity int, options *TaskOptions) (*Task, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, NewValidationError("title", "must not be empty", title)
	}
	if estimatedMins < MinEstimatedMins || estimatedMins > MaxEstimatedMins {
		return nil, NewValidationError("estimated_mins", "must be between 1 and 1440", estimatedMins)
	}
	if estimatedIntensity < MinIntensity || estimatedIntensity > MaxIntensity {
		return nil, NewValidationError("estimated_intensity", "must be between 1 and 5", estimatedIntensity)
	}

	now := time.Now()
	task := &Task{
		ID:                 uuid.New().String(),
		Title:              trimmed,
		Status:             StatusTodo,
		Priority:           PriorityMedium,
		EstimatedMins:      estimatedMins,
		EstimatedIntensity: estimatedIntensity,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if options != nil {
		task.ProjectID = options.ProjectID
		task.DueDate = options.DueDate
		if options.Priority != "" {
			task.Priority = options.Priority
		}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if task fields meet business rules
func (t *Task) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}

// GetID returns the task id.
func (t *Task) GetID() string {
	return t.ID
}

// IsTerminal reports whether the task can no longer change status.
func (t *Task) IsTerminal() bool {
	return t.Status == StatusDone || t.Status == StatusArchived
}

// StartWork flips a todo task to in_progress. Calling it on a task that is
// already in progress is a no-op, so starting work is always safe to repeat.
func (t *Task) StartWork(now time.Time) error {
	switch t.Status {
	case StatusInProgress:
		return nil
	case StatusTodo:
		t.Status = StatusInProgress
		t.UpdatedAt = now
		return nil
	default:
		return ErrInvalidStatusTransition
	}
}

// Complete marks the task done and records the outcome. CompletedAt is set
// here exactly once: the status guard makes re-completion impossible.
func (t *Task) Complete(actualIntensity, actualMins int, now time.Time) error {
	if t.Status == StatusDone {
		return ErrTaskCompleted
	}
	if t.Status == StatusArchived {
		return ErrTaskArchived
	}
	if actualIntensity < MinIntensity || actualIntensity > MaxIntensity {
		return NewValidationError("actual_intensity", "must be between 1 and 5", actualIntensity)
	}
	if actualMins < 0 {
		return NewValidationError("actual_mins", "must not be negative", actualMins)
	}

	completed := now
	t.Status = StatusDone
	t.ActualIntensity = &actualIntensity
	t.ActualMins = &actualMins
	t.CompletedAt = &completed
	t.UpdatedAt = now
	return nil
}

// Archive moves the task to the terminal archived state. It has no
// precondition; archiving an archived task is a no-op.
func (t *Task) Archive(now time.Time) {
	if t.Status == StatusArchived {
		return
	}
	t.Status = StatusArchived
	t.UpdatedAt = now
}

// SetPriority changes task priority
func (t *Task) SetPriority(priority Priority) error {
	original := t.Priority
	originalUpdatedAt := t.UpdatedAt

	t.Priority = priority
	t.UpdatedAt = time.Now()

	if err := t.Validate(); err != nil {
		t.Priority = original
		t.UpdatedAt = originalUpdatedAt
		return err
	}
	return nil
}

// SetEstimates updates the time and intensity estimates.
func (t *Task) SetEstimates(minutes, intensity int) error {
	if minutes < MinEstimatedMins || minutes > MaxEstimatedMins {
		return NewValidationError("estimated_mins", "must be between 1 and 1440", minutes)
	}
	if intensity < MinIntensity || intensity > MaxIntensity {
		return NewValidationError("estimated_intensity", "must be between 1 and 5", intensity)
	}

	t.EstimatedMins = minutes
	t.EstimatedIntensity = intensity
	t.UpdatedAt = time.Now()
	return nil
}

// IsOverdue checks if an open task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsTerminal() || t.DueDate == nil {
		return false
	}
	return now.After(*t.DueDate)
}

// IsValidStatus checks if a status value is valid
func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusTodo, StatusInProgress, StatusDone, StatusArchived:
		return true
	default:
		return false
	}
}

// IsValidPriority checks if a priority value is valid
func IsValidPriority(priority string) bool {
	switch Priority(priority) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
