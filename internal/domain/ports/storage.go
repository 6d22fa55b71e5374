// Package ports defines interfaces for external adapters
// for the tempo productivity tracker.
package ports

import (
	"context"
	"time"

	"tempo-tracker/internal/domain/entities"
)

// TaskFilters defines criteria for filtering tasks
type TaskFilters struct {
	Status          *entities.Status
	Priority        *entities.Priority
	ProjectID       string
	CompletedAfter  *time.Time
	CompletedBefore *time.Time
	Search          string // Title substring search
}

// TaskStats provides per-status counts over the stored tasks.
type TaskStats struct {
	TotalTasks      int
	TodoTasks       int
	InProgressTasks int
	DoneTasks       int
	ArchivedTasks   int
	LastActivity    string // ISO timestamp
}

// Storage defines the interface for task and session persistence. The
// repository is assumed to provide read-after-write consistency but no
// transactions across the two entity types: the core treats worked time as
// recomputed from sessions rather than cached on the task.
type Storage interface {
	// Task CRUD operations
	SaveTask(ctx context.Context, task *entities.Task) error
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	UpdateTask(ctx context.Context, task *entities.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filters *TaskFilters) ([]*entities.Task, error)

	// Session operations. Sessions are created on start and mutated on stop;
	// they are never deleted as a side effect of task mutation.
	SaveSession(ctx context.Context, session *entities.TimeSession) error
	UpdateSession(ctx context.Context, session *entities.TimeSession) error
	GetSession(ctx context.Context, id string) (*entities.TimeSession, error)
	ListSessions(ctx context.Context, taskID string) ([]*entities.TimeSession, error)
	// ActiveSession returns the task's active session, or nil when none exists.
	ActiveSession(ctx context.Context, taskID string) (*entities.TimeSession, error)

	// Stats and maintenance
	Stats(ctx context.Context) (TaskStats, error)
	HealthCheck(ctx context.Context) error
}
