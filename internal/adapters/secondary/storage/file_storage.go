package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

const (
	tasksFileName    = "tasks.json"
	sessionsFileName = "sessions.json"
)

// FileStorage persists tasks and sessions as JSON files under a single
// directory. It implements ports.Storage.
type FileStorage struct {
	tasks    *fileCollection[*entities.Task]
	sessions *fileCollection[*entities.TimeSession]
	logger   *slog.Logger
}

// NewFileStorage creates a file-backed storage rooted at dir.
func NewFileStorage(dir string, logger *slog.Logger) (*FileStorage, error) {
	tasks, err := newFileCollection[*entities.Task](dir, tasksFileName)
	if err != nil {
		return nil, entities.NewStorageError("init", err)
	}
	sessions, err := newFileCollection[*entities.TimeSession](dir, sessionsFileName)
	if err != nil {
		return nil, entities.NewStorageError("init", err)
	}

	return &FileStorage{
		tasks:    tasks,
		sessions: sessions,
		logger:   logger,
	}, nil
}

// SaveTask stores a new task.
func (s *FileStorage) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := s.tasks.Insert(task); err != nil {
		return entities.NewStorageError("save_task", err)
	}
	s.logger.Debug("task saved", slog.String("task_id", task.ID))
	return nil
}

// GetTask retrieves a task by ID.
func (s *FileStorage) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	task, err := s.tasks.Get(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entities.NewNotFoundError("task", id)
		}
		return nil, entities.NewStorageError("get_task", err)
	}
	return task, nil
}

// UpdateTask replaces a stored task.
func (s *FileStorage) UpdateTask(ctx context.Context, task *entities.Task) error {
	if err := s.tasks.Replace(task); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.NewNotFoundError("task", task.ID)
		}
		return entities.NewStorageError("update_task", err)
	}
	return nil
}

// DeleteTask removes a task by ID.
func (s *FileStorage) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.Remove(id); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.NewNotFoundError("task", id)
		}
		return entities.NewStorageError("delete_task", err)
	}
	s.logger.Debug("task deleted", slog.String("task_id", id))
	return nil
}

// ListTasks returns tasks matching the given filters.
func (s *FileStorage) ListTasks(ctx context.Context, filters *ports.TaskFilters) ([]*entities.Task, error) {
	all, err := s.tasks.All()
	if err != nil {
		return nil, entities.NewStorageError("list_tasks", err)
	}

	if filters == nil {
		filters = &ports.TaskFilters{}
	}

	matched := make([]*entities.Task, 0, len(all))
	for _, task := range all {
		if matchesFilters(task, filters) {
			matched = append(matched, task)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func matchesFilters(task *entities.Task, filters *ports.TaskFilters) bool {
	if filters.Status != nil && task.Status != *filters.Status {
		return false
	}
	if filters.Priority != nil && task.Priority != *filters.Priority {
		return false
	}
	if filters.ProjectID != "" && task.ProjectID != filters.ProjectID {
		return false
	}
	if filters.CompletedAfter != nil {
		if task.CompletedAt == nil || task.CompletedAt.Before(*filters.CompletedAfter) {
			return false
		}
	}
	if filters.CompletedBefore != nil {
		if task.CompletedAt == nil || !task.CompletedAt.Before(*filters.CompletedBefore) {
			return false
		}
	}
	if filters.Search != "" {
		if !strings.Contains(strings.ToLower(task.Title), strings.ToLower(filters.Search)) {
			return false
		}
	}
	return true
}

// SaveSession stores a new time session.
func (s *FileStorage) SaveSession(ctx context.Context, session *entities.TimeSession) error {
	if err := s.sessions.Insert(session); err != nil {
		return entities.NewStorageError("save_session", err)
	}
	s.logger.Debug("session saved",
		slog.String("session_id", session.ID),
		slog.String("task_id", session.TaskID))
	return nil
}

// UpdateSession replaces a stored session.
func (s *FileStorage) UpdateSession(ctx context.Context, session *entities.TimeSession) error {
	if err := s.sessions.Replace(session); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.NewNotFoundError("session", session.ID)
		}
		return entities.NewStorageError("update_session", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *FileStorage) GetSession(ctx context.Context, id string) (*entities.TimeSession, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entities.NewNotFoundError("session", id)
		}
		return nil, entities.NewStorageError("get_session", err)
	}
	return session, nil
}

// ListSessions returns a task's sessions ordered by start time.
func (s *FileStorage) ListSessions(ctx context.Context, taskID string) ([]*entities.TimeSession, error) {
	all, err := s.sessions.All()
	if err != nil {
		return nil, entities.NewStorageError("list_sessions", err)
	}

	matched := make([]*entities.TimeSession, 0)
	for _, session := range all {
		if session.TaskID == taskID {
			matched = append(matched, session)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.Before(matched[j].StartTime)
	})
	return matched, nil
}

// ActiveSession returns the task's active session, or nil when none exists.
func (s *FileStorage) ActiveSession(ctx context.Context, taskID string) (*entities.TimeSession, error) {
	sessions, err := s.ListSessions(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		if session.IsActive {
			return session, nil
		}
	}
	return nil, nil
}

// Stats returns per-status task counts.
func (s *FileStorage) Stats(ctx context.Context) (ports.TaskStats, error) {
	all, err := s.tasks.All()
	if err != nil {
		return ports.TaskStats{}, entities.NewStorageError("stats", err)
	}

	stats := ports.TaskStats{TotalTasks: len(all)}
	var lastActivity time.Time
	for _, task := range all {
		switch task.Status {
		case entities.StatusTodo:
			stats.TodoTasks++
		case entities.StatusInProgress:
			stats.InProgressTasks++
		case entities.StatusDone:
			stats.DoneTasks++
		case entities.StatusArchived:
			stats.ArchivedTasks++
		}
		if task.UpdatedAt.After(lastActivity) {
			lastActivity = task.UpdatedAt
		}
	}
	if !lastActivity.IsZero() {
		stats.LastActivity = lastActivity.Format(time.RFC3339)
	}
	return stats, nil
}

// HealthCheck verifies the storage files are readable.
func (s *FileStorage) HealthCheck(ctx context.Context) error {
	if _, err := s.tasks.All(); err != nil {
		return entities.NewStorageError("health_check", err)
	}
	if _, err := s.sessions.All(); err != nil {
		return entities.NewStorageError("health_check", err)
	}
	return nil
}
