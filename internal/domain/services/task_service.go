package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

// TaskService implements core business logic for the task lifecycle.
type TaskService struct {
	storage   ports.Storage
	ledger    *SessionLedger
	validator *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

// NewTaskService creates a new TaskService with injected dependencies
func NewTaskService(storage ports.Storage, ledger *SessionLedger, logger *slog.Logger) *TaskService {
	return &TaskService{
		storage:   storage,
		ledger:    ledger,
		validator: validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateTaskInput holds the fields accepted at task creation.
type CreateTaskInput struct {
	Title              string
	ProjectID          string
	Priority           entities.Priority
	EstimatedMins      int
	EstimatedIntensity int
	DueDate            *time.Time
}

// TaskPatch represents the updates that can be applied to a task. Nil fields
// are left unchanged.
type TaskPatch struct {
	Title              *string
	ProjectID          *string
	Priority           *entities.Priority
	EstimatedMins      *int
	EstimatedIntensity *int
	DueDate            *time.Time
	ClearDueDate       bool
}

// CreateTask creates a new task in todo state with validation.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*entities.Task, error) {
	options := &entities.TaskOptions{
		ProjectID: input.ProjectID,
		Priority:  input.Priority,
		DueDate:   input.DueDate,
	}

	task, err := entities.NewTask(input.Title, input.EstimatedMins, input.EstimatedIntensity, options)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SaveTask(ctx, task); err != nil {
		s.logger.Error("failed to save task",
			slog.String("task_id", task.ID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("title", task.Title),
		slog.Int("estimated_mins", task.EstimatedMins),
		slog.Int("estimated_intensity", task.EstimatedIntensity))

	return task, nil
}

// GetTask retrieves a single task by ID
func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	return s.storage.GetTask(ctx, id)
}

// ListTasks returns tasks with filtering and sorting
func (s *TaskService) ListTasks(ctx context.Context, filters *ports.TaskFilters) ([]*entities.Task, error) {
	if filters == nil {
		filters = &ports.TaskFilters{}
	}

	tasks, err := s.storage.ListTasks(ctx, filters)
	if err != nil {
		return nil, err
	}

	s.sortTasks(tasks)

	s.logger.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// UpdateTask applies a patch to a task's editable fields.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch *TaskPatch) (*entities.Task, error) {
	if patch == nil {
		return nil, entities.NewValidationError("patch", "must not be nil", nil)
	}

	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyPatch(task, patch); err != nil {
		return nil, err
	}
	task.UpdatedAt = s.now()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task updated", slog.String("task_id", id))
	return task, nil
}

func (s *TaskService) applyPatch(task *entities.Task, patch *TaskPatch) error {
	if patch.Title != nil {
		if *patch.Title == "" {
			return entities.NewValidationError("title", "must not be empty", *patch.Title)
		}
		task.Title = *patch.Title
	}

	if patch.ProjectID != nil {
		task.ProjectID = *patch.ProjectID
	}

	if patch.Priority != nil {
		if err := task.SetPriority(*patch.Priority); err != nil {
			return err
		}
	}

	mins := task.EstimatedMins
	intensity := task.EstimatedIntensity
	if patch.EstimatedMins != nil {
		mins = *patch.EstimatedMins
	}
	if patch.EstimatedIntensity != nil {
		intensity = *patch.EstimatedIntensity
	}
	if patch.EstimatedMins != nil || patch.EstimatedIntensity != nil {
		if err := task.SetEstimates(mins, intensity); err != nil {
			return err
		}
	}

	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	return nil
}

// SetStatus explicitly sets a task's status. Setting the current status is a
// no-op. The done state is reachable only through CompleteTask, which
// collects the required actual intensity.
func (s *TaskService) SetStatus(ctx context.Context, id string, status entities.Status) (*entities.Task, error) {
	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status == status {
		return task, nil
	}

	switch status {
	case entities.StatusInProgress:
		if err := task.StartWork(s.now()); err != nil {
			return nil, err
		}
	case entities.StatusArchived:
		task.Archive(s.now())
	case entities.StatusDone:
		return nil, entities.NewValidationError("actual_intensity",
			"completing a task requires an actual intensity; use complete", nil)
	case entities.StatusTodo:
		return nil, entities.ErrInvalidStatusTransition
	default:
		return nil, entities.NewValidationError("status", "unknown status", status)
	}

	if err := s.storage.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task status updated",
		slog.String("task_id", id),
		slog.String("status", string(task.Status)))

	return task, nil
}

// CompleteTask marks a task done, recording the actual intensity and
// minutes. When no explicit minutes are given, the sum of the task's session
// durations is recorded; any still-active session is closed first so its
// time is included.
func (s *TaskService) CompleteTask(ctx context.Context, id string, actualIntensity int, actualMins *int) (*entities.Task, error) {
	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if actualIntensity < entities.MinIntensity || actualIntensity > entities.MaxIntensity {
		return nil, entities.NewValidationError("actual_intensity", "must be between 1 and 5", actualIntensity)
	}

	if _, err := s.ledger.Stop(ctx, id); err != nil {
		return nil, err
	}

	mins := 0
	if actualMins != nil {
		if *actualMins < 0 {
			return nil, entities.NewValidationError("actual_mins", "must not be negative", *actualMins)
		}
		mins = *actualMins
	} else {
		mins, err = s.ledger.TotalMinutes(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if err := task.Complete(actualIntensity, mins, s.now()); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task completed",
		slog.String("task_id", id),
		slog.Int("actual_mins", mins),
		slog.Int("actual_intensity", actualIntensity))

	return task, nil
}

// ArchiveTask moves a task to the terminal archived state.
func (s *TaskService) ArchiveTask(ctx context.Context, id string) (*entities.Task, error) {
	return s.SetStatus(ctx, id, entities.StatusArchived)
}

// DeleteTask removes a task. Its sessions remain in the ledger.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.storage.GetTask(ctx, id); err != nil {
		return err
	}

	if err := s.storage.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", slog.String("task_id", id))
	return nil
}

// Stats returns per-status task counts.
func (s *TaskService) Stats(ctx context.Context) (ports.TaskStats, error) {
	return s.storage.Stats(ctx)
}

func (s *TaskService) sortTasks(tasks []*entities.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		iPriority := priorityWeight(tasks[i].Priority)
		jPriority := priorityWeight(tasks[j].Priority)
		if iPriority != jPriority {
			return iPriority > jPriority
		}

		iStatus := statusWeight(tasks[i].Status)
		jStatus := statusWeight(tasks[j].Status)
		if iStatus != jStatus {
			return iStatus > jStatus
		}

		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func priorityWeight(priority entities.Priority) int {
	switch priority {
	case entities.PriorityHigh:
		return 3
	case entities.PriorityMedium:
		return 2
	case entities.PriorityLow:
		return 1
	default:
		return 0
	}
}

func statusWeight(status entities.Status) int {
	switch status {
	case entities.StatusInProgress:
		return 4
	case entities.StatusTodo:
		return 3
	case entities.StatusDone:
		return 2
	case entities.StatusArchived:
		return 1
	default:
		return 0
	}
}
