package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

// SessionLedger records start/stop work intervals per task and derives total
// worked time from the session history. It enforces the single-active-session
// invariant per task: Start always resolves any pre-existing active session
// before creating a new one, and Stop is safe to call redundantly.
type SessionLedger struct {
	storage ports.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// NewSessionLedger creates a new SessionLedger with injected dependencies
func NewSessionLedger(storage ports.Storage, logger *slog.Logger) *SessionLedger {
	return &SessionLedger{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Start opens a new active session for the task. If an active session
// already exists it is closed first, so repeated or overlapping calls
// converge to exactly one active session instead of raising a conflict.
// Starting work on a todo task flips it to in_progress.
func (l *SessionLedger) Start(ctx context.Context, taskID string) (*entities.TimeSession, error) {
	task, err := l.storage.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsTerminal() {
		return nil, fmt.Errorf("cannot start session on %s task: %w", task.Status, entities.ErrInvalidStatusTransition)
	}

	now := l.now()

	previous, err := l.storage.ActiveSession(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		previous.CloseAt(now)
		if err := l.storage.UpdateSession(ctx, previous); err != nil {
			return nil, err
		}
		l.logger.Debug("closed lingering session",
			slog.String("session_id", previous.ID),
			slog.String("task_id", taskID),
			slog.Int64("duration_seconds", previous.DurationSeconds))
	}

	session := entities.NewTimeSession(taskID, now)
	if err := l.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	if task.Status == entities.StatusTodo {
		if err := task.StartWork(now); err != nil {
			return nil, err
		}
		if err := l.storage.UpdateTask(ctx, task); err != nil {
			return nil, err
		}
	}

	l.logger.Info("session started",
		slog.String("session_id", session.ID),
		slog.String("task_id", taskID))

	return session, nil
}

// Stop closes the task's active session. When no session is active this is
// a no-op, not an error: calling stop twice never double-closes.
func (l *SessionLedger) Stop(ctx context.Context, taskID string) (*entities.TimeSession, error) {
	active, err := l.storage.ActiveSession(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}

	active.CloseAt(l.now())
	if err := l.storage.UpdateSession(ctx, active); err != nil {
		return nil, err
	}

	l.logger.Info("session stopped",
		slog.String("session_id", active.ID),
		slog.String("task_id", taskID),
		slog.Int64("duration_seconds", active.DurationSeconds))

	return active, nil
}

// StopSession closes a session by its own id. Stopping an already-closed
// session leaves its duration untouched and returns it unchanged.
func (l *SessionLedger) StopSession(ctx context.Context, sessionID string) (*entities.TimeSession, error) {
	session, err := l.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return session, nil
	}

	session.CloseAt(l.now())
	if err := l.storage.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ActiveSession returns the task's current active session, or nil.
func (l *SessionLedger) ActiveSession(ctx context.Context, taskID string) (*entities.TimeSession, error) {
	return l.storage.ActiveSession(ctx, taskID)
}

// Elapsed returns the seconds worked in the task's active session as of this
// call. The value is never persisted: it is recomputed from wall-clock time
// on every call, so polling at any cadence accumulates no drift. Returns 0
// when no session is active.
func (l *SessionLedger) Elapsed(ctx context.Context, taskID string) (int64, error) {
	active, err := l.storage.ActiveSession(ctx, taskID)
	if err != nil {
		return 0, err
	}
	if active == nil {
		return 0, nil
	}
	return active.ElapsedSeconds(l.now()), nil
}

// TotalMinutes sums the durations of all the task's sessions, converted to
// minutes. An active session contributes its live elapsed time at query
// time. This is the authoritative source for actual minutes when no manual
// override is supplied at completion.
func (l *SessionLedger) TotalMinutes(ctx context.Context, taskID string) (int, error) {
	sessions, err := l.storage.ListSessions(ctx, taskID)
	if err != nil {
		return 0, err
	}

	now := l.now()
	var totalSeconds int64
	for _, session := range sessions {
		totalSeconds += session.ElapsedSeconds(now)
	}

	return int(totalSeconds / 60), nil
}

// Sessions returns all recorded sessions for a task.
func (l *SessionLedger) Sessions(ctx context.Context, taskID string) ([]*entities.TimeSession, error) {
	return l.storage.ListSessions(ctx, taskID)
}
