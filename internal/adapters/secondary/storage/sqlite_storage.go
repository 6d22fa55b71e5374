package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	project_id TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	priority TEXT NOT NULL,
	estimated_mins INTEGER NOT NULL,
	estimated_intensity INTEGER NOT NULL,
	actual_mins INTEGER,
	actual_intensity INTEGER,
	due_date TIMESTAMP,
	completed_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_completed_at ON tasks(completed_at);
CREATE INDEX IF NOT EXISTS idx_sessions_task_id ON sessions(task_id);
CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions(task_id, is_active);
`

// SQLiteStorage persists tasks and sessions in a SQLite database. It
// implements ports.Storage.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if necessary) the database at path and
// applies the schema.
func NewSQLiteStorage(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, entities.NewStorageError("init", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, entities.NewStorageError("open", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, entities.NewStorageError("migrate", err)
	}

	logger.Debug("sqlite storage opened", slog.String("path", path))
	return &SQLiteStorage{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveTask stores a new task.
func (s *SQLiteStorage) SaveTask(ctx context.Context, task *entities.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, project_id, status, priority,
			estimated_mins, estimated_intensity, actual_mins, actual_intensity,
			due_date, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.ProjectID, task.Status, task.Priority,
		task.EstimatedMins, task.EstimatedIntensity,
		nullableInt(task.ActualMins), nullableInt(task.ActualIntensity),
		nullableTime(task.DueDate), nullableTime(task.CompletedAt),
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return entities.NewStorageError("save_task", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, project_id, status, priority,
			estimated_mins, estimated_intensity, actual_mins, actual_intensity,
			due_date, completed_at, created_at, updated_at
		FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.NewNotFoundError("task", id)
		}
		return nil, entities.NewStorageError("get_task", err)
	}
	return task, nil
}

// UpdateTask replaces a stored task.
func (s *SQLiteStorage) UpdateTask(ctx context.Context, task *entities.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, project_id = ?, status = ?, priority = ?,
			estimated_mins = ?, estimated_intensity = ?,
			actual_mins = ?, actual_intensity = ?,
			due_date = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.ProjectID, task.Status, task.Priority,
		task.EstimatedMins, task.EstimatedIntensity,
		nullableInt(task.ActualMins), nullableInt(task.ActualIntensity),
		nullableTime(task.DueDate), nullableTime(task.CompletedAt),
		task.UpdatedAt, task.ID)
	if err != nil {
		return entities.NewStorageError("update_task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStorageError("update_task", err)
	}
	if affected == 0 {
		return entities.NewNotFoundError("task", task.ID)
	}
	return nil
}

// DeleteTask removes a task by ID.
func (s *SQLiteStorage) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return entities.NewStorageError("delete_task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStorageError("delete_task", err)
	}
	if affected == 0 {
		return entities.NewNotFoundError("task", id)
	}
	return nil
}

// ListTasks returns tasks matching the given filters, oldest first.
func (s *SQLiteStorage) ListTasks(ctx context.Context, filters *ports.TaskFilters) ([]*entities.Task, error) {
	if filters == nil {
		filters = &ports.TaskFilters{}
	}

	var conditions []string
	var args []any

	if filters.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filters.Status)
	}
	if filters.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *filters.Priority)
	}
	if filters.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filters.ProjectID)
	}
	if filters.CompletedAfter != nil {
		conditions = append(conditions, "completed_at >= ?")
		args = append(args, *filters.CompletedAfter)
	}
	if filters.CompletedBefore != nil {
		conditions = append(conditions, "completed_at < ?")
		args = append(args, *filters.CompletedBefore)
	}
	if filters.Search != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+filters.Search+"%")
	}

	query := `
		SELECT id, title, project_id, status, priority,
			estimated_mins, estimated_intensity, actual_mins, actual_intensity,
			due_date, completed_at, created_at, updated_at
		FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entities.NewStorageError("list_tasks", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*entities.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, entities.NewStorageError("list_tasks", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, entities.NewStorageError("list_tasks", err)
	}
	return tasks, nil
}

// SaveSession stores a new time session.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session *entities.TimeSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, task_id, start_time, end_time, duration_seconds, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.TaskID, session.StartTime,
		nullableTime(session.EndTime), session.DurationSeconds, session.IsActive)
	if err != nil {
		return entities.NewStorageError("save_session", err)
	}
	return nil
}

// UpdateSession replaces a stored session.
func (s *SQLiteStorage) UpdateSession(ctx context.Context, session *entities.TimeSession) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET start_time = ?, end_time = ?, duration_seconds = ?, is_active = ?
		WHERE id = ?`,
		session.StartTime, nullableTime(session.EndTime),
		session.DurationSeconds, session.IsActive, session.ID)
	if err != nil {
		return entities.NewStorageError("update_session", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStorageError("update_session", err)
	}
	if affected == 0 {
		return entities.NewNotFoundError("session", session.ID)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStorage) GetSession(ctx context.Context, id string) (*entities.TimeSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, start_time, end_time, duration_seconds, is_active
		FROM sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.NewNotFoundError("session", id)
		}
		return nil, entities.NewStorageError("get_session", err)
	}
	return session, nil
}

// ListSessions returns a task's sessions ordered by start time.
func (s *SQLiteStorage) ListSessions(ctx context.Context, taskID string) ([]*entities.TimeSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, start_time, end_time, duration_seconds, is_active
		FROM sessions WHERE task_id = ? ORDER BY start_time ASC`, taskID)
	if err != nil {
		return nil, entities.NewStorageError("list_sessions", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*entities.TimeSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, entities.NewStorageError("list_sessions", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, entities.NewStorageError("list_sessions", err)
	}
	return sessions, nil
}

// ActiveSession returns the task's active session, or nil when none exists.
func (s *SQLiteStorage) ActiveSession(ctx context.Context, taskID string) (*entities.TimeSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, start_time, end_time, duration_seconds, is_active
		FROM sessions WHERE task_id = ? AND is_active = 1 LIMIT 1`, taskID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, entities.NewStorageError("active_session", err)
	}
	return session, nil
}

// Stats returns per-status task counts.
func (s *SQLiteStorage) Stats(ctx context.Context) (ports.TaskStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return ports.TaskStats{}, entities.NewStorageError("stats", err)
	}
	defer func() { _ = rows.Close() }()

	var stats ports.TaskStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return ports.TaskStats{}, entities.NewStorageError("stats", err)
		}
		stats.TotalTasks += count
		switch entities.Status(status) {
		case entities.StatusTodo:
			stats.TodoTasks = count
		case entities.StatusInProgress:
			stats.InProgressTasks = count
		case entities.StatusDone:
			stats.DoneTasks = count
		case entities.StatusArchived:
			stats.ArchivedTasks = count
		}
	}
	if err := rows.Err(); err != nil {
		return ports.TaskStats{}, entities.NewStorageError("stats", err)
	}

	var last sql.NullTime
	err = s.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM tasks`).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ports.TaskStats{}, entities.NewStorageError("stats", err)
	}
	if last.Valid {
		stats.LastActivity = last.Time.Format(time.RFC3339)
	}
	return stats, nil
}

// HealthCheck pings the database.
func (s *SQLiteStorage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return entities.NewStorageError("health_check", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*entities.Task, error) {
	var task entities.Task
	var actualMins, actualIntensity sql.NullInt64
	var dueDate, completedAt sql.NullTime

	err := row.Scan(&task.ID, &task.Title, &task.ProjectID, &task.Status, &task.Priority,
		&task.EstimatedMins, &task.EstimatedIntensity, &actualMins, &actualIntensity,
		&dueDate, &completedAt, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if actualMins.Valid {
		mins := int(actualMins.Int64)
		task.ActualMins = &mins
	}
	if actualIntensity.Valid {
		intensity := int(actualIntensity.Int64)
		task.ActualIntensity = &intensity
	}
	if dueDate.Valid {
		due := dueDate.Time
		task.DueDate = &due
	}
	if completedAt.Valid {
		completed := completedAt.Time
		task.CompletedAt = &completed
	}
	return &task, nil
}

func scanSession(row rowScanner) (*entities.TimeSession, error) {
	var session entities.TimeSession
	var endTime sql.NullTime

	err := row.Scan(&session.ID, &session.TaskID, &session.StartTime,
		&endTime, &session.DurationSeconds, &session.IsActive)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		end := endTime.Time
		session.EndTime = &end
	}
	return &session, nil
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
