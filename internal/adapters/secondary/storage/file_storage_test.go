package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewFileStorage(t.TempDir(), logger)
	require.NoError(t, err)
	return store
}

func mustTask(t *testing.T, title string) *entities.Task {
	t.Helper()
	task, err := entities.NewTask(title, 60, 3, nil)
	require.NoError(t, err)
	return task
}

func TestFileStorage_TaskCRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	task := mustTask(t, "Persisted task")
	require.NoError(t, store.SaveTask(ctx, task))

	loaded, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, loaded.ID)
	assert.Equal(t, "Persisted task", loaded.Title)
	assert.Equal(t, entities.StatusTodo, loaded.Status)

	loaded.Title = "Renamed task"
	require.NoError(t, store.UpdateTask(ctx, loaded))

	reloaded, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed task", reloaded.Title)

	require.NoError(t, store.DeleteTask(ctx, task.ID))
	_, err = store.GetTask(ctx, task.ID)
	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
}

func TestFileStorage_TaskRoundTrip_Pointers(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	task := mustTask(t, "Completed task")
	require.NoError(t, task.Complete(4, 55, time.Now()))
	require.NoError(t, store.SaveTask(ctx, task))

	loaded, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.ActualMins)
	assert.Equal(t, 55, *loaded.ActualMins)
	require.NotNil(t, loaded.ActualIntensity)
	assert.Equal(t, 4, *loaded.ActualIntensity)
	require.NotNil(t, loaded.CompletedAt)
}

func TestFileStorage_SaveTask_DuplicateID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	task := mustTask(t, "Dup")
	require.NoError(t, store.SaveTask(ctx, task))
	require.Error(t, store.SaveTask(ctx, task))
}

func TestFileStorage_GetTask_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetTask(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
}

func TestFileStorage_ListTasks_Filters(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	todo := mustTask(t, "Write docs")
	require.NoError(t, store.SaveTask(ctx, todo))

	done := mustTask(t, "Fix login bug")
	require.NoError(t, done.Complete(3, 40, time.Now()))
	require.NoError(t, store.SaveTask(ctx, done))

	all, err := store.ListTasks(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := entities.StatusDone
	doneOnly, err := store.ListTasks(ctx, &ports.TaskFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, doneOnly, 1)
	assert.Equal(t, done.ID, doneOnly[0].ID)

	matched, err := store.ListTasks(ctx, &ports.TaskFilters{Search: "login"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, done.ID, matched[0].ID)

	none, err := store.ListTasks(ctx, &ports.TaskFilters{Search: "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFileStorage_ListTasks_CompletedWindow(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	completedAt := time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC)
	task := mustTask(t, "Windowed")
	require.NoError(t, task.Complete(3, 30, completedAt))
	require.NoError(t, store.SaveTask(ctx, task))

	after := completedAt.Add(-time.Hour)
	before := completedAt.Add(time.Hour)
	matched, err := store.ListTasks(ctx, &ports.TaskFilters{
		CompletedAfter:  &after,
		CompletedBefore: &before,
	})
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	past := completedAt.Add(-2 * time.Hour)
	matched, err = store.ListTasks(ctx, &ports.TaskFilters{CompletedBefore: &past})
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestFileStorage_Sessions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	task := mustTask(t, "With sessions")
	require.NoError(t, store.SaveTask(ctx, task))

	start := time.Now().Add(-time.Hour)
	first := entities.NewTimeSession(task.ID, start)
	first.CloseAt(start.Add(20 * time.Minute))
	require.NoError(t, store.SaveSession(ctx, first))

	second := entities.NewTimeSession(task.ID, start.Add(30*time.Minute))
	require.NoError(t, store.SaveSession(ctx, second))

	sessions, err := store.ListSessions(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Ordered by start time
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)

	active, err := store.ActiveSession(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	// Closing the active session leaves no active session behind
	second.CloseAt(start.Add(45 * time.Minute))
	require.NoError(t, store.UpdateSession(ctx, second))

	active, err = store.ActiveSession(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestFileStorage_ActiveSession_None(t *testing.T) {
	store := newTestStorage(t)

	active, err := store.ActiveSession(context.Background(), "b9f9d9a0-98a1-4f42-a0f7-8a7ab3e612c4")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestFileStorage_Stats(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	todo := mustTask(t, "Todo")
	require.NoError(t, store.SaveTask(ctx, todo))

	inProgress := mustTask(t, "In progress")
	require.NoError(t, inProgress.StartWork(time.Now()))
	require.NoError(t, store.SaveTask(ctx, inProgress))

	done := mustTask(t, "Done")
	require.NoError(t, done.Complete(3, 30, time.Now()))
	require.NoError(t, store.SaveTask(ctx, done))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 1, stats.TodoTasks)
	assert.Equal(t, 1, stats.InProgressTasks)
	assert.Equal(t, 1, stats.DoneTasks)
	assert.Zero(t, stats.ArchivedTasks)
	assert.NotEmpty(t, stats.LastActivity)
}

func TestFileStorage_HealthCheck(t *testing.T) {
	store := newTestStorage(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestFileStorage_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewFileStorage(dir, logger)
	require.NoError(t, err)

	require.NoError(t, store.SaveTask(context.Background(), mustTask(t, "Atomic")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotEqual(t, ".tmp", filepath.Ext(entry.Name()))
	}
}
