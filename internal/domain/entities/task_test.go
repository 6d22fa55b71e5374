package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task, err := NewTask("Write report", 60, 3, nil)

	require.NoError(t, err)
	require.NotNil(t, task)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, 60, task.EstimatedMins)
	assert.Equal(t, 3, task.EstimatedIntensity)
	assert.Nil(t, task.ActualMins)
	assert.Nil(t, task.ActualIntensity)
	assert.Nil(t, task.CompletedAt)
}

func TestNewTask_WithOptions(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)
	task, err := NewTask("Plan sprint", 90, 4, &TaskOptions{
		ProjectID: "b9f9d9a0-98a1-4f42-a0f7-8a7ab3e612c4",
		Priority:  PriorityHigh,
		DueDate:   &due,
	})

	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, "b9f9d9a0-98a1-4f42-a0f7-8a7ab3e612c4", task.ProjectID)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))
}

func TestNewTask_Validation(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		mins      int
		intensity int
	}{
		{"empty title", "", 30, 3},
		{"blank title", "   ", 30, 3},
		{"zero minutes", "x", 0, 3},
		{"negative minutes", "x", -5, 3},
		{"minutes above bound", "x", 1441, 3},
		{"zero intensity", "x", 30, 0},
		{"intensity above bound", "x", 30, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask(tt.title, tt.mins, tt.intensity, nil)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestNewTask_BoundaryEstimates(t *testing.T) {
	for _, mins := range []int{MinEstimatedMins, MaxEstimatedMins} {
		for _, intensity := range []int{MinIntensity, MaxIntensity} {
			_, err := NewTask("boundary", mins, intensity, nil)
			assert.NoError(t, err)
		}
	}
}

func TestTask_StartWork(t *testing.T) {
	now := time.Now()
	task, err := NewTask("Fix bug", 30, 2, nil)
	require.NoError(t, err)

	require.NoError(t, task.StartWork(now))
	assert.Equal(t, StatusInProgress, task.Status)

	// Repeated start is a no-op
	require.NoError(t, task.StartWork(now))
	assert.Equal(t, StatusInProgress, task.Status)
}

func TestTask_StartWork_TerminalStates(t *testing.T) {
	now := time.Now()

	done, err := NewTask("Done task", 30, 2, nil)
	require.NoError(t, err)
	require.NoError(t, done.Complete(3, 25, now))
	assert.ErrorIs(t, done.StartWork(now), ErrInvalidStatusTransition)

	archived, err := NewTask("Archived task", 30, 2, nil)
	require.NoError(t, err)
	archived.Archive(now)
	assert.ErrorIs(t, archived.StartWork(now), ErrInvalidStatusTransition)
}

func TestTask_Complete(t *testing.T) {
	now := time.Now()
	task, err := NewTask("Review PR", 45, 3, nil)
	require.NoError(t, err)

	require.NoError(t, task.Complete(4, 50, now))
	assert.Equal(t, StatusDone, task.Status)
	require.NotNil(t, task.ActualIntensity)
	assert.Equal(t, 4, *task.ActualIntensity)
	require.NotNil(t, task.ActualMins)
	assert.Equal(t, 50, *task.ActualMins)
	require.NotNil(t, task.CompletedAt)
	firstCompletedAt := *task.CompletedAt

	// Re-completing is rejected and CompletedAt stays fixed
	err = task.Complete(2, 10, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrTaskCompleted)
	assert.True(t, firstCompletedAt.Equal(*task.CompletedAt))
	assert.Equal(t, 50, *task.ActualMins)
}

func TestTask_Complete_FromInProgress(t *testing.T) {
	now := time.Now()
	task, err := NewTask("Ship feature", 120, 5, nil)
	require.NoError(t, err)
	require.NoError(t, task.StartWork(now))

	require.NoError(t, task.Complete(5, 140, now))
	assert.Equal(t, StatusDone, task.Status)
}

func TestTask_Complete_Validation(t *testing.T) {
	now := time.Now()

	task, err := NewTask("Bad intensity", 30, 2, nil)
	require.NoError(t, err)
	err = task.Complete(0, 30, now)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, StatusTodo, task.Status)

	err = task.Complete(6, 30, now)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = task.Complete(3, -1, now)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestTask_Complete_Archived(t *testing.T) {
	now := time.Now()
	task, err := NewTask("Archived", 30, 2, nil)
	require.NoError(t, err)
	task.Archive(now)

	assert.ErrorIs(t, task.Complete(3, 30, now), ErrTaskArchived)
}

func TestTask_Archive(t *testing.T) {
	now := time.Now()

	// Archivable from any state, including done
	task, err := NewTask("Old work", 30, 2, nil)
	require.NoError(t, err)
	require.NoError(t, task.Complete(3, 20, now))

	task.Archive(now)
	assert.Equal(t, StatusArchived, task.Status)
	assert.True(t, task.IsTerminal())

	// Idempotent
	task.Archive(now.Add(time.Hour))
	assert.Equal(t, StatusArchived, task.Status)
}

func TestTask_SetEstimates(t *testing.T) {
	task, err := NewTask("Tune estimates", 30, 2, nil)
	require.NoError(t, err)

	require.NoError(t, task.SetEstimates(90, 4))
	assert.Equal(t, 90, task.EstimatedMins)
	assert.Equal(t, 4, task.EstimatedIntensity)

	err = task.SetEstimates(0, 4)
	require.Error(t, err)
	assert.Equal(t, 90, task.EstimatedMins)
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	task, err := NewTask("Late task", 30, 2, &TaskOptions{DueDate: &past})
	require.NoError(t, err)
	assert.True(t, task.IsOverdue(now))

	// Terminal tasks are never overdue
	require.NoError(t, task.Complete(3, 20, now))
	assert.False(t, task.IsOverdue(now))

	noDue, err := NewTask("No due date", 30, 2, nil)
	require.NoError(t, err)
	assert.False(t, noDue.IsOverdue(now))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("todo"))
	assert.True(t, IsValidStatus("in_progress"))
	assert.True(t, IsValidStatus("done"))
	assert.True(t, IsValidStatus("archived"))
	assert.False(t, IsValidStatus("pending"))
	assert.False(t, IsValidStatus(""))
}
