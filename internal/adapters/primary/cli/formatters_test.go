package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

func sampleTask(t *testing.T) *entities.Task {
	t.Helper()
	task, err := entities.NewTask("Write release notes", 45, 2, nil)
	require.NoError(t, err)
	return task
}

func TestPlainFormatter_FormatTask(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewPlainFormatter(&buf)

	task := sampleTask(t)
	require.NoError(t, formatter.FormatTask(task))

	out := buf.String()
	assert.Contains(t, out, "Write release notes")
	assert.Contains(t, out, "Status: todo")
	assert.Contains(t, out, "Estimated: 45m intensity 2")
	assert.NotContains(t, out, "Actual:")
}

func TestPlainFormatter_FormatTask_WithActuals(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewPlainFormatter(&buf)

	task := sampleTask(t)
	now := time.Now()
	require.NoError(t, task.StartWork(now))
	require.NoError(t, task.Complete(3, 50, now))
	require.NoError(t, formatter.FormatTask(task))

	assert.Contains(t, buf.String(), "Actual: 50 mins / intensity 3")
}

func TestPlainFormatter_FormatTaskList_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewPlainFormatter(&buf)

	require.NoError(t, formatter.FormatTaskList(nil))
	assert.Equal(t, "No tasks found.\n", buf.String())
}

func TestPlainFormatter_FormatSessions(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewPlainFormatter(&buf)

	start := time.Now().Add(-2 * time.Minute)
	session := entities.NewTimeSession("task-1", start)
	session.CloseAt(start.Add(90 * time.Second))

	require.NoError(t, formatter.FormatSessions([]*entities.TimeSession{session}))

	out := buf.String()
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "closed")
}

func TestJSONFormatter_FormatTask(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf, false)

	task := sampleTask(t)
	require.NoError(t, formatter.FormatTask(task))

	var decoded entities.Task
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, task.ID, decoded.ID)
	assert.Equal(t, task.Title, decoded.Title)
}

func TestJSONFormatter_FormatReport(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf, true)

	report := &entities.Report{
		Granularity: entities.GranularityDay,
		Trend:       entities.TrendUp,
		Insights:    []string{"something"},
	}
	require.NoError(t, formatter.FormatReport(report))

	var decoded entities.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, entities.TrendUp, decoded.Trend)
	assert.Equal(t, []string{"something"}, decoded.Insights)
}

func TestTableFormatter_FormatTaskList(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewTableFormatter(&buf)

	require.NoError(t, formatter.FormatTaskList([]*entities.Task{sampleTask(t)}))

	out := buf.String()
	assert.Contains(t, out, "Write release notes")
	assert.Contains(t, out, "todo")
}

func TestTableFormatter_FormatStats(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewTableFormatter(&buf)

	stats := &ports.TaskStats{TotalTasks: 5, DoneTasks: 2, TodoTasks: 3}
	require.NoError(t, formatter.FormatStats(stats))
	assert.Contains(t, buf.String(), "5")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abcd1234", truncateID("abcd1234efgh"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abcdefg...", truncateText("abcdefghijklmnop", 10))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", formatDuration(45))
	assert.Equal(t, "1m30s", formatDuration(90))
	assert.Equal(t, "2h5m", formatDuration(2*3600+5*60))
}
