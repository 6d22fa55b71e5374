package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tempo-tracker/internal/domain/entities"
)

func newReportService(storage *MockStorage) *ReportService {
	logger := testLogger()
	return NewReportService(storage, NewInsightEngine(logger), logger)
}

// completedTask builds a done task with the given estimate, actuals and
// completion time.
func completedTask(t *testing.T, estimatedMins, actualMins, estimatedIntensity, actualIntensity int, completedAt time.Time) *entities.Task {
	t.Helper()
	task, err := entities.NewTask("completed", estimatedMins, estimatedIntensity, nil)
	require.NoError(t, err)
	require.NoError(t, task.Complete(actualIntensity, actualMins, completedAt))
	return task
}

func TestTrendBetween(t *testing.T) {
	assert.Equal(t, entities.TrendUp, trendBetween(110, 100))
	assert.Equal(t, entities.TrendDown, trendBetween(85, 100))
	assert.Equal(t, entities.TrendStable, trendBetween(95, 100))
	assert.Equal(t, entities.TrendStable, trendBetween(100, 100))
	assert.Equal(t, entities.TrendUp, trendBetween(50, 0))
	assert.Equal(t, entities.TrendStable, trendBetween(0, 0))
}

func TestSummarize_Empty(t *testing.T) {
	service := newReportService(&MockStorage{})

	summary := service.Summarize(nil)

	assert.Zero(t, summary.TotalTasks)
	assert.Zero(t, summary.CompletedTasks)
	assert.Zero(t, summary.CompletionRate)
	assert.Zero(t, summary.AvgTimeAccuracy)
	// Too few completion days for a meaningful spread
	assert.InDelta(t, 0.5, summary.Consistency, 0.001)
}

func TestSummarize_AccuracyMeans(t *testing.T) {
	service := newReportService(&MockStorage{})
	day := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

	open, err := entities.NewTask("still open", 60, 3, nil)
	require.NoError(t, err)

	tasks := []*entities.Task{
		// time 83.33, intensity 50
		completedTask(t, 60, 50, 3, 5, day),
		// time 100, intensity 100
		completedTask(t, 100, 100, 4, 4, day),
		open,
	}

	summary := service.Summarize(tasks)

	assert.Equal(t, 3, summary.TotalTasks)
	assert.Equal(t, 2, summary.CompletedTasks)
	assert.InDelta(t, 66.67, summary.CompletionRate, 0.01)
	assert.InDelta(t, 2.5, summary.TotalHours, 0.001)
	// Means cover only tasks with recorded actuals, the open task is excluded
	assert.InDelta(t, 91.67, summary.AvgTimeAccuracy, 0.01)
	assert.InDelta(t, 75, summary.AvgIntensityAccuracy, 0.01)
}

func TestSummarize_ConsistencyDefault(t *testing.T) {
	service := newReportService(&MockStorage{})
	base := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

	// Six distinct completion days: below the seven-day threshold
	var tasks []*entities.Task
	for day := 0; day < 6; day++ {
		tasks = append(tasks, completedTask(t, 60, 60, 3, 3, base.AddDate(0, 0, day)))
	}

	summary := service.Summarize(tasks)
	assert.InDelta(t, 0.5, summary.Consistency, 0.001)
}

func TestSummarize_ConsistencyUniform(t *testing.T) {
	service := newReportService(&MockStorage{})
	base := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

	// One completion on each of seven days: zero spread, full consistency
	var tasks []*entities.Task
	for day := 0; day < 7; day++ {
		tasks = append(tasks, completedTask(t, 60, 60, 3, 3, base.AddDate(0, 0, day)))
	}

	summary := service.Summarize(tasks)
	assert.InDelta(t, 1.0, summary.Consistency, 0.001)
}

func TestSummarize_ScoreBounded(t *testing.T) {
	service := newReportService(&MockStorage{})
	base := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

	var tasks []*entities.Task
	for day := 0; day < 10; day++ {
		tasks = append(tasks, completedTask(t, 60, 60, 3, 3, base.AddDate(0, 0, day)))
	}

	summary := service.Summarize(tasks)
	assert.GreaterOrEqual(t, summary.ProductivityScore, 0)
	assert.LessOrEqual(t, summary.ProductivityScore, 100)
	// Perfect completion, accuracy and consistency give a perfect score
	assert.Equal(t, 100, summary.ProductivityScore)
}

func TestAlignDown(t *testing.T) {
	// Thursday 2026-04-09
	thursday := time.Date(2026, 4, 9, 15, 30, 0, 0, time.UTC)

	day := alignDown(thursday, entities.GranularityDay)
	assert.Equal(t, time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC), day)

	// Weeks align to Monday
	week := alignDown(thursday, entities.GranularityWeek)
	assert.Equal(t, time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), week)
	assert.Equal(t, time.Monday, week.Weekday())

	// A Sunday belongs to the week begun the previous Monday
	sunday := time.Date(2026, 4, 12, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		alignDown(sunday, entities.GranularityWeek))

	// A Monday is already aligned
	monday := time.Date(2026, 4, 6, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		alignDown(monday, entities.GranularityWeek))

	// Months align to the 1st
	month := alignDown(thursday, entities.GranularityMonth)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), month)
}

func TestGenerateReport(t *testing.T) {
	storage := &MockStorage{}
	service := newReportService(storage)
	ctx := context.Background()

	start := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	period := entities.Period{Start: start, End: start.AddDate(0, 0, 7)}

	tasks := []*entities.Task{
		completedTask(t, 60, 50, 3, 3, start.Add(10*time.Hour)),
		completedTask(t, 30, 30, 2, 2, start.AddDate(0, 0, 2).Add(9*time.Hour)),
		// Completed before the window: only counted in the previous period
		completedTask(t, 45, 45, 3, 3, start.AddDate(0, 0, -3)),
	}

	storage.On("ListTasks", ctx, mock.Anything).Return(tasks, nil)

	report, err := service.GenerateReport(ctx, period, entities.GranularityDay)

	require.NoError(t, err)
	assert.Equal(t, entities.GranularityDay, report.Granularity)
	assert.Len(t, report.Buckets, 7)
	assert.Equal(t, 2, report.Totals.CompletedTasks)
	assert.NotEmpty(t, report.Insights)
	assert.False(t, report.GeneratedAt.IsZero())

	// Tasks landed in the right day buckets
	assert.Equal(t, 1, report.Buckets[0].CompletedTasks)
	assert.Equal(t, 0, report.Buckets[1].CompletedTasks)
	assert.Equal(t, 1, report.Buckets[2].CompletedTasks)
}

func TestGenerateReport_WeekBuckets(t *testing.T) {
	storage := &MockStorage{}
	service := newReportService(storage)
	ctx := context.Background()

	// Wednesday to Wednesday: the aligned week grid still starts Monday
	start := time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC)
	period := entities.Period{Start: start, End: start.AddDate(0, 0, 14)}

	storage.On("ListTasks", ctx, mock.Anything).Return([]*entities.Task{}, nil)

	report, err := service.GenerateReport(ctx, period, entities.GranularityWeek)

	require.NoError(t, err)
	require.NotEmpty(t, report.Buckets)
	assert.Equal(t, time.Monday, report.Buckets[0].Period.Start.Weekday())
	for _, bucket := range report.Buckets {
		assert.Equal(t, 7*24*time.Hour, bucket.Period.Duration())
	}
}

func TestGenerateReport_InvalidInput(t *testing.T) {
	service := newReportService(&MockStorage{})
	ctx := context.Background()

	now := time.Now()

	_, err := service.GenerateReport(ctx,
		entities.Period{Start: now, End: now.Add(-time.Hour)}, entities.GranularityDay)
	require.Error(t, err)
	assert.True(t, entities.IsValidation(err))

	_, err = service.GenerateReport(ctx,
		entities.Period{Start: now, End: now.Add(time.Hour)}, entities.Granularity("year"))
	require.Error(t, err)
	assert.True(t, entities.IsValidation(err))
}
