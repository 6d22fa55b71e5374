package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

// Weights of the composite productivity score. All four inputs are
// normalized to 0..1 before weighting.
const (
	weightCompletionRate    = 0.3
	weightTimeAccuracy      = 0.3
	weightIntensityAccuracy = 0.2
	weightConsistency       = 0.2
)

// Consistency falls back to a neutral value until enough distinct
// completion days exist to make the spread meaningful.
const (
	minConsistencyDays = 7
	neutralConsistency = 0.5
	trendBandFraction  = 0.10
)

// ReportService aggregates tasks into periodic productivity reports.
type ReportService struct {
	storage  ports.Storage
	insights *InsightEngine
	logger   *slog.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(storage ports.Storage, insights *InsightEngine, logger *slog.Logger) *ReportService {
	return &ReportService{
		storage:  storage,
		insights: insights,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateReport builds a report over the given period, bucketed by the
// given granularity. Buckets are aligned to natural boundaries: midnight for
// days, Monday for weeks, the 1st for months. The trend compares the current
// period's score against the immediately preceding period of equal length.
func (s *ReportService) GenerateReport(ctx context.Context, period entities.Period, granularity entities.Granularity) (*entities.Report, error) {
	if !period.IsValid() {
		return nil, entities.NewValidationError("period", "end must be after start", period)
	}
	if !entities.IsValidGranularity(string(granularity)) {
		return nil, entities.NewValidationError("granularity", "must be day, week or month", granularity)
	}

	tasks, err := s.storage.ListTasks(ctx, &ports.TaskFilters{})
	if err != nil {
		return nil, err
	}

	current := tasksCompletedIn(tasks, period)
	previous := tasksCompletedIn(tasks, period.Previous())

	totals := s.Summarize(current)
	previousTotals := s.Summarize(previous)

	report := &entities.Report{
		Period:      period,
		Granularity: granularity,
		Totals:      totals,
		Trend:       trendBetween(totals.ProductivityScore, previousTotals.ProductivityScore),
		Buckets:     s.bucketize(current, period, granularity),
		Insights:    s.insights.Generate(totals, current),
		GeneratedAt: s.now(),
	}

	s.logger.Info("report generated",
		slog.String("granularity", string(granularity)),
		slog.Time("period_start", period.Start),
		slog.Time("period_end", period.End),
		slog.Int("completed_tasks", totals.CompletedTasks),
		slog.Int("score", totals.ProductivityScore))

	return report, nil
}

// Summarize computes aggregate metrics over a set of tasks. Accuracy means
// include only tasks whose actuals were recorded; missing actuals are
// excluded rather than treated as zero.
func (s *ReportService) Summarize(tasks []*entities.Task) entities.Summary {
	summary := entities.Summary{TotalTasks: len(tasks)}

	var totalMinutes int
	var timeSum, intensitySum float64
	var timeCount, intensityCount int

	for _, task := range tasks {
		if task.Status != entities.StatusDone {
			continue
		}
		summary.CompletedTasks++

		if task.ActualMins != nil {
			totalMinutes += *task.ActualMins
		}
		if acc, ok := TaskTimeAccuracy(task); ok {
			timeSum += acc
			timeCount++
		}
		if acc, ok := TaskIntensityAccuracy(task); ok {
			intensitySum += acc
			intensityCount++
		}
	}

	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100
	}
	summary.TotalHours = float64(totalMinutes) / 60.0
	if timeCount > 0 {
		summary.AvgTimeAccuracy = timeSum / float64(timeCount)
	}
	if intensityCount > 0 {
		summary.AvgIntensityAccuracy = intensitySum / float64(intensityCount)
	}
	summary.Consistency = consistency(tasks)
	summary.ProductivityScore = compositeScore(summary)

	return summary
}

// compositeScore folds completion rate, both accuracies and consistency into
// a single 0..100 integer.
func compositeScore(summary entities.Summary) int {
	score := summary.CompletionRate/100*weightCompletionRate +
		summary.AvgTimeAccuracy/100*weightTimeAccuracy +
		summary.AvgIntensityAccuracy/100*weightIntensityAccuracy +
		summary.Consistency*weightConsistency

	rounded := int(math.Round(score * 100))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// consistency measures how evenly completions spread across days, as
// 1 - stddev/mean over per-day completion counts, clamped to 0..1. With
// fewer than seven distinct completion days the spread is noise, so a
// neutral value is returned instead.
func consistency(tasks []*entities.Task) float64 {
	perDay := make(map[time.Time]int)
	for _, task := range tasks {
		if task.Status != entities.StatusDone || task.CompletedAt == nil {
			continue
		}
		day := truncateToDay(*task.CompletedAt)
		perDay[day]++
	}

	if len(perDay) < minConsistencyDays {
		return neutralConsistency
	}

	var sum float64
	for _, count := range perDay {
		sum += float64(count)
	}
	mean := sum / float64(len(perDay))

	var variance float64
	for _, count := range perDay {
		diff := float64(count) - mean
		variance += diff * diff
	}
	variance /= float64(len(perDay))
	stddev := math.Sqrt(variance)

	value := 1 - stddev/math.Max(1, mean)
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// trendBetween classifies the score movement between two adjacent periods.
// Movements of at least ten percent of the previous score count as up or
// down, anything smaller as stable. A zero previous score makes any
// positive score an upward trend.
func trendBetween(current, previous int) entities.TrendDirection {
	if previous == 0 {
		if current > 0 {
			return entities.TrendUp
		}
		return entities.TrendStable
	}

	delta := float64(current-previous) / float64(previous)
	switch {
	case delta >= trendBandFraction:
		return entities.TrendUp
	case delta <= -trendBandFraction:
		return entities.TrendDown
	default:
		return entities.TrendStable
	}
}

// bucketize splits the period into aligned buckets and assigns completed
// tasks to them by completion time. Bucket windows are half-open, so a task
// completed exactly on a boundary falls in the later bucket.
func (s *ReportService) bucketize(tasks []*entities.Task, period entities.Period, granularity entities.Granularity) []entities.BucketMetrics {
	var buckets []entities.BucketMetrics

	for start := alignDown(period.Start, granularity); start.Before(period.End); {
		end := advance(start, granularity)

		bucketPeriod := entities.Period{Start: start, End: end}
		metrics := entities.BucketMetrics{Period: bucketPeriod}

		var timeSum, intensitySum float64
		var timeCount, intensityCount int
		for _, task := range tasks {
			if task.CompletedAt == nil || !bucketPeriod.Contains(*task.CompletedAt) {
				continue
			}
			metrics.CompletedTasks++
			if task.ActualMins != nil {
				metrics.TotalMinutes += *task.ActualMins
			}
			if acc, ok := TaskTimeAccuracy(task); ok {
				timeSum += acc
				timeCount++
			}
			if acc, ok := TaskIntensityAccuracy(task); ok {
				intensitySum += acc
				intensityCount++
			}
		}
		if timeCount > 0 {
			metrics.TimeAccuracy = timeSum / float64(timeCount)
		}
		if intensityCount > 0 {
			metrics.IntensityAccuracy = intensitySum / float64(intensityCount)
		}

		buckets = append(buckets, metrics)
		start = end
	}

	return buckets
}

// alignDown snaps an instant to the natural start of its bucket.
func alignDown(t time.Time, granularity entities.Granularity) time.Time {
	switch granularity {
	case entities.GranularityWeek:
		day := truncateToDay(t)
		// time.Weekday numbers Sunday as 0; weeks here start Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case entities.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return truncateToDay(t)
	}
}

func advance(t time.Time, granularity entities.Granularity) time.Time {
	switch granularity {
	case entities.GranularityWeek:
		return t.AddDate(0, 0, 7)
	case entities.GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func tasksCompletedIn(tasks []*entities.Task, period entities.Period) []*entities.Task {
	var matched []*entities.Task
	for _, task := range tasks {
		if task.Status == entities.StatusDone && task.CompletedAt != nil {
			if period.Contains(*task.CompletedAt) {
				matched = append(matched, task)
			}
			continue
		}
		// Open tasks created inside the window still count toward the
		// completion rate denominator.
		if task.Status != entities.StatusArchived && period.Contains(task.CreatedAt) {
			matched = append(matched, task)
		}
	}
	return matched
}
