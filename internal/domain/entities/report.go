package entities

import "time"

// Granularity selects the calendar bucket size for a report.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// IsValidGranularity checks if a granularity value is valid
func IsValidGranularity(g string) bool {
	switch Granularity(g) {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	default:
		return false
	}
}

// Period is a half-open [Start, End) time window.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsValid checks if the period is a non-empty forward window.
func (p Period) IsValid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.Start.Before(p.End)
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Contains reports whether t falls within [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Previous returns the immediately preceding window of equal length.
func (p Period) Previous() Period {
	return Period{Start: p.Start.Add(-p.Duration()), End: p.Start}
}

// TrendDirection is a three-way comparison of the current period's score
// against the prior period's.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Accuracy holds the per-task estimation accuracy scores, each 0-100.
type Accuracy struct {
	TimeAccuracy      float64 `json:"time_accuracy"`
	IntensityAccuracy float64 `json:"intensity_accuracy"`
}

// BucketMetrics holds per-bucket completion metrics. Accuracy means are
// computed only over tasks with defined actual values.
type BucketMetrics struct {
	Period            Period  `json:"period"`
	CompletedTasks    int     `json:"completed_tasks"`
	TotalMinutes      int     `json:"total_minutes"`
	TimeAccuracy      float64 `json:"time_accuracy"`
	IntensityAccuracy float64 `json:"intensity_accuracy"`
}

// Summary aggregates a task collection into headline productivity numbers.
// CompletionRate and the accuracy means are percentages, Consistency is 0-1,
// and the composite ProductivityScore is an integer 0-100.
type Summary struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	CompletionRate       float64 `json:"completion_rate"`
	TotalHours           float64 `json:"total_hours"`
	AvgTimeAccuracy      float64 `json:"avg_time_accuracy"`
	AvgIntensityAccuracy float64 `json:"avg_intensity_accuracy"`
	Consistency          float64 `json:"consistency"`
	ProductivityScore    int     `json:"productivity_score"`
}

// Report is the periodic productivity report: totals for the window, one
// metrics row per bucket, a trend against the preceding window, and the
// fired insight messages.
type Report struct {
	Period      Period          `json:"period"`
	Granularity Granularity     `json:"granularity"`
	Totals      Summary         `json:"totals"`
	Trend       TrendDirection  `json:"trend"`
	Buckets     []BucketMetrics `json:"buckets"`
	Insights    []string        `json:"insights"`
	GeneratedAt time.Time       `json:"generated_at"`
}
