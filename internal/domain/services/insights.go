package services

import (
	"log/slog"

	"tempo-tracker/internal/domain/entities"
)

// Thresholds that trigger individual insight rules.
const (
	lowTimeAccuracyThreshold = 70.0
	highScoreThreshold       = 80
	lowCompletionCount       = 5
	longTaskMinutesThreshold = 120.0
	highIntensityShareLimit  = 0.5
	highIntensityLowerBound  = 4
)

const fallbackInsight = "Keep logging tasks and sessions to unlock personalized insights."

// InsightEngine derives human-readable observations from summary metrics.
// Rules are evaluated in a fixed order; every matching rule contributes one
// insight, and a single fallback message covers the no-match case.
type InsightEngine struct {
	logger *slog.Logger
}

// NewInsightEngine creates a new InsightEngine
func NewInsightEngine(logger *slog.Logger) *InsightEngine {
	return &InsightEngine{logger: logger}
}

type insightRule struct {
	name    string
	matches func(entities.Summary, []*entities.Task) bool
	message string
}

var insightRules = []insightRule{
	{
		name: "low_time_accuracy",
		matches: func(summary entities.Summary, _ []*entities.Task) bool {
			return summary.CompletedTasks > 0 && summary.AvgTimeAccuracy < lowTimeAccuracyThreshold
		},
		message: "Your time estimates are often off. Try breaking tasks into smaller pieces before estimating.",
	},
	{
		name: "high_productivity",
		matches: func(summary entities.Summary, _ []*entities.Task) bool {
			return summary.ProductivityScore >= highScoreThreshold
		},
		message: "Strong period. Your completion rate and estimates are both on point.",
	},
	{
		name: "few_completions",
		matches: func(summary entities.Summary, _ []*entities.Task) bool {
			return summary.CompletedTasks > 0 && summary.CompletedTasks < lowCompletionCount
		},
		message: "Few tasks completed this period. Smaller, well-scoped tasks tend to get finished.",
	},
	{
		name: "long_tasks",
		matches: func(summary entities.Summary, _ []*entities.Task) bool {
			if summary.CompletedTasks == 0 {
				return false
			}
			avg := summary.TotalHours * 60 / float64(summary.CompletedTasks)
			return avg > longTaskMinutesThreshold
		},
		message: "Completed tasks average over two hours each. Consider splitting large tasks.",
	},
	{
		name: "high_intensity_load",
		matches: func(summary entities.Summary, tasks []*entities.Task) bool {
			if summary.CompletedTasks == 0 {
				return false
			}
			var intense int
			for _, task := range tasks {
				if task.Status != entities.StatusDone || task.ActualIntensity == nil {
					continue
				}
				if *task.ActualIntensity >= highIntensityLowerBound {
					intense++
				}
			}
			return float64(intense)/float64(summary.CompletedTasks) > highIntensityShareLimit
		},
		message: "Most completed work was high intensity. Mix in lighter tasks to avoid burnout.",
	},
}

// Generate returns the messages of all matching rules, or the fallback when
// none match.
func (e *InsightEngine) Generate(summary entities.Summary, tasks []*entities.Task) []string {
	var messages []string
	for _, rule := range insightRules {
		if rule.matches(summary, tasks) {
			e.logger.Debug("insight rule matched", slog.String("rule", rule.name))
			messages = append(messages, rule.message)
		}
	}

	if len(messages) == 0 {
		messages = append(messages, fallbackInsight)
	}
	return messages
}
