// Package services implements business logic and use cases
// for the tempo productivity tracker.
package services

import (
	"math"

	"tempo-tracker/internal/domain/entities"
)

// intensityScaleSpan is the maximum possible delta on the fixed 1-5
// intensity scale, used as the normalizer instead of the estimate itself.
const intensityScaleSpan = 4.0

// TimeAccuracy scores how close an actual duration came to its estimate,
// bounded to [0, 100]. A non-positive estimate or actual yields 0 (undefined
// ratio, not an error); an actual twice the estimate yields 0, not negative.
func TimeAccuracy(estimatedMins, actualMins int) float64 {
	if estimatedMins <= 0 || actualMins <= 0 {
		return 0
	}
	delta := math.Abs(float64(actualMins - estimatedMins))
	score := (1 - delta/float64(estimatedMins)) * 100
	return math.Max(0, score)
}

// IntensityAccuracy scores how close an actual intensity came to its
// estimate on the fixed 1-5 scale, bounded to [0, 100].
func IntensityAccuracy(estimatedIntensity, actualIntensity int) float64 {
	delta := math.Abs(float64(actualIntensity - estimatedIntensity))
	score := (1 - delta/intensityScaleSpan) * 100
	return math.Max(0, score)
}

// TaskTimeAccuracy returns the task's time accuracy and whether it is
// defined. Tasks without a recorded actual contribute nothing to aggregate
// means; the false return must not be substituted with a zero score.
func TaskTimeAccuracy(task *entities.Task) (float64, bool) {
	if task.ActualMins == nil {
		return 0, false
	}
	return TimeAccuracy(task.EstimatedMins, *task.ActualMins), true
}

// TaskIntensityAccuracy returns the task's intensity accuracy and whether
// it is defined.
func TaskIntensityAccuracy(task *entities.Task) (float64, bool) {
	if task.ActualIntensity == nil {
		return 0, false
	}
	return IntensityAccuracy(task.EstimatedIntensity, *task.ActualIntensity), true
}

// ComputeAccuracy derives both accuracy scores for a task. Scores for
// missing actual values are reported as 0.
func ComputeAccuracy(task *entities.Task) entities.Accuracy {
	timeScore, _ := TaskTimeAccuracy(task)
	intensityScore, _ := TaskIntensityAccuracy(task)
	return entities.Accuracy{
		TimeAccuracy:      timeScore,
		IntensityAccuracy: intensityScore,
	}
}
