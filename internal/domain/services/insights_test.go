package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo-tracker/internal/domain/entities"
)

func TestInsightEngine_Fallback(t *testing.T) {
	engine := NewInsightEngine(testLogger())

	messages := engine.Generate(entities.Summary{}, nil)

	require.Len(t, messages, 1)
	assert.Equal(t, fallbackInsight, messages[0])
}

func TestInsightEngine_LowTimeAccuracy(t *testing.T) {
	engine := NewInsightEngine(testLogger())

	summary := entities.Summary{
		CompletedTasks:  6,
		AvgTimeAccuracy: 55,
	}

	messages := engine.Generate(summary, nil)
	assert.Contains(t, messages, insightRules[0].message)
}

func TestInsightEngine_HighScore(t *testing.T) {
	engine := NewInsightEngine(testLogger())

	summary := entities.Summary{
		CompletedTasks:    10,
		AvgTimeAccuracy:   95,
		ProductivityScore: 85,
	}

	messages := engine.Generate(summary, nil)
	assert.Contains(t, messages, insightRules[1].message)
	assert.NotContains(t, messages, fallbackInsight)
}

func TestInsightEngine_MultipleRulesFire(t *testing.T) {
	engine := NewInsightEngine(testLogger())

	// Few completions with poor time accuracy triggers two rules at once
	summary := entities.Summary{
		CompletedTasks:  2,
		AvgTimeAccuracy: 40,
	}

	messages := engine.Generate(summary, nil)
	assert.Contains(t, messages, insightRules[0].message)
	assert.Contains(t, messages, insightRules[2].message)
	assert.NotContains(t, messages, fallbackInsight)
}

func TestInsightEngine_FixedOrder(t *testing.T) {
	engine := NewInsightEngine(testLogger())

	summary := entities.Summary{
		CompletedTasks:  2,
		AvgTimeAccuracy: 40,
	}

	first := engine.Generate(summary, nil)
	second := engine.Generate(summary, nil)
	assert.Equal(t, first, second)
}

func TestInsightEngine_LongTasks(t *testing.T) {
	engine := NewInsightEngine(testLogger())

	// Ten completions averaging 150 minutes each
	summary := entities.Summary{
		CompletedTasks:  10,
		AvgTimeAccuracy: 90,
		TotalHours:      25,
	}

	messages := engine.Generate(summary, nil)
	assert.Contains(t, messages, insightRules[3].message)
}

func TestInsightEngine_HighIntensityLoad(t *testing.T) {
	engine := NewInsightEngine(testLogger())
	now := time.Now()

	var tasks []*entities.Task
	for i := 0; i < 6; i++ {
		task, err := entities.NewTask("intense work", 60, 4, nil)
		require.NoError(t, err)
		intensity := 4
		if i >= 4 {
			intensity = 2
		}
		require.NoError(t, task.Complete(intensity, 60, now))
		tasks = append(tasks, task)
	}

	summary := entities.Summary{
		CompletedTasks:  len(tasks),
		AvgTimeAccuracy: 90,
	}

	// Four of six completions at intensity 4 or above
	messages := engine.Generate(summary, tasks)
	assert.Contains(t, messages, insightRules[4].message)
}
