package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

func TestClassifyTrend(t *testing.T) {
	engine := NewEngine()
	cases := []struct {
		name   string
		scores []float64
		trend  models.Trend
	}{
		{"no history", nil, models.TrendStable},
		{"single score", []float64{40}, models.TrendStable},
		{"improving over baseline", []float64{65, 70, 75, 80}, models.TrendImproving},
		{"declining", []float64{95, 90, 80, 70, 60}, models.TrendDeclining},
		{"inside deadband", []float64{80, 81, 82, 81}, models.TrendStable},
		{"exactly on deadband", []float64{70, 72}, models.TrendStable},
		{"just past deadband", []float64{70, 72.5}, models.TrendImproving},
		{"just below negative deadband", []float64{72.5, 70}, models.TrendDeclining},
		{"window shrinks to keep a baseline", []float64{50, 90, 90}, models.TrendImproving},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.trend, engine.ClassifyTrend(tc.scores))
		})
	}
}

func TestClassifyTrendCustomThresholds(t *testing.T) {
	scores := []float64{60, 60, 60, 65, 65}
	assert.Equal(t, models.TrendImproving, NewEngine().ClassifyTrend(scores))
	assert.Equal(t, models.TrendStable, NewEngine(WithTrendDeadband(10)).ClassifyTrend(scores))
	// last score only: 65 vs mean(60,60,60,65)=61.25
	assert.Equal(t, models.TrendImproving, NewEngine(WithTrendWindow(1)).ClassifyTrend(scores))
}

func TestAnalyzeTrendOrdersByRecordedAt(t *testing.T) {
	entries := []models.AssignmentGradeEntry{
		entry(models.CategoryQuiz, 80, 100, 4),
		entry(models.CategoryQuiz, 65, 100, 1),
		entry(models.CategoryAssignment, 75, 100, 3),
		entry(models.CategoryAssignment, 70, 100, 2),
	}
	assert.Equal(t, models.TrendImproving, AnalyzeTrend(entries))
}

func TestAnalyzeTrendSkipsInvalidEntries(t *testing.T) {
	entries := []models.AssignmentGradeEntry{
		entry(models.CategoryQuiz, 90, 100, 1),
		entry(models.CategoryQuiz, 0, 0, 2),
		entry(models.CategoryQuiz, 50, 100, 3),
	}
	assert.Equal(t, models.TrendDeclining, AnalyzeTrend(entries))
	assert.Equal(t, models.TrendStable, AnalyzeTrend(entries[1:2]))
}
