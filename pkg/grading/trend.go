package grading

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// AnalyzeTrend classifies a course's grade history with the default engine.
func AnalyzeTrend(entries []models.AssignmentGradeEntry) models.Trend {
	return defaultEngine.AnalyzeTrend(entries)
}

// AnalyzeTrend orders valid entries by RecordedAt and classifies their percentages.
// Entries recorded at the same instant keep their input order.
func (e *Engine) AnalyzeTrend(entries []models.AssignmentGradeEntry) models.Trend {
	valid, _ := SplitEntries(entries)
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].RecordedAt.Before(valid[j].RecordedAt)
	})
	scores := make([]float64, 0, len(valid))
	for _, entry := range valid {
		if p := entry.Percentage(); finite(p) {
			scores = append(scores, p)
		}
	}
	return e.ClassifyTrend(scores)
}

// ClassifyTrend compares the mean of the last scores against the mean of the earlier ones.
// Scores must be in chronological order. The recent window shrinks so the baseline always
// keeps at least one score; fewer than two scores is stable.
func (e *Engine) ClassifyTrend(scores []float64) models.Trend {
	n := len(scores)
	if n < 2 {
		return models.TrendStable
	}
	k := e.trendWindow
	if k > n-1 {
		k = n - 1
	}
	recentAvg, err := stats.Mean(scores[n-k:])
	if err != nil {
		return models.TrendStable
	}
	priorAvg, err := stats.Mean(scores[:n-k])
	if err != nil {
		return models.TrendStable
	}
	diff := recentAvg - priorAvg
	switch {
	case diff > e.trendDeadband:
		return models.TrendImproving
	case diff < -e.trendDeadband:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}
