package grading

import (
	"errors"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// ComposeCourse computes a course standing with the default engine.
func ComposeCourse(courseID string, entries []models.AssignmentGradeEntry, cfg models.CategoryWeightConfig) (models.CourseGradeResult, error) {
	return defaultEngine.ComposeCourse(courseID, entries, cfg)
}

// ComposeCourse combines category totals with normalised weights into one weighted course
// percentage. Each category contributes by its weight, not by its point mass.
//
// An empty cfg falls back to models.DefaultCategoryWeights. Invalid entries are excluded and
// reported through a *ValidationError alongside the result computed from the valid ones; an
// invalid cfg returns ErrInvalidWeights and a result without data.
func (e *Engine) ComposeCourse(courseID string, entries []models.AssignmentGradeEntry, cfg models.CategoryWeightConfig) (models.CourseGradeResult, error) {
	result := models.CourseGradeResult{
		CourseID:   courseID,
		Trend:      models.TrendStable,
		Breakdowns: []models.CategoryBreakdown{},
	}
	if cfg.IsZero() {
		cfg = models.DefaultCategoryWeights()
	}
	if err := ValidateWeights(cfg); err != nil {
		return result, err
	}

	totals, entryErr := Aggregate(entries)
	var verr *ValidationError
	if errors.As(entryErr, &verr) {
		result.RejectedEntries = len(verr.Rejected)
	}
	result.EntryCount = len(entries) - result.RejectedEntries
	result.Trend = e.AnalyzeTrend(entries)

	active := ActiveCategories(totals)
	effective, ok := Normalize(cfg, active)
	if !ok {
		return result, entryErr
	}

	overall := 0.0
	for _, category := range active {
		t := totals[category]
		w := effective[category]
		overall += t.Percentage * w
		result.Breakdowns = append(result.Breakdowns, models.CategoryBreakdown{
			Category:         category,
			TotalEarned:      t.Earned,
			TotalPossible:    t.Possible,
			Percentage:       t.Percentage,
			ConfiguredWeight: cfg.Weights[category],
			EffectiveWeight:  w,
		})
	}
	// extra credit can push a category past 100%
	overall = clamp(overall, 0, 100)

	result.HasData = true
	result.OverallPercentage = overall
	result.LetterGrade = LetterFor(overall)
	result.Status = StatusFor(overall)
	return result, entryErr
}
