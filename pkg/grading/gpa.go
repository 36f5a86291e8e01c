package grading

import "github.com/noah-isme/sma-standing-api/internal/models"

// ComposeGPA summarises course results with the default engine.
func ComposeGPA(results []models.CourseGradeResult) models.GPASummary {
	return defaultEngine.ComposeGPA(results)
}

// ComposeGPA averages the courses that have data. The mean is credit-weighted when
// weighting is enabled and every counted course carries positive credit hours; otherwise
// each course counts once. No courses yields a zero summary without a letter.
func (e *Engine) ComposeGPA(results []models.CourseGradeResult) models.GPASummary {
	counted := make([]models.CourseGradeResult, 0, len(results))
	for _, r := range results {
		if r.HasData {
			counted = append(counted, r)
		}
	}
	summary := models.GPASummary{CourseCount: len(counted)}
	if len(counted) == 0 {
		return summary
	}

	creditWeighted := e.creditWeighted
	for _, r := range counted {
		if r.CreditHours <= 0 {
			creditWeighted = false
			break
		}
	}

	sum, weightSum := 0.0, 0.0
	for _, r := range counted {
		w := 1.0
		if creditWeighted {
			w = r.CreditHours
		}
		sum += r.OverallPercentage * w
		weightSum += w
	}
	avg := sum / weightSum

	summary.WeightedAveragePercent = avg
	summary.GPA = clamp(avg/100*4.0, 0, 4.0)
	summary.OverallLetterGrade = LetterFor(avg)
	summary.Status = StatusFor(avg)
	summary.CreditWeighted = creditWeighted
	return summary
}
