package grading

import "github.com/noah-isme/sma-standing-api/internal/models"

type letterBand struct {
	min    float64
	letter models.LetterGrade
}

// Ordered from highest to lowest; lower bounds are inclusive.
var letterBands = []letterBand{
	{93, models.LetterGradeA},
	{90, models.LetterGradeAMinus},
	{87, models.LetterGradeBPlus},
	{83, models.LetterGradeB},
	{80, models.LetterGradeBMinus},
	{77, models.LetterGradeCPlus},
	{73, models.LetterGradeC},
	{70, models.LetterGradeCMinus},
	{67, models.LetterGradeDPlus},
	{60, models.LetterGradeD},
}

// LetterFor maps a percentage to its letter band.
func LetterFor(p float64) models.LetterGrade {
	for _, band := range letterBands {
		if p >= band.min {
			return band.letter
		}
	}
	return models.LetterGradeF
}

// LetterRank orders letters from F (0) to A (10). LetterGradeNone ranks -1.
func LetterRank(l models.LetterGrade) int {
	if l == models.LetterGradeF {
		return 0
	}
	for i, band := range letterBands {
		if band.letter == l {
			return len(letterBands) - i
		}
	}
	return -1
}

// StatusFor buckets a percentage for display. The boundaries differ from the letter bands.
func StatusFor(p float64) models.StandingStatus {
	switch {
	case p >= 90:
		return models.StandingStatusExcellent
	case p >= 80:
		return models.StandingStatusGood
	case p >= 70:
		return models.StandingStatusFair
	default:
		return models.StandingStatusAtRisk
	}
}
