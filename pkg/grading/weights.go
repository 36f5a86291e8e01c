package grading

import (
	"fmt"
	"math"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// ValidateWeights checks every configured weight lies in [0,1] and names a known category.
func ValidateWeights(cfg models.CategoryWeightConfig) error {
	for category, weight := range cfg.Weights {
		if !category.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidWeights, category)
		}
		if math.IsNaN(weight) || weight < 0 || weight > 1 {
			return fmt.Errorf("%w: %s weight %v outside [0,1]", ErrInvalidWeights, category, weight)
		}
	}
	return nil
}

// Normalize rescales the weights of the active categories so they sum to 1. The boolean is
// false when the active weights sum to zero, in which case no grade can be computed.
func Normalize(cfg models.CategoryWeightConfig, active []models.Category) (map[models.Category]float64, bool) {
	activeWeightSum := 0.0
	for _, category := range active {
		activeWeightSum += cfg.Weights[category]
	}
	if activeWeightSum <= 0 {
		return nil, false
	}
	effective := make(map[models.Category]float64, len(active))
	for _, category := range active {
		effective[category] = cfg.Weights[category] / activeWeightSum
	}
	return effective, true
}
