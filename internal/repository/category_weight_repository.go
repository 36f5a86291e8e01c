package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// CategoryWeightRepository stores per-course category weights.
type CategoryWeightRepository struct {
	db *sqlx.DB
}

// NewCategoryWeightRepository constructs the repository.
func NewCategoryWeightRepository(db *sqlx.DB) *CategoryWeightRepository {
	return &CategoryWeightRepository{db: db}
}

// FindByCourse loads the weights of one course. It returns sql.ErrNoRows
// when the course has no configuration.
func (r *CategoryWeightRepository) FindByCourse(ctx context.Context, courseID string) (models.CategoryWeightConfig, error) {
	const query = `SELECT course_id, category, weight, updated_at FROM category_weights WHERE course_id = $1`
	var rows []models.CategoryWeight
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return models.CategoryWeightConfig{}, fmt.Errorf("find category weights for %s: %w", courseID, err)
	}
	if len(rows) == 0 {
		return models.CategoryWeightConfig{}, sql.ErrNoRows
	}
	return group(rows)[courseID], nil
}

// FindByCourses loads weights for several courses at once. Courses with no
// configuration are absent from the result.
func (r *CategoryWeightRepository) FindByCourses(ctx context.Context, courseIDs []string) (map[string]models.CategoryWeightConfig, error) {
	if len(courseIDs) == 0 {
		return map[string]models.CategoryWeightConfig{}, nil
	}
	const query = `SELECT course_id, category, weight, updated_at FROM category_weights WHERE course_id = ANY($1)`
	var rows []models.CategoryWeight
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("find category weights: %w", err)
	}
	return group(rows), nil
}

// Replace swaps a course's weights for cfg in a single transaction.
func (r *CategoryWeightRepository) Replace(ctx context.Context, cfg models.CategoryWeightConfig) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace weights: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM category_weights WHERE course_id = $1`, cfg.CourseID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear weights for %s: %w", cfg.CourseID, err)
	}
	now := time.Now().UTC()
	for _, category := range models.Categories() {
		weight, ok := cfg.Weights[category]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO category_weights (course_id, category, weight, updated_at) VALUES ($1, $2, $3, $4)`,
			cfg.CourseID, category, weight, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert weight %s for %s: %w", category, cfg.CourseID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit weights for %s: %w", cfg.CourseID, err)
	}
	return nil
}

func group(rows []models.CategoryWeight) map[string]models.CategoryWeightConfig {
	result := make(map[string]models.CategoryWeightConfig)
	for _, row := range rows {
		cfg, ok := result[row.CourseID]
		if !ok {
			cfg = models.CategoryWeightConfig{CourseID: row.CourseID, Weights: map[models.Category]float64{}}
		}
		cfg.Weights[row.Category] = row.Weight
		result[row.CourseID] = cfg
	}
	return result
}
