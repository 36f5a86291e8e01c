package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// CourseRepository reads course metadata and enrollments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListForStudent returns the courses a student is enrolled in for a term.
func (r *CourseRepository) ListForStudent(ctx context.Context, studentID, termID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.code, c.name, c.credit_hours
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1 AND e.term_id = $2
        ORDER BY c.code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID, termID); err != nil {
		return nil, fmt.Errorf("list courses for student %s: %w", studentID, err)
	}
	return courses, nil
}

// FindByID returns a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, code, name, credit_hours FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}
