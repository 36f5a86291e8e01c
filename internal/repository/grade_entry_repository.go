package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

const gradeEntryColumns = `id, student_id, course_id, term_id, category, title, earned_points, possible_points, recorded_at, created_at`

// GradeEntryRepository persists assignment grade entries. Entries are
// append-only; a regrade is a new row.
type GradeEntryRepository struct {
	db *sqlx.DB
}

// NewGradeEntryRepository creates a new grade entry repository.
func NewGradeEntryRepository(db *sqlx.DB) *GradeEntryRepository {
	return &GradeEntryRepository{db: db}
}

// ListByStudentTerm returns every entry a student has in a term, oldest first.
func (r *GradeEntryRepository) ListByStudentTerm(ctx context.Context, studentID, termID string) ([]models.AssignmentGradeEntry, error) {
	query := `SELECT ` + gradeEntryColumns + ` FROM grade_entries WHERE student_id = $1 AND term_id = $2 ORDER BY course_id, recorded_at, created_at`
	var entries []models.AssignmentGradeEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID, termID); err != nil {
		return nil, fmt.Errorf("list grade entries for student %s: %w", studentID, err)
	}
	return entries, nil
}

// ListByCourse returns a student's entries for a single course in a term.
func (r *GradeEntryRepository) ListByCourse(ctx context.Context, studentID, termID, courseID string) ([]models.AssignmentGradeEntry, error) {
	query := `SELECT ` + gradeEntryColumns + ` FROM grade_entries WHERE student_id = $1 AND term_id = $2 AND course_id = $3 ORDER BY recorded_at, created_at`
	var entries []models.AssignmentGradeEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID, termID, courseID); err != nil {
		return nil, fmt.Errorf("list grade entries for course %s: %w", courseID, err)
	}
	return entries, nil
}

// Insert stores a new entry, assigning its id and timestamps when missing.
func (r *GradeEntryRepository) Insert(ctx context.Context, entry *models.AssignmentGradeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = now
	}
	entry.CreatedAt = now
	const query = `INSERT INTO grade_entries (` + gradeEntryColumns + `)
        VALUES (:id, :student_id, :course_id, :term_id, :category, :title, :earned_points, :possible_points, :recorded_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert grade entry: %w", err)
	}
	return nil
}
