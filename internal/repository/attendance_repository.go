package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// AttendanceRepository aggregates daily attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

type attendanceStatusCount struct {
	Status models.AttendanceStatus `db:"status"`
	Total  int                     `db:"total"`
}

// CountsByStudent tallies a student's attendance marks in a term.
func (r *AttendanceRepository) CountsByStudent(ctx context.Context, studentID, termID string) (models.AttendanceCounts, error) {
	const query = `SELECT status, COUNT(*) AS total
        FROM daily_attendance
        WHERE student_id = $1 AND term_id = $2
        GROUP BY status`
	var rows []attendanceStatusCount
	if err := r.db.SelectContext(ctx, &rows, query, studentID, termID); err != nil {
		return models.AttendanceCounts{}, fmt.Errorf("count attendance for student %s: %w", studentID, err)
	}
	var counts models.AttendanceCounts
	for _, row := range rows {
		counts.Add(row.Status, row.Total)
	}
	return counts, nil
}
