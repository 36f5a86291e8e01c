package models

import (
	"strings"
	"time"
)

// Category is one of the fixed grade components of a course.
type Category string

const (
	CategoryAssignment    Category = "ASSIGNMENT"
	CategoryQuiz          Category = "QUIZ"
	CategoryParticipation Category = "PARTICIPATION"
	CategoryAttendance    Category = "ATTENDANCE"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryAssignment, CategoryQuiz, CategoryParticipation, CategoryAttendance}
}

// Valid returns true when the category is a supported value.
func (c Category) Valid() bool {
	switch c {
	case CategoryAssignment, CategoryQuiz, CategoryParticipation, CategoryAttendance:
		return true
	default:
		return false
	}
}

// Label returns the human readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryAssignment:
		return "Assignment"
	case CategoryQuiz:
		return "Quiz"
	case CategoryParticipation:
		return "Participation"
	case CategoryAttendance:
		return "Attendance"
	default:
		return string(c)
	}
}

// ParseCategory normalises user input into a Category.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	return c, c.Valid()
}

// AssignmentGradeEntry is one graded item. A regrade is stored as a new entry.
type AssignmentGradeEntry struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	TermID         string    `db:"term_id" json:"term_id"`
	Category       Category  `db:"category" json:"category"`
	Title          string    `db:"title" json:"title"`
	EarnedPoints   float64   `db:"earned_points" json:"earned_points"`
	PossiblePoints float64   `db:"possible_points" json:"possible_points"`
	RecordedAt     time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Percentage returns the entry's own score on a 0-100 scale.
func (e AssignmentGradeEntry) Percentage() float64 {
	if e.PossiblePoints <= 0 {
		return 0
	}
	return e.EarnedPoints / e.PossiblePoints * 100
}

// CategoryWeightConfig maps categories to configured weights for a course.
type CategoryWeightConfig struct {
	CourseID string               `json:"course_id"`
	Weights  map[Category]float64 `json:"weights"`
}

// DefaultCategoryWeights returns the configuration used when a course has none.
func DefaultCategoryWeights() CategoryWeightConfig {
	return CategoryWeightConfig{Weights: map[Category]float64{
		CategoryAssignment:    0.4,
		CategoryQuiz:          0.3,
		CategoryParticipation: 0.2,
		CategoryAttendance:    0.1,
	}}
}

// IsZero reports whether no weights were supplied.
func (c CategoryWeightConfig) IsZero() bool {
	return len(c.Weights) == 0
}

// CategoryWeight is a single persisted weight row.
type CategoryWeight struct {
	CourseID  string    `db:"course_id" json:"course_id"`
	Category  Category  `db:"category" json:"category"`
	Weight    float64   `db:"weight" json:"weight"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Course holds the metadata needed to present a standing.
type Course struct {
	ID          string  `db:"id" json:"id"`
	Code        string  `db:"code" json:"code"`
	Name        string  `db:"name" json:"name"`
	CreditHours float64 `db:"credit_hours" json:"credit_hours"`
}
