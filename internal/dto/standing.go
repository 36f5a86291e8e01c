package dto

import (
	"time"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

// StandingResponse is a student's full academic standing for one term.
type StandingResponse struct {
	StudentID   string                     `json:"student_id"`
	TermID      string                     `json:"term_id"`
	Courses     []models.CourseGradeResult `json:"courses"`
	GPA         models.GPASummary          `json:"gpa"`
	Attendance  models.AttendanceSummary   `json:"attendance"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// RecordEntryRequest is the payload for recording a graded item.
type RecordEntryRequest struct {
	StudentID      string     `json:"student_id" validate:"required"`
	CourseID       string     `json:"course_id" validate:"required"`
	TermID         string     `json:"term_id" validate:"required"`
	Category       string     `json:"category" validate:"required,grade_category"`
	Title          string     `json:"title" validate:"max=200"`
	EarnedPoints   *float64   `json:"earned_points" validate:"required,gte=0,lte=1000000"`
	PossiblePoints float64    `json:"possible_points" validate:"gt=0,lte=1000000"`
	RecordedAt     *time.Time `json:"recorded_at"`
}

// UpdateWeightsRequest replaces a course's category weights. Keys are
// category names; values are shares in [0,1] and need not sum to one.
type UpdateWeightsRequest struct {
	Weights map[string]float64 `json:"weights" validate:"required,min=1,dive,keys,grade_category,endkeys,gte=0,lte=1"`
}

// ReportCardFormat selects the report card encoding.
type ReportCardFormat string

const (
	ReportCardCSV ReportCardFormat = "csv"
	ReportCardPDF ReportCardFormat = "pdf"
)

// ReportCard is a rendered report card document.
type ReportCard struct {
	Filename    string
	ContentType string
	Body        []byte
}
