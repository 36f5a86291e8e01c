package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-standing-api/internal/dto"
	"github.com/noah-isme/sma-standing-api/internal/models"
	appErrors "github.com/noah-isme/sma-standing-api/pkg/errors"
	"github.com/noah-isme/sma-standing-api/pkg/export"
)

type standingSummarizer interface {
	Summary(ctx context.Context, studentID, termID string) (*dto.StandingResponse, bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

const (
	colCourse  = "Course"
	colCredits = "Credits"
	colOverall = "Overall"
	colLetter  = "Grade"
	colStatus  = "Status"
	colTrend   = "Trend"
)

// ReportCardService renders a student's standing as a downloadable document.
type ReportCardService struct {
	standing standingSummarizer
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewReportCardService constructs the service with the default exporters when nil.
func NewReportCardService(standing standingSummarizer, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ReportCardService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCardService{standing: standing, csv: csv, pdf: pdf, logger: logger}
}

// Render produces the report card in the requested format.
func (s *ReportCardService) Render(ctx context.Context, studentID, termID string, format dto.ReportCardFormat) (*dto.ReportCard, error) {
	format = dto.ReportCardFormat(strings.ToLower(string(format)))
	if format == "" {
		format = dto.ReportCardPDF
	}
	if format != dto.ReportCardCSV && format != dto.ReportCardPDF {
		return nil, appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("unsupported report card format %q", format))
	}

	summary, _, err := s.standing.Summary(ctx, studentID, termID)
	if err != nil {
		return nil, err
	}

	table := courseTable(summary)
	filename := fmt.Sprintf("report-card-%s-%s.%s", studentID, termID, format)

	var body []byte
	var contentType string
	switch format {
	case dto.ReportCardCSV:
		table.Footer = footerRows(summary)
		body, err = s.csv.Render(table)
		contentType = "text/csv"
	default:
		body, err = s.pdf.Render(export.Document{
			Title:    "Report Card",
			Subtitle: []string{"Student " + studentID, "Term " + termID},
			Table:    table,
			Bars:     weightBars(summary.Courses),
			Footer:   footerLines(summary),
		})
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report card")
	}

	s.logger.Debug("report card rendered", zap.String("student_id", studentID), zap.String("term_id", termID), zap.String("format", string(format)), zap.Int("bytes", len(body)))
	return &dto.ReportCard{Filename: filename, ContentType: contentType, Body: body}, nil
}

func courseTable(summary *dto.StandingResponse) export.Dataset {
	headers := []string{colCourse, colCredits, colOverall, colLetter, colStatus, colTrend}
	for _, c := range models.Categories() {
		headers = append(headers, c.Label())
	}

	rows := make([]map[string]string, 0, len(summary.Courses))
	for _, course := range summary.Courses {
		row := map[string]string{
			colCourse:  courseLabel(course),
			colCredits: export.FormatFixed(course.CreditHours, 1),
			colLetter:  course.LetterGrade.Display(),
			colStatus:  string(course.Status),
			colTrend:   string(course.Trend),
		}
		if course.HasData {
			row[colOverall] = export.FormatPercent(course.OverallPercentage)
		}
		for _, b := range course.Breakdowns {
			row[b.Category.Label()] = export.FormatPercent(b.Percentage)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func footerRows(summary *dto.StandingResponse) []map[string]string {
	gpa := map[string]string{colCourse: "GPA", colOverall: export.FormatFixed(summary.GPA.GPA, 2)}
	if summary.GPA.CourseCount > 0 {
		gpa[colLetter] = summary.GPA.OverallLetterGrade.Display()
		gpa[colStatus] = string(summary.GPA.Status)
	}
	return []map[string]string{
		gpa,
		{colCourse: "Attendance", colOverall: export.FormatPercent(summary.Attendance.Rate)},
	}
}

func footerLines(summary *dto.StandingResponse) []string {
	gpaLine := "GPA: no graded courses yet"
	if summary.GPA.CourseCount > 0 {
		gpaLine = fmt.Sprintf("GPA: %s (%s, %s average, %d courses)",
			export.FormatFixed(summary.GPA.GPA, 2),
			summary.GPA.OverallLetterGrade.Display(),
			export.FormatPercent(summary.GPA.WeightedAveragePercent),
			summary.GPA.CourseCount)
	}
	return []string{
		gpaLine,
		fmt.Sprintf("Attendance: %s of %d days", export.FormatPercent(summary.Attendance.Rate), summary.Attendance.TotalDays),
	}
}

func weightBars(courses []models.CourseGradeResult) []export.WeightBar {
	bars := make([]export.WeightBar, 0, len(courses))
	for _, course := range courses {
		if !course.HasData {
			continue
		}
		bar := export.WeightBar{Label: courseLabel(course)}
		for _, b := range course.Breakdowns {
			bar.Segments = append(bar.Segments, export.BarSegment{
				Label:    b.Category.Label() + " " + export.FormatWeight(b.EffectiveWeight),
				Fraction: b.EffectiveWeight,
			})
		}
		bars = append(bars, bar)
	}
	return bars
}

func courseLabel(course models.CourseGradeResult) string {
	if course.CourseName != "" {
		return course.CourseName
	}
	return course.CourseID
}
