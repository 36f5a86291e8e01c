package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-standing-api/internal/dto"
	"github.com/noah-isme/sma-standing-api/internal/models"
	appErrors "github.com/noah-isme/sma-standing-api/pkg/errors"
	"github.com/noah-isme/sma-standing-api/pkg/grading"
)

func TestReportCardCSV(t *testing.T) {
	f := newStandingFixture()
	svc := NewReportCardService(f.svc, nil, nil, nil)

	card, err := svc.Render(context.Background(), "s1", "t1", dto.ReportCardFormat("CSV"))
	require.NoError(t, err)
	assert.Equal(t, "text/csv", card.ContentType)
	assert.Equal(t, "report-card-s1-t1.csv", card.Filename)

	lines := strings.Split(strings.TrimSpace(string(card.Body)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Course,Credits,Overall,Grade,Status,Trend,Assignment,Quiz,Participation,Attendance", lines[0])
	assert.Equal(t, "Biology,2.0,80.00%,B-,Good,improving,70.00%,90.00%,,", lines[1])
	assert.Equal(t, "Mathematics,4.0,85.55%,B,Good,declining,90.00%,70.00%,100.00%,", lines[2])
	assert.Equal(t, "Art,1.0,,No grade yet,,stable,,,,", lines[3])
	assert.Equal(t, "GPA,,3.35,B,Good,,,,,", lines[4])
	assert.Equal(t, "Attendance,,90.00%,,,,,,,", lines[5])
}

func TestReportCardPDF(t *testing.T) {
	f := newStandingFixture()
	svc := NewReportCardService(f.svc, nil, nil, nil)

	card, err := svc.Render(context.Background(), "s1", "t1", "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", card.ContentType)
	assert.True(t, bytes.HasPrefix(card.Body, []byte("%PDF")))
}

func TestReportCardUnsupportedFormat(t *testing.T) {
	f := newStandingFixture()
	svc := NewReportCardService(f.svc, nil, nil, nil)

	_, err := svc.Render(context.Background(), "s1", "t1", "xlsx")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnsupported.Code, appErr.Code)
}

func TestWeightBarsUseEffectiveWeights(t *testing.T) {
	bars := weightBars([]models.CourseGradeResult{
		{CourseID: "c1", HasData: true, Breakdowns: []models.CategoryBreakdown{
			{Category: models.CategoryAssignment, EffectiveWeight: 0.6},
			{Category: models.CategoryQuiz, EffectiveWeight: 0.4},
		}},
		{CourseID: "c2"},
	})
	require.Len(t, bars, 1)
	assert.Equal(t, "c1", bars[0].Label)
	assert.Equal(t, 0.6, bars[0].Segments[0].Fraction)
	assert.Equal(t, "Quiz 40.0%", bars[0].Segments[1].Label)
}

func TestCourseTableNeverShowsNextBandUp(t *testing.T) {
	overall := 92.996
	table := courseTable(&dto.StandingResponse{Courses: []models.CourseGradeResult{{
		CourseName:        "Chemistry",
		HasData:           true,
		OverallPercentage: overall,
		LetterGrade:       grading.LetterFor(overall),
		Status:            grading.StatusFor(overall),
	}}})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "92.99%", table.Rows[0][colOverall])
	assert.Equal(t, "A-", table.Rows[0][colLetter])
}

var _ standingSummarizer = (*StandingService)(nil)
