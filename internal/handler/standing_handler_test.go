package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-standing-api/internal/dto"
	"github.com/noah-isme/sma-standing-api/internal/middleware"
	"github.com/noah-isme/sma-standing-api/internal/models"
	appErrors "github.com/noah-isme/sma-standing-api/pkg/errors"
)

type fakeStandingSrv struct {
	summary     *dto.StandingResponse
	course      *models.CourseGradeResult
	hit         bool
	err         error
	lastStudent string
	lastTerm    string
	lastCourse  string
	recorded    *dto.RecordEntryRequest
	weights     *dto.UpdateWeightsRequest
}

func (f *fakeStandingSrv) Summary(_ context.Context, studentID, termID string) (*dto.StandingResponse, bool, error) {
	f.lastStudent, f.lastTerm = studentID, termID
	return f.summary, f.hit, f.err
}

func (f *fakeStandingSrv) Course(_ context.Context, studentID, termID, courseID string) (*models.CourseGradeResult, bool, error) {
	f.lastStudent, f.lastTerm, f.lastCourse = studentID, termID, courseID
	return f.course, f.hit, f.err
}

func (f *fakeStandingSrv) RecordEntry(_ context.Context, req dto.RecordEntryRequest) (*models.AssignmentGradeEntry, error) {
	f.recorded = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AssignmentGradeEntry{ID: "e1", StudentID: req.StudentID, Category: models.CategoryQuiz}, nil
}

func (f *fakeStandingSrv) UpdateWeights(_ context.Context, courseID string, req dto.UpdateWeightsRequest) (*models.CategoryWeightConfig, error) {
	f.lastCourse = courseID
	f.weights = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.CategoryWeightConfig{CourseID: courseID, Weights: map[models.Category]float64{models.CategoryQuiz: 1}}, nil
}

type fakeReportCardSrv struct {
	format dto.ReportCardFormat
	err    error
}

func (f *fakeReportCardSrv) Render(_ context.Context, studentID, termID string, format dto.ReportCardFormat) (*dto.ReportCard, error) {
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ReportCard{Filename: "report-card-" + studentID + "-" + termID + ".csv", ContentType: "text/csv", Body: []byte("Course\n")}, nil
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func asUser(claims *models.JWTClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, claims)
		c.Next()
	}
}

func newTestRouter(claims *models.JWTClaims, standing *fakeStandingSrv, cards *fakeReportCardSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api/v1"), asUser(claims), NewStandingHandler(standing, nil), NewReportCardHandler(cards))
	return r
}

func serve(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, responseEnvelope) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	return rec, envelope
}

var (
	studentS1 = &models.JWTClaims{UserID: "u1", Role: models.RoleStudent, StudentID: "s1"}
	teacher   = &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}
)

func TestStandingHandlerSummary(t *testing.T) {
	srv := &fakeStandingSrv{summary: &dto.StandingResponse{StudentID: "s1", TermID: "2026-1"}, hit: true}
	r := newTestRouter(studentS1, srv, &fakeReportCardSrv{})

	rec, envelope := serve(r, http.MethodGet, "/api/v1/students/s1/standing?termId=2026-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", envelope.Data["student_id"])
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "2026-1", srv.lastTerm)
}

func TestStandingHandlerSummaryRequiresTerm(t *testing.T) {
	r := newTestRouter(studentS1, &fakeStandingSrv{}, &fakeReportCardSrv{})

	rec, envelope := serve(r, http.MethodGet, "/api/v1/students/s1/standing", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "termId is required", envelope.Error.Message)
}

func TestStandingHandlerStudentCannotReadOthers(t *testing.T) {
	srv := &fakeStandingSrv{summary: &dto.StandingResponse{}}
	r := newTestRouter(studentS1, srv, &fakeReportCardSrv{})

	rec, _ := serve(r, http.MethodGet, "/api/v1/students/s2/standing?termId=2026-1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, srv.lastStudent)

	rec, _ = serve(r, http.MethodGet, "/api/v1/students/s2/report-card?termId=2026-1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStandingHandlerCourse(t *testing.T) {
	srv := &fakeStandingSrv{course: &models.CourseGradeResult{CourseID: "math", LetterGrade: models.LetterGradeB, HasData: true}}
	r := newTestRouter(teacher, srv, &fakeReportCardSrv{})

	rec, envelope := serve(r, http.MethodGet, "/api/v1/students/s7/courses/math/standing?termId=2026-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "B", envelope.Data["letter_grade"])
	assert.Equal(t, false, envelope.Meta["cache_hit"])
	assert.Equal(t, "s7", srv.lastStudent)
	assert.Equal(t, "math", srv.lastCourse)
}

func TestStandingHandlerCourseNotFound(t *testing.T) {
	srv := &fakeStandingSrv{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}
	r := newTestRouter(teacher, srv, &fakeReportCardSrv{})

	rec, envelope := serve(r, http.MethodGet, "/api/v1/students/s7/courses/chem/standing?termId=2026-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestStandingHandlerRecordEntry(t *testing.T) {
	srv := &fakeStandingSrv{}
	r := newTestRouter(teacher, srv, &fakeReportCardSrv{})

	body := `{"student_id":"s1","course_id":"math","term_id":"2026-1","category":"QUIZ","earned_points":0,"possible_points":10}`
	rec, envelope := serve(r, http.MethodPost, "/api/v1/grade-entries", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "e1", envelope.Data["id"])
	require.NotNil(t, srv.recorded)
	require.NotNil(t, srv.recorded.EarnedPoints)
	assert.Equal(t, 0.0, *srv.recorded.EarnedPoints)
}

func TestStandingHandlerRecordEntryRejectsBadBody(t *testing.T) {
	r := newTestRouter(teacher, &fakeStandingSrv{}, &fakeReportCardSrv{})

	rec, envelope := serve(r, http.MethodPost, "/api/v1/grade-entries", `{"earned_points":"ten"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestStandingHandlerStudentsCannotWrite(t *testing.T) {
	srv := &fakeStandingSrv{}
	r := newTestRouter(studentS1, srv, &fakeReportCardSrv{})

	rec, _ := serve(r, http.MethodPost, "/api/v1/grade-entries", `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = serve(r, http.MethodPut, "/api/v1/courses/math/weights", `{"weights":{"QUIZ":1}}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, srv.recorded)
	assert.Nil(t, srv.weights)
}

func TestStandingHandlerUpdateWeights(t *testing.T) {
	srv := &fakeStandingSrv{}
	r := newTestRouter(teacher, srv, &fakeReportCardSrv{})

	rec, envelope := serve(r, http.MethodPut, "/api/v1/courses/math/weights", `{"weights":{"QUIZ":1}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "math", envelope.Data["course_id"])
	assert.Equal(t, map[string]float64{"QUIZ": 1}, srv.weights.Weights)

	srv.err = appErrors.Clone(appErrors.ErrInvalidWeights, "invalid category weights")
	rec, envelope = serve(r, http.MethodPut, "/api/v1/courses/math/weights", `{"weights":{"QUIZ":3}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_WEIGHTS", envelope.Error.Code)
}

func TestReportCardHandlerDownload(t *testing.T) {
	cards := &fakeReportCardSrv{}
	r := newTestRouter(studentS1, &fakeStandingSrv{}, cards)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/students/s1/report-card?termId=2026-1&format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.ReportCardCSV, cards.format)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report-card-s1-2026-1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Course\n", rec.Body.String())
}

func TestReportCardHandlerErrors(t *testing.T) {
	cards := &fakeReportCardSrv{err: appErrors.Clone(appErrors.ErrUnsupported, "unsupported report card format")}
	r := newTestRouter(studentS1, &fakeStandingSrv{}, cards)

	rec, envelope := serve(r, http.MethodGet, "/api/v1/students/s1/report-card?termId=2026-1&format=xlsx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNSUPPORTED_FORMAT", envelope.Error.Code)

	rec, _ = serve(r, http.MethodGet, "/api/v1/students/s1/report-card", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
