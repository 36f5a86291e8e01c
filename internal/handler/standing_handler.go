package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-standing-api/internal/dto"
	"github.com/noah-isme/sma-standing-api/internal/middleware"
	"github.com/noah-isme/sma-standing-api/internal/models"
	appErrors "github.com/noah-isme/sma-standing-api/pkg/errors"
	"github.com/noah-isme/sma-standing-api/pkg/response"
)

type standingService interface {
	Summary(ctx context.Context, studentID, termID string) (*dto.StandingResponse, bool, error)
	Course(ctx context.Context, studentID, termID, courseID string) (*models.CourseGradeResult, bool, error)
	RecordEntry(ctx context.Context, req dto.RecordEntryRequest) (*models.AssignmentGradeEntry, error)
	UpdateWeights(ctx context.Context, courseID string, req dto.UpdateWeightsRequest) (*models.CategoryWeightConfig, error)
}

// StandingHandler exposes student standings over HTTP.
type StandingHandler struct {
	service standingService
	logger  *zap.Logger
}

// NewStandingHandler constructs the handler.
func NewStandingHandler(service standingService, logger *zap.Logger) *StandingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandingHandler{service: service, logger: logger}
}

// Summary godoc
// @Summary Student academic standing for a term
// @Tags Standing
// @Produce json
// @Param id path string true "Student ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/standing [get]
func (h *StandingHandler) Summary(c *gin.Context) {
	termID := strings.TrimSpace(c.Query("termId"))
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	summary, cacheHit, err := h.service.Summary(c.Request.Context(), c.Param("id"), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, middleware.ExtractMeta(c))
}

// Course godoc
// @Summary Student standing in a single course
// @Tags Standing
// @Produce json
// @Param id path string true "Student ID"
// @Param courseId path string true "Course ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/courses/{courseId}/standing [get]
func (h *StandingHandler) Course(c *gin.Context) {
	termID := strings.TrimSpace(c.Query("termId"))
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	result, cacheHit, err := h.service.Course(c.Request.Context(), c.Param("id"), termID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// RecordEntry godoc
// @Summary Record a graded item
// @Tags Grade Entries
// @Accept json
// @Produce json
// @Param payload body dto.RecordEntryRequest true "Grade entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grade-entries [post]
func (h *StandingHandler) RecordEntry(c *gin.Context) {
	var req dto.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	entry, err := h.service.RecordEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if claims := middleware.Claims(c); claims != nil {
		h.logger.Info("grade entry submitted", zap.String("entry_id", entry.ID), zap.String("recorded_by", claims.UserID))
	}
	response.Created(c, entry)
}

// UpdateWeights godoc
// @Summary Replace a course's category weights
// @Tags Courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.UpdateWeightsRequest true "Weights in [0,1] keyed by category"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /courses/{courseId}/weights [put]
func (h *StandingHandler) UpdateWeights(c *gin.Context) {
	var req dto.UpdateWeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	cfg, err := h.service.UpdateWeights(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}
