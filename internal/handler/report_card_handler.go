package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-standing-api/internal/dto"
	appErrors "github.com/noah-isme/sma-standing-api/pkg/errors"
	"github.com/noah-isme/sma-standing-api/pkg/response"
)

type reportCardService interface {
	Render(ctx context.Context, studentID, termID string, format dto.ReportCardFormat) (*dto.ReportCard, error)
}

// ReportCardHandler serves downloadable report cards.
type ReportCardHandler struct {
	service reportCardService
}

// NewReportCardHandler constructs the handler.
func NewReportCardHandler(service reportCardService) *ReportCardHandler {
	return &ReportCardHandler{service: service}
}

// Download godoc
// @Summary Download a student's report card
// @Tags Standing
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Student ID"
// @Param termId query string true "Term ID"
// @Param format query string false "csv or pdf (default pdf)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/report-card [get]
func (h *ReportCardHandler) Download(c *gin.Context) {
	termID := strings.TrimSpace(c.Query("termId"))
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	card, err := h.service.Render(c.Request.Context(), c.Param("id"), termID, dto.ReportCardFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, card.Filename, card.ContentType, card.Body)
}
