package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/service"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
	"github.com/scholaris/scholaris-api/pkg/response"
)

// ReportHandler exposes report composition and export endpoints.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// StudentTermReport godoc
// @Summary Get a student's term report card
// @Description Per-subject scores, grades, positions, and the class ranking
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Param classTermId query string true "Class term ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/report [get]
func (h *ReportHandler) StudentTermReport(c *gin.Context) {
	classTermID := c.Query("classTermId")
	if classTermID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classTermId is required"))
		return
	}
	report, err := h.reports.StudentTermReport(c.Request.Context(), schoolFromContext(c), classTermID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ClassBroadsheet godoc
// @Summary Get the broadsheet for a class-term
// @Description Ranked students with per-subject statistics
// @Tags Reports
// @Produce json
// @Param id path string true "Class term ID"
// @Success 200 {object} response.Envelope
// @Router /class-terms/{id}/broadsheet [get]
func (h *ReportHandler) ClassBroadsheet(c *gin.Context) {
	broadsheet, err := h.reports.ClassBroadsheet(c.Request.Context(), schoolFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, broadsheet, nil)
}

// EnqueueExport godoc
// @Summary Enqueue a report export job
// @Description Renders the report to CSV or PDF in the background
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /reports/jobs [post]
func (h *ReportHandler) EnqueueExport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.exports.Enqueue(c.Request.Context(), claims.SchoolID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// ExportStatus godoc
// @Summary Get export job status
// @Description Includes a signed download URL once the job has finished
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/jobs/{id} [get]
func (h *ReportHandler) ExportStatus(c *gin.Context) {
	status, err := h.exports.Status(c.Request.Context(), schoolFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download an exported report
// @Description Token-authenticated; the token comes from the job status endpoint
// @Tags Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Failure 401 {object} response.Envelope
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "download token is required"))
		return
	}
	file, relPath, err := h.exports.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.FileAttachment(file.Name(), filepath.Base(relPath))
}
