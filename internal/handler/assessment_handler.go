package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/service"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
	"github.com/scholaris/scholaris-api/pkg/response"
)

// AssessmentHandler exposes score entry endpoints.
type AssessmentHandler struct {
	assessments *service.AssessmentService
}

// NewAssessmentHandler constructs AssessmentHandler.
func NewAssessmentHandler(assessments *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

// Upsert godoc
// @Summary Record a student's scores for one subject
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body dto.UpsertAssessmentRequest true "Assessment payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /assessments [put]
func (h *AssessmentHandler) Upsert(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpsertAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assessment, err := h.assessments.Upsert(c.Request.Context(), claims.SchoolID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assessment, nil)
}

// BulkUpsert godoc
// @Summary Record scores for a whole class roster at once
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body dto.BulkUpsertAssessmentRequest true "Bulk assessment payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /assessments/bulk [put]
func (h *AssessmentHandler) BulkUpsert(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.BulkUpsertAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.assessments.BulkUpsert(c.Request.Context(), claims.SchoolID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"upserted": count}, nil)
}

// ListByClassTerm godoc
// @Summary List assessments in a class-term
// @Tags Assessments
// @Produce json
// @Param id path string true "Class term ID"
// @Param subjectId query string false "Filter by subject"
// @Success 200 {object} response.Envelope
// @Router /class-terms/{id}/assessments [get]
func (h *AssessmentHandler) ListByClassTerm(c *gin.Context) {
	assessments, err := h.assessments.ListByClassTerm(c.Request.Context(), schoolFromContext(c), c.Param("id"), c.Query("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assessments, nil)
}

// ListByStudent godoc
// @Summary List a student's assessments in a class-term
// @Tags Assessments
// @Produce json
// @Param id path string true "Student ID"
// @Param classTermId query string true "Class term ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/assessments [get]
func (h *AssessmentHandler) ListByStudent(c *gin.Context) {
	classTermID := c.Query("classTermId")
	if classTermID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classTermId is required"))
		return
	}
	assessments, err := h.assessments.ListByStudent(c.Request.Context(), schoolFromContext(c), c.Param("id"), classTermID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assessments, nil)
}

// Delete godoc
// @Summary Delete an assessment
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 204
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) Delete(c *gin.Context) {
	if err := h.assessments.Delete(c.Request.Context(), schoolFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
