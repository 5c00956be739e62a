package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/models"
	"github.com/scholaris/scholaris-api/internal/service"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
	"github.com/scholaris/scholaris-api/pkg/response"
)

// TransitionHandler exposes promotion, transfer, and withdrawal endpoints.
type TransitionHandler struct {
	transitions *service.TransitionService
}

// NewTransitionHandler constructs TransitionHandler.
func NewTransitionHandler(transitions *service.TransitionService) *TransitionHandler {
	return &TransitionHandler{transitions: transitions}
}

// Eligibility godoc
// @Summary Evaluate a student's transition eligibility
// @Description Applies the school's pass mark to the student's term results
// @Tags Transitions
// @Produce json
// @Param id path string true "Student ID"
// @Param classTermId query string true "Class term ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/eligibility [get]
func (h *TransitionHandler) Eligibility(c *gin.Context) {
	classTermID := c.Query("classTermId")
	if classTermID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classTermId is required"))
		return
	}
	result, err := h.transitions.Eligibility(c.Request.Context(), schoolFromContext(c), c.Param("id"), classTermID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Execute godoc
// @Summary Execute a student transition
// @Description Promote, transfer, or withdraw a student
// @Tags Transitions
// @Accept json
// @Produce json
// @Param payload body dto.ExecuteTransitionRequest true "Transition payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /transitions [post]
func (h *TransitionHandler) Execute(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ExecuteTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.transitions.Execute(c.Request.Context(), claims.SchoolID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// History godoc
// @Summary List transition records
// @Tags Transitions
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param type query string false "Filter by transition type"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /transitions [get]
func (h *TransitionHandler) History(c *gin.Context) {
	filter := models.TransitionFilter{
		StudentID:       c.Query("studentId"),
		FromClassTermID: c.Query("fromClassTermId"),
		Type:            models.TransitionType(c.Query("type")),
		Page:            queryInt(c, "page", 1),
		PageSize:        queryInt(c, "limit", 20),
	}

	records, total, err := h.transitions.History(c.Request.Context(), schoolFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, paginationOf(filter.Page, filter.PageSize, total))
}
