package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/models"
	"github.com/scholaris/scholaris-api/internal/service"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
	"github.com/scholaris/scholaris-api/pkg/response"
)

// ClassHandler exposes class and class-term endpoints.
type ClassHandler struct {
	classes *service.ClassService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes *service.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param search query string false "Search by name"
// @Param level query int false "Filter by level"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	filter := models.ClassFilter{
		Search:    querySearch(c),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "limit", 20),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if level, err := strconv.Atoi(c.Query("level")); err == nil {
		filter.Level = &level
	}

	classes, total, err := h.classes.List(c.Request.Context(), schoolFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, paginationOf(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get class detail
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classes.Get(c.Request.Context(), schoolFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), schoolFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Update class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.UpdateClassRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Update(c.Request.Context(), schoolFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// AssignSubject godoc
// @Summary Assign subject to class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.AssignClassSubjectRequest true "Class subject payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/subjects [post]
func (h *ClassHandler) AssignSubject(c *gin.Context) {
	var req dto.AssignClassSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cs, err := h.classes.AssignSubject(c.Request.Context(), schoolFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cs)
}

// OpenClassTerm godoc
// @Summary Open a class for a term
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.OpenClassTermRequest true "Class term payload"
// @Success 201 {object} response.Envelope
// @Router /class-terms [post]
func (h *ClassHandler) OpenClassTerm(c *gin.Context) {
	var req dto.OpenClassTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classTerm, err := h.classes.OpenClassTerm(c.Request.Context(), schoolFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classTerm)
}

// ListClassTerms godoc
// @Summary List class-terms open in a term
// @Tags Classes
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /class-terms [get]
func (h *ClassHandler) ListClassTerms(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}
	classTerms, err := h.classes.ListClassTerms(c.Request.Context(), schoolFromContext(c), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classTerms, nil)
}

// GetClassTerm godoc
// @Summary Get class-term detail
// @Tags Classes
// @Produce json
// @Param id path string true "Class term ID"
// @Success 200 {object} response.Envelope
// @Router /class-terms/{id} [get]
func (h *ClassHandler) GetClassTerm(c *gin.Context) {
	detail, err := h.classes.GetClassTerm(c.Request.Context(), schoolFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// AssignStudent godoc
// @Summary Enroll a student into a class-term
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class term ID"
// @Param payload body dto.AssignStudentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /class-terms/{id}/students [post]
func (h *ClassHandler) AssignStudent(c *gin.Context) {
	var req dto.AssignStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ClassTermID = c.Param("id")
	assignment, err := h.classes.AssignStudent(c.Request.Context(), schoolFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Roster godoc
// @Summary List students enrolled in a class-term
// @Tags Classes
// @Produce json
// @Param id path string true "Class term ID"
// @Success 200 {object} response.Envelope
// @Router /class-terms/{id}/students [get]
func (h *ClassHandler) Roster(c *gin.Context) {
	students, err := h.classes.Roster(c.Request.Context(), schoolFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}
