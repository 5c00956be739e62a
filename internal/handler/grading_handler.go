package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/service"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
	"github.com/scholaris/scholaris-api/pkg/response"
)

// GradingHandler exposes grading configuration endpoints.
type GradingHandler struct {
	grading *service.GradingSystemService
}

// NewGradingHandler constructs GradingHandler.
func NewGradingHandler(grading *service.GradingSystemService) *GradingHandler {
	return &GradingHandler{grading: grading}
}

// Get godoc
// @Summary Get the school's grading system
// @Description Returns the configured grade bands, or the default scale when none is configured
// @Tags Grading
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grading-system [get]
func (h *GradingHandler) Get(c *gin.Context) {
	system, err := h.grading.Get(c.Request.Context(), schoolFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, system, nil)
}

// Save godoc
// @Summary Replace the school's grading system
// @Tags Grading
// @Accept json
// @Produce json
// @Param payload body dto.SaveGradingSystemRequest true "Grading system payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-system [put]
func (h *GradingHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveGradingSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	system, err := h.grading.Save(c.Request.Context(), claims.SchoolID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, system, nil)
}
