package dto

import (
	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
)

// EligibilityResponse is the advisory verdict for a student's transition out
// of a class-term, with the inputs that produced it.
type EligibilityResponse struct {
	StudentID      string              `json:"student_id"`
	ClassTermID    string              `json:"class_term_id"`
	AverageScore   float64             `json:"average_score"`
	PassMark       float64             `json:"pass_mark"`
	PassSummary    grading.PassSummary `json:"pass_summary"`
	IsEligible     bool                `json:"is_eligible"`
	Reason         string              `json:"reason"`
}

// ExecuteTransitionRequest captures POST /transitions payload.
type ExecuteTransitionRequest struct {
	StudentID       string                `json:"student_id" validate:"required"`
	FromClassTermID string                `json:"from_class_term_id" validate:"required"`
	ToClassTermID   *string               `json:"to_class_term_id,omitempty"`
	Type            models.TransitionType `json:"transition_type" validate:"required"`
	Notes           string                `json:"notes"`
}
