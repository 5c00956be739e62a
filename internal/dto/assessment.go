package dto

// AssessmentEntry is one student's score components within an upsert payload.
// Continuous assessment components are capped at 10 each and the exam at 70,
// matching the 10/10/10/70 weighting convention.
type AssessmentEntry struct {
	StudentID string   `json:"student_id" validate:"required"`
	CA1       *float64 `json:"ca1" validate:"omitempty,min=0,max=10"`
	CA2       *float64 `json:"ca2" validate:"omitempty,min=0,max=10"`
	CA3       *float64 `json:"ca3" validate:"omitempty,min=0,max=10"`
	Exam      *float64 `json:"exam" validate:"omitempty,min=0,max=70"`
	IsAbsent  bool     `json:"is_absent"`
	IsExempt  bool     `json:"is_exempt"`
}

// UpsertAssessmentRequest records or corrects one assessment.
type UpsertAssessmentRequest struct {
	SubjectID   string `json:"subject_id" validate:"required"`
	ClassTermID string `json:"class_term_id" validate:"required"`
	AssessmentEntry
}

// BulkUpsertAssessmentRequest records a whole score sheet for one subject of a
// class-term in a single transaction.
type BulkUpsertAssessmentRequest struct {
	SubjectID   string            `json:"subject_id" validate:"required"`
	ClassTermID string            `json:"class_term_id" validate:"required"`
	Entries     []AssessmentEntry `json:"entries" validate:"required,min=1,dive"`
}
