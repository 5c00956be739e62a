package models

import "time"

// TransitionType enumerates supported student transitions.
type TransitionType string

const (
	TransitionPromotion  TransitionType = "PROMOTION"
	TransitionTransfer   TransitionType = "TRANSFER"
	TransitionWithdrawal TransitionType = "WITHDRAWAL"
)

// Valid reports whether the type is one of the supported transitions.
func (t TransitionType) Valid() bool {
	switch t {
	case TransitionPromotion, TransitionTransfer, TransitionWithdrawal:
		return true
	}
	return false
}

// TransitionRecord is the append-only audit row created exactly once per
// executed transition. Records are never mutated after creation.
type TransitionRecord struct {
	ID              string         `db:"id" json:"id"`
	SchoolID        string         `db:"school_id" json:"school_id"`
	StudentID       string         `db:"student_id" json:"student_id"`
	FromClassTermID string         `db:"from_class_term_id" json:"from_class_term_id"`
	ToClassTermID   *string        `db:"to_class_term_id" json:"to_class_term_id,omitempty"`
	Type            TransitionType `db:"type" json:"transition_type"`
	TransitionDate  time.Time      `db:"transition_date" json:"transition_date"`
	Notes           string         `db:"notes" json:"notes"`
	CreatedBy       string         `db:"created_by" json:"created_by"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// TransitionFilter scopes transition history queries.
type TransitionFilter struct {
	StudentID       string
	FromClassTermID string
	Type            TransitionType
	Page            int
	PageSize        int
}
