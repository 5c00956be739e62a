package models

import (
	"time"

	"github.com/scholaris/scholaris-api/internal/grading"
)

// Assessment is one score record for (student, subject, class-term): three
// optional continuous-assessment components plus an exam component,
// conventionally weighted 10/10/10/70. Absent and exempt records keep their
// sub-scores but never produce a total, grade, or position.
type Assessment struct {
	ID          string    `db:"id" json:"id"`
	SchoolID    string    `db:"school_id" json:"school_id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	ClassTermID string    `db:"class_term_id" json:"class_term_id"`
	CA1         *float64  `db:"ca1" json:"ca1"`
	CA2         *float64  `db:"ca2" json:"ca2"`
	CA3         *float64  `db:"ca3" json:"ca3"`
	Exam        *float64  `db:"exam" json:"exam"`
	IsAbsent    bool      `db:"is_absent" json:"is_absent"`
	IsExempt    bool      `db:"is_exempt" json:"is_exempt"`
	RecordedBy  string    `db:"recorded_by" json:"recorded_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ToScore converts the persisted row into the engine's value type.
func (a Assessment) ToScore() grading.Score {
	return grading.Score{
		StudentID: a.StudentID,
		SubjectID: a.SubjectID,
		CA1:       a.CA1,
		CA2:       a.CA2,
		CA3:       a.CA3,
		Exam:      a.Exam,
		Absent:    a.IsAbsent,
		Exempt:    a.IsExempt,
	}
}

// Scores converts a batch of assessments for the engine.
func Scores(assessments []Assessment) []grading.Score {
	scores := make([]grading.Score, 0, len(assessments))
	for _, assessment := range assessments {
		scores = append(scores, assessment.ToScore())
	}
	return scores
}

// AssessmentFilter scopes assessment queries.
type AssessmentFilter struct {
	StudentID   string
	SubjectID   string
	ClassTermID string
}
