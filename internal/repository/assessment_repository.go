package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/scholaris/scholaris-api/internal/models"
)

// AssessmentRepository handles assessment score persistence.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository creates a new assessment repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `id, school_id, student_id, subject_id, class_term_id, ca1, ca2, ca3, exam, is_absent, is_exempt, recorded_by, created_at, updated_at`

const assessmentUpsert = `INSERT INTO assessments (id, school_id, student_id, subject_id, class_term_id, ca1, ca2, ca3, exam, is_absent, is_exempt, recorded_by, created_at, updated_at)
VALUES (:id, :school_id, :student_id, :subject_id, :class_term_id, :ca1, :ca2, :ca3, :exam, :is_absent, :is_exempt, :recorded_by, :created_at, :updated_at)
ON CONFLICT (student_id, subject_id, class_term_id)
DO UPDATE SET ca1 = EXCLUDED.ca1, ca2 = EXCLUDED.ca2, ca3 = EXCLUDED.ca3, exam = EXCLUDED.exam,
is_absent = EXCLUDED.is_absent, is_exempt = EXCLUDED.is_exempt, recorded_by = EXCLUDED.recorded_by, updated_at = EXCLUDED.updated_at`

// Upsert inserts or updates one assessment record keyed by
// (student, subject, class-term).
func (r *AssessmentRepository) Upsert(ctx context.Context, assessment *models.Assessment) error {
	prepareAssessment(assessment)
	if _, err := r.db.NamedExecContext(ctx, assessmentUpsert, assessment); err != nil {
		return fmt.Errorf("upsert assessment: %w", err)
	}
	return nil
}

// BulkUpsert inserts or updates many assessments in one transaction.
func (r *AssessmentRepository) BulkUpsert(ctx context.Context, assessments []models.Assessment) error {
	if len(assessments) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range assessments {
		prepareAssessment(&assessments[i])
		if _, err := tx.NamedExecContext(ctx, assessmentUpsert, assessments[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("bulk upsert assessment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assessments: %w", err)
	}
	return nil
}

// ListByClassTerm returns every assessment of a class-term, optionally
// narrowed to one subject.
func (r *AssessmentRepository) ListByClassTerm(ctx context.Context, classTermID, subjectID string) ([]models.Assessment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assessments WHERE class_term_id = $1`, assessmentColumns)
	args := []interface{}{classTermID}
	if subjectID != "" {
		query += " AND subject_id = $2"
		args = append(args, subjectID)
	}
	var assessments []models.Assessment
	if err := r.db.SelectContext(ctx, &assessments, query, args...); err != nil {
		return nil, fmt.Errorf("list class term assessments: %w", err)
	}
	return assessments, nil
}

// ListByStudent returns a student's assessments within a class-term.
func (r *AssessmentRepository) ListByStudent(ctx context.Context, studentID, classTermID string) ([]models.Assessment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assessments WHERE student_id = $1 AND class_term_id = $2`, assessmentColumns)
	var assessments []models.Assessment
	if err := r.db.SelectContext(ctx, &assessments, query, studentID, classTermID); err != nil {
		return nil, fmt.Errorf("list student assessments: %w", err)
	}
	return assessments, nil
}

// Delete removes one assessment record scoped by school.
func (r *AssessmentRepository) Delete(ctx context.Context, schoolID, id string) error {
	const query = `DELETE FROM assessments WHERE id = $1 AND school_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, schoolID); err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return nil
}

func prepareAssessment(assessment *models.Assessment) {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = now
	}
	assessment.UpdatedAt = now
}
