package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type mockAssessmentRepo struct {
	upserted []models.Assessment
}

func (m *mockAssessmentRepo) Upsert(ctx context.Context, assessment *models.Assessment) error {
	assessment.ID = "a-1"
	m.upserted = append(m.upserted, *assessment)
	return nil
}

func (m *mockAssessmentRepo) BulkUpsert(ctx context.Context, assessments []models.Assessment) error {
	m.upserted = append(m.upserted, assessments...)
	return nil
}

func (m *mockAssessmentRepo) ListByClassTerm(ctx context.Context, classTermID, subjectID string) ([]models.Assessment, error) {
	return m.upserted, nil
}

func (m *mockAssessmentRepo) ListByStudent(ctx context.Context, studentID, classTermID string) ([]models.Assessment, error) {
	return m.upserted, nil
}

func (m *mockAssessmentRepo) Delete(ctx context.Context, schoolID, id string) error {
	return nil
}

type mockAssessmentClasses struct {
	classTerms map[string]bool
	enrolled   map[string]bool
}

func (m *mockAssessmentClasses) FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error) {
	if !m.classTerms[classTermID] {
		return nil, sql.ErrNoRows
	}
	return &models.ClassTermDetail{ClassTerm: models.ClassTerm{ID: classTermID}}, nil
}

func (m *mockAssessmentClasses) HasAssignment(ctx context.Context, studentID, classTermID string) (bool, error) {
	return m.enrolled[studentID+"|"+classTermID], nil
}

func assessmentFixture() (*mockAssessmentRepo, *mockAssessmentClasses, *mockAuditRepo, *AssessmentService) {
	repo := &mockAssessmentRepo{}
	classes := &mockAssessmentClasses{
		classTerms: map[string]bool{"ct-1": true},
		enrolled:   map[string]bool{"s-1|ct-1": true, "s-2|ct-1": true},
	}
	audit := &mockAuditRepo{}
	svc := NewAssessmentService(repo, classes, audit, nil, nil)
	return repo, classes, audit, svc
}

func TestAssessmentUpsert(t *testing.T) {
	repo, _, audit, svc := assessmentFixture()

	exam := 65.0
	ca := 8.0
	assessment, err := svc.Upsert(context.Background(), "school-1", "teacher-1", dto.UpsertAssessmentRequest{
		SubjectID:   "sub-m",
		ClassTermID: "ct-1",
		AssessmentEntry: dto.AssessmentEntry{
			StudentID: "s-1",
			CA1:       &ca,
			Exam:      &exam,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "school-1", assessment.SchoolID)
	assert.Equal(t, "teacher-1", assessment.RecordedBy)
	require.Len(t, repo.upserted, 1)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionAssessmentUpsert, audit.logs[0].Action)
}

func TestAssessmentUpsertRejectsOutOfRangeComponent(t *testing.T) {
	_, _, _, svc := assessmentFixture()

	ca := 15.0
	_, err := svc.Upsert(context.Background(), "school-1", "teacher-1", dto.UpsertAssessmentRequest{
		SubjectID:   "sub-m",
		ClassTermID: "ct-1",
		AssessmentEntry: dto.AssessmentEntry{
			StudentID: "s-1",
			CA1:       &ca,
		},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAssessmentUpsertRejectsUnenrolledStudent(t *testing.T) {
	_, _, _, svc := assessmentFixture()

	exam := 50.0
	_, err := svc.Upsert(context.Background(), "school-1", "teacher-1", dto.UpsertAssessmentRequest{
		SubjectID:   "sub-m",
		ClassTermID: "ct-1",
		AssessmentEntry: dto.AssessmentEntry{
			StudentID: "s-99",
			Exam:      &exam,
		},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestAssessmentBulkUpsert(t *testing.T) {
	repo, _, _, svc := assessmentFixture()

	exam1, exam2 := 70.0, 55.0
	count, err := svc.BulkUpsert(context.Background(), "school-1", "teacher-1", dto.BulkUpsertAssessmentRequest{
		SubjectID:   "sub-m",
		ClassTermID: "ct-1",
		Entries: []dto.AssessmentEntry{
			{StudentID: "s-1", Exam: &exam1},
			{StudentID: "s-2", Exam: &exam2, IsExempt: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.upserted, 2)
	assert.True(t, repo.upserted[1].IsExempt)
}

func TestAssessmentUpsertUnknownClassTerm(t *testing.T) {
	_, _, _, svc := assessmentFixture()

	exam := 50.0
	_, err := svc.Upsert(context.Background(), "school-1", "teacher-1", dto.UpsertAssessmentRequest{
		SubjectID:   "sub-m",
		ClassTermID: "ct-missing",
		AssessmentEntry: dto.AssessmentEntry{
			StudentID: "s-1",
			Exam:      &exam,
		},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
