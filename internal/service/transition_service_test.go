package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type mockTransitionRepo struct {
	records []models.TransitionRecord
}

func (m *mockTransitionRepo) Create(ctx context.Context, record *models.TransitionRecord) error {
	record.ID = "tr-1"
	record.CreatedAt = time.Now().UTC()
	m.records = append(m.records, *record)
	return nil
}

func (m *mockTransitionRepo) List(ctx context.Context, schoolID string, filter models.TransitionFilter) ([]models.TransitionRecord, int, error) {
	return m.records, len(m.records), nil
}

type mockTransitionClasses struct {
	classTerms  map[string]*models.ClassTermDetail
	assignments map[string]bool
	created     []models.ClassTermAssignment
}

func (m *mockTransitionClasses) FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error) {
	detail, ok := m.classTerms[classTermID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (m *mockTransitionClasses) HasAssignment(ctx context.Context, studentID, classTermID string) (bool, error) {
	return m.assignments[studentID+"|"+classTermID], nil
}

func (m *mockTransitionClasses) CreateAssignment(ctx context.Context, assignment *models.ClassTermAssignment) error {
	m.assignments[assignment.StudentID+"|"+assignment.ClassTermID] = true
	m.created = append(m.created, *assignment)
	return nil
}

type mockTransitionStudents struct {
	students map[string]models.Student
	left     []string
}

func (m *mockTransitionStudents) FindByID(ctx context.Context, schoolID, id string) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

func (m *mockTransitionStudents) MarkLeft(ctx context.Context, schoolID, id string, leftAt time.Time) error {
	m.left = append(m.left, id)
	return nil
}

type mockTransitionAssessments struct {
	assessments []models.Assessment
}

func (m *mockTransitionAssessments) ListByStudent(ctx context.Context, studentID, classTermID string) ([]models.Assessment, error) {
	var result []models.Assessment
	for _, a := range m.assessments {
		if a.StudentID == studentID && a.ClassTermID == classTermID {
			result = append(result, a)
		}
	}
	return result, nil
}

type mockAuditRepo struct {
	logs []models.AuditLog
}

func (m *mockAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func transitionFixture() (*mockTransitionRepo, *mockTransitionClasses, *mockTransitionStudents, *mockTransitionAssessments, *mockScales, *mockAuditRepo) {
	exam := func(v float64) *float64 { return &v }
	repo := &mockTransitionRepo{}
	classes := &mockTransitionClasses{
		classTerms: map[string]*models.ClassTermDetail{
			"ct-1": {ClassTerm: models.ClassTerm{ID: "ct-1"}, ClassName: "Grade 5A", TermName: "Third Term"},
			"ct-2": {ClassTerm: models.ClassTerm{ID: "ct-2"}, ClassName: "Grade 6A", TermName: "First Term"},
		},
		assignments: map[string]bool{"s-1|ct-1": true},
	}
	students := &mockTransitionStudents{students: map[string]models.Student{
		"s-1": {ID: "s-1", FullName: "Alice Bello"},
	}}
	assessments := &mockTransitionAssessments{assessments: []models.Assessment{
		{StudentID: "s-1", SubjectID: "sub-m", ClassTermID: "ct-1", Exam: exam(80)},
		{StudentID: "s-1", SubjectID: "sub-e", ClassTermID: "ct-1", Exam: exam(60)},
		{StudentID: "s-1", SubjectID: "sub-c", ClassTermID: "ct-1", Exam: exam(30)},
	}}
	scales := &mockScales{scale: grading.DefaultScale()}
	audit := &mockAuditRepo{}
	return repo, classes, students, assessments, scales, audit
}

func newTransitionService(repo *mockTransitionRepo, classes *mockTransitionClasses, students *mockTransitionStudents, assessments *mockTransitionAssessments, scales *mockScales, audit *mockAuditRepo) *TransitionService {
	return NewTransitionService(repo, classes, students, assessments, scales, audit, nil, nil)
}

func TestEligibilityPreview(t *testing.T) {
	repo, classes, students, assessments, scales, audit := transitionFixture()
	svc := newTransitionService(repo, classes, students, assessments, scales, audit)

	resp, err := svc.Eligibility(context.Background(), "school-1", "s-1", "ct-1")
	require.NoError(t, err)

	// Average (80+60+30)/3 = 56.67 with 2 of 3 passed at pass mark 40.
	assert.InDelta(t, 56.666, resp.AverageScore, 0.01)
	assert.Equal(t, 3, resp.PassSummary.Offered)
	assert.Equal(t, 2, resp.PassSummary.Passed)
	assert.True(t, resp.IsEligible)
	assert.Equal(t, "Excellent performance - meets all criteria", resp.Reason)
}

func TestEligibilityStudentNotFound(t *testing.T) {
	repo, classes, students, assessments, scales, audit := transitionFixture()
	svc := newTransitionService(repo, classes, students, assessments, scales, audit)

	_, err := svc.Eligibility(context.Background(), "school-1", "s-missing", "ct-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExecutePromotion(t *testing.T) {
	repo, classes, students, assessments, scales, audit := transitionFixture()
	svc := newTransitionService(repo, classes, students, assessments, scales, audit)

	to := "ct-2"
	record, err := svc.Execute(context.Background(), "school-1", "admin-1", dto.ExecuteTransitionRequest{
		StudentID:       "s-1",
		FromClassTermID: "ct-1",
		ToClassTermID:   &to,
		Type:            models.TransitionPromotion,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TransitionPromotion, record.Type)
	require.Len(t, classes.created, 1)
	assert.Equal(t, "ct-2", classes.created[0].ClassTermID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionTransitionExecute, audit.logs[0].Action)
}

func TestExecutePromotionDuplicateAssignment(t *testing.T) {
	repo, classes, students, assessments, scales, audit := transitionFixture()
	classes.assignments["s-1|ct-2"] = true
	svc := newTransitionService(repo, classes, students, assessments, scales, audit)

	to := "ct-2"
	_, err := svc.Execute(context.Background(), "school-1", "admin-1", dto.ExecuteTransitionRequest{
		StudentID:       "s-1",
		FromClassTermID: "ct-1",
		ToClassTermID:   &to,
		Type:            models.TransitionPromotion,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicateAssignment.Code, appErr.Code)
	assert.Empty(t, repo.records)
}

func TestExecutePromotionRequiresDestination(t *testing.T) {
	repo, classes, students, assessments, scales, audit := transitionFixture()
	svc := newTransitionService(repo, classes, students, assessments, scales, audit)

	_, err := svc.Execute(context.Background(), "school-1", "admin-1", dto.ExecuteTransitionRequest{
		StudentID:       "s-1",
		FromClassTermID: "ct-1",
		Type:            models.TransitionPromotion,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExecuteWithdrawal(t *testing.T) {
	repo, classes, students, assessments, scales, audit := transitionFixture()
	svc := newTransitionService(repo, classes, students, assessments, scales, audit)

	record, err := svc.Execute(context.Background(), "school-1", "admin-1", dto.ExecuteTransitionRequest{
		StudentID:       "s-1",
		FromClassTermID: "ct-1",
		Type:            models.TransitionWithdrawal,
		Notes:           "relocated",
	})
	require.NoError(t, err)

	assert.Nil(t, record.ToClassTermID)
	assert.Equal(t, []string{"s-1"}, students.left)
	assert.Empty(t, classes.created)
}
