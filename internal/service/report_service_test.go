package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
)

type mockReportAssessments struct {
	assessments []models.Assessment
}

func (m *mockReportAssessments) ListByClassTerm(ctx context.Context, classTermID, subjectID string) ([]models.Assessment, error) {
	var result []models.Assessment
	for _, a := range m.assessments {
		if a.ClassTermID != classTermID {
			continue
		}
		if subjectID != "" && a.SubjectID != subjectID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type mockReportClasses struct {
	detail *models.ClassTermDetail
	roster []models.Student
}

func (m *mockReportClasses) FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error) {
	if m.detail == nil || m.detail.ID != classTermID {
		return nil, sql.ErrNoRows
	}
	return m.detail, nil
}

func (m *mockReportClasses) ListAssignedStudents(ctx context.Context, classTermID string) ([]models.Student, error) {
	return m.roster, nil
}

type mockReportStudents struct {
	students map[string]models.Student
}

func (m *mockReportStudents) FindByID(ctx context.Context, schoolID, id string) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

type mockReportSubjects struct {
	subjects []models.Subject
}

func (m *mockReportSubjects) ListByClassTerm(ctx context.Context, classTermID string) ([]models.Subject, error) {
	return m.subjects, nil
}

type mockScales struct {
	scale grading.Scale
	err   error
}

func (m *mockScales) ScaleForSchool(ctx context.Context, schoolID string) (grading.Scale, error) {
	if m.err != nil {
		return grading.Scale{}, m.err
	}
	return m.scale, nil
}

func reportFixture() (*mockReportAssessments, *mockReportClasses, *mockReportStudents, *mockReportSubjects, *mockScales) {
	exam := func(v float64) *float64 { return &v }
	assessments := &mockReportAssessments{assessments: []models.Assessment{
		{ID: "a-1", StudentID: "s-1", SubjectID: "sub-m", ClassTermID: "ct-1", Exam: exam(85)},
		{ID: "a-2", StudentID: "s-2", SubjectID: "sub-m", ClassTermID: "ct-1", Exam: exam(70)},
		{ID: "a-3", StudentID: "s-1", SubjectID: "sub-e", ClassTermID: "ct-1", IsAbsent: true},
		{ID: "a-4", StudentID: "s-2", SubjectID: "sub-e", ClassTermID: "ct-1", Exam: exam(60)},
	}}
	classes := &mockReportClasses{
		detail: &models.ClassTermDetail{
			ClassTerm: models.ClassTerm{ID: "ct-1", ClassID: "c-1", TermID: "t-1"},
			ClassName: "Grade 5A",
			TermName:  "First Term",
		},
		roster: []models.Student{
			{ID: "s-1", FullName: "Alice Bello", AdmissionNo: "ADM-001"},
			{ID: "s-2", FullName: "Bob Danjuma", AdmissionNo: "ADM-002"},
			{ID: "s-3", FullName: "Chidi Eze", AdmissionNo: "ADM-003"},
		},
	}
	students := &mockReportStudents{students: map[string]models.Student{
		"s-1": {ID: "s-1", FullName: "Alice Bello", AdmissionNo: "ADM-001"},
		"s-2": {ID: "s-2", FullName: "Bob Danjuma", AdmissionNo: "ADM-002"},
		"s-3": {ID: "s-3", FullName: "Chidi Eze", AdmissionNo: "ADM-003"},
	}}
	subjects := &mockReportSubjects{subjects: []models.Subject{
		{ID: "sub-m", Code: "MTH", Name: "Mathematics"},
		{ID: "sub-e", Code: "ENG", Name: "English"},
	}}
	scales := &mockScales{scale: grading.DefaultScale()}
	return assessments, classes, students, subjects, scales
}

func TestStudentTermReport(t *testing.T) {
	assessments, classes, students, subjects, scales := reportFixture()
	svc := NewReportService(assessments, classes, students, subjects, scales, nil)

	report, err := svc.StudentTermReport(context.Background(), "school-1", "ct-1", "s-1")
	require.NoError(t, err)

	assert.Equal(t, "Grade 5A", report.ClassName)
	assert.Equal(t, "First Term", report.TermName)
	assert.Equal(t, 1, report.SubjectCount)
	assert.InDelta(t, 85.0, report.AverageScore, 1e-9)
	require.NotNil(t, report.Grade)
	assert.Equal(t, "A1", *report.Grade)

	require.NotNil(t, report.ClassPosition)
	assert.Equal(t, 1, *report.ClassPosition)
	assert.Equal(t, 3, report.ClassSize)

	assert.Equal(t, 1, report.PassSummary.Offered)
	assert.Equal(t, 1, report.PassSummary.Passed)
	assert.InDelta(t, 100.0, report.PassSummary.PassRate, 1e-9)

	require.Len(t, report.Subjects, 2)
	math := report.Subjects[0]
	assert.Equal(t, "Mathematics", math.SubjectName)
	require.NotNil(t, math.Score)
	assert.InDelta(t, 85.0, *math.Score, 1e-9)
	require.NotNil(t, math.Position)
	assert.Equal(t, 1, *math.Position)
	require.NotNil(t, math.OutOf)
	assert.Equal(t, 2, *math.OutOf)
	require.NotNil(t, math.Average)
	assert.InDelta(t, 77.5, *math.Average, 1e-9)

	english := report.Subjects[1]
	assert.Nil(t, english.Score)
	assert.Nil(t, english.Grade)
	assert.Nil(t, english.Position)
	require.NotNil(t, english.Remark)
	assert.Equal(t, grading.RemarkAbsent, *english.Remark)
}

func TestStudentTermReportClassTermNotFound(t *testing.T) {
	assessments, classes, students, subjects, scales := reportFixture()
	svc := NewReportService(assessments, classes, students, subjects, scales, nil)

	_, err := svc.StudentTermReport(context.Background(), "school-1", "ct-missing", "s-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class term not found")
}

func TestClassBroadsheetRanksRoster(t *testing.T) {
	assessments, classes, students, subjects, scales := reportFixture()
	svc := NewReportService(assessments, classes, students, subjects, scales, nil)

	broadsheet, err := svc.ClassBroadsheet(context.Background(), "school-1", "ct-1")
	require.NoError(t, err)

	require.Len(t, broadsheet.Subjects, 2)
	math := broadsheet.Subjects[0]
	assert.Equal(t, 2, math.Statistics.TotalStudents)
	assert.InDelta(t, 70.0, math.Statistics.Lowest, 1e-9)
	assert.InDelta(t, 85.0, math.Statistics.Highest, 1e-9)

	require.Len(t, broadsheet.Students, 3)
	assert.Equal(t, "s-1", broadsheet.Students[0].StudentID)
	assert.Equal(t, 1, broadsheet.Students[0].Position)
	assert.Equal(t, "s-2", broadsheet.Students[1].StudentID)
	assert.Equal(t, 2, broadsheet.Students[1].Position)

	// A student with no gradable records still ranks, carrying a 0 average.
	last := broadsheet.Students[2]
	assert.Equal(t, "s-3", last.StudentID)
	assert.Equal(t, 3, last.Position)
	assert.InDelta(t, 0.0, last.AverageScore, 1e-9)
	assert.Equal(t, 0, last.SubjectCount)
}

func TestStudentTermReportSurfacesScaleError(t *testing.T) {
	assessments, classes, students, subjects, _ := reportFixture()
	scales := &mockScales{err: grading.ErrNoBands}
	svc := NewReportService(assessments, classes, students, subjects, scales, nil)

	_, err := svc.StudentTermReport(context.Background(), "school-1", "ct-1", "s-1")
	require.ErrorIs(t, err, grading.ErrNoBands)
}
