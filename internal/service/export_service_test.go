package service

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
	"github.com/scholaris/scholaris-api/internal/repository"
	"github.com/scholaris/scholaris-api/pkg/jobs"
	"github.com/scholaris/scholaris-api/pkg/storage"
)

type mockReportJobRepo struct {
	jobs map[string]*models.ReportJob
}

func (m *mockReportJobRepo) Create(ctx context.Context, job *models.ReportJob) error {
	if m.jobs == nil {
		m.jobs = make(map[string]*models.ReportJob)
	}
	if job.ID == "" {
		job.ID = "job-1"
	}
	job.Status = models.ReportStatusQueued
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockReportJobRepo) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (m *mockReportJobRepo) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job := m.jobs[id]
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *mockReportJobRepo) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var queued []models.ReportJob
	for _, job := range m.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

type mockComposer struct{}

func (m *mockComposer) StudentTermReport(ctx context.Context, schoolID, classTermID, studentID string) (*dto.StudentTermReport, error) {
	score := 85.0
	grade := "A1"
	return &dto.StudentTermReport{
		StudentID:   studentID,
		StudentName: "Alice Bello",
		ClassName:   "Grade 5A",
		TermName:    "First Term",
		Subjects: []dto.SubjectReportRow{
			{
				SubjectRow:  subjectRowWith(&score, &grade),
				SubjectCode: "MTH",
				SubjectName: "Mathematics",
			},
		},
		TotalScore:   85,
		AverageScore: 85,
		Grade:        &grade,
	}, nil
}

func (m *mockComposer) ClassBroadsheet(ctx context.Context, schoolID, classTermID string) (*dto.ClassBroadsheet, error) {
	grade := "A1"
	return &dto.ClassBroadsheet{
		ClassName: "Grade 5A",
		TermName:  "First Term",
		Students: []dto.BroadsheetStudentRow{
			{StudentID: "s-1", StudentName: "Alice Bello", Position: 1, AverageScore: 85, Grade: &grade},
		},
	}, nil
}

func newExportFixture(t *testing.T) (*mockReportJobRepo, *ExportService) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	repo := &mockReportJobRepo{}
	svc := NewExportService(repo, &mockComposer{}, store, signer, nil, nil)
	return repo, svc
}

func TestExportEnqueueValidatesStudentID(t *testing.T) {
	_, svc := newExportFixture(t)

	_, err := svc.Enqueue(context.Background(), "school-1", "admin-1", dto.ReportRequest{
		Type:        models.ReportTypeStudentTerm,
		ClassTermID: "ct-1",
		Format:      models.ReportFormatCSV,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student_id is required")
}

func TestExportProcessStudentTermCSV(t *testing.T) {
	repo, svc := newExportFixture(t)

	studentID := "s-1"
	resp, err := svc.Enqueue(context.Background(), "school-1", "admin-1", dto.ReportRequest{
		Type:        models.ReportTypeStudentTerm,
		ClassTermID: "ct-1",
		StudentID:   &studentID,
		Format:      models.ReportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)

	require.NoError(t, svc.Process(context.Background(), jobs.Job{ID: resp.ID}))

	job, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	require.NotNil(t, job.FinishedAt)

	file, _, err := svc.Download(context.Background(), signedToken(t, svc, job))
	require.NoError(t, err)
	defer file.Close()

	data, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "Subject,"))
	assert.Contains(t, content, "Mathematics")
	assert.Contains(t, content, "85.00")
}

func TestExportStatusSignsDownloadURL(t *testing.T) {
	repo, svc := newExportFixture(t)

	studentID := "s-1"
	resp, err := svc.Enqueue(context.Background(), "school-1", "admin-1", dto.ReportRequest{
		Type:        models.ReportTypeStudentTerm,
		ClassTermID: "ct-1",
		StudentID:   &studentID,
		Format:      models.ReportFormatPDF,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), jobs.Job{ID: resp.ID}))

	status, err := svc.Status(context.Background(), "school-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, status.Status)
	require.NotNil(t, status.ResultURL)
	assert.Contains(t, *status.ResultURL, "/api/v1/reports/download?token=")

	// Jobs are invisible outside their school.
	_, err = svc.Status(context.Background(), "school-2", resp.ID)
	require.Error(t, err)

	_ = repo
}

func TestExportStatusUnknownJob(t *testing.T) {
	_, svc := newExportFixture(t)

	_, err := svc.Status(context.Background(), "school-1", "job-missing")
	require.Error(t, err)
}

func signedToken(t *testing.T, svc *ExportService, job *models.ReportJob) string {
	t.Helper()
	token, _, err := svc.signer.Generate(job.ID, *job.ResultURL)
	require.NoError(t, err)
	return token
}

func subjectRowWith(score *float64, grade *string) grading.SubjectRow {
	return grading.SubjectRow{SubjectID: "sub-m", Score: score, Grade: grade}
}
