package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/models"
	"github.com/scholaris/scholaris-api/internal/repository"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
	"github.com/scholaris/scholaris-api/pkg/export"
	"github.com/scholaris/scholaris-api/pkg/jobs"
	"github.com/scholaris/scholaris-api/pkg/storage"
)

type reportJobRepository interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
}

type reportComposer interface {
	StudentTermReport(ctx context.Context, schoolID, classTermID, studentID string) (*dto.StudentTermReport, error)
	ClassBroadsheet(ctx context.Context, schoolID, classTermID string) (*dto.ClassBroadsheet, error)
}

type exportQueue interface {
	Enqueue(job jobs.Job) error
}

// ExportService runs the asynchronous report pipeline: enqueue, render to
// CSV/PDF, store on disk, and hand out signed download URLs.
type ExportService struct {
	repo      reportJobRepository
	reports   reportComposer
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	storage   *storage.LocalStorage
	signer    *storage.SignedURLSigner
	queue     exportQueue
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(repo reportJobRepository, reports reportComposer, store *storage.LocalStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		repo:      repo,
		reports:   reports,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		storage:   store,
		signer:    signer,
		validator: validate,
		logger:    logger,
	}
}

// AttachQueue wires the worker queue after construction; the queue handler
// needs the service, so the two reference each other.
func (s *ExportService) AttachQueue(queue exportQueue) {
	s.queue = queue
}

// AttachMetrics enables export instrumentation.
func (s *ExportService) AttachMetrics(metrics *MetricsService) {
	s.metrics = metrics
}

// Enqueue persists a report job and schedules it for processing.
func (s *ExportService) Enqueue(ctx context.Context, schoolID, actorID string, req dto.ReportRequest) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	if req.Type == models.ReportTypeStudentTerm && (req.StudentID == nil || *req.StudentID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required for student term reports")
	}

	job := &models.ReportJob{
		SchoolID:  schoolID,
		Type:      req.Type,
		CreatedBy: actorID,
		Params: models.ReportJobParams{
			ClassTermID: req.ClassTermID,
			StudentID:   req.StudentID,
			Format:      req.Format,
		},
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
			s.logger.Warn("failed to enqueue report job, will be recovered on restart", zap.String("job_id", job.ID), zap.Error(err))
		}
	}

	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// Status returns job progress and, once finished, a signed download URL.
func (s *ExportService) Status(ctx context.Context, schoolID, jobID string) (*dto.ReportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.SchoolID != schoolID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}

	status := &dto.ReportStatusResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Error:    job.ErrorMessage,
	}
	if job.Status == models.ReportStatusFinished && job.ResultURL != nil {
		token, _, err := s.signer.Generate(job.ID, *job.ResultURL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		url := fmt.Sprintf("/api/v1/reports/download?token=%s", token)
		status.ResultURL = &url
	}
	return status, nil
}

// Download validates a signed token and opens the exported file.
func (s *ExportService) Download(ctx context.Context, token string) (*os.File, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "report is not ready")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file missing")
	}
	return file, relPath, nil
}

// Process is the queue handler: it renders the report and finalises the job
// row. Returned errors trigger the queue's retry policy.
func (s *ExportService) Process(ctx context.Context, queued jobs.Job) error {
	job, err := s.repo.GetByID(ctx, queued.ID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", queued.ID, err)
	}
	started := time.Now()

	s.updateJob(ctx, job.ID, repository.UpdateReportJobParams{Status: statusPtr(models.ReportStatusProcessing), Progress: intPtr(10)})

	dataset, title, err := s.compose(ctx, job)
	if err != nil {
		s.failJob(ctx, job.ID, err)
		s.observeExport(job, models.ReportStatusFailed, started)
		return err
	}
	s.updateJob(ctx, job.ID, repository.UpdateReportJobParams{Progress: intPtr(60)})

	var data []byte
	ext := string(job.Params.Format)
	switch job.Params.Format {
	case models.ReportFormatCSV:
		data, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		data, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %q", job.Params.Format)
	}
	if err != nil {
		s.failJob(ctx, job.ID, err)
		s.observeExport(job, models.ReportStatusFailed, started)
		return err
	}

	relPath := fmt.Sprintf("%s/%s.%s", job.SchoolID, job.ID, ext)
	if _, err := s.storage.Save(relPath, data); err != nil {
		s.failJob(ctx, job.ID, err)
		s.observeExport(job, models.ReportStatusFailed, started)
		return err
	}

	now := time.Now().UTC()
	s.updateJob(ctx, job.ID, repository.UpdateReportJobParams{
		Status:     statusPtr(models.ReportStatusFinished),
		Progress:   intPtr(100),
		ResultURL:  &relPath,
		FinishedAt: &now,
	})
	s.logger.Info("report export finished", zap.String("job_id", job.ID), zap.String("path", relPath))
	s.observeExport(job, models.ReportStatusFinished, started)
	return nil
}

func (s *ExportService) observeExport(job *models.ReportJob, status models.ReportStatus, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveReportExport(job.Type, job.Params.Format, status, time.Since(started))
}

// RecoverQueued re-enqueues jobs left in the queued state by a previous run.
func (s *ExportService) RecoverQueued(ctx context.Context) {
	queued, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("failed to recover queued report jobs", zap.Error(err))
		return
	}
	for _, job := range queued {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
			s.logger.Warn("failed to requeue report job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

func (s *ExportService) compose(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeStudentTerm:
		studentID := ""
		if job.Params.StudentID != nil {
			studentID = *job.Params.StudentID
		}
		report, err := s.reports.StudentTermReport(ctx, job.SchoolID, job.Params.ClassTermID, studentID)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return studentTermDataset(report), fmt.Sprintf("%s - %s - %s", report.ClassName, report.TermName, report.StudentName), nil
	case models.ReportTypeClassBroadsheet:
		broadsheet, err := s.reports.ClassBroadsheet(ctx, job.SchoolID, job.Params.ClassTermID)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return broadsheetDataset(broadsheet), fmt.Sprintf("%s - %s broadsheet", broadsheet.ClassName, broadsheet.TermName), nil
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %q", job.Type)
	}
}

func studentTermDataset(report *dto.StudentTermReport) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Subject", "Score", "Grade", "Remark", "Position", "Out Of", "Lowest", "Highest", "Average"},
		Rows:    make([]map[string]string, 0, len(report.Subjects)+1),
	}
	for _, subject := range report.Subjects {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Subject":  subject.SubjectName,
			"Score":    formatFloatPtr(subject.Score),
			"Grade":    formatStrPtr(subject.Grade),
			"Remark":   formatStrPtr(subject.Remark),
			"Position": formatIntPtr(subject.Position),
			"Out Of":   formatIntPtr(subject.OutOf),
			"Lowest":   formatFloatPtr(subject.Lowest),
			"Highest":  formatFloatPtr(subject.Highest),
			"Average":  formatFloatPtr(subject.Average),
		})
	}
	dataset.Rows = append(dataset.Rows, map[string]string{
		"Subject": "TOTAL",
		"Score":   formatFloat(report.TotalScore),
		"Grade":   formatStrPtr(report.Grade),
		"Remark":  formatStrPtr(report.Remark),
		"Average": formatFloat(report.AverageScore),
	})
	return dataset
}

func broadsheetDataset(broadsheet *dto.ClassBroadsheet) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Position", "Student", "Admission No", "Subjects", "Total", "Average", "Grade"},
		Rows:    make([]map[string]string, 0, len(broadsheet.Students)),
	}
	for _, student := range broadsheet.Students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Position":     strconv.Itoa(student.Position),
			"Student":      student.StudentName,
			"Admission No": student.AdmissionNo,
			"Subjects":     strconv.Itoa(student.SubjectCount),
			"Total":        formatFloat(student.TotalScore),
			"Average":      formatFloat(student.AverageScore),
			"Grade":        formatStrPtr(student.Grade),
		})
	}
	return dataset
}

func (s *ExportService) updateJob(ctx context.Context, jobID string, params repository.UpdateReportJobParams) {
	if err := s.repo.Update(ctx, jobID, params); err != nil {
		s.logger.Warn("failed to update report job", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (s *ExportService) failJob(ctx context.Context, jobID string, cause error) {
	message := cause.Error()
	now := time.Now().UTC()
	s.updateJob(ctx, jobID, repository.UpdateReportJobParams{
		Status:       statusPtr(models.ReportStatusFailed),
		ErrorMessage: &message,
		FinishedAt:   &now,
	})
}

func statusPtr(status models.ReportStatus) *models.ReportStatus { return &status }

func intPtr(v int) *int { return &v }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatStrPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
