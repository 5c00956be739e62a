package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type assessmentRepository interface {
	Upsert(ctx context.Context, assessment *models.Assessment) error
	BulkUpsert(ctx context.Context, assessments []models.Assessment) error
	ListByClassTerm(ctx context.Context, classTermID, subjectID string) ([]models.Assessment, error)
	ListByStudent(ctx context.Context, studentID, classTermID string) ([]models.Assessment, error)
	Delete(ctx context.Context, schoolID, id string) error
}

type assessmentClassRepository interface {
	FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error)
	HasAssignment(ctx context.Context, studentID, classTermID string) (bool, error)
}

type assessmentAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AssessmentService records and lists score sheets.
type AssessmentService struct {
	repo      assessmentRepository
	classes   assessmentClassRepository
	audit     assessmentAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssessmentService constructs an AssessmentService.
func NewAssessmentService(repo assessmentRepository, classes assessmentClassRepository, audit assessmentAuditRepository, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssessmentService{repo: repo, classes: classes, audit: audit, validator: validate, logger: logger}
}

// Upsert records or corrects one assessment, keyed by
// (student, subject, class-term).
func (s *AssessmentService) Upsert(ctx context.Context, schoolID, actorID string, req dto.UpsertAssessmentRequest) (*models.Assessment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}
	if err := s.checkClassTerm(ctx, schoolID, req.ClassTermID); err != nil {
		return nil, err
	}
	if err := s.checkEnrollment(ctx, req.StudentID, req.ClassTermID); err != nil {
		return nil, err
	}

	assessment := entryToAssessment(schoolID, actorID, req.SubjectID, req.ClassTermID, req.AssessmentEntry)
	if err := s.repo.Upsert(ctx, &assessment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save assessment")
	}

	s.recordAudit(ctx, schoolID, actorID, assessment.ID, req)
	return &assessment, nil
}

// BulkUpsert records a whole subject score sheet in one transaction. Every
// entry must belong to a student enrolled in the class-term.
func (s *AssessmentService) BulkUpsert(ctx context.Context, schoolID, actorID string, req dto.BulkUpsertAssessmentRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk assessment payload")
	}
	if err := s.checkClassTerm(ctx, schoolID, req.ClassTermID); err != nil {
		return 0, err
	}

	assessments := make([]models.Assessment, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if err := s.checkEnrollment(ctx, entry.StudentID, req.ClassTermID); err != nil {
			return 0, err
		}
		assessments = append(assessments, entryToAssessment(schoolID, actorID, req.SubjectID, req.ClassTermID, entry))
	}

	if err := s.repo.BulkUpsert(ctx, assessments); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save assessments")
	}

	s.recordAudit(ctx, schoolID, actorID, req.ClassTermID, map[string]interface{}{
		"subject_id": req.SubjectID,
		"entries":    len(req.Entries),
	})
	return len(assessments), nil
}

// ListByClassTerm returns a class-term's score sheet, optionally narrowed to
// one subject.
func (s *AssessmentService) ListByClassTerm(ctx context.Context, schoolID, classTermID, subjectID string) ([]models.Assessment, error) {
	if err := s.checkClassTerm(ctx, schoolID, classTermID); err != nil {
		return nil, err
	}
	assessments, err := s.repo.ListByClassTerm(ctx, classTermID, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assessments")
	}
	return assessments, nil
}

// ListByStudent returns one student's assessments within a class-term.
func (s *AssessmentService) ListByStudent(ctx context.Context, schoolID, studentID, classTermID string) ([]models.Assessment, error) {
	if err := s.checkClassTerm(ctx, schoolID, classTermID); err != nil {
		return nil, err
	}
	assessments, err := s.repo.ListByStudent(ctx, studentID, classTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student assessments")
	}
	return assessments, nil
}

// Delete removes one assessment record.
func (s *AssessmentService) Delete(ctx context.Context, schoolID, id string) error {
	if err := s.repo.Delete(ctx, schoolID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assessment")
	}
	return nil
}

func (s *AssessmentService) checkClassTerm(ctx context.Context, schoolID, classTermID string) error {
	if _, err := s.classes.FindClassTerm(ctx, schoolID, classTermID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class term not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class term")
	}
	return nil
}

func (s *AssessmentService) checkEnrollment(ctx context.Context, studentID, classTermID string) error {
	enrolled, err := s.classes.HasAssignment(ctx, studentID, classTermID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "student is not enrolled in this class term")
	}
	return nil
}

func (s *AssessmentService) recordAudit(ctx context.Context, schoolID, actorID, resourceID string, payload interface{}) {
	values, _ := json.Marshal(payload)
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		SchoolID:   &schoolID,
		UserID:     &actorID,
		Action:     models.AuditActionAssessmentUpsert,
		Resource:   "assessment",
		ResourceID: &resourceID,
		NewValues:  values,
	}); err != nil {
		s.logger.Warn("failed to record assessment audit log", zap.Error(err))
	}
}

func entryToAssessment(schoolID, actorID, subjectID, classTermID string, entry dto.AssessmentEntry) models.Assessment {
	return models.Assessment{
		SchoolID:    schoolID,
		StudentID:   entry.StudentID,
		SubjectID:   subjectID,
		ClassTermID: classTermID,
		CA1:         entry.CA1,
		CA2:         entry.CA2,
		CA3:         entry.CA3,
		Exam:        entry.Exam,
		IsAbsent:    entry.IsAbsent,
		IsExempt:    entry.IsExempt,
		RecordedBy:  actorID,
	}
}
