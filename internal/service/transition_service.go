package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type transitionRepository interface {
	Create(ctx context.Context, record *models.TransitionRecord) error
	List(ctx context.Context, schoolID string, filter models.TransitionFilter) ([]models.TransitionRecord, int, error)
}

type transitionClassRepository interface {
	FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error)
	HasAssignment(ctx context.Context, studentID, classTermID string) (bool, error)
	CreateAssignment(ctx context.Context, assignment *models.ClassTermAssignment) error
}

type transitionStudentRepository interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Student, error)
	MarkLeft(ctx context.Context, schoolID, id string, leftAt time.Time) error
}

type transitionAssessmentRepository interface {
	ListByStudent(ctx context.Context, studentID, classTermID string) ([]models.Assessment, error)
}

type transitionAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// TransitionService previews eligibility and executes student transitions.
// The eligibility verdict is advisory: administrators may execute any
// transition regardless of the computed outcome.
type TransitionService struct {
	repo        transitionRepository
	classes     transitionClassRepository
	students    transitionStudentRepository
	assessments transitionAssessmentRepository
	scales      scaleProvider
	audit       transitionAuditRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTransitionService constructs a TransitionService.
func NewTransitionService(repo transitionRepository, classes transitionClassRepository, students transitionStudentRepository, assessments transitionAssessmentRepository, scales scaleProvider, audit transitionAuditRepository, validate *validator.Validate, logger *zap.Logger) *TransitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TransitionService{
		repo:        repo,
		classes:     classes,
		students:    students,
		assessments: assessments,
		scales:      scales,
		audit:       audit,
		validator:   validate,
		logger:      logger,
	}
}

// Eligibility computes the advisory transition verdict for a student from
// their live assessment data in the given class-term.
func (s *TransitionService) Eligibility(ctx context.Context, schoolID, studentID, classTermID string) (*dto.EligibilityResponse, error) {
	if _, err := s.students.FindByID(ctx, schoolID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.classes.FindClassTerm(ctx, schoolID, classTermID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class term")
	}

	scale, err := s.scales.ScaleForSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	assessments, err := s.assessments.ListByStudent(ctx, studentID, classTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}

	scores := models.Scores(assessments)
	aggregate, err := grading.AggregateStudent(scores, scale)
	if err != nil {
		return nil, gradingConfigError(err)
	}
	summary := grading.Summarize(scores, scale.PassMark)
	verdict := grading.DecideEligibility(aggregate.AverageScore, summary.PassRate, summary.Failed, scale.PassMark)

	return &dto.EligibilityResponse{
		StudentID:    studentID,
		ClassTermID:  classTermID,
		AverageScore: aggregate.AverageScore,
		PassMark:     scale.PassMark,
		PassSummary:  summary,
		IsEligible:   verdict.Eligible,
		Reason:       verdict.Reason,
	}, nil
}

// Execute applies a transition: it assigns the student to the destination
// class-term (promotion, transfer), or marks them withdrawn, and appends the
// immutable transition record.
func (s *TransitionService) Execute(ctx context.Context, schoolID, actorID string, req dto.ExecuteTransitionRequest) (*models.TransitionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transition payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported transition type")
	}

	if _, err := s.students.FindByID(ctx, schoolID, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.classes.FindClassTerm(ctx, schoolID, req.FromClassTermID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "source class term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source class term")
	}

	enrolled, err := s.classes.HasAssignment(ctx, req.StudentID, req.FromClassTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is not enrolled in the source class term")
	}

	switch req.Type {
	case models.TransitionPromotion, models.TransitionTransfer:
		if req.ToClassTermID == nil || *req.ToClassTermID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "destination class term is required")
		}
		if _, err := s.classes.FindClassTerm(ctx, schoolID, *req.ToClassTermID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "destination class term not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load destination class term")
		}
		assigned, err := s.classes.HasAssignment(ctx, req.StudentID, *req.ToClassTermID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check destination assignment")
		}
		if assigned {
			return nil, appErrors.Clone(appErrors.ErrDuplicateAssignment, "")
		}
		if err := s.classes.CreateAssignment(ctx, &models.ClassTermAssignment{
			StudentID:   req.StudentID,
			ClassTermID: *req.ToClassTermID,
		}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign student")
		}
	case models.TransitionWithdrawal:
		if err := s.students.MarkLeft(ctx, schoolID, req.StudentID, time.Now().UTC()); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to withdraw student")
		}
	}

	record := &models.TransitionRecord{
		SchoolID:        schoolID,
		StudentID:       req.StudentID,
		FromClassTermID: req.FromClassTermID,
		ToClassTermID:   req.ToClassTermID,
		Type:            req.Type,
		Notes:           req.Notes,
		CreatedBy:       actorID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record transition")
	}

	payload, _ := json.Marshal(req)
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		SchoolID:   &schoolID,
		UserID:     &actorID,
		Action:     models.AuditActionTransitionExecute,
		Resource:   "transition",
		ResourceID: &record.ID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record transition audit log", zap.Error(err))
	}

	return record, nil
}

// History lists executed transitions for a school.
func (s *TransitionService) History(ctx context.Context, schoolID string, filter models.TransitionFilter) ([]models.TransitionRecord, int, error) {
	records, total, err := s.repo.List(ctx, schoolID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transitions")
	}
	return records, total, nil
}
