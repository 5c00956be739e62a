package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type classRepository interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Class, error)
	List(ctx context.Context, schoolID string, filter models.ClassFilter) ([]models.Class, int, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error)
	CreateClassTerm(ctx context.Context, classTerm *models.ClassTerm) error
	ListClassTermsByTerm(ctx context.Context, schoolID, termID string) ([]models.ClassTermDetail, error)
	HasAssignment(ctx context.Context, studentID, classTermID string) (bool, error)
	CreateAssignment(ctx context.Context, assignment *models.ClassTermAssignment) error
	ListAssignedStudents(ctx context.Context, classTermID string) ([]models.Student, error)
	UpsertClassSubject(ctx context.Context, cs *models.ClassSubject) error
}

// ClassService manages classes, class-terms, and enrollment.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, schoolID, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// List returns a school's classes.
func (s *ClassService) List(ctx context.Context, schoolID string, filter models.ClassFilter) ([]models.Class, int, error) {
	classes, total, err := s.repo.List(ctx, schoolID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, total, nil
}

// Create registers a class.
func (s *ClassService) Create(ctx context.Context, schoolID string, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{
		SchoolID:      schoolID,
		Name:          req.Name,
		Level:         req.Level,
		Section:       req.Section,
		FormTeacherID: req.FormTeacherID,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update edits a class.
func (s *ClassService) Update(ctx context.Context, schoolID, id string, req dto.UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Level != nil {
		class.Level = *req.Level
	}
	if req.Section != nil {
		class.Section = *req.Section
	}
	if req.FormTeacherID != nil {
		class.FormTeacherID = req.FormTeacherID
	}
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// OpenClassTerm opens a class for a term.
func (s *ClassService) OpenClassTerm(ctx context.Context, schoolID string, req dto.OpenClassTermRequest) (*models.ClassTerm, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class term payload")
	}
	if _, err := s.Get(ctx, schoolID, req.ClassID); err != nil {
		return nil, err
	}
	classTerm := &models.ClassTerm{ClassID: req.ClassID, TermID: req.TermID}
	if err := s.repo.CreateClassTerm(ctx, classTerm); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open class term")
	}
	return classTerm, nil
}

// GetClassTerm returns one class-term with display names.
func (s *ClassService) GetClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error) {
	detail, err := s.repo.FindClassTerm(ctx, schoolID, classTermID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class term")
	}
	return detail, nil
}

// ListClassTerms returns the class-terms open in a term.
func (s *ClassService) ListClassTerms(ctx context.Context, schoolID, termID string) ([]models.ClassTermDetail, error) {
	details, err := s.repo.ListClassTermsByTerm(ctx, schoolID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class terms")
	}
	return details, nil
}

// AssignStudent enrolls a student into a class-term directly (initial intake,
// as opposed to the transition workflow).
func (s *ClassService) AssignStudent(ctx context.Context, schoolID string, req dto.AssignStudentRequest) (*models.ClassTermAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.GetClassTerm(ctx, schoolID, req.ClassTermID); err != nil {
		return nil, err
	}
	assigned, err := s.repo.HasAssignment(ctx, req.StudentID, req.ClassTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if assigned {
		return nil, appErrors.Clone(appErrors.ErrDuplicateAssignment, "")
	}
	assignment := &models.ClassTermAssignment{StudentID: req.StudentID, ClassTermID: req.ClassTermID}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign student")
	}
	return assignment, nil
}

// Roster returns the students enrolled in a class-term.
func (s *ClassService) Roster(ctx context.Context, schoolID, classTermID string) ([]models.Student, error) {
	if _, err := s.GetClassTerm(ctx, schoolID, classTermID); err != nil {
		return nil, err
	}
	students, err := s.repo.ListAssignedStudents(ctx, classTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return students, nil
}

// AssignSubject attaches a subject (and optional teacher) to a class.
func (s *ClassService) AssignSubject(ctx context.Context, schoolID, classID string, req dto.AssignClassSubjectRequest) (*models.ClassSubject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class subject payload")
	}
	if _, err := s.Get(ctx, schoolID, classID); err != nil {
		return nil, err
	}
	cs := &models.ClassSubject{ClassID: classID, SubjectID: req.SubjectID, TeacherID: req.TeacherID}
	if err := s.repo.UpsertClassSubject(ctx, cs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign subject")
	}
	return cs, nil
}
