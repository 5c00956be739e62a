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

type studentRepository interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Student, error)
	List(ctx context.Context, schoolID string, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

// StudentService manages student records.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, schoolID, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// List returns students with their current placement.
func (s *StudentService) List(ctx context.Context, schoolID string, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	students, total, err := s.repo.List(ctx, schoolID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, total, nil
}

// Create registers a student.
func (s *StudentService) Create(ctx context.Context, schoolID string, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		SchoolID:    schoolID,
		AdmissionNo: req.AdmissionNo,
		FullName:    req.FullName,
		Gender:      req.Gender,
		BirthDate:   req.BirthDate,
		Address:     req.Address,
		ParentID:    req.ParentID,
		Active:      true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update edits a student record.
func (s *StudentService) Update(ctx context.Context, schoolID, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if req.AdmissionNo != nil {
		student.AdmissionNo = *req.AdmissionNo
	}
	if req.FullName != nil {
		student.FullName = *req.FullName
	}
	if req.Gender != nil {
		student.Gender = *req.Gender
	}
	if req.BirthDate != nil {
		student.BirthDate = *req.BirthDate
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
	if req.ParentID != nil {
		student.ParentID = req.ParentID
	}
	if req.Active != nil {
		student.Active = *req.Active
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}
