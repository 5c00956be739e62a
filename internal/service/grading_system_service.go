package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type gradingSystemRepository interface {
	FindBySchool(ctx context.Context, schoolID string) (*models.GradingSystem, error)
	Save(ctx context.Context, system *models.GradingSystem) error
}

type gradingAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// GradingSystemService manages per-school grade scales.
type GradingSystemService struct {
	repo      gradingSystemRepository
	audit     gradingAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradingSystemService constructs a GradingSystemService.
func NewGradingSystemService(repo gradingSystemRepository, audit gradingAuditRepository, validate *validator.Validate, logger *zap.Logger) *GradingSystemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradingSystemService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Get returns the school's grading system, or the built-in default scale
// presented as an unsaved system when none is configured.
func (s *GradingSystemService) Get(ctx context.Context, schoolID string) (*models.GradingSystem, error) {
	system, err := s.repo.FindBySchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultSystem(schoolID), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading system")
	}
	return system, nil
}

// ScaleForSchool resolves the effective scale used by report and transition
// computation. A school without a configured system gets the default scale.
func (s *GradingSystemService) ScaleForSchool(ctx context.Context, schoolID string) (grading.Scale, error) {
	system, err := s.repo.FindBySchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grading.DefaultScale(), nil
		}
		return grading.Scale{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading system")
	}
	scale := system.ToScale()
	if err := scale.Validate(); err != nil {
		return grading.Scale{}, appErrors.Wrap(err, appErrors.ErrInvalidGradingConfig.Code, appErrors.ErrInvalidGradingConfig.Status, "stored grading system has no bands")
	}
	return scale, nil
}

// Save validates and replaces the school's grading configuration.
func (s *GradingSystemService) Save(ctx context.Context, schoolID, actorID string, req dto.SaveGradingSystemRequest) (*models.GradingSystem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grading system payload")
	}
	if err := validateBands(req.Levels); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidGradingConfig.Code, appErrors.ErrInvalidGradingConfig.Status, err.Error())
	}

	system := &models.GradingSystem{
		SchoolID: schoolID,
		Name:     req.Name,
		PassMark: req.PassMark,
		Levels:   make([]models.GradeLevel, 0, len(req.Levels)),
	}
	for _, level := range req.Levels {
		system.Levels = append(system.Levels, models.GradeLevel{
			MinScore: level.MinScore,
			MaxScore: level.MaxScore,
			Grade:    level.Grade,
			Remark:   level.Remark,
		})
	}

	existing, err := s.repo.FindBySchool(ctx, schoolID)
	if err == nil {
		system.ID = existing.ID
		system.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading system")
	}

	if err := s.repo.Save(ctx, system); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grading system")
	}

	payload, _ := json.Marshal(req)
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		SchoolID:   &schoolID,
		UserID:     &actorID,
		Action:     models.AuditActionGradingConfigSave,
		Resource:   "grading_system",
		ResourceID: &system.ID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record grading config audit log", zap.Error(err))
	}

	return system, nil
}

// validateBands rejects inverted, overlapping, or gapped band sets so a saved
// scale can resolve every score in [0,100] unambiguously.
func validateBands(levels []dto.GradeLevelInput) error {
	sorted := make([]dto.GradeLevelInput, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinScore < sorted[j].MinScore })

	for i, level := range sorted {
		if level.MaxScore < level.MinScore {
			return fmt.Errorf("band %s has max below min", level.Grade)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if level.MinScore <= prev.MaxScore {
			return fmt.Errorf("bands %s and %s overlap", prev.Grade, level.Grade)
		}
		if level.MinScore > prev.MaxScore+1 {
			return fmt.Errorf("gap between bands %s and %s", prev.Grade, level.Grade)
		}
	}
	return nil
}

func defaultSystem(schoolID string) *models.GradingSystem {
	scale := grading.DefaultScale()
	system := &models.GradingSystem{
		SchoolID: schoolID,
		Name:     "Default",
		PassMark: scale.PassMark,
		Levels:   make([]models.GradeLevel, 0, len(scale.Bands)),
	}
	for _, band := range scale.Bands {
		system.Levels = append(system.Levels, models.GradeLevel{
			MinScore: band.Min,
			MaxScore: band.Max,
			Grade:    band.Grade,
			Remark:   band.Remark,
		})
	}
	return system
}
