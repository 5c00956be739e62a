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

type termRepository interface {
	ListSessions(ctx context.Context, schoolID string, filter models.SessionFilter) ([]models.Session, error)
	CreateSession(ctx context.Context, session *models.Session) error
	SetCurrentSession(ctx context.Context, schoolID, sessionID string) error
	FindTerm(ctx context.Context, schoolID, termID string) (*models.TermDetail, error)
	ListTerms(ctx context.Context, sessionID string) ([]models.Term, error)
	CreateTerm(ctx context.Context, term *models.Term) error
}

// TermService manages academic sessions and their terms.
type TermService struct {
	repo      termRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService constructs a TermService.
func NewTermService(repo termRepository, validate *validator.Validate, logger *zap.Logger) *TermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TermService{repo: repo, validator: validate, logger: logger}
}

// ListSessions returns a school's sessions.
func (s *TermService) ListSessions(ctx context.Context, schoolID string, filter models.SessionFilter) ([]models.Session, error) {
	sessions, err := s.repo.ListSessions(ctx, schoolID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// CreateSession opens an academic session.
func (s *TermService) CreateSession(ctx context.Context, schoolID string, req dto.CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	session := &models.Session{
		SchoolID:  schoolID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Current:   req.Current,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	if req.Current {
		if err := s.repo.SetCurrentSession(ctx, schoolID, session.ID); err != nil {
			s.logger.Warn("failed to mark session current", zap.String("session_id", session.ID), zap.Error(err))
		}
	}
	return session, nil
}

// SetCurrentSession marks a session current, clearing its siblings.
func (s *TermService) SetCurrentSession(ctx context.Context, schoolID, sessionID string) error {
	if err := s.repo.SetCurrentSession(ctx, schoolID, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set current session")
	}
	return nil
}

// GetTerm returns one term with its session name.
func (s *TermService) GetTerm(ctx context.Context, schoolID, termID string) (*models.TermDetail, error) {
	term, err := s.repo.FindTerm(ctx, schoolID, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

// ListTerms returns the terms of a session in calendar order.
func (s *TermService) ListTerms(ctx context.Context, sessionID string) ([]models.Term, error) {
	terms, err := s.repo.ListTerms(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	return terms, nil
}

// CreateTerm adds a term to a session.
func (s *TermService) CreateTerm(ctx context.Context, req dto.CreateTermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}
	term := &models.Term{
		SessionID: req.SessionID,
		Name:      req.Name,
		Index:     req.Index,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Current:   req.Current,
	}
	if err := s.repo.CreateTerm(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term")
	}
	return term, nil
}
