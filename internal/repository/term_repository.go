package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/scholaris/scholaris-api/internal/models"
)

// TermRepository handles academic sessions and terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository creates a new term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// ListSessions returns sessions of a school, newest first.
func (r *TermRepository) ListSessions(ctx context.Context, schoolID string, filter models.SessionFilter) ([]models.Session, error) {
	query := `SELECT id, school_id, name, start_date, end_date, current, created_at, updated_at FROM sessions WHERE school_id = $1`
	args := []interface{}{schoolID}
	if filter.Current != nil {
		query += fmt.Sprintf(" AND current = $%d", len(args)+1)
		args = append(args, *filter.Current)
	}
	query += " ORDER BY start_date DESC"
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// CreateSession inserts a new session.
func (r *TermRepository) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	const query = `INSERT INTO sessions (id, school_id, name, start_date, end_date, current, created_at, updated_at)
VALUES (:id, :school_id, :name, :start_date, :end_date, :current, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SetCurrentSession marks the given session current and clears its siblings.
func (r *TermRepository) SetCurrentSession(ctx context.Context, schoolID, sessionID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET current = FALSE WHERE school_id = $1`, schoolID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear current session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET current = TRUE, updated_at = NOW() WHERE id = $1 AND school_id = $2`, sessionID, schoolID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("set current session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit current session: %w", err)
	}
	return nil
}

// FindTerm returns a term with its session name, scoped by school.
func (r *TermRepository) FindTerm(ctx context.Context, schoolID, termID string) (*models.TermDetail, error) {
	const query = `SELECT t.id, t.session_id, t.name, t.idx, t.start_date, t.end_date, t.current, t.created_at, t.updated_at, s.name AS session_name
FROM terms t JOIN sessions s ON s.id = t.session_id WHERE t.id = $1 AND s.school_id = $2`
	var term models.TermDetail
	if err := r.db.GetContext(ctx, &term, query, termID, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find term: %w", err)
	}
	return &term, nil
}

// ListTerms returns the terms of a session in calendar order.
func (r *TermRepository) ListTerms(ctx context.Context, sessionID string) ([]models.Term, error) {
	const query = `SELECT id, session_id, name, idx, start_date, end_date, current, created_at, updated_at FROM terms WHERE session_id = $1 ORDER BY idx ASC`
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, sessionID); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// CreateTerm inserts a new term.
func (r *TermRepository) CreateTerm(ctx context.Context, term *models.Term) error {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if term.CreatedAt.IsZero() {
		term.CreatedAt = now
	}
	term.UpdatedAt = now
	const query = `INSERT INTO terms (id, session_id, name, idx, start_date, end_date, current, created_at, updated_at)
VALUES (:id, :session_id, :name, :idx, :start_date, :end_date, :current, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, term); err != nil {
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}
