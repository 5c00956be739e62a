package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/scholaris/scholaris-api/internal/models"
)

// TransitionRepository persists the append-only transition audit trail.
type TransitionRepository struct {
	db *sqlx.DB
}

// NewTransitionRepository creates a new transition repository.
func NewTransitionRepository(db *sqlx.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

const transitionColumns = `id, school_id, student_id, from_class_term_id, to_class_term_id, type, transition_date, notes, created_by, created_at`

// Create appends a transition record. Records are never updated or deleted.
func (r *TransitionRepository) Create(ctx context.Context, record *models.TransitionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.TransitionDate.IsZero() {
		record.TransitionDate = now
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	const query = `INSERT INTO transition_records (id, school_id, student_id, from_class_term_id, to_class_term_id, type, transition_date, notes, created_by, created_at)
VALUES (:id, :school_id, :student_id, :from_class_term_id, :to_class_term_id, :type, :transition_date, :notes, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create transition record: %w", err)
	}
	return nil
}

// List returns transition history for a school matching the filter.
func (r *TransitionRepository) List(ctx context.Context, schoolID string, filter models.TransitionFilter) ([]models.TransitionRecord, int, error) {
	baseQuery := `FROM transition_records WHERE school_id = $1`
	args := []interface{}{schoolID}

	if filter.StudentID != "" {
		baseQuery += fmt.Sprintf(" AND student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.FromClassTermID != "" {
		baseQuery += fmt.Sprintf(" AND from_class_term_id = $%d", len(args)+1)
		args = append(args, filter.FromClassTermID)
	}
	if filter.Type != "" {
		baseQuery += fmt.Sprintf(" AND type = $%d", len(args)+1)
		args = append(args, filter.Type)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", transitionColumns, baseQuery, pageSize, (page-1)*pageSize)
	var records []models.TransitionRecord
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list transition records: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count transition records: %w", err)
	}
	return records, total, nil
}
