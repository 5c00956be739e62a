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

// GradingSystemRepository handles per-school grading configuration.
type GradingSystemRepository struct {
	db *sqlx.DB
}

// NewGradingSystemRepository creates a new grading system repository.
func NewGradingSystemRepository(db *sqlx.DB) *GradingSystemRepository {
	return &GradingSystemRepository{db: db}
}

// FindBySchool returns the school's grading system with its bands, or
// sql.ErrNoRows when none is configured.
func (r *GradingSystemRepository) FindBySchool(ctx context.Context, schoolID string) (*models.GradingSystem, error) {
	const query = `SELECT id, school_id, name, pass_mark, created_at, updated_at FROM grading_systems WHERE school_id = $1 LIMIT 1`
	var system models.GradingSystem
	if err := r.db.GetContext(ctx, &system, query, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find grading system: %w", err)
	}
	const levelsQuery = `SELECT id, system_id, min_score, max_score, grade, remark FROM grade_levels WHERE system_id = $1 ORDER BY min_score DESC`
	if err := r.db.SelectContext(ctx, &system.Levels, levelsQuery, system.ID); err != nil {
		return nil, fmt.Errorf("load grade levels: %w", err)
	}
	return &system, nil
}

// Save upserts the grading system and replaces its bands atomically.
func (r *GradingSystemRepository) Save(ctx context.Context, system *models.GradingSystem) error {
	if system.ID == "" {
		system.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if system.CreatedAt.IsZero() {
		system.CreatedAt = now
	}
	system.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const upsert = `INSERT INTO grading_systems (id, school_id, name, pass_mark, created_at, updated_at)
VALUES (:id, :school_id, :name, :pass_mark, :created_at, :updated_at)
ON CONFLICT (school_id) DO UPDATE SET name = EXCLUDED.name, pass_mark = EXCLUDED.pass_mark, updated_at = EXCLUDED.updated_at`
	if _, err := tx.NamedExecContext(ctx, upsert, system); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("upsert grading system: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM grade_levels WHERE system_id = $1`, system.ID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear grade levels: %w", err)
	}
	const insertLevel = `INSERT INTO grade_levels (id, system_id, min_score, max_score, grade, remark)
VALUES (:id, :system_id, :min_score, :max_score, :grade, :remark)`
	for i := range system.Levels {
		if system.Levels[i].ID == "" {
			system.Levels[i].ID = uuid.NewString()
		}
		system.Levels[i].SystemID = system.ID
		if _, err := tx.NamedExecContext(ctx, insertLevel, system.Levels[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert grade level: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grading system: %w", err)
	}
	return nil
}
