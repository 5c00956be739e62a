package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/scholaris/scholaris-api/internal/models"
)

// ClassRepository handles classes, class-terms, and student assignments.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID returns a class scoped by school.
func (r *ClassRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Class, error) {
	const query = `SELECT id, school_id, name, level, section, form_teacher_id, created_at, updated_at FROM classes WHERE id = $1 AND school_id = $2`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// List returns classes of a school matching the filter with total count.
func (r *ClassRepository) List(ctx context.Context, schoolID string, filter models.ClassFilter) ([]models.Class, int, error) {
	baseQuery := `FROM classes WHERE school_id = $1`
	args := []interface{}{schoolID}

	if filter.Level != nil {
		baseQuery += fmt.Sprintf(" AND level = $%d", len(args)+1)
		args = append(args, *filter.Level)
	}
	if filter.Search != "" {
		baseQuery += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	listQuery := fmt.Sprintf("SELECT id, school_id, name, level, section, form_teacher_id, created_at, updated_at %s ORDER BY level ASC, name ASC LIMIT %d OFFSET %d", baseQuery, pageSize, (page-1)*pageSize)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now
	const query = `INSERT INTO classes (id, school_id, name, level, section, form_teacher_id, created_at, updated_at)
VALUES (:id, :school_id, :name, :level, :section, :form_teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update persists editable class fields.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, level = :level, section = :section, form_teacher_id = :form_teacher_id, updated_at = :updated_at WHERE id = :id AND school_id = :school_id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// FindClassTerm returns a class-term with display names, scoped by school.
func (r *ClassRepository) FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error) {
	const query = `SELECT ct.id, ct.class_id, ct.term_id, ct.created_at, c.name AS class_name, t.name AS term_name
FROM class_terms ct
JOIN classes c ON c.id = ct.class_id
JOIN terms t ON t.id = ct.term_id
WHERE ct.id = $1 AND c.school_id = $2`
	var detail models.ClassTermDetail
	if err := r.db.GetContext(ctx, &detail, query, classTermID, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class term: %w", err)
	}
	return &detail, nil
}

// CreateClassTerm opens a class for a term.
func (r *ClassRepository) CreateClassTerm(ctx context.Context, classTerm *models.ClassTerm) error {
	if classTerm.ID == "" {
		classTerm.ID = uuid.NewString()
	}
	if classTerm.CreatedAt.IsZero() {
		classTerm.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO class_terms (id, class_id, term_id, created_at) VALUES (:id, :class_id, :term_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classTerm); err != nil {
		return fmt.Errorf("create class term: %w", err)
	}
	return nil
}

// ListClassTermsByTerm returns all class-terms open in a term for a school.
func (r *ClassRepository) ListClassTermsByTerm(ctx context.Context, schoolID, termID string) ([]models.ClassTermDetail, error) {
	const query = `SELECT ct.id, ct.class_id, ct.term_id, ct.created_at, c.name AS class_name, t.name AS term_name
FROM class_terms ct
JOIN classes c ON c.id = ct.class_id
JOIN terms t ON t.id = ct.term_id
WHERE c.school_id = $1 AND ct.term_id = $2
ORDER BY c.level ASC, c.name ASC`
	var details []models.ClassTermDetail
	if err := r.db.SelectContext(ctx, &details, query, schoolID, termID); err != nil {
		return nil, fmt.Errorf("list class terms: %w", err)
	}
	return details, nil
}

// HasAssignment reports whether the student already belongs to the class-term.
// The transition workflow uses this as its duplicate-prevention guard.
func (r *ClassRepository) HasAssignment(ctx context.Context, studentID, classTermID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM class_term_assignments WHERE student_id = $1 AND class_term_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, classTermID); err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return exists, nil
}

// CreateAssignment enrolls a student into a class-term.
func (r *ClassRepository) CreateAssignment(ctx context.Context, assignment *models.ClassTermAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.JoinedAt.IsZero() {
		assignment.JoinedAt = now
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	const query = `INSERT INTO class_term_assignments (id, student_id, class_term_id, joined_at, created_at)
VALUES (:id, :student_id, :class_term_id, :joined_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// ListAssignedStudents returns students enrolled in a class-term.
func (r *ClassRepository) ListAssignedStudents(ctx context.Context, classTermID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.school_id, s.admission_no, s.full_name, s.gender, s.birth_date, s.address, s.parent_id, s.active, s.left_at, s.created_at, s.updated_at
FROM students s
JOIN class_term_assignments a ON a.student_id = s.id
WHERE a.class_term_id = $1
ORDER BY s.full_name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classTermID); err != nil {
		return nil, fmt.Errorf("list assigned students: %w", err)
	}
	return students, nil
}

// UpsertClassSubject attaches a subject (and optional teacher) to a class.
func (r *ClassRepository) UpsertClassSubject(ctx context.Context, cs *models.ClassSubject) error {
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	if cs.CreatedAt.IsZero() {
		cs.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO class_subjects (id, class_id, subject_id, teacher_id, created_at)
VALUES (:id, :class_id, :subject_id, :teacher_id, :created_at)
ON CONFLICT (class_id, subject_id) DO UPDATE SET teacher_id = EXCLUDED.teacher_id`
	if _, err := r.db.NamedExecContext(ctx, query, cs); err != nil {
		return fmt.Errorf("upsert class subject: %w", err)
	}
	return nil
}
