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

// StudentRepository handles student persistence.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student scoped by school.
func (r *StudentRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Student, error) {
	const query = `SELECT id, school_id, admission_no, full_name, gender, birth_date, address, parent_id, active, left_at, created_at, updated_at
FROM students WHERE id = $1 AND school_id = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// List returns students of a school matching the filter with total count.
func (r *StudentRepository) List(ctx context.Context, schoolID string, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	baseQuery := `FROM students s
LEFT JOIN class_term_assignments a ON a.student_id = s.id
LEFT JOIN class_terms ct ON ct.id = a.class_term_id
LEFT JOIN classes c ON c.id = ct.class_id
LEFT JOIN users p ON p.id = s.parent_id
WHERE s.school_id = $1`
	args := []interface{}{schoolID}

	if filter.ClassTermID != "" {
		baseQuery += fmt.Sprintf(" AND a.class_term_id = $%d", len(args)+1)
		args = append(args, filter.ClassTermID)
	}
	if filter.ParentID != "" {
		baseQuery += fmt.Sprintf(" AND s.parent_id = $%d", len(args)+1)
		args = append(args, filter.ParentID)
	}
	if filter.Active != nil {
		baseQuery += fmt.Sprintf(" AND s.active = $%d", len(args)+1)
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		baseQuery += fmt.Sprintf(" AND (LOWER(s.full_name) LIKE $%d OR LOWER(s.admission_no) LIKE $%d)", len(args)+1, len(args)+1)
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

	listQuery := fmt.Sprintf(`SELECT s.id, s.school_id, s.admission_no, s.full_name, s.gender, s.birth_date, s.address, s.parent_id, s.active, s.left_at, s.created_at, s.updated_at,
a.class_term_id AS current_class_term_id, c.name AS current_class_name, p.full_name AS parent_name
%s ORDER BY s.full_name ASC LIMIT %d OFFSET %d`, baseQuery, pageSize, (page-1)*pageSize)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(DISTINCT s.id) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, school_id, admission_no, full_name, gender, birth_date, address, parent_id, active, created_at, updated_at)
VALUES (:id, :school_id, :admission_no, :full_name, :gender, :birth_date, :address, :parent_id, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update persists editable student fields.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET admission_no = :admission_no, full_name = :full_name, gender = :gender, birth_date = :birth_date, address = :address, parent_id = :parent_id, active = :active, left_at = :left_at, updated_at = :updated_at
WHERE id = :id AND school_id = :school_id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// MarkLeft deactivates a withdrawn student.
func (r *StudentRepository) MarkLeft(ctx context.Context, schoolID, id string, leftAt time.Time) error {
	const query = `UPDATE students SET active = FALSE, left_at = $3, updated_at = $3 WHERE id = $1 AND school_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, schoolID, leftAt); err != nil {
		return fmt.Errorf("mark student left: %w", err)
	}
	return nil
}
