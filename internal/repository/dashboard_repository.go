package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DashboardRepository aggregates per-school counters for the overview screen.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository creates a new dashboard repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// SchoolCounts holds the headline counters of a school.
type SchoolCounts struct {
	Students int `db:"students"`
	Teachers int `db:"teachers"`
	Parents  int `db:"parents"`
	Classes  int `db:"classes"`
	Subjects int `db:"subjects"`
}

// Counts returns the headline counters for a school in one round trip.
func (r *DashboardRepository) Counts(ctx context.Context, schoolID string) (*SchoolCounts, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM students WHERE school_id = $1 AND active = TRUE) AS students,
(SELECT COUNT(*) FROM users WHERE school_id = $1 AND role = 'TEACHER' AND active = TRUE) AS teachers,
(SELECT COUNT(*) FROM users WHERE school_id = $1 AND role = 'PARENT' AND active = TRUE) AS parents,
(SELECT COUNT(*) FROM classes WHERE school_id = $1) AS classes,
(SELECT COUNT(*) FROM subjects WHERE school_id = $1) AS subjects`
	var counts SchoolCounts
	if err := r.db.GetContext(ctx, &counts, query, schoolID); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}

// ClassAverageRow is one class's mean total score for a term.
type ClassAverageRow struct {
	ClassTermID string  `db:"class_term_id"`
	ClassName   string  `db:"class_name"`
	Average     float64 `db:"average"`
	Students    int     `db:"students"`
}

// ClassAverages returns per-class mean totals for a term, excluding absent
// and exempt records the same way report computation does.
func (r *DashboardRepository) ClassAverages(ctx context.Context, schoolID, termID string) ([]ClassAverageRow, error) {
	const query = `SELECT ct.id AS class_term_id, c.name AS class_name,
COALESCE(AVG(COALESCE(a.ca1,0) + COALESCE(a.ca2,0) + COALESCE(a.ca3,0) + COALESCE(a.exam,0)), 0) AS average,
COUNT(DISTINCT a.student_id) AS students
FROM class_terms ct
JOIN classes c ON c.id = ct.class_id
LEFT JOIN assessments a ON a.class_term_id = ct.id AND a.is_absent = FALSE AND a.is_exempt = FALSE
WHERE c.school_id = $1 AND ct.term_id = $2
GROUP BY ct.id, c.name
ORDER BY c.name ASC`
	var rows []ClassAverageRow
	if err := r.db.SelectContext(ctx, &rows, query, schoolID, termID); err != nil {
		return nil, fmt.Errorf("dashboard class averages: %w", err)
	}
	return rows, nil
}
