package models

import "time"

// Student represents a learner registered in a school.
type Student struct {
	ID          string     `db:"id" json:"id"`
	SchoolID    string     `db:"school_id" json:"school_id"`
	AdmissionNo string     `db:"admission_no" json:"admission_no"`
	FullName    string     `db:"full_name" json:"full_name"`
	Gender      string     `db:"gender" json:"gender"`
	BirthDate   time.Time  `db:"birth_date" json:"birth_date"`
	Address     string     `db:"address" json:"address"`
	ParentID    *string    `db:"parent_id" json:"parent_id,omitempty"`
	Active      bool       `db:"active" json:"active"`
	LeftAt      *time.Time `db:"left_at" json:"left_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentDetail enriches Student with their current class-term placement.
type StudentDetail struct {
	Student
	CurrentClassTermID *string `db:"current_class_term_id" json:"current_class_term_id,omitempty"`
	CurrentClassName   *string `db:"current_class_name" json:"current_class_name,omitempty"`
	ParentName         *string `db:"parent_name" json:"parent_name,omitempty"`
}

// StudentFilter defines filter criteria for listing students.
type StudentFilter struct {
	ClassTermID string
	ParentID    string
	Search      string
	Active      *bool
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
