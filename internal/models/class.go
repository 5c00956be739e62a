package models

import "time"

// Class represents an academic class (e.g. "Grade 5A") within a school.
type Class struct {
	ID            string    `db:"id" json:"id"`
	SchoolID      string    `db:"school_id" json:"school_id"`
	Name          string    `db:"name" json:"name"`
	Level         int       `db:"level" json:"level"`
	Section       string    `db:"section" json:"section"`
	FormTeacherID *string   `db:"form_teacher_id" json:"form_teacher_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ClassTerm pairs a class with an academic term. It is the unit students are
// enrolled into and the peer group for statistics and ranking.
type ClassTerm struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	TermID    string    `db:"term_id" json:"term_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassTermDetail enriches ClassTerm with class and term names.
type ClassTermDetail struct {
	ClassTerm
	ClassName string `db:"class_name" json:"class_name"`
	TermName  string `db:"term_name" json:"term_name"`
}

// ClassTermAssignment enrolls a student into a class-term. At most one
// assignment per (student, class-term) pair exists; the transition workflow
// relies on that uniqueness.
type ClassTermAssignment struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	ClassTermID string    `db:"class_term_id" json:"class_term_id"`
	JoinedAt    time.Time `db:"joined_at" json:"joined_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClassSubject maps a subject taught in a class with an optional teacher.
type ClassSubject struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Level     *int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
