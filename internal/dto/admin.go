package dto

import "time"

// CreateSchoolRequest registers a new tenant.
type CreateSchoolRequest struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,alphanum"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Motto   string `json:"motto"`
}

// UpdateSchoolRequest edits tenant details.
type UpdateSchoolRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Motto   *string `json:"motto,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// CreateSessionRequest opens an academic session.
type CreateSessionRequest struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Current   bool      `json:"current"`
}

// CreateTermRequest adds a term to a session.
type CreateTermRequest struct {
	SessionID string    `json:"session_id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Index     int       `json:"index" validate:"min=1,max=3"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Current   bool      `json:"current"`
}

// CreateClassRequest registers a class.
type CreateClassRequest struct {
	Name          string  `json:"name" validate:"required"`
	Level         int     `json:"level" validate:"min=1"`
	Section       string  `json:"section"`
	FormTeacherID *string `json:"form_teacher_id,omitempty"`
}

// UpdateClassRequest edits a class.
type UpdateClassRequest struct {
	Name          *string `json:"name,omitempty"`
	Level         *int    `json:"level,omitempty" validate:"omitempty,min=1"`
	Section       *string `json:"section,omitempty"`
	FormTeacherID *string `json:"form_teacher_id,omitempty"`
}

// OpenClassTermRequest opens a class for a term.
type OpenClassTermRequest struct {
	ClassID string `json:"class_id" validate:"required"`
	TermID  string `json:"term_id" validate:"required"`
}

// AssignClassSubjectRequest attaches a subject (and optional teacher) to a class.
type AssignClassSubjectRequest struct {
	SubjectID string  `json:"subject_id" validate:"required"`
	TeacherID *string `json:"teacher_id,omitempty"`
}

// CreateSubjectRequest registers a subject.
type CreateSubjectRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Elective bool   `json:"elective"`
}

// UpdateSubjectRequest edits a subject.
type UpdateSubjectRequest struct {
	Code     *string `json:"code,omitempty"`
	Name     *string `json:"name,omitempty"`
	Elective *bool   `json:"elective,omitempty"`
}

// CreateStudentRequest registers a student.
type CreateStudentRequest struct {
	AdmissionNo string    `json:"admission_no" validate:"required"`
	FullName    string    `json:"full_name" validate:"required"`
	Gender      string    `json:"gender" validate:"omitempty,oneof=M F"`
	BirthDate   time.Time `json:"birth_date"`
	Address     string    `json:"address"`
	ParentID    *string   `json:"parent_id,omitempty"`
}

// UpdateStudentRequest edits a student.
type UpdateStudentRequest struct {
	AdmissionNo *string    `json:"admission_no,omitempty"`
	FullName    *string    `json:"full_name,omitempty"`
	Gender      *string    `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Address     *string    `json:"address,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

// AssignStudentRequest enrolls a student into a class-term.
type AssignStudentRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	ClassTermID string `json:"class_term_id" validate:"required"`
}

// CreateUserRequest registers a staff or parent account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required,oneof=ADMIN TEACHER PARENT"`
}

// UpdateUserRequest edits a user account.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN TEACHER PARENT"`
	Active   *bool   `json:"active,omitempty"`
}
