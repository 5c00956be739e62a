package dto

import (
	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
)

// StudentTermReport is the full report card payload for one student in a
// class-term.
type StudentTermReport struct {
	StudentID     string               `json:"student_id"`
	StudentName   string               `json:"student_name"`
	AdmissionNo   string               `json:"admission_no"`
	ClassTermID   string               `json:"class_term_id"`
	ClassName     string               `json:"class_name"`
	TermName      string               `json:"term_name"`
	Subjects      []SubjectReportRow   `json:"subjects"`
	TotalScore    float64              `json:"total_score"`
	AverageScore  float64              `json:"average_score"`
	Grade         *string              `json:"grade"`
	Remark        *string              `json:"remark"`
	SubjectCount  int                  `json:"subject_count"`
	ClassPosition *int                 `json:"class_position"`
	ClassSize     int                  `json:"class_size"`
	PassSummary   grading.PassSummary  `json:"pass_summary"`
}

// SubjectReportRow pairs a core subject row with the subject's display names.
type SubjectReportRow struct {
	grading.SubjectRow
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
}

// ClassBroadsheet aggregates a whole class-term: ranked students plus
// per-subject statistics.
type ClassBroadsheet struct {
	ClassTermID string                 `json:"class_term_id"`
	ClassName   string                 `json:"class_name"`
	TermName    string                 `json:"term_name"`
	Subjects    []BroadsheetSubject    `json:"subjects"`
	Students    []BroadsheetStudentRow `json:"students"`
}

// BroadsheetSubject summarises one subject column of the broadsheet.
type BroadsheetSubject struct {
	SubjectID   string                    `json:"subject_id"`
	SubjectCode string                    `json:"subject_code"`
	SubjectName string                    `json:"subject_name"`
	Statistics  grading.SubjectStatistics `json:"statistics"`
}

// BroadsheetStudentRow is one ranked row of the broadsheet.
type BroadsheetStudentRow struct {
	StudentID    string   `json:"student_id"`
	StudentName  string   `json:"student_name"`
	AdmissionNo  string   `json:"admission_no"`
	TotalScore   float64  `json:"total_score"`
	AverageScore float64  `json:"average_score"`
	Grade        *string  `json:"grade"`
	Position     int      `json:"position"`
	SubjectCount int      `json:"subject_count"`
}

// ReportRequest captures POST /reports/jobs payload.
type ReportRequest struct {
	Type        models.ReportType   `json:"type" validate:"required,oneof=student_term class_broadsheet"`
	ClassTermID string              `json:"class_term_id" validate:"required"`
	StudentID   *string             `json:"student_id,omitempty"`
	Format      models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportJobResponse is returned after enqueueing a report export.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
