package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/grading"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type reportAssessmentRepository interface {
	ListByClassTerm(ctx context.Context, classTermID, subjectID string) ([]models.Assessment, error)
}

type reportClassRepository interface {
	FindClassTerm(ctx context.Context, schoolID, classTermID string) (*models.ClassTermDetail, error)
	ListAssignedStudents(ctx context.Context, classTermID string) ([]models.Student, error)
}

type reportStudentRepository interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Student, error)
}

type reportSubjectRepository interface {
	ListByClassTerm(ctx context.Context, classTermID string) ([]models.Subject, error)
}

type scaleProvider interface {
	ScaleForSchool(ctx context.Context, schoolID string) (grading.Scale, error)
}

// ReportService composes report cards and broadsheets from live assessment
// data. It never persists computed results; every call reflects the stored
// scores at that moment.
type ReportService struct {
	assessments reportAssessmentRepository
	classes     reportClassRepository
	students    reportStudentRepository
	subjects    reportSubjectRepository
	scales      scaleProvider
	logger      *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(assessments reportAssessmentRepository, classes reportClassRepository, students reportStudentRepository, subjects reportSubjectRepository, scales scaleProvider, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		assessments: assessments,
		classes:     classes,
		students:    students,
		subjects:    subjects,
		scales:      scales,
		logger:      logger,
	}
}

// StudentTermReport builds one student's report card for a class-term.
func (s *ReportService) StudentTermReport(ctx context.Context, schoolID, classTermID, studentID string) (*dto.StudentTermReport, error) {
	detail, err := s.classes.FindClassTerm(ctx, schoolID, classTermID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class term")
	}

	student, err := s.students.FindByID(ctx, schoolID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	scale, err := s.scales.ScaleForSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjects.ListByClassTerm(ctx, classTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	classAssessments, err := s.assessments.ListByClassTerm(ctx, classTermID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}

	peers := models.Scores(classAssessments)
	own := make([]grading.Score, 0, len(subjects))
	for _, score := range peers {
		if score.StudentID == studentID {
			own = append(own, score)
		}
	}

	subjectIDs := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		subjectIDs = append(subjectIDs, subject.ID)
	}

	rows, err := grading.SubjectRows(subjectIDs, own, peers, scale)
	if err != nil {
		return nil, gradingConfigError(err)
	}

	aggregate, err := grading.AggregateStudent(own, scale)
	if err != nil {
		return nil, gradingConfigError(err)
	}

	roster, err := s.classes.ListAssignedStudents(ctx, classTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	positions, err := rosterPositions(roster, peers, scale)
	if err != nil {
		return nil, gradingConfigError(err)
	}

	report := &dto.StudentTermReport{
		StudentID:    student.ID,
		StudentName:  student.FullName,
		AdmissionNo:  student.AdmissionNo,
		ClassTermID:  detail.ID,
		ClassName:    detail.ClassName,
		TermName:     detail.TermName,
		Subjects:     make([]dto.SubjectReportRow, 0, len(rows)),
		TotalScore:   aggregate.TotalScore,
		AverageScore: aggregate.AverageScore,
		Grade:        aggregate.Grade,
		Remark:       aggregate.Remark,
		SubjectCount: aggregate.SubjectCount,
		ClassSize:    len(roster),
		PassSummary:  grading.Summarize(own, scale.PassMark),
	}
	if position, ok := positions[studentID]; ok {
		report.ClassPosition = &position
	}
	for i, row := range rows {
		report.Subjects = append(report.Subjects, dto.SubjectReportRow{
			SubjectRow:  row,
			SubjectCode: subjects[i].Code,
			SubjectName: subjects[i].Name,
		})
	}
	return report, nil
}

// ClassBroadsheet builds the whole-class view: per-subject statistics plus
// every student's aggregate, ranked by average.
func (s *ReportService) ClassBroadsheet(ctx context.Context, schoolID, classTermID string) (*dto.ClassBroadsheet, error) {
	detail, err := s.classes.FindClassTerm(ctx, schoolID, classTermID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class term")
	}

	scale, err := s.scales.ScaleForSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjects.ListByClassTerm(ctx, classTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	classAssessments, err := s.assessments.ListByClassTerm(ctx, classTermID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	peers := models.Scores(classAssessments)

	roster, err := s.classes.ListAssignedStudents(ctx, classTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}

	broadsheet := &dto.ClassBroadsheet{
		ClassTermID: detail.ID,
		ClassName:   detail.ClassName,
		TermName:    detail.TermName,
		Subjects:    make([]dto.BroadsheetSubject, 0, len(subjects)),
		Students:    make([]dto.BroadsheetStudentRow, 0, len(roster)),
	}
	for _, subject := range subjects {
		broadsheet.Subjects = append(broadsheet.Subjects, dto.BroadsheetSubject{
			SubjectID:   subject.ID,
			SubjectCode: subject.Code,
			SubjectName: subject.Name,
			Statistics:  grading.SubjectStatisticsFor(peers, subject.ID),
		})
	}

	positions, err := rosterPositions(roster, peers, scale)
	if err != nil {
		return nil, gradingConfigError(err)
	}

	byStudent := make(map[string][]grading.Score, len(roster))
	for _, score := range peers {
		byStudent[score.StudentID] = append(byStudent[score.StudentID], score)
	}
	for _, student := range roster {
		aggregate, err := grading.AggregateStudent(byStudent[student.ID], scale)
		if err != nil {
			return nil, gradingConfigError(err)
		}
		broadsheet.Students = append(broadsheet.Students, dto.BroadsheetStudentRow{
			StudentID:    student.ID,
			StudentName:  student.FullName,
			AdmissionNo:  student.AdmissionNo,
			TotalScore:   aggregate.TotalScore,
			AverageScore: aggregate.AverageScore,
			Grade:        aggregate.Grade,
			Position:     positions[student.ID],
			SubjectCount: aggregate.SubjectCount,
		})
	}
	sort.SliceStable(broadsheet.Students, func(i, j int) bool {
		if broadsheet.Students[i].Position != broadsheet.Students[j].Position {
			return broadsheet.Students[i].Position < broadsheet.Students[j].Position
		}
		return broadsheet.Students[i].StudentName < broadsheet.Students[j].StudentName
	})
	return broadsheet, nil
}

// rosterPositions ranks every enrolled student by average. Students without
// gradable records carry an average of 0 and still receive a position.
func rosterPositions(roster []models.Student, peers []grading.Score, scale grading.Scale) (map[string]int, error) {
	byStudent := make(map[string][]grading.Score, len(roster))
	for _, score := range peers {
		byStudent[score.StudentID] = append(byStudent[score.StudentID], score)
	}
	averages := make(map[string]float64, len(roster))
	for _, student := range roster {
		aggregate, err := grading.AggregateStudent(byStudent[student.ID], scale)
		if err != nil {
			return nil, err
		}
		averages[student.ID] = aggregate.AverageScore
	}
	return grading.ClassPositions(averages), nil
}

// gradingConfigError maps the engine's configuration failure onto the typed
// error surfaced to clients.
func gradingConfigError(err error) error {
	if errors.Is(err, grading.ErrNoBands) {
		return appErrors.Wrap(err, appErrors.ErrInvalidGradingConfig.Code, appErrors.ErrInvalidGradingConfig.Status, "grading scale has no bands")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "report computation failed")
}
