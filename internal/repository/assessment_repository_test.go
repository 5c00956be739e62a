package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func floatPtr(v float64) *float64 { return &v }

func TestAssessmentRepositoryUpsertGeneratesDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assessment := &models.Assessment{
		SchoolID:    "school-1",
		StudentID:   "student-1",
		SubjectID:   "subject-math",
		ClassTermID: "ct-1",
		CA1:         floatPtr(8),
		Exam:        floatPtr(60),
		RecordedBy:  "teacher-1",
	}
	require.NoError(t, repo.Upsert(context.Background(), assessment))
	require.NotEmpty(t, assessment.ID)
	require.False(t, assessment.CreatedAt.IsZero())
	require.False(t, assessment.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryBulkUpsertRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessments")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	batch := []models.Assessment{
		{SchoolID: "school-1", StudentID: "s-1", SubjectID: "subj-1", ClassTermID: "ct-1", Exam: floatPtr(55)},
		{SchoolID: "school-1", StudentID: "s-2", SubjectID: "subj-1", ClassTermID: "ct-1", Exam: floatPtr(70)},
	}
	err := repo.BulkUpsert(context.Background(), batch)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryListByClassTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_id", "student_id", "subject_id", "class_term_id", "ca1", "ca2", "ca3", "exam", "is_absent", "is_exempt", "recorded_by", "created_at", "updated_at"}).
		AddRow("a-1", "school-1", "s-1", "subj-1", "ct-1", 8.0, nil, nil, 60.0, false, false, "teacher-1", now, now).
		AddRow("a-2", "school-1", "s-2", "subj-1", "ct-1", nil, nil, nil, nil, true, false, "teacher-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, student_id, subject_id, class_term_id")).
		WithArgs("ct-1", "subj-1").
		WillReturnRows(rows)

	assessments, err := repo.ListByClassTerm(context.Background(), "ct-1", "subj-1")
	require.NoError(t, err)
	require.Len(t, assessments, 2)
	require.True(t, assessments[1].IsAbsent)
	require.Nil(t, assessments[1].Exam)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_id", "student_id", "subject_id", "class_term_id", "ca1", "ca2", "ca3", "exam", "is_absent", "is_exempt", "recorded_by", "created_at", "updated_at"}).
		AddRow("a-1", "school-1", "s-1", "subj-1", "ct-1", 10.0, 9.0, 8.0, 65.0, false, false, "teacher-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, student_id, subject_id, class_term_id")).
		WithArgs("s-1", "ct-1").
		WillReturnRows(rows)

	assessments, err := repo.ListByStudent(context.Background(), "s-1", "ct-1")
	require.NoError(t, err)
	require.Len(t, assessments, 1)

	score := assessments[0].ToScore()
	require.InDelta(t, 92.0, score.Total(), 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}
