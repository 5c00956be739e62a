package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/models"
)

func TestGradingSystemRepositoryFindBySchool(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradingSystemRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, name, pass_mark")).
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "name", "pass_mark", "created_at", "updated_at"}).
			AddRow("gs-1", "school-1", "WAEC", 40.0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, system_id, min_score, max_score, grade, remark")).
		WithArgs("gs-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "system_id", "min_score", "max_score", "grade", "remark"}).
			AddRow("gl-1", "gs-1", 80.0, 100.0, "A1", "Excellent").
			AddRow("gl-2", "gs-1", 0.0, 79.0, "F", "Fail"))

	system, err := repo.FindBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, system.Levels, 2)

	scale := system.ToScale()
	require.InDelta(t, 40.0, scale.PassMark, 1e-9)
	require.Equal(t, "A1", scale.Bands[0].Grade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradingSystemRepositoryFindBySchoolNotConfigured(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradingSystemRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, name, pass_mark")).
		WithArgs("school-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySchool(context.Background(), "school-2")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradingSystemRepositorySaveReplacesLevels(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradingSystemRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grading_systems")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grade_levels")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grade_levels")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grade_levels")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	system := &models.GradingSystem{
		SchoolID: "school-1",
		Name:     "WAEC",
		PassMark: 40,
		Levels: []models.GradeLevel{
			{MinScore: 40, MaxScore: 100, Grade: "P", Remark: "Pass"},
			{MinScore: 0, MaxScore: 39, Grade: "F", Remark: "Fail"},
		},
	}
	require.NoError(t, repo.Save(context.Background(), system))
	require.NotEmpty(t, system.ID)
	for _, level := range system.Levels {
		require.NotEmpty(t, level.ID)
		require.Equal(t, system.ID, level.SystemID)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
