package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/models"
)

func TestTransitionRepositoryCreateSetsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTransitionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transition_records")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	to := "ct-2"
	record := &models.TransitionRecord{
		SchoolID:        "school-1",
		StudentID:       "s-1",
		FromClassTermID: "ct-1",
		ToClassTermID:   &to,
		Type:            models.TransitionPromotion,
		CreatedBy:       "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.False(t, record.TransitionDate.IsZero())
	require.False(t, record.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTransitionRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_id", "student_id", "from_class_term_id", "to_class_term_id", "type", "transition_date", "notes", "created_by", "created_at"}).
		AddRow("tr-1", "school-1", "s-1", "ct-1", "ct-2", "PROMOTION", now, "", "admin-1", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, student_id, from_class_term_id")).
		WithArgs("school-1", "s-1", "PROMOTION").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("school-1", "s-1", "PROMOTION").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), "school-1", models.TransitionFilter{
		StudentID: "s-1",
		Type:      models.TransitionPromotion,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, records, 1)
	require.Equal(t, models.TransitionPromotion, records[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}
