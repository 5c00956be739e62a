package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/models"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type mockGradingSystemRepo struct {
	systems map[string]*models.GradingSystem
	saved   []models.GradingSystem
}

func (m *mockGradingSystemRepo) FindBySchool(ctx context.Context, schoolID string) (*models.GradingSystem, error) {
	system, ok := m.systems[schoolID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return system, nil
}

func (m *mockGradingSystemRepo) Save(ctx context.Context, system *models.GradingSystem) error {
	if m.systems == nil {
		m.systems = make(map[string]*models.GradingSystem)
	}
	system.ID = "gs-1"
	m.systems[system.SchoolID] = system
	m.saved = append(m.saved, *system)
	return nil
}

func TestGradingSystemGetFallsBackToDefault(t *testing.T) {
	repo := &mockGradingSystemRepo{}
	svc := NewGradingSystemService(repo, &mockAuditRepo{}, nil, nil)

	system, err := svc.Get(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Equal(t, "Default", system.Name)
	assert.InDelta(t, 40.0, system.PassMark, 1e-9)
	assert.Len(t, system.Levels, 7)
}

func TestScaleForSchoolUsesConfiguredSystem(t *testing.T) {
	repo := &mockGradingSystemRepo{systems: map[string]*models.GradingSystem{
		"school-1": {
			ID:       "gs-1",
			SchoolID: "school-1",
			PassMark: 50,
			Levels: []models.GradeLevel{
				{MinScore: 50, MaxScore: 100, Grade: "P", Remark: "Pass"},
				{MinScore: 0, MaxScore: 49, Grade: "F", Remark: "Fail"},
			},
		},
	}}
	svc := NewGradingSystemService(repo, &mockAuditRepo{}, nil, nil)

	scale, err := svc.ScaleForSchool(context.Background(), "school-1")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, scale.PassMark, 1e-9)

	grade, ok, err := scale.Resolve(50)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "P", grade.Letter)
}

func TestScaleForSchoolDefaultsWhenUnconfigured(t *testing.T) {
	svc := NewGradingSystemService(&mockGradingSystemRepo{}, &mockAuditRepo{}, nil, nil)

	scale, err := svc.ScaleForSchool(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Len(t, scale.Bands, 7)
	assert.InDelta(t, 40.0, scale.PassMark, 1e-9)
}

func TestScaleForSchoolRejectsEmptyBandSet(t *testing.T) {
	repo := &mockGradingSystemRepo{systems: map[string]*models.GradingSystem{
		"school-1": {ID: "gs-1", SchoolID: "school-1", PassMark: 40},
	}}
	svc := NewGradingSystemService(repo, &mockAuditRepo{}, nil, nil)

	_, err := svc.ScaleForSchool(context.Background(), "school-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidGradingConfig.Code, appErr.Code)
}

func TestGradingSystemSave(t *testing.T) {
	repo := &mockGradingSystemRepo{}
	audit := &mockAuditRepo{}
	svc := NewGradingSystemService(repo, audit, nil, nil)

	system, err := svc.Save(context.Background(), "school-1", "admin-1", dto.SaveGradingSystemRequest{
		Name:     "WAEC",
		PassMark: 40,
		Levels: []dto.GradeLevelInput{
			{MinScore: 40, MaxScore: 100, Grade: "P", Remark: "Pass"},
			{MinScore: 0, MaxScore: 39, Grade: "F", Remark: "Fail"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "WAEC", system.Name)
	require.Len(t, repo.saved, 1)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionGradingConfigSave, audit.logs[0].Action)
}

func TestGradingSystemSaveRejectsOverlap(t *testing.T) {
	svc := NewGradingSystemService(&mockGradingSystemRepo{}, &mockAuditRepo{}, nil, nil)

	_, err := svc.Save(context.Background(), "school-1", "admin-1", dto.SaveGradingSystemRequest{
		Name:     "Broken",
		PassMark: 40,
		Levels: []dto.GradeLevelInput{
			{MinScore: 0, MaxScore: 50, Grade: "F"},
			{MinScore: 50, MaxScore: 100, Grade: "P"},
		},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidGradingConfig.Code, appErr.Code)
}

func TestGradingSystemSaveRejectsGap(t *testing.T) {
	svc := NewGradingSystemService(&mockGradingSystemRepo{}, &mockAuditRepo{}, nil, nil)

	_, err := svc.Save(context.Background(), "school-1", "admin-1", dto.SaveGradingSystemRequest{
		Name:     "Gapped",
		PassMark: 40,
		Levels: []dto.GradeLevelInput{
			{MinScore: 0, MaxScore: 39, Grade: "F"},
			{MinScore: 60, MaxScore: 100, Grade: "P"},
		},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidGradingConfig.Code, appErr.Code)
}

func TestGradingSystemSaveRejectsInvertedBand(t *testing.T) {
	svc := NewGradingSystemService(&mockGradingSystemRepo{}, &mockAuditRepo{}, nil, nil)

	_, err := svc.Save(context.Background(), "school-1", "admin-1", dto.SaveGradingSystemRequest{
		Name:     "Inverted",
		PassMark: 40,
		Levels: []dto.GradeLevelInput{
			{MinScore: 50, MaxScore: 40, Grade: "X"},
		},
	})
	require.Error(t, err)
}
