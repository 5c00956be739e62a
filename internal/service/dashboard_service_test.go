package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/scholaris-api/internal/repository"
)

type mockDashboardRepo struct {
	counts   repository.SchoolCounts
	averages []repository.ClassAverageRow
	calls    int
}

func (m *mockDashboardRepo) Counts(ctx context.Context, schoolID string) (*repository.SchoolCounts, error) {
	m.calls++
	counts := m.counts
	return &counts, nil
}

func (m *mockDashboardRepo) ClassAverages(ctx context.Context, schoolID, termID string) ([]repository.ClassAverageRow, error) {
	return m.averages, nil
}

func TestDashboardOverview(t *testing.T) {
	repo := &mockDashboardRepo{
		counts: repository.SchoolCounts{Students: 120, Teachers: 8, Parents: 90, Classes: 6, Subjects: 11},
		averages: []repository.ClassAverageRow{
			{ClassTermID: "ct-1", ClassName: "Grade 5A", Average: 68.4, Students: 20},
			{ClassTermID: "ct-2", ClassName: "Grade 5B", Average: 61.2, Students: 19},
		},
	}
	svc := NewDashboardService(repo, NewCacheService(nil, 0, nil), 0, nil)

	overview, err := svc.Overview(context.Background(), "school-1", "t-1")
	require.NoError(t, err)

	assert.Equal(t, 120, overview.Counts.Students)
	assert.Equal(t, 90, overview.Counts.Parents)
	require.Len(t, overview.ClassAverages, 2)
	assert.Equal(t, "Grade 5A", overview.ClassAverages[0].ClassName)
	assert.InDelta(t, 68.4, overview.ClassAverages[0].Average, 1e-9)
	assert.Equal(t, 1, repo.calls)
}
