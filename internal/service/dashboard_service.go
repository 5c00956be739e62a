package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scholaris/scholaris-api/internal/dto"
	"github.com/scholaris/scholaris-api/internal/repository"
	appErrors "github.com/scholaris/scholaris-api/pkg/errors"
)

type dashboardRepository interface {
	Counts(ctx context.Context, schoolID string) (*repository.SchoolCounts, error)
	ClassAverages(ctx context.Context, schoolID, termID string) ([]repository.ClassAverageRow, error)
}

// DashboardService assembles the per-school overview, cached in Redis so the
// landing page does not recompute aggregates on every request.
type DashboardService struct {
	repo     dashboardRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repo dashboardRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns school counters plus the per-class average leaderboard for
// a term.
func (s *DashboardService) Overview(ctx context.Context, schoolID, termID string) (*dto.SchoolDashboardResponse, error) {
	cacheKey := dashboardCacheKey(schoolID, termID)
	var cached dto.SchoolDashboardResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	counts, err := s.repo.Counts(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school counts")
	}
	averages, err := s.repo.ClassAverages(ctx, schoolID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class averages")
	}

	overview := &dto.SchoolDashboardResponse{
		SchoolID: schoolID,
		TermID:   termID,
		Counts: dto.SchoolCounts{
			Students: counts.Students,
			Teachers: counts.Teachers,
			Parents:  counts.Parents,
			Classes:  counts.Classes,
			Subjects: counts.Subjects,
		},
		ClassAverages: make([]dto.ClassAverageEntry, 0, len(averages)),
	}
	for _, row := range averages {
		overview.ClassAverages = append(overview.ClassAverages, dto.ClassAverageEntry{
			ClassTermID: row.ClassTermID,
			ClassName:   row.ClassName,
			Students:    row.Students,
			Average:     row.Average,
		})
	}

	s.cache.Set(ctx, cacheKey, overview, s.cacheTTL)
	return overview, nil
}

// InvalidateSchool drops cached dashboards after writes that change them.
func (s *DashboardService) InvalidateSchool(ctx context.Context, schoolID string) {
	s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:%s:*", schoolID))
}

func dashboardCacheKey(schoolID, termID string) string {
	return fmt.Sprintf("dashboard:%s:%s", schoolID, termID)
}
