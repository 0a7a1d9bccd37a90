package services

import (
	"context"
	"time"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// StatisticsService serves the read-only aggregates: overall rollup, year in
// review and the travel timeline. It never mutates anything.
type StatisticsService struct {
	stats store.StatsStore
}

// NewStatisticsService creates a StatisticsService.
func NewStatisticsService(stats store.StatsStore) *StatisticsService {
	return &StatisticsService{stats: stats}
}

// GetOverallStatistics returns the cross-entity rollup for the caller.
func (s *StatisticsService) GetOverallStatistics(ctx context.Context, userID string) (*types.OverallStatistics, error) {
	stats, err := s.stats.OverallStatistics(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return stats, nil
}

// GetYearInReview returns the per-year recap. Years outside a plausible
// range are rejected rather than queried.
func (s *StatisticsService) GetYearInReview(ctx context.Context, userID string, year int) (*types.YearInReview, error) {
	current := time.Now().Year()
	if year < 1970 || year > current+1 {
		return nil, apperrors.ValidationFailed("Invalid year", "year out of range")
	}

	review, err := s.stats.YearInReview(ctx, userID, year)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return review, nil
}

// GetTravelTimeline returns the reverse-chronological trip timeline.
func (s *StatisticsService) GetTravelTimeline(ctx context.Context, userID string, limit, offset int) (*types.Timeline, error) {
	limit, offset = normalizePage(limit, offset)
	timeline, err := s.stats.Timeline(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return timeline, nil
}
