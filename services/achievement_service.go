package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// metricFor maps catalog types to the metric they are measured against.
// Types without a mapping (early_adopter, template_used) are event-granted
// and skipped by the check loop.
func metricFor(achievementType string, m *types.AchievementMetrics) (int, bool) {
	switch {
	case achievementType == "first_trip" || strings.HasPrefix(achievementType, "trips_"):
		return m.TotalTrips, true
	case achievementType == "first_completed" || strings.HasPrefix(achievementType, "completed_"):
		return m.CompletedTrips, true
	case achievementType == "first_activity" || strings.HasPrefix(achievementType, "activities_"):
		return m.TotalActivities, true
	case achievementType == "first_memory" || strings.HasPrefix(achievementType, "memories_"):
		return m.TotalMemories, true
	case achievementType == "first_expense" || strings.HasPrefix(achievementType, "expenses_"):
		return m.TotalExpenses, true
	case achievementType == "first_share" || strings.HasPrefix(achievementType, "shares_"):
		return m.TotalShares, true
	case achievementType == "first_template":
		return m.TotalTemplates, true
	case achievementType == "packing_complete" || strings.HasPrefix(achievementType, "packing_"):
		return m.CompletedPackingLists, true
	default:
		return 0, false
	}
}

// AchievementService runs the gamification engine: the explicit check cycle,
// the earned/in-progress/locked partition and the leaderboard.
type AchievementService struct {
	achievements store.AchievementStore
}

// NewAchievementService creates an AchievementService.
func NewAchievementService(achievements store.AchievementStore) *AchievementService {
	return &AchievementService{achievements: achievements}
}

// GetCatalog returns all active achievements.
func (s *AchievementService) GetCatalog(ctx context.Context) ([]*types.Achievement, error) {
	catalog, err := s.achievements.ListCatalog(ctx, true)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return catalog, nil
}

// CheckAndUpdateAchievements takes one metric snapshot and walks the active
// catalog: progress is clamped to the threshold, and metrics at or past it
// unlock the achievement. Returns only achievements newly earned by this
// call; a concurrent duplicate check loses the unlock race in SQL and
// reports nothing.
func (s *AchievementService) CheckAndUpdateAchievements(ctx context.Context, userID string) ([]*types.AchievementUnlock, error) {
	metrics, err := s.achievements.Metrics(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	catalog, err := s.achievements.ListCatalog(ctx, true)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	var unlocked []*types.AchievementUnlock
	for _, achievement := range catalog {
		metric, ok := metricFor(achievement.Type, metrics)
		if !ok {
			continue
		}

		progress := metric
		if progress > achievement.Threshold {
			progress = achievement.Threshold
		}

		ua, err := s.achievements.UpsertProgress(ctx, userID, achievement.ID, progress)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		if ua.IsEarned() || metric < achievement.Threshold {
			continue
		}

		ua, isNew, err := s.achievements.UnlockAchievement(ctx, userID, achievement.ID)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		if isNew {
			logger.GetLogger().Infow("Achievement unlocked",
				"userID", userID,
				"type", achievement.Type)
			unlocked = append(unlocked, &types.AchievementUnlock{
				Achievement: achievement,
				EarnedAt:    *ua.EarnedAt,
				IsNew:       true,
			})
		}
	}

	return unlocked, nil
}

// GetUserAchievements partitions the active catalog for the user into
// earned, in progress (progress > 0) and locked, with point totals.
func (s *AchievementService) GetUserAchievements(ctx context.Context, userID string) (*types.UserAchievementsSummary, error) {
	catalog, err := s.achievements.ListCatalog(ctx, true)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	userAchievements, err := s.achievements.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	byAchievement := make(map[string]*types.UserAchievement, len(userAchievements))
	for _, ua := range userAchievements {
		byAchievement[ua.AchievementID] = ua
	}

	summary := &types.UserAchievementsSummary{
		Earned:     []*types.UserAchievement{},
		InProgress: []*types.UserAchievement{},
		Locked:     []*types.Achievement{},
		TotalCount: len(catalog),
	}
	for _, achievement := range catalog {
		ua := byAchievement[achievement.ID]
		switch {
		case ua != nil && ua.IsEarned():
			ua.Achievement = achievement
			summary.Earned = append(summary.Earned, ua)
			summary.TotalPoints += achievement.Points
		case ua != nil && ua.Progress > 0:
			ua.Achievement = achievement
			summary.InProgress = append(summary.InProgress, ua)
		default:
			summary.Locked = append(summary.Locked, achievement)
		}
	}
	summary.EarnedCount = len(summary.Earned)

	return summary, nil
}

// GetLeaderboard returns the top users by points plus the caller's own
// standing. Emails are masked; rank is one plus the number of users with
// strictly more points, so ties share a rank.
func (s *AchievementService) GetLeaderboard(ctx context.Context, userID string, limit int) (*types.Leaderboard, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := s.achievements.Leaderboard(ctx, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	for i, e := range entries {
		e.Email = maskLeaderboardEmail(e.Email)
		e.Rank = i + 1
	}

	board := &types.Leaderboard{Entries: entries}
	if userID != "" {
		points, rank, err := s.achievements.UserStanding(ctx, userID)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		board.UserPoints = points
		board.UserRank = rank
	}
	return board, nil
}

// GetUnseenAchievements returns earned achievements the user has not
// acknowledged.
func (s *AchievementService) GetUnseenAchievements(ctx context.Context, userID string) ([]*types.UserAchievement, error) {
	unseen, err := s.achievements.ListUnseen(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return unseen, nil
}

// MarkAchievementSeen acknowledges one earned achievement.
func (s *AchievementService) MarkAchievementSeen(ctx context.Context, userID, userAchievementID string) error {
	if err := s.achievements.MarkSeen(ctx, userID, userAchievementID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Achievement", userAchievementID)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// maskLeaderboardEmail keeps the first and last character of the local part
// plus the full domain. Local parts of one or two characters have no middle
// to mask and pass through as-is.
func maskLeaderboardEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "***"
	}
	local := parts[0]
	if len(local) <= 2 {
		return local + "@" + parts[1]
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + "@" + parts[1]
}
