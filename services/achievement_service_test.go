package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

type stubAchievementStore struct {
	store.AchievementStore
	listCatalog          func(ctx context.Context, activeOnly bool) ([]*types.Achievement, error)
	metrics              func(ctx context.Context, userID string) (*types.AchievementMetrics, error)
	upsertProgress       func(ctx context.Context, userID, achievementID string, progress int) (*types.UserAchievement, error)
	unlockAchievement    func(ctx context.Context, userID, achievementID string) (*types.UserAchievement, bool, error)
	listUserAchievements func(ctx context.Context, userID string) ([]*types.UserAchievement, error)
	leaderboard          func(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error)
	userStanding         func(ctx context.Context, userID string) (int, int, error)
}

func (s *stubAchievementStore) ListCatalog(ctx context.Context, activeOnly bool) ([]*types.Achievement, error) {
	return s.listCatalog(ctx, activeOnly)
}

func (s *stubAchievementStore) Metrics(ctx context.Context, userID string) (*types.AchievementMetrics, error) {
	return s.metrics(ctx, userID)
}

func (s *stubAchievementStore) UpsertProgress(ctx context.Context, userID, achievementID string, progress int) (*types.UserAchievement, error) {
	return s.upsertProgress(ctx, userID, achievementID, progress)
}

func (s *stubAchievementStore) UnlockAchievement(ctx context.Context, userID, achievementID string) (*types.UserAchievement, bool, error) {
	return s.unlockAchievement(ctx, userID, achievementID)
}

func (s *stubAchievementStore) ListUserAchievements(ctx context.Context, userID string) ([]*types.UserAchievement, error) {
	return s.listUserAchievements(ctx, userID)
}

func (s *stubAchievementStore) Leaderboard(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error) {
	return s.leaderboard(ctx, limit)
}

func (s *stubAchievementStore) UserStanding(ctx context.Context, userID string) (int, int, error) {
	return s.userStanding(ctx, userID)
}

func TestAchievementService_CheckAndUpdateAchievements(t *testing.T) {
	catalog := []*types.Achievement{
		{ID: "a1", Type: "first_trip", Threshold: 1, Points: 10},
		{ID: "a2", Type: "trips_5", Threshold: 5, Points: 25},
		{ID: "a3", Type: "early_adopter", Threshold: 1, Points: 50}, // event-granted, never checked
	}

	t.Run("threshold reached unlocks once", func(t *testing.T) {
		progressByID := map[string]int{}
		now := time.Now()
		achievements := &stubAchievementStore{
			listCatalog: func(_ context.Context, activeOnly bool) ([]*types.Achievement, error) {
				assert.True(t, activeOnly)
				return catalog, nil
			},
			metrics: func(_ context.Context, userID string) (*types.AchievementMetrics, error) {
				return &types.AchievementMetrics{TotalTrips: 3}, nil
			},
			upsertProgress: func(_ context.Context, userID, achievementID string, progress int) (*types.UserAchievement, error) {
				progressByID[achievementID] = progress
				return &types.UserAchievement{AchievementID: achievementID, Progress: progress}, nil
			},
			unlockAchievement: func(_ context.Context, userID, achievementID string) (*types.UserAchievement, bool, error) {
				return &types.UserAchievement{AchievementID: achievementID, EarnedAt: &now}, true, nil
			},
		}
		svc := NewAchievementService(achievements)

		unlocked, err := svc.CheckAndUpdateAchievements(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, unlocked, 1)
		assert.Equal(t, "a1", unlocked[0].Achievement.ID)
		assert.True(t, unlocked[0].IsNew)

		// Progress is clamped to the threshold and event-granted types are
		// never touched.
		assert.Equal(t, 1, progressByID["a1"])
		assert.Equal(t, 3, progressByID["a2"])
		_, touched := progressByID["a3"]
		assert.False(t, touched)
	})

	t.Run("already earned reports nothing", func(t *testing.T) {
		earned := time.Now().Add(-time.Hour)
		achievements := &stubAchievementStore{
			listCatalog: func(_ context.Context, activeOnly bool) ([]*types.Achievement, error) {
				return catalog[:1], nil
			},
			metrics: func(_ context.Context, userID string) (*types.AchievementMetrics, error) {
				return &types.AchievementMetrics{TotalTrips: 3}, nil
			},
			upsertProgress: func(_ context.Context, userID, achievementID string, progress int) (*types.UserAchievement, error) {
				return &types.UserAchievement{AchievementID: achievementID, Progress: progress, EarnedAt: &earned}, nil
			},
		}
		svc := NewAchievementService(achievements)

		unlocked, err := svc.CheckAndUpdateAchievements(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Empty(t, unlocked)
	})
}

func TestAchievementService_GetUserAchievements(t *testing.T) {
	earned := time.Now().Add(-time.Hour)
	catalog := []*types.Achievement{
		{ID: "a1", Type: "first_trip", Threshold: 1, Points: 10},
		{ID: "a2", Type: "trips_5", Threshold: 5, Points: 25},
		{ID: "a3", Type: "memories_10", Threshold: 10, Points: 25},
	}
	achievements := &stubAchievementStore{
		listCatalog: func(_ context.Context, activeOnly bool) ([]*types.Achievement, error) {
			return catalog, nil
		},
		listUserAchievements: func(_ context.Context, userID string) ([]*types.UserAchievement, error) {
			return []*types.UserAchievement{
				{AchievementID: "a1", Progress: 1, EarnedAt: &earned},
				{AchievementID: "a2", Progress: 3},
			}, nil
		},
	}
	svc := NewAchievementService(achievements)

	summary, err := svc.GetUserAchievements(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, summary.Earned, 1)
	assert.Len(t, summary.InProgress, 1)
	assert.Len(t, summary.Locked, 1)
	assert.Equal(t, 10, summary.TotalPoints)
	assert.Equal(t, 1, summary.EarnedCount)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, "a3", summary.Locked[0].ID)
}

func TestAchievementService_GetLeaderboard(t *testing.T) {
	achievements := &stubAchievementStore{
		leaderboard: func(_ context.Context, limit int) ([]*types.LeaderboardEntry, error) {
			assert.Equal(t, 10, limit)
			return []*types.LeaderboardEntry{
				{UserID: "user-1", Email: "wanderer@example.com", TotalPoints: 120},
				{UserID: "user-2", Email: "al@example.com", TotalPoints: 95},
			}, nil
		},
		userStanding: func(_ context.Context, userID string) (int, int, error) {
			return 95, 2, nil
		},
	}
	svc := NewAchievementService(achievements)

	// Out-of-range limits fall back to the default of 10.
	board, err := svc.GetLeaderboard(context.Background(), "user-2", 500)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.Equal(t, "w******r@example.com", board.Entries[0].Email)
	assert.Equal(t, "al@example.com", board.Entries[1].Email)
	assert.Equal(t, 95, board.UserPoints)
	assert.Equal(t, 2, board.UserRank)
}

func TestMaskLeaderboardEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{"long local part", "wanderer@example.com", "w******r@example.com"},
		{"three-char local part", "ann@example.com", "a*n@example.com"},
		{"two-char local part keeps both ends", "al@example.com", "al@example.com"},
		{"single-char local part", "a@example.com", "a@example.com"},
		{"empty local part", "@example.com", "***"},
		{"not an email", "garbage", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskLeaderboardEmail(tt.email))
		})
	}
}
