package types

import "time"

// Achievement is an immutable catalog entry describing an unlockable badge.
// The Type string is the stable identity used by progress computation and is
// never renamed after seeding.
type Achievement struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Category    string    `json:"category"`
	Threshold   int       `json:"threshold"`
	Tier        string    `json:"tier"`
	Points      int       `json:"points"`
	IsActive    bool      `json:"isActive"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserAchievement joins a user to a catalog entry and carries mutable
// progress. At most one row exists per (user, achievement). Once EarnedAt is
// set the row is immutable with respect to progress and earned time.
type UserAchievement struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	AchievementID string       `json:"achievementId"`
	Progress      int          `json:"progress"`
	EarnedAt      *time.Time   `json:"earnedAt,omitempty"`
	Seen          bool         `json:"seen"`
	CreatedAt     time.Time    `json:"createdAt"`
	Achievement   *Achievement `json:"achievement,omitempty"`
}

// IsEarned reports whether the achievement has been unlocked.
func (ua *UserAchievement) IsEarned() bool {
	return ua.EarnedAt != nil
}

// AchievementUnlock reports a newly earned achievement from a check cycle.
type AchievementUnlock struct {
	Achievement *Achievement `json:"achievement"`
	EarnedAt    time.Time    `json:"earnedAt"`
	IsNew       bool         `json:"isNew"`
}

// UserAchievementsSummary partitions the active catalog for one user.
type UserAchievementsSummary struct {
	Earned      []*UserAchievement `json:"earned"`
	InProgress  []*UserAchievement `json:"inProgress"`
	Locked      []*Achievement     `json:"locked"`
	TotalPoints int                `json:"totalPoints"`
	EarnedCount int                `json:"earnedCount"`
	TotalCount  int                `json:"totalCount"`
}

// LeaderboardEntry is one ranked row; Email is masked for privacy.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	TotalPoints int    `json:"totalPoints"`
	EarnedCount int    `json:"earnedCount"`
	Rank        int    `json:"rank"`
}

// Leaderboard is the ranked listing plus the caller's own standing. Users
// tied with the caller share the same rank number.
type Leaderboard struct {
	Entries    []*LeaderboardEntry `json:"entries"`
	UserRank   int                 `json:"userRank,omitempty"`
	UserPoints int                 `json:"userPoints,omitempty"`
}

// AchievementMetrics is the per-user metric snapshot consumed by the
// achievement check loop. Computed in one pass per check.
type AchievementMetrics struct {
	TotalTrips            int
	CompletedTrips        int
	TotalActivities       int
	TotalMemories         int
	TotalExpenses         int
	TotalShares           int
	TotalTemplates        int
	CompletedPackingLists int
}
