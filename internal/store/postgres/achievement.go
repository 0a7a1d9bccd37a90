package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// AchievementStore implements store.AchievementStore using PostgreSQL.
type AchievementStore struct {
	db DB
}

// NewAchievementStore creates a new AchievementStore instance.
func NewAchievementStore(db DB) *AchievementStore {
	return &AchievementStore{db: db}
}

const achievementColumns = `id, type, name, description, icon, category,
		threshold, tier, points, is_active, sort_order, created_at`

const userAchievementColumns = `ua.id, ua.user_id, ua.achievement_id, ua.progress,
		ua.earned_at, ua.seen, ua.created_at`

func scanAchievement(row pgx.Row) (*types.Achievement, error) {
	a := &types.Achievement{}
	err := row.Scan(
		&a.ID,
		&a.Type,
		&a.Name,
		&a.Description,
		&a.Icon,
		&a.Category,
		&a.Threshold,
		&a.Tier,
		&a.Points,
		&a.IsActive,
		&a.SortOrder,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// scanUserAchievementJoined scans a user_achievements row joined with its
// catalog entry.
func scanUserAchievementJoined(row pgx.Row) (*types.UserAchievement, error) {
	ua := &types.UserAchievement{Achievement: &types.Achievement{}}
	a := ua.Achievement
	err := row.Scan(
		&ua.ID,
		&ua.UserID,
		&ua.AchievementID,
		&ua.Progress,
		&ua.EarnedAt,
		&ua.Seen,
		&ua.CreatedAt,
		&a.ID,
		&a.Type,
		&a.Name,
		&a.Description,
		&a.Icon,
		&a.Category,
		&a.Threshold,
		&a.Tier,
		&a.Points,
		&a.IsActive,
		&a.SortOrder,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return ua, nil
}

// ListCatalog returns the achievement catalog in sort order.
func (s *AchievementStore) ListCatalog(ctx context.Context, activeOnly bool) ([]*types.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var catalog []*types.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// UpsertProgress records the current progress for an achievement. Progress of
// earned rows is frozen: once earned_at is set the stored value never moves.
func (s *AchievementStore) UpsertProgress(ctx context.Context, userID, achievementID string, progress int) (*types.UserAchievement, error) {
	query := `
		INSERT INTO user_achievements (user_id, achievement_id, progress)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_id) DO UPDATE
		SET progress = CASE
				WHEN user_achievements.earned_at IS NULL THEN EXCLUDED.progress
				ELSE user_achievements.progress
			END
		RETURNING id, user_id, achievement_id, progress, earned_at, seen, created_at`

	ua := &types.UserAchievement{}
	err := s.db.QueryRow(ctx, query, userID, achievementID, progress).Scan(
		&ua.ID,
		&ua.UserID,
		&ua.AchievementID,
		&ua.Progress,
		&ua.EarnedAt,
		&ua.Seen,
		&ua.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ua, nil
}

// UnlockAchievement stamps earned_at exactly once. The boolean result is true
// only for the call that actually performed the unlock; when the row was
// already earned the existing row is returned with false.
func (s *AchievementStore) UnlockAchievement(ctx context.Context, userID, achievementID string) (*types.UserAchievement, bool, error) {
	query := `
		UPDATE user_achievements
		SET earned_at = NOW(), seen = FALSE
		WHERE user_id = $1 AND achievement_id = $2 AND earned_at IS NULL
		RETURNING id, user_id, achievement_id, progress, earned_at, seen, created_at`

	ua := &types.UserAchievement{}
	err := s.db.QueryRow(ctx, query, userID, achievementID).Scan(
		&ua.ID,
		&ua.UserID,
		&ua.AchievementID,
		&ua.Progress,
		&ua.EarnedAt,
		&ua.Seen,
		&ua.CreatedAt,
	)
	if err == nil {
		return ua, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Already earned (or row missing entirely).
	existing := `
		SELECT id, user_id, achievement_id, progress, earned_at, seen, created_at
		FROM user_achievements
		WHERE user_id = $1 AND achievement_id = $2`
	err = s.db.QueryRow(ctx, existing, userID, achievementID).Scan(
		&ua.ID,
		&ua.UserID,
		&ua.AchievementID,
		&ua.Progress,
		&ua.EarnedAt,
		&ua.Seen,
		&ua.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, store.ErrNotFound
		}
		return nil, false, err
	}
	return ua, false, nil
}

// ListUserAchievements returns all of the user's achievement rows joined with
// their catalog entries, in catalog sort order.
func (s *AchievementStore) ListUserAchievements(ctx context.Context, userID string) ([]*types.UserAchievement, error) {
	query := `
		SELECT ` + userAchievementColumns + `, ` + joinedAchievementColumns + `
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY a.sort_order, a.name`

	return s.queryUserAchievements(ctx, query, userID)
}

// ListUnseen returns earned achievements the user has not acknowledged yet.
func (s *AchievementStore) ListUnseen(ctx context.Context, userID string) ([]*types.UserAchievement, error) {
	query := `
		SELECT ` + userAchievementColumns + `, ` + joinedAchievementColumns + `
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1 AND ua.earned_at IS NOT NULL AND NOT ua.seen
		ORDER BY ua.earned_at DESC`

	return s.queryUserAchievements(ctx, query, userID)
}

const joinedAchievementColumns = `a.id, a.type, a.name, a.description, a.icon, a.category,
		a.threshold, a.tier, a.points, a.is_active, a.sort_order, a.created_at`

func (s *AchievementStore) queryUserAchievements(ctx context.Context, query string, args ...any) ([]*types.UserAchievement, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*types.UserAchievement
	for rows.Next() {
		ua, err := scanUserAchievementJoined(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkSeen acknowledges an earned achievement. Scoped to the user so one
// user cannot acknowledge another's rows.
func (s *AchievementStore) MarkSeen(ctx context.Context, userID, userAchievementID string) error {
	query := `
		UPDATE user_achievements
		SET seen = TRUE
		WHERE id = $1 AND user_id = $2 AND earned_at IS NOT NULL`

	result, err := s.db.Exec(ctx, query, userAchievementID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Leaderboard returns the top users by summed points from earned
// achievements. Ties resolve by user id so the order is stable.
func (s *AchievementStore) Leaderboard(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error) {
	query := `
		SELECT ua.user_id, u.email, SUM(a.points) AS total_points, COUNT(*) AS earned_count
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		JOIN users u ON u.id = ua.user_id
		WHERE ua.earned_at IS NOT NULL
		GROUP BY ua.user_id, u.email
		ORDER BY total_points DESC, ua.user_id
		LIMIT $1`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*types.LeaderboardEntry
	for rows.Next() {
		e := &types.LeaderboardEntry{}
		if err := rows.Scan(&e.UserID, &e.Email, &e.TotalPoints, &e.EarnedCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UserStanding returns the caller's total points and rank. Rank is one plus
// the number of users with strictly more points, so tied users share a rank.
func (s *AchievementStore) UserStanding(ctx context.Context, userID string) (int, int, error) {
	query := `
		WITH totals AS (
			SELECT ua.user_id, SUM(a.points) AS pts
			FROM user_achievements ua
			JOIN achievements a ON a.id = ua.achievement_id
			WHERE ua.earned_at IS NOT NULL
			GROUP BY ua.user_id
		)
		SELECT
			COALESCE((SELECT pts FROM totals WHERE user_id = $1), 0),
			1 + (SELECT COUNT(*) FROM totals
				WHERE pts > COALESCE((SELECT pts FROM totals WHERE user_id = $1), 0))`

	var points, rank int
	if err := s.db.QueryRow(ctx, query, userID).Scan(&points, &rank); err != nil {
		return 0, 0, err
	}
	return points, rank, nil
}

// Metrics computes the per-user counters the check loop consumes, in one
// round trip so all counts come from the same snapshot.
func (s *AchievementStore) Metrics(ctx context.Context, userID string) (*types.AchievementMetrics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM trips WHERE user_id = $1),
			(SELECT COUNT(*) FROM trips WHERE user_id = $1 AND status = 'completed'),
			(SELECT COUNT(*) FROM activities a JOIN trips t ON t.id = a.trip_id WHERE t.user_id = $1),
			(SELECT COUNT(*) FROM memories m JOIN trips t ON t.id = m.trip_id WHERE t.user_id = $1),
			(SELECT COUNT(*) FROM expenses e JOIN trips t ON t.id = e.trip_id WHERE t.user_id = $1),
			(SELECT COUNT(*) FROM trip_shares WHERE owner_id = $1),
			(SELECT COUNT(*) FROM trip_templates WHERE user_id = $1),
			(SELECT COUNT(*) FROM (
				SELECT p.trip_id
				FROM packing_items p JOIN trips t ON t.id = p.trip_id
				WHERE t.user_id = $1
				GROUP BY p.trip_id
				HAVING bool_and(p.is_packed)
			) done)`

	m := &types.AchievementMetrics{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&m.TotalTrips,
		&m.CompletedTrips,
		&m.TotalActivities,
		&m.TotalMemories,
		&m.TotalExpenses,
		&m.TotalShares,
		&m.TotalTemplates,
		&m.CompletedPackingLists,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
