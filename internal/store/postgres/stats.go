package postgres

import (
	"context"

	"github.com/odyssey-travel/odyssey-backend/types"
)

// StatsStore implements store.StatsStore using PostgreSQL. All methods are
// read-only.
type StatsStore struct {
	db DB
}

// NewStatsStore creates a new StatsStore instance.
func NewStatsStore(db DB) *StatsStore {
	return &StatsStore{db: db}
}

// OverallStatistics computes the cross-entity rollup for one user.
func (s *StatsStore) OverallStatistics(ctx context.Context, userID string) (*types.OverallStatistics, error) {
	stats := &types.OverallStatistics{
		Trips:      types.TripStats{ByStatus: map[string]int{}, ByYear: map[int]int{}},
		Activities: types.ActivityStats{ByCategory: map[string]int{}},
		Expenses:   types.ExpenseStats{TotalsByCurrency: map[string]string{}},
	}

	tripQuery := `
		SELECT status, EXTRACT(YEAR FROM start_date)::int, COUNT(*)
		FROM trips WHERE user_id = $1
		GROUP BY status, EXTRACT(YEAR FROM start_date)`
	rows, err := s.db.Query(ctx, tripQuery, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status string
		var year, count int
		if err := rows.Scan(&status, &year, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Trips.ByStatus[status] += count
		stats.Trips.ByYear[year] += count
		stats.Trips.Total += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Duration and days traveled count completed trips with an end date only.
	durationQuery := `
		SELECT
			COALESCE(AVG(end_date::date - start_date::date + 1), 0),
			COALESCE(SUM(end_date::date - start_date::date + 1), 0),
			COUNT(DISTINCT destination) FILTER (WHERE destination <> '')
		FROM trips
		WHERE user_id = $1 AND status = 'completed' AND end_date IS NOT NULL`
	if err := s.db.QueryRow(ctx, durationQuery, userID).Scan(
		&stats.Trips.AvgDurationDays,
		&stats.Trips.TotalDays,
		&stats.Trips.Destinations,
	); err != nil {
		return nil, err
	}

	activityQuery := `
		SELECT a.category, COUNT(*)
		FROM activities a JOIN trips t ON t.id = a.trip_id
		WHERE t.user_id = $1
		GROUP BY a.category`
	rows, err = s.db.Query(ctx, activityQuery, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Activities.ByCategory[category] = count
		stats.Activities.Total += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memoryQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE m.latitude IS NOT NULL)
		FROM memories m JOIN trips t ON t.id = m.trip_id
		WHERE t.user_id = $1`
	if err := s.db.QueryRow(ctx, memoryQuery, userID).Scan(
		&stats.Memories.Total,
		&stats.Memories.WithLocation,
	); err != nil {
		return nil, err
	}

	expenseQuery := `
		SELECT e.currency, SUM(e.amount)::text, COUNT(*)
		FROM expenses e JOIN trips t ON t.id = e.trip_id
		WHERE t.user_id = $1
		GROUP BY e.currency`
	rows, err = s.db.Query(ctx, expenseQuery, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var currency, total string
		var count int
		if err := rows.Scan(&currency, &total, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Expenses.TotalsByCurrency[currency] = total
		stats.Expenses.Total += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	packingQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE p.is_packed),
			(SELECT COUNT(*) FROM (
				SELECT p2.trip_id
				FROM packing_items p2 JOIN trips t2 ON t2.id = p2.trip_id
				WHERE t2.user_id = $1
				GROUP BY p2.trip_id
				HAVING bool_and(p2.is_packed)
			) done)
		FROM packing_items p JOIN trips t ON t.id = p.trip_id
		WHERE t.user_id = $1`
	if err := s.db.QueryRow(ctx, packingQuery, userID).Scan(
		&stats.Packing.TotalItems,
		&stats.Packing.PackedItems,
		&stats.Packing.CompletedLists,
	); err != nil {
		return nil, err
	}

	socialQuery := `
		SELECT
			(SELECT COUNT(*) FROM trip_shares WHERE owner_id = $1),
			(SELECT COUNT(*) FROM trip_shares WHERE owner_id = $1 AND status = 'accepted'),
			(SELECT COUNT(DISTINCT trip_id) FROM trip_shares
				WHERE status = 'accepted' AND shared_with_user_id = $1)`
	if err := s.db.QueryRow(ctx, socialQuery, userID).Scan(
		&stats.Social.SharesCreated,
		&stats.Social.SharesAccepted,
		&stats.Social.TripsSharedIn,
	); err != nil {
		return nil, err
	}

	achievementQuery := `
		SELECT COALESCE(SUM(a.points), 0), COUNT(*)
		FROM user_achievements ua JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1 AND ua.earned_at IS NOT NULL`
	if err := s.db.QueryRow(ctx, achievementQuery, userID).Scan(
		&stats.Achievements.TotalPoints,
		&stats.Achievements.EarnedCount,
	); err != nil {
		return nil, err
	}

	if err := s.db.QueryRow(ctx,
		`SELECT created_at FROM users WHERE id = $1`, userID,
	).Scan(&stats.MemberSince); err != nil {
		return nil, err
	}

	return stats, nil
}

// YearInReview computes the per-year recap.
func (s *StatsStore) YearInReview(ctx context.Context, userID string, year int) (*types.YearInReview, error) {
	review := &types.YearInReview{Year: year}

	summaryQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(end_date::date - start_date::date + 1)
				FILTER (WHERE status = 'completed' AND end_date IS NOT NULL), 0)
		FROM trips
		WHERE user_id = $1 AND EXTRACT(YEAR FROM start_date) = $2`
	if err := s.db.QueryRow(ctx, summaryQuery, userID, year).Scan(
		&review.TripCount,
		&review.CompletedTrips,
		&review.DaysTraveled,
	); err != nil {
		return nil, err
	}

	destQuery := `
		SELECT DISTINCT destination FROM trips
		WHERE user_id = $1 AND EXTRACT(YEAR FROM start_date) = $2 AND destination <> ''
		ORDER BY destination`
	rows, err := s.db.Query(ctx, destQuery, userID, year)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return nil, err
		}
		review.Destinations = append(review.Destinations, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM activities a JOIN trips t ON t.id = a.trip_id
				WHERE t.user_id = $1 AND EXTRACT(YEAR FROM t.start_date) = $2),
			(SELECT COUNT(*) FROM memories m JOIN trips t ON t.id = m.trip_id
				WHERE t.user_id = $1 AND EXTRACT(YEAR FROM t.start_date) = $2)`
	if err := s.db.QueryRow(ctx, countsQuery, userID, year).Scan(
		&review.ActivityCount,
		&review.MemoryCount,
	); err != nil {
		return nil, err
	}

	topCategoryQuery := `
		SELECT a.category
		FROM activities a JOIN trips t ON t.id = a.trip_id
		WHERE t.user_id = $1 AND EXTRACT(YEAR FROM t.start_date) = $2
		GROUP BY a.category
		ORDER BY COUNT(*) DESC, a.category
		LIMIT 1`
	var topCategory string
	if err := s.db.QueryRow(ctx, topCategoryQuery, userID, year).Scan(&topCategory); err == nil {
		review.TopCategory = topCategory
	}

	longest, err := s.longestTrip(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	review.LongestTrip = longest

	return review, nil
}

func (s *StatsStore) longestTrip(ctx context.Context, userID string, year int) (*types.TimelineTrip, error) {
	query := `
		SELECT t.id, t.title, t.destination, t.cover_image_url, t.start_date, t.end_date,
			t.status, t.end_date::date - t.start_date::date + 1,
			(SELECT COUNT(*) FROM activities WHERE trip_id = t.id),
			(SELECT COUNT(*) FROM memories WHERE trip_id = t.id)
		FROM trips t
		WHERE t.user_id = $1 AND EXTRACT(YEAR FROM t.start_date) = $2 AND t.end_date IS NOT NULL
		ORDER BY t.end_date::date - t.start_date::date DESC
		LIMIT 1`

	trip := &types.TimelineTrip{}
	err := s.db.QueryRow(ctx, query, userID, year).Scan(
		&trip.TripID,
		&trip.Title,
		&trip.Destination,
		&trip.CoverImageURL,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Status,
		&trip.DurationDays,
		&trip.ActivityCount,
		&trip.MemoryCount,
	)
	if err != nil {
		// No trip with an end date that year.
		return nil, nil
	}
	return trip, nil
}

// Timeline returns the reverse-chronological trip timeline with child counts.
func (s *StatsStore) Timeline(ctx context.Context, userID string, limit, offset int) (*types.Timeline, error) {
	timeline := &types.Timeline{Limit: limit, Offset: offset}

	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM trips WHERE user_id = $1`, userID,
	).Scan(&timeline.Total); err != nil {
		return nil, err
	}

	query := `
		SELECT t.id, t.title, t.destination, t.cover_image_url, t.start_date, t.end_date,
			t.status,
			COALESCE(t.end_date::date - t.start_date::date + 1, 1),
			(SELECT COUNT(*) FROM activities WHERE trip_id = t.id),
			(SELECT COUNT(*) FROM memories WHERE trip_id = t.id)
		FROM trips t
		WHERE t.user_id = $1
		ORDER BY t.start_date DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		trip := &types.TimelineTrip{}
		err := rows.Scan(
			&trip.TripID,
			&trip.Title,
			&trip.Destination,
			&trip.CoverImageURL,
			&trip.StartDate,
			&trip.EndDate,
			&trip.Status,
			&trip.DurationDays,
			&trip.ActivityCount,
			&trip.MemoryCount,
		)
		if err != nil {
			return nil, err
		}
		timeline.Trips = append(timeline.Trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return timeline, nil
}
