package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ActivityStore implements store.ActivityStore using PostgreSQL.
type ActivityStore struct {
	db DB
}

// NewActivityStore creates a new ActivityStore instance.
func NewActivityStore(db DB) *ActivityStore {
	return &ActivityStore{db: db}
}

const activityColumns = `id, trip_id, title, description, scheduled_time, category,
		sort_order, latitude, longitude, created_at, updated_at`

func scanActivity(row pgx.Row) (*types.Activity, error) {
	a := &types.Activity{}
	err := row.Scan(
		&a.ID,
		&a.TripID,
		&a.Title,
		&a.Description,
		&a.ScheduledTime,
		&a.Category,
		&a.SortOrder,
		&a.Latitude,
		&a.Longitude,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListActivities returns a trip's itinerary ordered by sort_order, then
// scheduled time.
func (s *ActivityStore) ListActivities(ctx context.Context, tripID string) ([]*types.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE trip_id = $1
		ORDER BY sort_order, scheduled_time NULLS LAST, created_at`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*types.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetActivity retrieves an activity by ID.
func (s *ActivityStore) GetActivity(ctx context.Context, id string) (*types.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	return scanActivity(s.db.QueryRow(ctx, query, id))
}

// CreateActivity appends an activity to the trip's itinerary, placing it
// after the current last entry.
func (s *ActivityStore) CreateActivity(ctx context.Context, activity *types.Activity) (*types.Activity, error) {
	query := `
		INSERT INTO activities (trip_id, title, description, scheduled_time, category,
			sort_order, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(sort_order), -1) + 1 FROM activities WHERE trip_id = $1),
			$6, $7)
		RETURNING ` + activityColumns

	return scanActivity(s.db.QueryRow(ctx, query,
		activity.TripID,
		activity.Title,
		activity.Description,
		activity.ScheduledTime,
		activity.Category,
		activity.Latitude,
		activity.Longitude,
	))
}

// UpdateActivity applies the non-nil fields of update.
func (s *ActivityStore) UpdateActivity(ctx context.Context, id string, update *types.ActivityUpdate) (*types.Activity, error) {
	query := `
		UPDATE activities
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			scheduled_time = COALESCE($3, scheduled_time),
			category = COALESCE($4, category),
			latitude = COALESCE($5, latitude),
			longitude = COALESCE($6, longitude),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + activityColumns

	return scanActivity(s.db.QueryRow(ctx, query,
		update.Title,
		update.Description,
		update.ScheduledTime,
		update.Category,
		update.Latitude,
		update.Longitude,
		id,
	))
}

// DeleteActivity removes an activity.
func (s *ActivityStore) DeleteActivity(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ReorderActivities rewrites sort_order to match orderedIDs, in one
// transaction. An id not belonging to the trip aborts the whole reorder.
func (s *ActivityStore) ReorderActivities(ctx context.Context, tripID string, orderedIDs []string) error {
	return runInTx(ctx, s.db, func(tx pgx.Tx) error {
		for i, id := range orderedIDs {
			result, err := tx.Exec(ctx,
				`UPDATE activities SET sort_order = $1, updated_at = NOW() WHERE id = $2 AND trip_id = $3`,
				i, id, tripID)
			if err != nil {
				return err
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("activity %s does not belong to trip: %w", id, store.ErrNotFound)
			}
		}
		return nil
	})
}
