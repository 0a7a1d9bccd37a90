package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// TripStore implements store.TripStore using PostgreSQL.
type TripStore struct {
	db DB
}

// NewTripStore creates a new TripStore instance.
func NewTripStore(db DB) *TripStore {
	return &TripStore{db: db}
}

const tripColumns = `id, user_id, title, description, cover_image_url, destination,
		start_date, end_date, status, tags, created_at, updated_at`

func scanTrip(row pgx.Row) (*types.Trip, error) {
	trip := &types.Trip{}
	err := row.Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Title,
		&trip.Description,
		&trip.CoverImageURL,
		&trip.Destination,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Status,
		&trip.Tags,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func scanTrips(rows pgx.Rows) ([]*types.Trip, error) {
	defer rows.Close()
	var trips []*types.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

// CreateTrip inserts a new trip and returns the stored row.
func (s *TripStore) CreateTrip(ctx context.Context, trip *types.Trip) (*types.Trip, error) {
	query := `
		INSERT INTO trips (user_id, title, description, cover_image_url, destination,
			start_date, end_date, status, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + tripColumns

	return scanTrip(s.db.QueryRow(ctx, query,
		trip.UserID,
		trip.Title,
		trip.Description,
		trip.CoverImageURL,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Status,
		trip.Tags,
	))
}

// GetTrip retrieves a trip by ID.
func (s *TripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return scanTrip(s.db.QueryRow(ctx, query, id))
}

// ListTrips returns the user's trips newest first, plus the total count.
func (s *TripStore) ListTrips(ctx context.Context, userID string, limit, offset int) ([]*types.Trip, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	trips, err := scanTrips(rows)
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// SearchTrips filters the user's trips by the given criteria. Zero-value
// criteria fields are skipped.
func (s *TripStore) SearchTrips(ctx context.Context, userID string, criteria types.TripSearchCriteria, limit, offset int) ([]*types.Trip, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	addArg := func(cond string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if criteria.Destination != "" {
		addArg("destination ILIKE $%d", "%"+criteria.Destination+"%")
	}
	if criteria.Status != "" {
		addArg("status = $%d", criteria.Status)
	}
	if criteria.StartDateFrom != nil {
		addArg("start_date >= $%d", *criteria.StartDateFrom)
	}
	if criteria.StartDateTo != nil {
		addArg("start_date <= $%d", *criteria.StartDateTo)
	}
	if len(criteria.Tags) > 0 {
		addArg("tags && $%d", criteria.Tags)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM trips WHERE ` + where
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+tripColumns+`
		FROM trips
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	trips, err := scanTrips(rows)
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// UpdateTrip applies the non-nil fields of update and returns the new row.
func (s *TripStore) UpdateTrip(ctx context.Context, id string, update *types.TripUpdate) (*types.Trip, error) {
	query := `
		UPDATE trips
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			cover_image_url = COALESCE($3, cover_image_url),
			destination = COALESCE($4, destination),
			start_date = COALESCE($5, start_date),
			end_date = COALESCE($6, end_date),
			tags = COALESCE($7, tags),
			updated_at = NOW()
		WHERE id = $8
		RETURNING ` + tripColumns

	return scanTrip(s.db.QueryRow(ctx, query,
		update.Title,
		update.Description,
		update.CoverImageURL,
		update.Destination,
		update.StartDate,
		update.EndDate,
		update.Tags,
		id,
	))
}

// UpdateTripStatus sets the trip status. Transition validity is checked by
// the service layer before calling this.
func (s *TripStore) UpdateTripStatus(ctx context.Context, id string, status types.TripStatus) (*types.Trip, error) {
	query := `
		UPDATE trips
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + tripColumns

	return scanTrip(s.db.QueryRow(ctx, query, status, id))
}

// DeleteTrip removes a trip. Children are removed by ON DELETE CASCADE.
func (s *TripStore) DeleteTrip(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
