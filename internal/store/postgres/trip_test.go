package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

func tripRow(id, userID string, status types.TripStatus) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "title", "description", "cover_image_url", "destination",
		"start_date", "end_date", "status", "tags", "created_at", "updated_at",
	}).AddRow(
		id, userID, "Kyoto in Autumn", "", "", "Kyoto, Japan",
		time.Now(), (*time.Time)(nil), status, []string{"japan"}, time.Now(), time.Now(),
	)
}

func TestTripStore_CreateTrip(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewTripStore(mock)
	start := time.Now()

	mock.ExpectQuery("INSERT INTO trips").
		WithArgs("user-1", "Kyoto in Autumn", "", "", "Kyoto, Japan",
			start, (*time.Time)(nil), types.TripStatusPlanned, []string{"japan"}).
		WillReturnRows(tripRow("trip-1", "user-1", types.TripStatusPlanned))

	trip, err := s.CreateTrip(context.Background(), &types.Trip{
		UserID:      "user-1",
		Title:       "Kyoto in Autumn",
		Destination: "Kyoto, Japan",
		StartDate:   start,
		Status:      types.TripStatusPlanned,
		Tags:        []string{"japan"},
	})
	require.NoError(t, err)
	assert.Equal(t, "trip-1", trip.ID)
	assert.Equal(t, types.TripStatusPlanned, trip.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripStore_GetTrip(t *testing.T) {
	t.Run("existing trip", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewTripStore(mock)

		mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").
			WithArgs("trip-1").
			WillReturnRows(tripRow("trip-1", "user-1", types.TripStatusOngoing))

		trip, err := s.GetTrip(context.Background(), "trip-1")
		require.NoError(t, err)
		assert.Equal(t, "Kyoto in Autumn", trip.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing trip reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewTripStore(mock)

		mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").
			WithArgs("trip-404").
			WillReturnError(pgx.ErrNoRows)

		_, err = s.GetTrip(context.Background(), "trip-404")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripStore_ListTrips(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewTripStore(mock)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM trips").
		WithArgs("user-1", 20, 0).
		WillReturnRows(tripRow("trip-1", "user-1", types.TripStatusPlanned))

	trips, total, err := s.ListTrips(context.Background(), "user-1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, trips, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripStore_DeleteTrip(t *testing.T) {
	t.Run("existing trip is deleted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewTripStore(mock)

		mock.ExpectExec("DELETE FROM trips").
			WithArgs("trip-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, s.DeleteTrip(context.Background(), "trip-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing trip reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewTripStore(mock)

		mock.ExpectExec("DELETE FROM trips").
			WithArgs("trip-404").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err = s.DeleteTrip(context.Background(), "trip-404")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
