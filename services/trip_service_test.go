package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// tripServiceFixture wires a TripService whose sharing layer resolves access
// against the same stubbed trip store.
func tripServiceFixture(trips store.TripStore) *TripService {
	sharing := NewSharingService(&stubShareStore{
		getAcceptedShare: func(_ context.Context, tripID, userID, email string) (*types.TripShare, error) {
			return nil, store.ErrNotFound
		},
	}, trips, &stubUserStore{
		getUserByID: func(_ context.Context, id string) (*types.User, error) {
			return &types.User{ID: id, Email: id + "@example.com"}, nil
		},
	}, nil)
	return NewTripService(trips, sharing)
}

type tripStoreStub struct {
	stubTripStore
	createTrip       func(ctx context.Context, trip *types.Trip) (*types.Trip, error)
	updateTripStatus func(ctx context.Context, id string, status types.TripStatus) (*types.Trip, error)
	deleteTrip       func(ctx context.Context, id string) error
}

func (s *tripStoreStub) CreateTrip(ctx context.Context, trip *types.Trip) (*types.Trip, error) {
	return s.createTrip(ctx, trip)
}

func (s *tripStoreStub) UpdateTripStatus(ctx context.Context, id string, status types.TripStatus) (*types.Trip, error) {
	return s.updateTripStatus(ctx, id, status)
}

func (s *tripStoreStub) DeleteTrip(ctx context.Context, id string) error {
	return s.deleteTrip(ctx, id)
}

func TestTripService_CreateTrip(t *testing.T) {
	t.Run("defaults to planned", func(t *testing.T) {
		trips := &tripStoreStub{createTrip: func(_ context.Context, trip *types.Trip) (*types.Trip, error) {
			out := *trip
			out.ID = "trip-1"
			return &out, nil
		}}
		svc := tripServiceFixture(trips)

		trip, err := svc.CreateTrip(context.Background(), "user-1", &types.Trip{
			Title:     "Kyoto in Autumn",
			StartDate: time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, types.TripStatusPlanned, trip.Status)
		assert.Equal(t, "user-1", trip.UserID)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		svc := tripServiceFixture(&tripStoreStub{})
		_, err := svc.CreateTrip(context.Background(), "user-1", &types.Trip{
			Title:     "   ",
			StartDate: time.Now(),
		})
		assertAppError(t, err, apperrors.ValidationError)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		svc := tripServiceFixture(&tripStoreStub{})
		start := time.Now()
		end := start.Add(-24 * time.Hour)
		_, err := svc.CreateTrip(context.Background(), "user-1", &types.Trip{
			Title:     "Backwards",
			StartDate: start,
			EndDate:   &end,
		})
		assertAppError(t, err, apperrors.ValidationError)
	})
}

func TestTripService_UpdateTripStatus(t *testing.T) {
	newFixture := func(current types.TripStatus) (*TripService, *bool) {
		updated := false
		trips := &tripStoreStub{
			stubTripStore: stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
				trip := ownedTrip("trip-1", "owner-1")
				trip.Status = current
				return trip, nil
			}},
			updateTripStatus: func(_ context.Context, id string, status types.TripStatus) (*types.Trip, error) {
				updated = true
				trip := ownedTrip("trip-1", "owner-1")
				trip.Status = status
				return trip, nil
			},
		}
		return tripServiceFixture(trips), &updated
	}

	t.Run("planned to ongoing", func(t *testing.T) {
		svc, updated := newFixture(types.TripStatusPlanned)
		trip, err := svc.UpdateTripStatus(context.Background(), "trip-1", "owner-1", types.TripStatusOngoing)
		require.NoError(t, err)
		assert.Equal(t, types.TripStatusOngoing, trip.Status)
		assert.True(t, *updated)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		svc, updated := newFixture(types.TripStatusOngoing)
		trip, err := svc.UpdateTripStatus(context.Background(), "trip-1", "owner-1", types.TripStatusOngoing)
		require.NoError(t, err)
		assert.Equal(t, types.TripStatusOngoing, trip.Status)
		assert.False(t, *updated)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		svc, updated := newFixture(types.TripStatusCompleted)
		_, err := svc.UpdateTripStatus(context.Background(), "trip-1", "owner-1", types.TripStatusOngoing)
		assertAppError(t, err, apperrors.ValidationError)
		assert.False(t, *updated)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc, _ := newFixture(types.TripStatusPlanned)
		_, err := svc.UpdateTripStatus(context.Background(), "trip-1", "owner-1", types.TripStatus("cancelled"))
		assertAppError(t, err, apperrors.ValidationError)
	})
}

func TestTripService_DeleteTrip(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		deleted := false
		trips := &tripStoreStub{
			stubTripStore: stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
				return ownedTrip("trip-1", "owner-1"), nil
			}},
			deleteTrip: func(_ context.Context, id string) error {
				deleted = true
				return nil
			},
		}
		svc := tripServiceFixture(trips)

		require.NoError(t, svc.DeleteTrip(context.Background(), "trip-1", "owner-1"))
		assert.True(t, deleted)
	})

	t.Run("collaborator cannot delete", func(t *testing.T) {
		trips := &tripStoreStub{
			stubTripStore: stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
				return ownedTrip("trip-1", "owner-1"), nil
			}},
		}
		svc := tripServiceFixture(trips)

		err := svc.DeleteTrip(context.Background(), "trip-1", "collaborator")
		assertAppError(t, err, apperrors.NotFoundError)
	})
}
