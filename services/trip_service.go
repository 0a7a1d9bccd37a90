package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// TripService owns the trip registry: CRUD, listing, search and the status
// state machine. Reads allow collaborators; mutation of the trip itself is
// owner plus edit-collaborators, while deletion stays owner-only.
type TripService struct {
	trips   store.TripStore
	sharing *SharingService
}

// NewTripService creates a TripService.
func NewTripService(trips store.TripStore, sharing *SharingService) *TripService {
	return &TripService{trips: trips, sharing: sharing}
}

func validateTripInput(title string, startDate time.Time, endDate *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ValidationFailed("Invalid trip", "title is required")
	}
	if startDate.IsZero() {
		return apperrors.ValidationFailed("Invalid trip", "start date is required")
	}
	if endDate != nil && endDate.Before(startDate) {
		return apperrors.ValidationFailed("Invalid trip", "end date must not be before start date")
	}
	return nil
}

// CreateTrip creates a trip owned by the caller, starting as planned.
func (s *TripService) CreateTrip(ctx context.Context, userID string, trip *types.Trip) (*types.Trip, error) {
	if err := validateTripInput(trip.Title, trip.StartDate, trip.EndDate); err != nil {
		return nil, err
	}

	trip.UserID = userID
	if trip.Status == "" {
		trip.Status = types.TripStatusPlanned
	}
	if !trip.Status.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid trip", "unknown status "+trip.Status.String())
	}

	created, err := s.trips.CreateTrip(ctx, trip)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	logger.GetLogger().Infow("Trip created", "tripID", created.ID, "userID", userID)
	return created, nil
}

// GetTrip returns a trip the caller can at least view.
func (s *TripService) GetTrip(ctx context.Context, tripID, userID string) (*types.Trip, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return trip, nil
}

// ListTrips returns the caller's own trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, userID string, limit, offset int) ([]*types.Trip, int, error) {
	limit, offset = normalizePage(limit, offset)
	trips, total, err := s.trips.ListTrips(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError(err)
	}
	return trips, total, nil
}

// SearchTrips filters the caller's trips by criteria.
func (s *TripService) SearchTrips(ctx context.Context, userID string, criteria types.TripSearchCriteria, limit, offset int) ([]*types.Trip, int, error) {
	limit, offset = normalizePage(limit, offset)
	if criteria.Status != "" && !criteria.Status.IsValid() {
		return nil, 0, apperrors.ValidationFailed("Invalid search", "unknown status "+criteria.Status.String())
	}
	trips, total, err := s.trips.SearchTrips(ctx, userID, criteria, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError(err)
	}
	return trips, total, nil
}

// UpdateTrip applies a partial update. Requires edit access.
func (s *TripService) UpdateTrip(ctx context.Context, tripID, userID string, update *types.TripUpdate) (*types.Trip, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, apperrors.ValidationFailed("Invalid trip", "title must not be empty")
	}

	updated, err := s.trips.UpdateTrip(ctx, tripID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if updated.EndDate != nil && updated.EndDate.Before(updated.StartDate) {
		return nil, apperrors.ValidationFailed("Invalid trip", "end date must not be before start date")
	}
	return updated, nil
}

// UpdateTripStatus advances the trip through the status state machine.
// Regressions are rejected; completed is terminal.
func (s *TripService) UpdateTripStatus(ctx context.Context, tripID, userID string, next types.TripStatus) (*types.Trip, error) {
	if !next.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid status", "unknown status "+next.String())
	}
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	if trip.Status == next {
		return trip, nil
	}
	if !trip.Status.IsValidTransition(next) {
		return nil, apperrors.InvalidStatusTransition(trip.Status.String(), next.String())
	}

	updated, err := s.trips.UpdateTripStatus(ctx, tripID, next)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	logger.GetLogger().Infow("Trip status changed",
		"tripID", tripID,
		"from", trip.Status,
		"to", next)
	return updated, nil
}

// DeleteTrip removes a trip and everything attached to it. Owner only;
// collaborators cannot delete regardless of permission.
func (s *TripService) DeleteTrip(ctx context.Context, tripID, userID string) error {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Trip", tripID)
		}
		return apperrors.NewDatabaseError(err)
	}
	if trip.UserID != userID {
		return apperrors.NotFound("Trip", tripID)
	}

	if err := s.trips.DeleteTrip(ctx, tripID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Trip", tripID)
		}
		return apperrors.NewDatabaseError(err)
	}

	logger.GetLogger().Infow("Trip deleted", "tripID", tripID, "userID", userID)
	return nil
}

// normalizePage clamps paging parameters to sane bounds.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
