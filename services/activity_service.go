package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ActivityService manages trip itineraries. Reads require view access,
// mutations require edit access, both resolved by the sharing service.
type ActivityService struct {
	activities store.ActivityStore
	sharing    *SharingService
}

// NewActivityService creates an ActivityService.
func NewActivityService(activities store.ActivityStore, sharing *SharingService) *ActivityService {
	return &ActivityService{activities: activities, sharing: sharing}
}

// ListActivities returns the trip's itinerary in order.
func (s *ActivityService) ListActivities(ctx context.Context, tripID, userID string) ([]*types.Activity, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	activities, err := s.activities.ListActivities(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return activities, nil
}

// CreateActivity appends an activity to the itinerary.
func (s *ActivityService) CreateActivity(ctx context.Context, tripID, userID string, activity *types.Activity) (*types.Activity, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(activity.Title) == "" {
		return nil, apperrors.ValidationFailed("Invalid activity", "title is required")
	}
	if activity.Category == "" {
		activity.Category = types.ActivityCategoryExplore
	}
	if !activity.Category.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid activity", "unknown category "+string(activity.Category))
	}

	activity.TripID = tripID
	created, err := s.activities.CreateActivity(ctx, activity)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return created, nil
}

// UpdateActivity applies a partial update to one activity.
func (s *ActivityService) UpdateActivity(ctx context.Context, tripID, activityID, userID string, update *types.ActivityUpdate) (*types.Activity, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if update.Category != nil && !update.Category.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid activity", "unknown category "+string(*update.Category))
	}
	if _, err := s.requireActivityInTrip(ctx, tripID, activityID); err != nil {
		return nil, err
	}

	updated, err := s.activities.UpdateActivity(ctx, activityID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Activity", activityID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return updated, nil
}

// DeleteActivity removes one activity.
func (s *ActivityService) DeleteActivity(ctx context.Context, tripID, activityID, userID string) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}
	if _, err := s.requireActivityInTrip(ctx, tripID, activityID); err != nil {
		return err
	}

	if err := s.activities.DeleteActivity(ctx, activityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Activity", activityID)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ReorderActivities rewrites the itinerary order in one transaction; an id
// outside the trip aborts the whole reorder.
func (s *ActivityService) ReorderActivities(ctx context.Context, tripID, userID string, orderedIDs []string) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return apperrors.ValidationFailed("Invalid reorder", "at least one activity id is required")
	}

	if err := s.activities.ReorderActivities(ctx, tripID, orderedIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ValidationFailed("Invalid reorder", "an activity does not belong to this trip")
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *ActivityService) requireActivityInTrip(ctx context.Context, tripID, activityID string) (*types.Activity, error) {
	activity, err := s.activities.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Activity", activityID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if activity.TripID != tripID {
		return nil, apperrors.NotFound("Activity", activityID)
	}
	return activity, nil
}
