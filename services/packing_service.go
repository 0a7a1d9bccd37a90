package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// PackingService manages trip packing lists, including the transactional
// bulk toggle and reorder operations.
type PackingService struct {
	packing store.PackingStore
	sharing *SharingService
}

// NewPackingService creates a PackingService.
func NewPackingService(packing store.PackingStore, sharing *SharingService) *PackingService {
	return &PackingService{packing: packing, sharing: sharing}
}

// ListPackingItems returns the trip's packing list with optional filters.
func (s *PackingService) ListPackingItems(ctx context.Context, tripID, userID string, category *types.PackingCategory, packed *bool) ([]*types.PackingItem, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	if category != nil && !category.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid filter", "unknown category "+string(*category))
	}
	items, err := s.packing.ListPackingItems(ctx, tripID, category, packed)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return items, nil
}

// GetPackingProgress returns packed counts overall and per category.
func (s *PackingService) GetPackingProgress(ctx context.Context, tripID, userID string) (*types.PackingProgress, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	progress, err := s.packing.PackingProgress(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return progress, nil
}

// GetPackingItem returns one item.
func (s *PackingService) GetPackingItem(ctx context.Context, tripID, itemID, userID string) (*types.PackingItem, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	return s.requireItemInTrip(ctx, tripID, itemID)
}

// CreatePackingItem appends an item to the list.
func (s *PackingService) CreatePackingItem(ctx context.Context, tripID, userID string, item *types.PackingItem) (*types.PackingItem, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil, apperrors.ValidationFailed("Invalid packing item", "name is required")
	}
	if item.Category == "" {
		item.Category = types.PackingCategoryOther
	}
	if !item.Category.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid packing item", "unknown category "+string(item.Category))
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	item.TripID = tripID
	created, err := s.packing.CreatePackingItem(ctx, item)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return created, nil
}

// UpdatePackingItem applies a partial update.
func (s *PackingService) UpdatePackingItem(ctx context.Context, tripID, itemID, userID string, update *types.PackingItemUpdate) (*types.PackingItem, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if update.Category != nil && !update.Category.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid packing item", "unknown category "+string(*update.Category))
	}
	if update.Quantity != nil && *update.Quantity <= 0 {
		return nil, apperrors.ValidationFailed("Invalid packing item", "quantity must be positive")
	}
	if _, err := s.requireItemInTrip(ctx, tripID, itemID); err != nil {
		return nil, err
	}

	updated, err := s.packing.UpdatePackingItem(ctx, itemID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Packing item", itemID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return updated, nil
}

// TogglePackingItem flips the packed state of one item.
func (s *PackingService) TogglePackingItem(ctx context.Context, tripID, itemID, userID string) (*types.PackingItem, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if _, err := s.requireItemInTrip(ctx, tripID, itemID); err != nil {
		return nil, err
	}

	toggled, err := s.packing.TogglePackingItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Packing item", itemID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return toggled, nil
}

// BulkTogglePackingItems sets the packed state of many items at once, all or
// nothing.
func (s *PackingService) BulkTogglePackingItems(ctx context.Context, tripID, userID string, ids []string, packed bool) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}
	if len(ids) == 0 {
		return apperrors.ValidationFailed("Invalid bulk toggle", "at least one item id is required")
	}

	if err := s.packing.BulkTogglePackingItems(ctx, tripID, ids, packed); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ValidationFailed("Invalid bulk toggle", "an item does not belong to this trip")
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ReorderPackingItems rewrites the list order in one transaction.
func (s *PackingService) ReorderPackingItems(ctx context.Context, tripID, userID string, orderedIDs []string) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return apperrors.ValidationFailed("Invalid reorder", "at least one item id is required")
	}

	if err := s.packing.ReorderPackingItems(ctx, tripID, orderedIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ValidationFailed("Invalid reorder", "an item does not belong to this trip")
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// DeletePackingItem removes one item.
func (s *PackingService) DeletePackingItem(ctx context.Context, tripID, itemID, userID string) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}
	if _, err := s.requireItemInTrip(ctx, tripID, itemID); err != nil {
		return err
	}

	if err := s.packing.DeletePackingItem(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Packing item", itemID)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *PackingService) requireItemInTrip(ctx context.Context, tripID, itemID string) (*types.PackingItem, error) {
	item, err := s.packing.GetPackingItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Packing item", itemID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if item.TripID != tripID {
		return nil, apperrors.NotFound("Packing item", itemID)
	}
	return item, nil
}
