package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// TemplateService manages reusable trip blueprints: snapshotting a trip into
// a template and instantiating a template back into a fresh trip.
type TemplateService struct {
	templates  store.TemplateStore
	trips      store.TripStore
	activities store.ActivityStore
	packing    store.PackingStore
	sharing    *SharingService
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(templates store.TemplateStore, trips store.TripStore, activities store.ActivityStore, packing store.PackingStore, sharing *SharingService) *TemplateService {
	return &TemplateService{
		templates:  templates,
		trips:      trips,
		activities: activities,
		packing:    packing,
		sharing:    sharing,
	}
}

// CreateTemplate stores a template supplied directly by the caller.
func (s *TemplateService) CreateTemplate(ctx context.Context, userID string, tpl *types.TripTemplate) (*types.TripTemplate, error) {
	if strings.TrimSpace(tpl.Name) == "" {
		return nil, apperrors.ValidationFailed("Invalid template", "name is required")
	}
	if len(tpl.Structure) == 0 {
		tpl.Structure = json.RawMessage(`{}`)
	} else if !json.Valid(tpl.Structure) {
		return nil, apperrors.ValidationFailed("Invalid template", "structure must be valid JSON")
	}

	tpl.UserID = userID
	created, err := s.templates.CreateTemplate(ctx, tpl)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return created, nil
}

// CreateTemplateFromTrip snapshots a trip's itinerary and packing list into
// a new template. Activity times are stored as day offsets from the trip
// start so instantiation can re-anchor them.
func (s *TemplateService) CreateTemplateFromTrip(ctx context.Context, tripID, userID, name, description, category string, isPublic bool) (*types.TripTemplate, error) {
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

	activities, err := s.activities.ListActivities(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	items, err := s.packing.ListPackingItems(ctx, tripID, nil, nil)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	structure := types.TemplateStructure{
		Destination: trip.Destination,
	}
	if trip.EndDate != nil {
		structure.DurationDays = int(trip.EndDate.Sub(trip.StartDate).Hours()/24) + 1
	}
	for _, a := range activities {
		ta := types.TemplateActivity{
			Title:       a.Title,
			Description: a.Description,
			Category:    a.Category,
			SortOrder:   a.SortOrder,
		}
		if a.ScheduledTime != nil {
			ta.DayOffset = int(a.ScheduledTime.Sub(trip.StartDate).Hours() / 24)
			if ta.DayOffset < 0 {
				ta.DayOffset = 0
			}
		}
		structure.Activities = append(structure.Activities, ta)
	}
	for _, item := range items {
		structure.PackingItems = append(structure.PackingItems, types.TemplatePackItem{
			Name:     item.Name,
			Category: item.Category,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}

	payload, err := json.Marshal(structure)
	if err != nil {
		return nil, apperrors.InternalServerError("failed to encode template structure")
	}

	if name == "" {
		name = trip.Title
	}
	return s.CreateTemplate(ctx, userID, &types.TripTemplate{
		Name:        name,
		Description: description,
		Structure:   payload,
		IsPublic:    isPublic,
		Category:    category,
	})
}

// UseTemplate instantiates a template into a fresh trip for the caller:
// the trip plus its activities (re-anchored to the new start date) and an
// unpacked copy of the packing list. Bumps the template's use counter.
func (s *TemplateService) UseTemplate(ctx context.Context, templateID, userID, title string, startDate time.Time) (*types.Trip, error) {
	tpl, err := s.getVisibleTemplate(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	if startDate.IsZero() {
		return nil, apperrors.ValidationFailed("Invalid trip", "start date is required")
	}

	var structure types.TemplateStructure
	if err := json.Unmarshal(tpl.Structure, &structure); err != nil {
		return nil, apperrors.InternalServerError("template structure is corrupted")
	}

	if title == "" {
		title = tpl.Name
	}
	var endDate *time.Time
	if structure.DurationDays > 0 {
		end := startDate.AddDate(0, 0, structure.DurationDays-1)
		endDate = &end
	}

	trip, err := s.trips.CreateTrip(ctx, &types.Trip{
		UserID:      userID,
		Title:       title,
		Destination: structure.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      types.TripStatusPlanned,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	for _, ta := range structure.Activities {
		scheduled := startDate.AddDate(0, 0, ta.DayOffset)
		if _, err := s.activities.CreateActivity(ctx, &types.Activity{
			TripID:        trip.ID,
			Title:         ta.Title,
			Description:   ta.Description,
			Category:      ta.Category,
			ScheduledTime: &scheduled,
		}); err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
	}
	for _, tp := range structure.PackingItems {
		if _, err := s.packing.CreatePackingItem(ctx, &types.PackingItem{
			TripID:   trip.ID,
			Name:     tp.Name,
			Category: tp.Category,
			Quantity: tp.Quantity,
			Notes:    tp.Notes,
		}); err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
	}

	if err := s.templates.IncrementUseCount(ctx, templateID); err != nil {
		logger.GetLogger().Warnw("Failed to bump template use count",
			"templateID", templateID,
			"error", err)
	}

	logger.GetLogger().Infow("Template instantiated",
		"templateID", templateID,
		"tripID", trip.ID)
	return trip, nil
}

// GetTemplate returns a template the caller owns or any public template.
func (s *TemplateService) GetTemplate(ctx context.Context, templateID, userID string) (*types.TripTemplate, error) {
	return s.getVisibleTemplate(ctx, templateID, userID)
}

// ListMyTemplates returns the caller's templates.
func (s *TemplateService) ListMyTemplates(ctx context.Context, userID string) ([]*types.TripTemplate, error) {
	templates, err := s.templates.ListTemplatesByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return templates, nil
}

// ListPublicTemplates returns public templates by popularity.
func (s *TemplateService) ListPublicTemplates(ctx context.Context, category string, limit, offset int) ([]*types.TripTemplate, int, error) {
	limit, offset = normalizePage(limit, offset)
	templates, total, err := s.templates.ListPublicTemplates(ctx, category, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError(err)
	}
	return templates, total, nil
}

// ListCategories returns the distinct public template categories.
func (s *TemplateService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.templates.ListTemplateCategories(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return categories, nil
}

// UpdateTemplate applies a partial update. Owner only.
func (s *TemplateService) UpdateTemplate(ctx context.Context, templateID, userID string, update *types.TemplateUpdate) (*types.TripTemplate, error) {
	if _, err := s.requireOwnedTemplate(ctx, templateID, userID); err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.ValidationFailed("Invalid template", "name must not be empty")
	}

	updated, err := s.templates.UpdateTemplate(ctx, templateID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Template", templateID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return updated, nil
}

// DeleteTemplate removes a template. Owner only.
func (s *TemplateService) DeleteTemplate(ctx context.Context, templateID, userID string) error {
	if _, err := s.requireOwnedTemplate(ctx, templateID, userID); err != nil {
		return err
	}
	if err := s.templates.DeleteTemplate(ctx, templateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Template", templateID)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *TemplateService) getVisibleTemplate(ctx context.Context, templateID, userID string) (*types.TripTemplate, error) {
	tpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Template", templateID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if !tpl.IsPublic && tpl.UserID != userID {
		return nil, apperrors.NotFound("Template", templateID)
	}
	return tpl, nil
}

func (s *TemplateService) requireOwnedTemplate(ctx context.Context, templateID, userID string) (*types.TripTemplate, error) {
	tpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Template", templateID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if tpl.UserID != userID {
		return nil, apperrors.NotFound("Template", templateID)
	}
	return tpl, nil
}
