package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ObjectStorage stores uploaded files and returns their public URL. A nil
// storage disables uploads.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte) (url string, contentType string, err error)
	Delete(ctx context.Context, url string) error
}

const maxUploadBytes = 10 << 20 // 10 MiB

// MemoryService manages trip photos: upload to object storage, persist the
// URL, and best-effort object cleanup on delete.
type MemoryService struct {
	memories store.MemoryStore
	sharing  *SharingService
	storage  ObjectStorage
}

// NewMemoryService creates a MemoryService. storage may be nil, in which
// case photo uploads are rejected.
func NewMemoryService(memories store.MemoryStore, sharing *SharingService, storage ObjectStorage) *MemoryService {
	return &MemoryService{memories: memories, sharing: sharing, storage: storage}
}

// ListMemories returns the trip's memories, newest moment first.
func (s *MemoryService) ListMemories(ctx context.Context, tripID, userID string) ([]*types.Memory, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	memories, err := s.memories.ListMemories(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return memories, nil
}

// CreateMemory uploads the photo and persists the memory. The stored URL
// points at object storage, never at the local filesystem.
func (s *MemoryService) CreateMemory(ctx context.Context, tripID, userID string, photo []byte, caption string, lat, lon *float64, takenAt *time.Time) (*types.Memory, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if len(photo) == 0 {
		return nil, apperrors.ValidationFailed("Invalid memory", "a photo is required")
	}
	if len(photo) > maxUploadBytes {
		return nil, apperrors.ValidationFailed("Invalid memory", "photo exceeds the 10MB limit")
	}
	if s.storage == nil {
		return nil, apperrors.InternalServerError("photo storage is not configured")
	}

	key := fmt.Sprintf("memories/%s/%s", tripID, uuid.NewString())
	url, contentType, err := s.storage.Upload(ctx, key, photo)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to store photo")
	}
	if !isImageContentType(contentType) {
		// The object is already up; remove it rather than leave an orphan.
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			logger.GetLogger().Warnw("Failed to remove rejected upload", "url", url, "error", delErr)
		}
		return nil, apperrors.ValidationFailed("Invalid memory", "uploaded file is not an image")
	}

	memory, err := s.memories.CreateMemory(ctx, &types.Memory{
		TripID:    tripID,
		PhotoURL:  url,
		Latitude:  lat,
		Longitude: lon,
		Caption:   caption,
		TakenAt:   takenAt,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return memory, nil
}

// DeleteMemory removes the row, then best-effort deletes the stored object.
// A failed object delete is logged and the call still succeeds.
func (s *MemoryService) DeleteMemory(ctx context.Context, tripID, memoryID, userID string) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}

	memory, err := s.memories.GetMemory(ctx, memoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Memory", memoryID)
		}
		return apperrors.NewDatabaseError(err)
	}
	if memory.TripID != tripID {
		return apperrors.NotFound("Memory", memoryID)
	}

	if err := s.memories.DeleteMemory(ctx, memoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Memory", memoryID)
		}
		return apperrors.NewDatabaseError(err)
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, memory.PhotoURL); err != nil {
			logger.GetLogger().Warnw("Failed to delete photo object",
				"memoryID", memoryID,
				"error", err)
		}
	}
	return nil
}

func isImageContentType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/heic", "image/heif":
		return true
	default:
		return false
	}
}
