package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// DocumentService manages travel documents stored in object storage.
type DocumentService struct {
	documents store.DocumentStore
	sharing   *SharingService
	storage   ObjectStorage
}

// NewDocumentService creates a DocumentService. storage may be nil, in which
// case document uploads are rejected.
func NewDocumentService(documents store.DocumentStore, sharing *SharingService, storage ObjectStorage) *DocumentService {
	return &DocumentService{documents: documents, sharing: sharing, storage: storage}
}

// ListDocuments returns the trip's documents.
func (s *DocumentService) ListDocuments(ctx context.Context, tripID, userID string) ([]*types.Document, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	docs, err := s.documents.ListDocuments(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return docs, nil
}

// ListDocumentsGrouped buckets the trip's documents by type.
func (s *DocumentService) ListDocumentsGrouped(ctx context.Context, tripID, userID string) (map[string][]*types.Document, error) {
	docs, err := s.ListDocuments(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]*types.Document)
	for _, d := range docs {
		grouped[d.Type] = append(grouped[d.Type], d)
	}
	return grouped, nil
}

// GetDocument returns one document.
func (s *DocumentService) GetDocument(ctx context.Context, tripID, documentID, userID string) (*types.Document, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	return s.requireDocumentInTrip(ctx, tripID, documentID)
}

// CreateDocument uploads the file and persists the document record. The
// sniffed content type is stored alongside the URL.
func (s *DocumentService) CreateDocument(ctx context.Context, tripID, userID string, file []byte, docType, name, notes string) (*types.Document, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ValidationFailed("Invalid document", "name is required")
	}
	if len(file) == 0 {
		return nil, apperrors.ValidationFailed("Invalid document", "a file is required")
	}
	if len(file) > maxUploadBytes {
		return nil, apperrors.ValidationFailed("Invalid document", "file exceeds the 10MB limit")
	}
	if s.storage == nil {
		return nil, apperrors.InternalServerError("document storage is not configured")
	}
	if docType == "" {
		docType = "other"
	}

	key := fmt.Sprintf("documents/%s/%s", tripID, uuid.NewString())
	url, contentType, err := s.storage.Upload(ctx, key, file)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to store document")
	}

	doc, err := s.documents.CreateDocument(ctx, &types.Document{
		TripID:   tripID,
		Type:     docType,
		Name:     name,
		FileURL:  url,
		FileType: contentType,
		Notes:    notes,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return doc, nil
}

// UpdateDocument applies a partial metadata update; the stored file is
// immutable.
func (s *DocumentService) UpdateDocument(ctx context.Context, tripID, documentID, userID string, update *types.DocumentUpdate) (*types.Document, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if _, err := s.requireDocumentInTrip(ctx, tripID, documentID); err != nil {
		return nil, err
	}

	updated, err := s.documents.UpdateDocument(ctx, documentID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Document", documentID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return updated, nil
}

// DeleteDocument removes the record, then best-effort deletes the stored
// object.
func (s *DocumentService) DeleteDocument(ctx context.Context, tripID, documentID, userID string) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}
	doc, err := s.requireDocumentInTrip(ctx, tripID, documentID)
	if err != nil {
		return err
	}

	if err := s.documents.DeleteDocument(ctx, documentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Document", documentID)
		}
		return apperrors.NewDatabaseError(err)
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, doc.FileURL); err != nil {
			logger.GetLogger().Warnw("Failed to delete document object",
				"documentID", documentID,
				"error", err)
		}
	}
	return nil
}

func (s *DocumentService) requireDocumentInTrip(ctx context.Context, tripID, documentID string) (*types.Document, error) {
	doc, err := s.documents.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Document", documentID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if doc.TripID != tripID {
		return nil, apperrors.NotFound("Document", documentID)
	}
	return doc, nil
}
