package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// DocumentStore implements store.DocumentStore using PostgreSQL.
type DocumentStore struct {
	db DB
}

// NewDocumentStore creates a new DocumentStore instance.
func NewDocumentStore(db DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, trip_id, type, name, file_url, file_type, notes, created_at, updated_at`

func scanDocument(row pgx.Row) (*types.Document, error) {
	d := &types.Document{}
	err := row.Scan(
		&d.ID,
		&d.TripID,
		&d.Type,
		&d.Name,
		&d.FileURL,
		&d.FileType,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListDocuments returns a trip's documents ordered by type, then name.
func (s *DocumentStore) ListDocuments(ctx context.Context, tripID string) ([]*types.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE trip_id = $1
		ORDER BY type, name`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*types.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(s.db.QueryRow(ctx, query, id))
}

// CreateDocument inserts a document.
func (s *DocumentStore) CreateDocument(ctx context.Context, doc *types.Document) (*types.Document, error) {
	query := `
		INSERT INTO documents (trip_id, type, name, file_url, file_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns

	return scanDocument(s.db.QueryRow(ctx, query,
		doc.TripID,
		doc.Type,
		doc.Name,
		doc.FileURL,
		doc.FileType,
		doc.Notes,
	))
}

// UpdateDocument applies the non-nil fields of update. The stored file
// itself is immutable; replacing it means deleting and re-uploading.
func (s *DocumentStore) UpdateDocument(ctx context.Context, id string, update *types.DocumentUpdate) (*types.Document, error) {
	query := `
		UPDATE documents
		SET type = COALESCE($1, type),
			name = COALESCE($2, name),
			notes = COALESCE($3, notes),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + documentColumns

	return scanDocument(s.db.QueryRow(ctx, query,
		update.Type,
		update.Name,
		update.Notes,
		id,
	))
}

// DeleteDocument removes a document.
func (s *DocumentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
