package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// PackingStore implements store.PackingStore using PostgreSQL.
type PackingStore struct {
	db DB
}

// NewPackingStore creates a new PackingStore instance.
func NewPackingStore(db DB) *PackingStore {
	return &PackingStore{db: db}
}

const packingColumns = `id, trip_id, name, category, is_packed, quantity, notes,
		sort_order, created_at, updated_at`

func scanPackingItem(row pgx.Row) (*types.PackingItem, error) {
	item := &types.PackingItem{}
	err := row.Scan(
		&item.ID,
		&item.TripID,
		&item.Name,
		&item.Category,
		&item.IsPacked,
		&item.Quantity,
		&item.Notes,
		&item.SortOrder,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListPackingItems returns a trip's packing list with optional category and
// packed filters, in sort order.
func (s *PackingStore) ListPackingItems(ctx context.Context, tripID string, category *types.PackingCategory, packed *bool) ([]*types.PackingItem, error) {
	query := `
		SELECT ` + packingColumns + `
		FROM packing_items
		WHERE trip_id = $1
			AND ($2::text IS NULL OR category = $2)
			AND ($3::boolean IS NULL OR is_packed = $3)
		ORDER BY sort_order, created_at`

	rows, err := s.db.Query(ctx, query, tripID, category, packed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*types.PackingItem
	for rows.Next() {
		item, err := scanPackingItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetPackingItem retrieves a packing item by ID.
func (s *PackingStore) GetPackingItem(ctx context.Context, id string) (*types.PackingItem, error) {
	query := `SELECT ` + packingColumns + ` FROM packing_items WHERE id = $1`
	return scanPackingItem(s.db.QueryRow(ctx, query, id))
}

// CreatePackingItem appends an item to the trip's packing list.
func (s *PackingStore) CreatePackingItem(ctx context.Context, item *types.PackingItem) (*types.PackingItem, error) {
	query := `
		INSERT INTO packing_items (trip_id, name, category, quantity, notes, sort_order)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(sort_order), -1) + 1 FROM packing_items WHERE trip_id = $1))
		RETURNING ` + packingColumns

	return scanPackingItem(s.db.QueryRow(ctx, query,
		item.TripID,
		item.Name,
		item.Category,
		item.Quantity,
		item.Notes,
	))
}

// UpdatePackingItem applies the non-nil fields of update.
func (s *PackingStore) UpdatePackingItem(ctx context.Context, id string, update *types.PackingItemUpdate) (*types.PackingItem, error) {
	query := `
		UPDATE packing_items
		SET name = COALESCE($1, name),
			category = COALESCE($2, category),
			is_packed = COALESCE($3, is_packed),
			quantity = COALESCE($4, quantity),
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + packingColumns

	return scanPackingItem(s.db.QueryRow(ctx, query,
		update.Name,
		update.Category,
		update.IsPacked,
		update.Quantity,
		update.Notes,
		id,
	))
}

// TogglePackingItem flips the packed state.
func (s *PackingStore) TogglePackingItem(ctx context.Context, id string) (*types.PackingItem, error) {
	query := `
		UPDATE packing_items
		SET is_packed = NOT is_packed, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + packingColumns

	return scanPackingItem(s.db.QueryRow(ctx, query, id))
}

// BulkTogglePackingItems sets the packed state on multiple items in one
// transaction. An id outside the trip aborts the whole batch.
func (s *PackingStore) BulkTogglePackingItems(ctx context.Context, tripID string, ids []string, packed bool) error {
	return runInTx(ctx, s.db, func(tx pgx.Tx) error {
		for _, id := range ids {
			result, err := tx.Exec(ctx,
				`UPDATE packing_items SET is_packed = $1, updated_at = NOW() WHERE id = $2 AND trip_id = $3`,
				packed, id, tripID)
			if err != nil {
				return err
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("packing item %s does not belong to trip: %w", id, store.ErrNotFound)
			}
		}
		return nil
	})
}

// ReorderPackingItems rewrites sort_order to match orderedIDs, in one
// transaction.
func (s *PackingStore) ReorderPackingItems(ctx context.Context, tripID string, orderedIDs []string) error {
	return runInTx(ctx, s.db, func(tx pgx.Tx) error {
		for i, id := range orderedIDs {
			result, err := tx.Exec(ctx,
				`UPDATE packing_items SET sort_order = $1, updated_at = NOW() WHERE id = $2 AND trip_id = $3`,
				i, id, tripID)
			if err != nil {
				return err
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("packing item %s does not belong to trip: %w", id, store.ErrNotFound)
			}
		}
		return nil
	})
}

// DeletePackingItem removes a packing item.
func (s *PackingStore) DeletePackingItem(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM packing_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// PackingProgress aggregates packed counts overall and per category.
func (s *PackingStore) PackingProgress(ctx context.Context, tripID string) (*types.PackingProgress, error) {
	query := `
		SELECT category, COUNT(*), COUNT(*) FILTER (WHERE is_packed)
		FROM packing_items
		WHERE trip_id = $1
		GROUP BY category`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := &types.PackingProgress{
		ByCategory: map[types.PackingCategory]*types.CategoryCount{},
	}
	for rows.Next() {
		var category types.PackingCategory
		var total, packed int
		if err := rows.Scan(&category, &total, &packed); err != nil {
			return nil, err
		}
		progress.ByCategory[category] = &types.CategoryCount{Total: total, Packed: packed}
		progress.Total += total
		progress.Packed += packed
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if progress.Total > 0 {
		progress.Percent = float64(progress.Packed) / float64(progress.Total) * 100
	}
	return progress, nil
}
