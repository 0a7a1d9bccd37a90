package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// MemoryStore implements store.MemoryStore using PostgreSQL.
type MemoryStore struct {
	db DB
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore(db DB) *MemoryStore {
	return &MemoryStore{db: db}
}

const memoryColumns = `id, trip_id, photo_url, latitude, longitude, caption, taken_at, created_at`

func scanMemory(row pgx.Row) (*types.Memory, error) {
	m := &types.Memory{}
	err := row.Scan(
		&m.ID,
		&m.TripID,
		&m.PhotoURL,
		&m.Latitude,
		&m.Longitude,
		&m.Caption,
		&m.TakenAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListMemories returns a trip's memories, newest moment first.
func (s *MemoryStore) ListMemories(ctx context.Context, tripID string) ([]*types.Memory, error) {
	query := `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE trip_id = $1
		ORDER BY taken_at DESC NULLS LAST, created_at DESC`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []*types.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memories, nil
}

// GetMemory retrieves a memory by ID.
func (s *MemoryStore) GetMemory(ctx context.Context, id string) (*types.Memory, error) {
	query := `SELECT ` + memoryColumns + ` FROM memories WHERE id = $1`
	return scanMemory(s.db.QueryRow(ctx, query, id))
}

// CreateMemory inserts a memory.
func (s *MemoryStore) CreateMemory(ctx context.Context, memory *types.Memory) (*types.Memory, error) {
	query := `
		INSERT INTO memories (trip_id, photo_url, latitude, longitude, caption, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + memoryColumns

	return scanMemory(s.db.QueryRow(ctx, query,
		memory.TripID,
		memory.PhotoURL,
		memory.Latitude,
		memory.Longitude,
		memory.Caption,
		memory.TakenAt,
	))
}

// DeleteMemory removes a memory.
func (s *MemoryStore) DeleteMemory(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM memories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
