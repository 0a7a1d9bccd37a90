package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ShareStore implements store.ShareStore using PostgreSQL.
type ShareStore struct {
	db DB
}

// NewShareStore creates a new ShareStore instance.
func NewShareStore(db DB) *ShareStore {
	return &ShareStore{db: db}
}

const shareColumns = `id, trip_id, owner_id, shared_with_email, shared_with_user_id,
		permission, invite_code, invite_expires_at, status, created_at, accepted_at`

func scanShare(row pgx.Row) (*types.TripShare, error) {
	share := &types.TripShare{}
	err := row.Scan(
		&share.ID,
		&share.TripID,
		&share.OwnerID,
		&share.SharedWithEmail,
		&share.SharedWithUserID,
		&share.Permission,
		&share.InviteCode,
		&share.InviteExpiresAt,
		&share.Status,
		&share.CreatedAt,
		&share.AcceptedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return share, nil
}

// UpsertShare inserts a share or, when one already exists for the same trip
// and email, re-invites in place: new permission, new expiry, status back to
// pending, acceptance cleared. The existing row keeps its invite_code, so
// links from the first invitation stay valid; share.InviteCode only lands on
// a fresh insert. An already bound shared_with_user_id is preserved. The
// unique index on (trip_id, lower(shared_with_email)) makes concurrent
// shares of the same address collapse to one row.
func (s *ShareStore) UpsertShare(ctx context.Context, share *types.TripShare) (*types.TripShare, error) {
	query := `
		INSERT INTO trip_shares (trip_id, owner_id, shared_with_email, shared_with_user_id,
			permission, invite_code, invite_expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		ON CONFLICT (trip_id, lower(shared_with_email)) DO UPDATE
		SET permission = EXCLUDED.permission,
			invite_expires_at = EXCLUDED.invite_expires_at,
			status = 'pending',
			shared_with_user_id = COALESCE(trip_shares.shared_with_user_id, EXCLUDED.shared_with_user_id),
			accepted_at = NULL
		RETURNING ` + shareColumns

	return scanShare(s.db.QueryRow(ctx, query,
		share.TripID,
		share.OwnerID,
		strings.TrimSpace(share.SharedWithEmail),
		share.SharedWithUserID,
		share.Permission,
		share.InviteCode,
		share.InviteExpiresAt,
	))
}

// GetShare retrieves a share by ID.
func (s *ShareStore) GetShare(ctx context.Context, id string) (*types.TripShare, error) {
	query := `SELECT ` + shareColumns + ` FROM trip_shares WHERE id = $1`
	return scanShare(s.db.QueryRow(ctx, query, id))
}

// GetShareByCode retrieves a share by its invite code.
func (s *ShareStore) GetShareByCode(ctx context.Context, code string) (*types.TripShare, error) {
	query := `SELECT ` + shareColumns + ` FROM trip_shares WHERE invite_code = $1`
	return scanShare(s.db.QueryRow(ctx, query, code))
}

// ListSharesByTrip returns all shares of a trip, newest first.
func (s *ShareStore) ListSharesByTrip(ctx context.Context, tripID string) ([]*types.TripShare, error) {
	query := `
		SELECT ` + shareColumns + `
		FROM trip_shares
		WHERE trip_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*types.TripShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shares, nil
}

// UpdateSharePermission changes the permission on an existing share.
func (s *ShareStore) UpdateSharePermission(ctx context.Context, id string, permission types.SharePermission) (*types.TripShare, error) {
	query := `
		UPDATE trip_shares
		SET permission = $1
		WHERE id = $2
		RETURNING ` + shareColumns

	return scanShare(s.db.QueryRow(ctx, query, permission, id))
}

// AcceptShare binds the accepting user to the share, overwrites the invited
// email with the account's actual address and stamps accepted_at. The status
// guard makes acceptance idempotent at the SQL level: a second call finds no
// pending row and the caller falls back to returning the share unchanged.
func (s *ShareStore) AcceptShare(ctx context.Context, id, userID, email string) (*types.TripShare, error) {
	query := `
		UPDATE trip_shares
		SET status = 'accepted',
			shared_with_user_id = $1,
			shared_with_email = $2,
			accepted_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING ` + shareColumns

	return scanShare(s.db.QueryRow(ctx, query, userID, email, id))
}

// DeclineShare marks a pending share declined. Non-pending rows are left
// untouched and store.ErrNotFound is returned.
func (s *ShareStore) DeclineShare(ctx context.Context, id string) (*types.TripShare, error) {
	query := `
		UPDATE trip_shares
		SET status = 'declined'
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + shareColumns

	return scanShare(s.db.QueryRow(ctx, query, id))
}

// DeleteShare removes a share. Revocation is a hard delete; the recipient
// loses access immediately.
func (s *ShareStore) DeleteShare(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM trip_shares WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListSharedWithUser returns trips shared with the user (matched by user id
// or email) that they have accepted, newest acceptance first.
func (s *ShareStore) ListSharedWithUser(ctx context.Context, userID, email string) ([]*types.SharedTrip, error) {
	query := `
		SELECT s.id, t.id, t.title, t.cover_image_url, t.start_date, t.end_date, t.status,
			u.name, u.email, s.permission, s.accepted_at
		FROM trip_shares s
		JOIN trips t ON t.id = s.trip_id
		JOIN users u ON u.id = s.owner_id
		WHERE s.status = 'accepted'
			AND (s.shared_with_user_id = $1 OR lower(s.shared_with_email) = lower($2))
		ORDER BY s.accepted_at DESC`

	rows, err := s.db.Query(ctx, query, userID, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shared []*types.SharedTrip
	for rows.Next() {
		st := &types.SharedTrip{}
		err := rows.Scan(
			&st.ShareID,
			&st.TripID,
			&st.TripTitle,
			&st.TripCoverImage,
			&st.StartDate,
			&st.EndDate,
			&st.Status,
			&st.OwnerName,
			&st.OwnerEmail,
			&st.Permission,
			&st.SharedAt,
		)
		if err != nil {
			return nil, err
		}
		shared = append(shared, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shared, nil
}

// GetAcceptedShare finds an accepted share of the trip for the given user,
// matched by bound user id or by email.
func (s *ShareStore) GetAcceptedShare(ctx context.Context, tripID, userID, email string) (*types.TripShare, error) {
	query := `
		SELECT ` + shareColumns + `
		FROM trip_shares
		WHERE trip_id = $1
			AND status = 'accepted'
			AND (shared_with_user_id = $2 OR lower(shared_with_email) = lower($3))
		LIMIT 1`

	return scanShare(s.db.QueryRow(ctx, query, tripID, userID, email))
}
