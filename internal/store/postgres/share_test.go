package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

func shareRow(id string, status types.ShareStatus, acceptedAt *time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "trip_id", "owner_id", "shared_with_email", "shared_with_user_id",
		"permission", "invite_code", "invite_expires_at", "status", "created_at", "accepted_at",
	}).AddRow(
		id, "trip-1", "owner-1", "friend@example.com", (*string)(nil),
		types.SharePermissionView, "code123code123ab", (*time.Time)(nil), status, time.Now(), acceptedAt,
	)
}

func TestShareStore_UpsertShare(t *testing.T) {
	t.Run("new share is inserted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		userID := "user-2"
		mock.ExpectQuery("INSERT INTO trip_shares").
			WithArgs("trip-1", "owner-1", "friend@example.com", &userID,
				types.SharePermissionView, "code123code123ab", pgxmock.AnyArg()).
			WillReturnRows(shareRow("share-1", types.ShareStatusPending, nil))

		share, err := s.UpsertShare(context.Background(), &types.TripShare{
			TripID:           "trip-1",
			OwnerID:          "owner-1",
			SharedWithEmail:  "  friend@example.com  ",
			SharedWithUserID: &userID,
			Permission:       types.SharePermissionView,
			InviteCode:       "code123code123ab",
		})
		require.NoError(t, err)
		assert.Equal(t, "share-1", share.ID)
		assert.Equal(t, types.ShareStatusPending, share.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// The conflict branch must not touch invite_code, so a link from the
	// first invitation keeps resolving after a re-share. The expectation's
	// pattern pins the exact update list.
	t.Run("re-share keeps the stored invite code", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		mock.ExpectQuery(`(?s)INSERT INTO trip_shares.+ON CONFLICT \(trip_id, lower\(shared_with_email\)\) DO UPDATE\s+SET permission = EXCLUDED\.permission,\s+invite_expires_at = EXCLUDED\.invite_expires_at,\s+status = 'pending'`).
			WithArgs("trip-1", "owner-1", "friend@example.com", (*string)(nil),
				types.SharePermissionEdit, "freshcodefreshc0", pgxmock.AnyArg()).
			WillReturnRows(shareRow("share-1", types.ShareStatusPending, nil))

		share, err := s.UpsertShare(context.Background(), &types.TripShare{
			TripID:          "trip-1",
			OwnerID:         "owner-1",
			SharedWithEmail: "friend@example.com",
			Permission:      types.SharePermissionEdit,
			InviteCode:      "freshcodefreshc0",
		})
		require.NoError(t, err)
		assert.Equal(t, "code123code123ab", share.InviteCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareStore_AcceptShare(t *testing.T) {
	t.Run("pending share is accepted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)
		now := time.Now()

		mock.ExpectQuery("UPDATE trip_shares").
			WithArgs("user-2", "friend@example.com", "share-1").
			WillReturnRows(shareRow("share-1", types.ShareStatusAccepted, &now))

		share, err := s.AcceptShare(context.Background(), "share-1", "user-2", "friend@example.com")
		require.NoError(t, err)
		assert.Equal(t, types.ShareStatusAccepted, share.Status)
		assert.NotNil(t, share.AcceptedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-pending share reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		mock.ExpectQuery("UPDATE trip_shares").
			WithArgs("user-2", "friend@example.com", "share-1").
			WillReturnError(pgx.ErrNoRows)

		_, err = s.AcceptShare(context.Background(), "share-1", "user-2", "friend@example.com")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareStore_DeclineShare(t *testing.T) {
	t.Run("pending share is declined", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		mock.ExpectQuery("UPDATE trip_shares").
			WithArgs("share-1").
			WillReturnRows(shareRow("share-1", types.ShareStatusDeclined, nil))

		share, err := s.DeclineShare(context.Background(), "share-1")
		require.NoError(t, err)
		assert.Equal(t, types.ShareStatusDeclined, share.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-pending share reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		mock.ExpectQuery("UPDATE trip_shares").
			WithArgs("share-1").
			WillReturnError(pgx.ErrNoRows)

		_, err = s.DeclineShare(context.Background(), "share-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareStore_DeleteShare(t *testing.T) {
	t.Run("existing share is deleted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		mock.ExpectExec("DELETE FROM trip_shares").
			WithArgs("share-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, s.DeleteShare(context.Background(), "share-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing share reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		mock.ExpectExec("DELETE FROM trip_shares").
			WithArgs("share-404").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err = s.DeleteShare(context.Background(), "share-404")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareStore_GetShareByCode(t *testing.T) {
	t.Run("unknown code reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewShareStore(mock)

		mock.ExpectQuery("SELECT (.+) FROM trip_shares WHERE invite_code").
			WithArgs("nope").
			WillReturnError(pgx.ErrNoRows)

		_, err = s.GetShareByCode(context.Background(), "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
