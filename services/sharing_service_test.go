package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

func ownedTrip(id, ownerID string) *types.Trip {
	return &types.Trip{
		ID:        id,
		UserID:    ownerID,
		Title:     "Kyoto in Autumn",
		StartDate: time.Now(),
		Status:    types.TripStatusPlanned,
	}
}

func assertAppError(t *testing.T, err error, errType apperrors.ErrorType) {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *apperrors.AppError, got %T", err)
	assert.Equal(t, errType, appErr.Type)
}

func TestSharingService_ShareTrip(t *testing.T) {
	trips := &stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
		if id == "trip-1" {
			return ownedTrip("trip-1", "owner-1"), nil
		}
		return nil, store.ErrNotFound
	}}

	noAccount := &stubUserStore{getUserByEmail: func(_ context.Context, email string) (*types.User, error) {
		return nil, store.ErrNotFound
	}}

	t.Run("owner shares with fresh code", func(t *testing.T) {
		var stored *types.TripShare
		shares := &stubShareStore{upsertShare: func(_ context.Context, share *types.TripShare) (*types.TripShare, error) {
			stored = share
			out := *share
			out.ID = "share-1"
			out.Status = types.ShareStatusPending
			return &out, nil
		}}
		svc := NewSharingService(shares, trips, noAccount, nil)

		share, err := svc.ShareTrip(context.Background(), "trip-1", "owner-1",
			" friend@example.com ", types.SharePermissionEdit, nil)
		require.NoError(t, err)
		assert.Equal(t, types.ShareStatusPending, share.Status)
		assert.Equal(t, "friend@example.com", stored.SharedWithEmail)
		assert.Nil(t, stored.SharedWithUserID)
		assert.NotEmpty(t, stored.InviteCode)
		assert.Len(t, stored.InviteCode, 16)
	})

	t.Run("recipient with an account is linked up front", func(t *testing.T) {
		account := &types.User{ID: "user-2", Email: "friend@example.com"}
		users := &stubUserStore{getUserByEmail: func(_ context.Context, email string) (*types.User, error) {
			if email == account.Email {
				return account, nil
			}
			return nil, store.ErrNotFound
		}}
		var stored *types.TripShare
		shares := &stubShareStore{upsertShare: func(_ context.Context, share *types.TripShare) (*types.TripShare, error) {
			stored = share
			return share, nil
		}}
		svc := NewSharingService(shares, trips, users, nil)

		_, err := svc.ShareTrip(context.Background(), "trip-1", "owner-1",
			"friend@example.com", types.SharePermissionView, nil)
		require.NoError(t, err)
		require.NotNil(t, stored.SharedWithUserID)
		assert.Equal(t, "user-2", *stored.SharedWithUserID)
	})

	t.Run("re-share keeps the first invite code", func(t *testing.T) {
		// Emulates the store's upsert: the second share of the same address
		// updates the row in place and the original code survives.
		var row *types.TripShare
		var candidates []string
		shares := &stubShareStore{upsertShare: func(_ context.Context, share *types.TripShare) (*types.TripShare, error) {
			candidates = append(candidates, share.InviteCode)
			if row == nil {
				out := *share
				out.ID = "share-1"
				out.Status = types.ShareStatusPending
				row = &out
			} else {
				row.Permission = share.Permission
				row.Status = types.ShareStatusPending
			}
			out := *row
			return &out, nil
		}}
		svc := NewSharingService(shares, trips, noAccount, nil)

		first, err := svc.ShareTrip(context.Background(), "trip-1", "owner-1",
			"friend@example.com", types.SharePermissionView, nil)
		require.NoError(t, err)
		second, err := svc.ShareTrip(context.Background(), "trip-1", "owner-1",
			"friend@example.com", types.SharePermissionEdit, nil)
		require.NoError(t, err)

		require.Len(t, candidates, 2)
		assert.NotEqual(t, candidates[0], candidates[1])
		assert.Equal(t, first.InviteCode, second.InviteCode)
		assert.Equal(t, types.SharePermissionEdit, second.Permission)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		svc := NewSharingService(&stubShareStore{}, trips, nil, nil)
		_, err := svc.ShareTrip(context.Background(), "trip-1", "owner-1",
			"not-an-email", types.SharePermissionView, nil)
		assertAppError(t, err, apperrors.ValidationError)
	})

	t.Run("invalid permission rejected", func(t *testing.T) {
		svc := NewSharingService(&stubShareStore{}, trips, nil, nil)
		_, err := svc.ShareTrip(context.Background(), "trip-1", "owner-1",
			"friend@example.com", types.SharePermission("admin"), nil)
		assertAppError(t, err, apperrors.ValidationError)
	})

	t.Run("non-owner sees not found", func(t *testing.T) {
		svc := NewSharingService(&stubShareStore{}, trips, nil, nil)
		_, err := svc.ShareTrip(context.Background(), "trip-1", "intruder",
			"friend@example.com", types.SharePermissionView, nil)
		assertAppError(t, err, apperrors.NotFoundError)
	})
}

func TestSharingService_AcceptInvite(t *testing.T) {
	user := &types.User{ID: "user-2", Email: "friend@example.com"}
	users := &stubUserStore{getUserByID: func(_ context.Context, id string) (*types.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, store.ErrNotFound
	}}

	t.Run("pending invite is accepted", func(t *testing.T) {
		pending := &types.TripShare{
			ID:         "share-1",
			TripID:     "trip-1",
			InviteCode: "code123code123ab",
			Status:     types.ShareStatusPending,
		}
		shares := &stubShareStore{
			getShareByCode: func(_ context.Context, code string) (*types.TripShare, error) {
				return pending, nil
			},
			acceptShare: func(_ context.Context, id, userID, email string) (*types.TripShare, error) {
				assert.Equal(t, "share-1", id)
				assert.Equal(t, "user-2", userID)
				assert.Equal(t, "friend@example.com", email)
				now := time.Now()
				out := *pending
				out.Status = types.ShareStatusAccepted
				out.SharedWithUserID = &userID
				out.AcceptedAt = &now
				return &out, nil
			},
		}
		svc := NewSharingService(shares, nil, users, nil)

		share, err := svc.AcceptInvite(context.Background(), "code123code123ab", "user-2")
		require.NoError(t, err)
		assert.Equal(t, types.ShareStatusAccepted, share.Status)
		assert.NotNil(t, share.AcceptedAt)
	})

	t.Run("accepting twice returns share unchanged", func(t *testing.T) {
		now := time.Now()
		accepted := &types.TripShare{
			ID:         "share-1",
			Status:     types.ShareStatusAccepted,
			AcceptedAt: &now,
		}
		shares := &stubShareStore{
			getShareByCode: func(_ context.Context, code string) (*types.TripShare, error) {
				return accepted, nil
			},
		}
		svc := NewSharingService(shares, nil, users, nil)

		share, err := svc.AcceptInvite(context.Background(), "code123code123ab", "user-2")
		require.NoError(t, err)
		assert.Same(t, accepted, share)
	})

	t.Run("expired invite rejected only on accept", func(t *testing.T) {
		expiry := time.Now().Add(-time.Hour)
		expired := &types.TripShare{
			ID:              "share-1",
			Status:          types.ShareStatusPending,
			InviteExpiresAt: &expiry,
		}
		shares := &stubShareStore{
			getShareByCode: func(_ context.Context, code string) (*types.TripShare, error) {
				return expired, nil
			},
		}
		svc := NewSharingService(shares, nil, users, nil)

		_, err := svc.AcceptInvite(context.Background(), "code123code123ab", "user-2")
		assertAppError(t, err, apperrors.ExpiredError)
		appErr := err.(*apperrors.AppError)
		assert.Equal(t, 410, appErr.GetHTTPStatus())
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		shares := &stubShareStore{
			getShareByCode: func(_ context.Context, code string) (*types.TripShare, error) {
				return nil, store.ErrNotFound
			},
		}
		svc := NewSharingService(shares, nil, users, nil)

		_, err := svc.AcceptInvite(context.Background(), "nope", "user-2")
		assertAppError(t, err, apperrors.NotFoundError)
	})

	t.Run("lost accept race returns current state", func(t *testing.T) {
		pending := &types.TripShare{ID: "share-1", Status: types.ShareStatusPending}
		now := time.Now()
		accepted := &types.TripShare{ID: "share-1", Status: types.ShareStatusAccepted, AcceptedAt: &now}
		calls := 0
		shares := &stubShareStore{
			getShareByCode: func(_ context.Context, code string) (*types.TripShare, error) {
				calls++
				if calls == 1 {
					return pending, nil
				}
				return accepted, nil
			},
			acceptShare: func(_ context.Context, id, userID, email string) (*types.TripShare, error) {
				return nil, store.ErrNotFound
			},
		}
		svc := NewSharingService(shares, nil, users, nil)

		share, err := svc.AcceptInvite(context.Background(), "code123code123ab", "user-2")
		require.NoError(t, err)
		assert.Equal(t, types.ShareStatusAccepted, share.Status)
	})
}

func TestSharingService_DeclineInvite(t *testing.T) {
	t.Run("declining a declined share is a no-op", func(t *testing.T) {
		declined := &types.TripShare{ID: "share-1", Status: types.ShareStatusDeclined}
		shares := &stubShareStore{
			getShareByCode: func(_ context.Context, code string) (*types.TripShare, error) {
				return declined, nil
			},
		}
		svc := NewSharingService(shares, nil, nil, nil)

		share, err := svc.DeclineInvite(context.Background(), "code123code123ab", "user-2")
		require.NoError(t, err)
		assert.Same(t, declined, share)
	})

	t.Run("pending share is declined", func(t *testing.T) {
		pending := &types.TripShare{ID: "share-1", Status: types.ShareStatusPending}
		shares := &stubShareStore{
			getShareByCode: func(_ context.Context, code string) (*types.TripShare, error) {
				return pending, nil
			},
			declineShare: func(_ context.Context, id string) (*types.TripShare, error) {
				out := *pending
				out.Status = types.ShareStatusDeclined
				return &out, nil
			},
		}
		svc := NewSharingService(shares, nil, nil, nil)

		share, err := svc.DeclineInvite(context.Background(), "code123code123ab", "user-2")
		require.NoError(t, err)
		assert.Equal(t, types.ShareStatusDeclined, share.Status)
	})
}

func TestSharingService_RevokeShare(t *testing.T) {
	trips := &stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
		return ownedTrip("trip-1", "owner-1"), nil
	}}
	existing := &types.TripShare{ID: "share-1", TripID: "trip-1", OwnerID: "owner-1"}

	t.Run("owner revokes", func(t *testing.T) {
		deleted := false
		shares := &stubShareStore{
			getShare: func(_ context.Context, id string) (*types.TripShare, error) {
				return existing, nil
			},
			deleteShare: func(_ context.Context, id string) error {
				deleted = true
				return nil
			},
		}
		svc := NewSharingService(shares, trips, nil, nil)

		require.NoError(t, svc.RevokeShare(context.Background(), "trip-1", "share-1", "owner-1"))
		assert.True(t, deleted)
	})

	t.Run("non-owner sees not found", func(t *testing.T) {
		shares := &stubShareStore{
			getShare: func(_ context.Context, id string) (*types.TripShare, error) {
				return existing, nil
			},
		}
		svc := NewSharingService(shares, trips, nil, nil)

		err := svc.RevokeShare(context.Background(), "trip-1", "share-1", "intruder")
		assertAppError(t, err, apperrors.NotFoundError)
	})

	t.Run("share of another trip sees not found", func(t *testing.T) {
		shares := &stubShareStore{
			getShare: func(_ context.Context, id string) (*types.TripShare, error) {
				return &types.TripShare{ID: "share-1", TripID: "trip-other", OwnerID: "owner-1"}, nil
			},
		}
		svc := NewSharingService(shares, trips, nil, nil)

		err := svc.RevokeShare(context.Background(), "trip-1", "share-1", "owner-1")
		assertAppError(t, err, apperrors.NotFoundError)
	})
}

func TestSharingService_GetTripAccess(t *testing.T) {
	user := &types.User{ID: "user-2", Email: "friend@example.com"}
	users := &stubUserStore{getUserByID: func(_ context.Context, id string) (*types.User, error) {
		return user, nil
	}}
	trips := &stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
		if id == "trip-1" {
			return ownedTrip("trip-1", "owner-1"), nil
		}
		return nil, store.ErrNotFound
	}}

	tests := []struct {
		name     string
		tripID   string
		userID   string
		share    *types.TripShare
		expected types.AccessLevel
	}{
		{"owner", "trip-1", "owner-1", nil, types.AccessOwner},
		{"accepted edit share", "trip-1", "user-2",
			&types.TripShare{Permission: types.SharePermissionEdit}, types.AccessSharedEdit},
		{"accepted view share", "trip-1", "user-2",
			&types.TripShare{Permission: types.SharePermissionView}, types.AccessSharedView},
		{"no share", "trip-1", "user-2", nil, types.AccessNone},
		{"missing trip", "trip-404", "user-2", nil, types.AccessNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := &stubShareStore{
				getAcceptedShare: func(_ context.Context, tripID, userID, email string) (*types.TripShare, error) {
					if tt.share == nil {
						return nil, store.ErrNotFound
					}
					return tt.share, nil
				},
			}
			svc := NewSharingService(shares, trips, users, nil)

			level, err := svc.GetTripAccess(context.Background(), tt.tripID, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestSharingService_AuthorizeTrip(t *testing.T) {
	user := &types.User{ID: "user-2", Email: "friend@example.com"}
	users := &stubUserStore{getUserByID: func(_ context.Context, id string) (*types.User, error) {
		return user, nil
	}}
	trips := &stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
		return ownedTrip("trip-1", "owner-1"), nil
	}}
	viewShare := &stubShareStore{
		getAcceptedShare: func(_ context.Context, tripID, userID, email string) (*types.TripShare, error) {
			return &types.TripShare{Permission: types.SharePermissionView}, nil
		},
	}
	svc := NewSharingService(viewShare, trips, users, nil)

	t.Run("view access passes view requirement", func(t *testing.T) {
		assert.NoError(t, svc.AuthorizeTrip(context.Background(), "trip-1", "user-2", types.SharePermissionView))
	})

	t.Run("insufficient access looks like not found", func(t *testing.T) {
		err := svc.AuthorizeTrip(context.Background(), "trip-1", "user-2", types.SharePermissionEdit)
		assertAppError(t, err, apperrors.NotFoundError)
	})
}
