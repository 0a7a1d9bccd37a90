package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// inviteCodeBytes yields 16 URL-safe characters of entropy per code.
const inviteCodeBytes = 12

// InviteMailer dispatches invitation emails. Implementations must be safe to
// call concurrently; a nil mailer disables dispatch.
type InviteMailer interface {
	SendInvite(ctx context.Context, toEmail string, details *types.InviteDetails) error
}

// SharingService owns the trip sharing and invitation lifecycle, and is the
// single authorizer for trip access across all trip-scoped services.
type SharingService struct {
	shares store.ShareStore
	trips  store.TripStore
	users  store.UserStore
	mailer InviteMailer
}

// NewSharingService creates a SharingService. mailer may be nil.
func NewSharingService(shares store.ShareStore, trips store.TripStore, users store.UserStore, mailer InviteMailer) *SharingService {
	return &SharingService{
		shares: shares,
		trips:  trips,
		users:  users,
		mailer: mailer,
	}
}

// generateInviteCode returns a URL-safe random invite code. Codes are never
// derived from identifiers.
func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ShareTrip invites an email address to the trip. Re-sharing an already
// invited address resets that share to pending with the new permission and
// expiry instead of creating a duplicate; the existing invite code is kept,
// so a link already sent out keeps working. Owner only.
func (s *SharingService) ShareTrip(ctx context.Context, tripID, ownerID, email string, permission types.SharePermission, expiresAt *time.Time) (*types.TripShare, error) {
	log := logger.GetLogger()

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.ValidationFailed("Invalid email", "a valid recipient email is required")
	}
	if !permission.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid permission", "permission must be view or edit")
	}

	trip, err := s.requireOwnedTrip(ctx, tripID, ownerID)
	if err != nil {
		return nil, err
	}

	// The code is only consumed when the upsert inserts a fresh row; a
	// re-invite keeps the code already on the existing share.
	code, err := generateInviteCode()
	if err != nil {
		return nil, apperrors.InternalServerError(err.Error())
	}

	// Pre-link the share to an existing account so the recipient sees the
	// trip under shared-with-me even before accepting by email match.
	var sharedWithUserID *string
	recipient, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		sharedWithUserID = &recipient.ID
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewDatabaseError(err)
	}

	share, err := s.shares.UpsertShare(ctx, &types.TripShare{
		TripID:           tripID,
		OwnerID:          ownerID,
		SharedWithEmail:  email,
		SharedWithUserID: sharedWithUserID,
		Permission:       permission,
		InviteCode:       code,
		InviteExpiresAt:  expiresAt,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	log.Infow("Trip shared",
		"tripID", tripID,
		"email", logger.MaskEmail(email),
		"permission", permission)

	s.dispatchInvite(ctx, trip, share)
	return share, nil
}

// dispatchInvite sends the invitation email when a mailer is configured.
// Failures are logged, never surfaced; the share already exists.
func (s *SharingService) dispatchInvite(ctx context.Context, trip *types.Trip, share *types.TripShare) {
	if s.mailer == nil {
		return
	}

	ownerName := ""
	if owner, err := s.users.GetUserByID(ctx, share.OwnerID); err == nil {
		ownerName = owner.Name
		if ownerName == "" {
			ownerName = owner.Email
		}
	}

	details := &types.InviteDetails{
		InviteCode:     share.InviteCode,
		TripTitle:      trip.Title,
		TripCoverImage: trip.CoverImageURL,
		OwnerName:      ownerName,
		Permission:     share.Permission,
		Status:         share.Status,
		ExpiresAt:      share.InviteExpiresAt,
	}
	if err := s.mailer.SendInvite(ctx, share.SharedWithEmail, details); err != nil {
		logger.GetLogger().Warnw("Failed to send invite email",
			"email", logger.MaskEmail(share.SharedWithEmail),
			"error", err)
	}
}

// GetTripShares lists all shares of a trip. Owner only.
func (s *SharingService) GetTripShares(ctx context.Context, tripID, ownerID string) ([]*types.TripShare, error) {
	if _, err := s.requireOwnedTrip(ctx, tripID, ownerID); err != nil {
		return nil, err
	}

	shares, err := s.shares.ListSharesByTrip(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return shares, nil
}

// UpdateSharePermission changes a share's permission. Owner only; the share
// must belong to the given trip.
func (s *SharingService) UpdateSharePermission(ctx context.Context, tripID, shareID, ownerID string, permission types.SharePermission) (*types.TripShare, error) {
	if !permission.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid permission", "permission must be view or edit")
	}
	if _, err := s.requireOwnedShare(ctx, tripID, shareID, ownerID); err != nil {
		return nil, err
	}

	updated, err := s.shares.UpdateSharePermission(ctx, shareID, permission)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Share", shareID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return updated, nil
}

// RevokeShare removes a share; the recipient loses access immediately, even
// mid-session. Owner only.
func (s *SharingService) RevokeShare(ctx context.Context, tripID, shareID, ownerID string) error {
	if _, err := s.requireOwnedShare(ctx, tripID, shareID, ownerID); err != nil {
		return err
	}

	if err := s.shares.DeleteShare(ctx, shareID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Share", shareID)
		}
		return apperrors.NewDatabaseError(err)
	}

	logger.GetLogger().Infow("Share revoked", "tripID", tripID, "shareID", shareID)
	return nil
}

// GetInviteDetails resolves an invite code to its public preview. No
// authentication required; the code itself is the capability.
func (s *SharingService) GetInviteDetails(ctx context.Context, code string) (*types.InviteDetails, error) {
	share, err := s.getShareByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetTrip(ctx, share.TripID)
	if err != nil {
		return nil, apperrors.NotFound("Invite", logger.MaskInviteCode(code))
	}
	owner, err := s.users.GetUserByID(ctx, share.OwnerID)
	if err != nil {
		return nil, apperrors.NotFound("Invite", logger.MaskInviteCode(code))
	}

	ownerName := owner.Name
	if ownerName == "" {
		ownerName = owner.Email
	}

	return &types.InviteDetails{
		InviteCode:     share.InviteCode,
		TripTitle:      trip.Title,
		TripCoverImage: trip.CoverImageURL,
		OwnerName:      ownerName,
		Permission:     share.Permission,
		Status:         share.Status,
		ExpiresAt:      share.InviteExpiresAt,
	}, nil
}

// AcceptInvite accepts a pending invitation: the share is bound to the
// accepting user, the invited email is overwritten with the account's actual
// address, and accepted_at is stamped. Accepting a non-pending share is a
// no-op returning it unchanged, so retries are safe. Expiry is only checked
// here, never on lookup.
func (s *SharingService) AcceptInvite(ctx context.Context, code, userID string) (*types.TripShare, error) {
	share, err := s.getShareByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if share.InviteExpiresAt != nil && share.InviteExpiresAt.Before(time.Now()) {
		return nil, apperrors.InviteExpired(code)
	}

	if share.Status != types.ShareStatusPending {
		return share, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("User", userID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	accepted, err := s.shares.AcceptShare(ctx, share.ID, user.ID, user.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost a race with another accept or decline; return current state.
			return s.getShareByCode(ctx, code)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	logger.GetLogger().Infow("Invite accepted",
		"tripID", accepted.TripID,
		"code", logger.MaskInviteCode(code))
	return accepted, nil
}

// DeclineInvite declines a pending invitation. Declining a share that is no
// longer pending leaves it untouched: transitions out of pending are
// monotonic.
func (s *SharingService) DeclineInvite(ctx context.Context, code, userID string) (*types.TripShare, error) {
	share, err := s.getShareByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if share.Status != types.ShareStatusPending {
		return share, nil
	}

	declined, err := s.shares.DeclineShare(ctx, share.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.getShareByCode(ctx, code)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return declined, nil
}

// GetTripsSharedWithMe lists trips the user has accepted shares of.
func (s *SharingService) GetTripsSharedWithMe(ctx context.Context, userID string) ([]*types.SharedTrip, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("User", userID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	shared, err := s.shares.ListSharedWithUser(ctx, user.ID, user.Email)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return shared, nil
}

// GetTripAccess resolves the caller's access level on a trip: owner, shared
// with edit, shared view-only, or none. Every trip-scoped operation in the
// other services routes through this.
func (s *SharingService) GetTripAccess(ctx context.Context, tripID, userID string) (types.AccessLevel, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.AccessNone, nil
		}
		return types.AccessNone, apperrors.NewDatabaseError(err)
	}
	if trip.UserID == userID {
		return types.AccessOwner, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.AccessNone, nil
		}
		return types.AccessNone, apperrors.NewDatabaseError(err)
	}

	share, err := s.shares.GetAcceptedShare(ctx, tripID, user.ID, user.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.AccessNone, nil
		}
		return types.AccessNone, apperrors.NewDatabaseError(err)
	}

	if share.Permission == types.SharePermissionEdit {
		return types.AccessSharedEdit, nil
	}
	return types.AccessSharedView, nil
}

// CanAccessTrip reports whether the user may act on the trip at the required
// permission level.
func (s *SharingService) CanAccessTrip(ctx context.Context, tripID, userID string, required types.SharePermission) (bool, error) {
	level, err := s.GetTripAccess(ctx, tripID, userID)
	if err != nil {
		return false, err
	}
	return level.Allows(required), nil
}

// AuthorizeTrip resolves access and converts an insufficient level into the
// externally visible not-found, so callers cannot probe for trip existence.
func (s *SharingService) AuthorizeTrip(ctx context.Context, tripID, userID string, required types.SharePermission) error {
	ok, err := s.CanAccessTrip(ctx, tripID, userID, required)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("Trip", tripID)
	}
	return nil
}

func (s *SharingService) getShareByCode(ctx context.Context, code string) (*types.TripShare, error) {
	share, err := s.shares.GetShareByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Invite", logger.MaskInviteCode(code))
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return share, nil
}

// requireOwnedTrip loads the trip and verifies ownership. Missing trip and
// foreign trip both yield the same not-found.
func (s *SharingService) requireOwnedTrip(ctx context.Context, tripID, ownerID string) (*types.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if trip.UserID != ownerID {
		return nil, apperrors.NotFound("Trip", tripID)
	}
	return trip, nil
}

// requireOwnedShare verifies the share exists, belongs to the trip and is
// owned by the caller.
func (s *SharingService) requireOwnedShare(ctx context.Context, tripID, shareID, ownerID string) (*types.TripShare, error) {
	share, err := s.shares.GetShare(ctx, shareID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Share", shareID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if share.TripID != tripID || share.OwnerID != ownerID {
		return nil, apperrors.NotFound("Share", shareID)
	}
	return share, nil
}
