package types

import "time"

// SharePermission is the capability granted by a trip share.
type SharePermission string

const (
	SharePermissionView SharePermission = "view"
	SharePermissionEdit SharePermission = "edit"
)

func (p SharePermission) IsValid() bool {
	return p == SharePermissionView || p == SharePermissionEdit
}

// ShareStatus tracks the invitation lifecycle. Transitions are monotonic:
// pending -> accepted or pending -> declined. A re-share by the owner resets
// the row to pending, which is a new invite action, not a regression.
type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "pending"
	ShareStatusAccepted ShareStatus = "accepted"
	ShareStatusDeclined ShareStatus = "declined"
)

// TripShare is an access grant from a trip owner to a recipient identified
// by email. At most one share exists per (trip, email) pair; the invite code
// is the only handle that resolves a share without knowing trip or owner.
type TripShare struct {
	ID               string          `json:"id"`
	TripID           string          `json:"tripId"`
	OwnerID          string          `json:"ownerId"`
	SharedWithEmail  string          `json:"sharedWithEmail"`
	SharedWithUserID *string         `json:"sharedWithUserId,omitempty"` // nil until the recipient is known
	Permission       SharePermission `json:"permission"`
	InviteCode       string          `json:"inviteCode"`
	InviteExpiresAt  *time.Time      `json:"inviteExpiresAt,omitempty"`
	Status           ShareStatus     `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	AcceptedAt       *time.Time      `json:"acceptedAt,omitempty"`
}

// AccessLevel is the tagged result of a trip access check, so the
// edit-vs-view distinction cannot be skipped accidentally.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessSharedView
	AccessSharedEdit
	AccessOwner
)

// Allows reports whether the level satisfies the required permission.
func (a AccessLevel) Allows(required SharePermission) bool {
	switch a {
	case AccessOwner, AccessSharedEdit:
		return true
	case AccessSharedView:
		return required != SharePermissionEdit
	default:
		return false
	}
}

// InviteDetails is the public (unauthenticated) view of an invitation.
type InviteDetails struct {
	InviteCode     string          `json:"inviteCode"`
	TripTitle      string          `json:"tripTitle"`
	TripCoverImage string          `json:"tripCoverImage,omitempty"`
	OwnerName      string          `json:"ownerName"`
	Permission     SharePermission `json:"permission"`
	Status         ShareStatus     `json:"status"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty"`
}

// SharedTrip is one entry in a user's "shared with me" listing.
type SharedTrip struct {
	ShareID        string          `json:"shareId"`
	TripID         string          `json:"tripId"`
	TripTitle      string          `json:"tripTitle"`
	TripCoverImage string          `json:"tripCoverImage,omitempty"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        *time.Time      `json:"endDate,omitempty"`
	Status         TripStatus      `json:"status"`
	OwnerName      string          `json:"ownerName"`
	OwnerEmail     string          `json:"ownerEmail"`
	Permission     SharePermission `json:"permission"`
	SharedAt       time.Time       `json:"sharedAt"`
}
