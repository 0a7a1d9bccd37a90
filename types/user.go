package types

import "time"

// User is the account record referenced by trips, shares and achievements.
// Account management itself lives in the identity provider; this backend only
// reads and references users.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
