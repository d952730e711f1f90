// Package users maps external authenticated principals to internal user
// records and manages user profiles. A user is created lazily on the first
// authenticated request and never deleted here.
package users

import "time"

// User is the internal user record. ExternalID is the identity provider's
// opaque stable identifier; email is the reconciliation fallback key.
type User struct {
	ID         int       `json:"id"`
	ExternalID string    `json:"-"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatarUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
