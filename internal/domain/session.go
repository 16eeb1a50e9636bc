package domain

import "time"

// RoleAdmin is the only role allowed into the dashboard.
const RoleAdmin = "Admin"

// SessionRecord is the persisted session state: the raw upstream token
// plus the identity fields decoded from it. It is the explicit analogue
// of the token/userId/userEmail entries the SPA kept in local storage.
type SessionRecord struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the record's token expiry is at or before now.
func (r *SessionRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
