package domain

import "time"

// Session ties a user to an opaque bearer token with an expiration.
// Sessions are cascade-deleted with their owning user.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Verification is a short-lived identifier/value pair, e.g. an email
// verification code. The identifier is an opaque correlation key with no
// foreign key to any user row.
type Verification struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Value      string    `json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AuthContext is the authenticated identity attached to a request after
// session verification.
type AuthContext struct {
	UserID    string
	Role      string
	Token     string
	ExpiresAt time.Time
}
