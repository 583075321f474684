package domain

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// ProviderCredential is the provider id used for email/password accounts.
const ProviderCredential = "credential"

// User models an authenticated actor in the system.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Image         string    `json:"image,omitempty"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Account links a user to an identity provider. Credential accounts
// (ProviderID == ProviderCredential) carry the bcrypt password hash.
// Accounts are cascade-deleted with their owning user.
type Account struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	AccountID             string    `json:"account_id"`
	ProviderID            string    `json:"provider_id"`
	AccessToken           string    `json:"-"`
	RefreshToken          string    `json:"-"`
	IDToken               string    `json:"-"`
	AccessTokenExpiresAt  time.Time `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
	Scope                 string    `json:"scope,omitempty"`
	PasswordHash          string    `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
