package ports

import (
	"context"
	"time"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
)

// SignUpInput carries everything needed to create a credential account.
type SignUpInput struct {
	Name      string
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// SignInInput carries email/password credentials plus client metadata
// recorded on the minted session.
type SignInInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// AuthResult is returned by SignUp and SignIn: the minted session token,
// its expiry, and the owning user.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, input SignInInput) (*AuthResult, error)
	SignOut(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, email, code string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
