package ports

import (
	"context"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
)

// AuthRepository defines persistence for the four auth tables.
type AuthRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	MarkEmailVerified(ctx context.Context, userID string) error

	CreateAccount(ctx context.Context, account *domain.Account) error
	FindCredentialAccount(ctx context.Context, userID string) (*domain.Account, error)

	CreateSession(ctx context.Context, session *domain.Session) error
	FindSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error

	CreateVerification(ctx context.Context, verification *domain.Verification) error
	FindVerification(ctx context.Context, identifier string) (*domain.Verification, error)
	DeleteVerification(ctx context.Context, id string) error
}
