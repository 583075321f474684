package ports

import (
	"context"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
)

// SessionVerifier resolves a bearer token to an authenticated identity.
// Every "no valid session" outcome (empty token, unknown token, expired
// session) is reported as domain.ErrAuthenticationRequired; it is a normal
// result, not a fault, and callers must not retry.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*domain.AuthContext, error)
}

// SessionCache is a read-through cache in front of the session table.
// Implementations may fail softly; callers fall back to the repository.
type SessionCache interface {
	Get(ctx context.Context, token string) (*domain.AuthContext, error)
	Set(ctx context.Context, auth *domain.AuthContext) error
	Delete(ctx context.Context, token string) error
}
