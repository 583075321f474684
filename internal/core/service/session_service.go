package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

// SessionService resolves bearer tokens to authenticated identities. It
// consults the cache first and falls back to the session table; cache
// failures are logged and never surface to the caller.
type SessionService struct {
	repo   ports.AuthRepository
	cache  ports.SessionCache
	logger zerolog.Logger
}

func NewSessionService(repo ports.AuthRepository, cache ports.SessionCache, logger zerolog.Logger) *SessionService {
	return &SessionService{repo: repo, cache: cache, logger: logger}
}

// Verify implements ports.SessionVerifier. An expired session is deleted
// opportunistically and reported exactly like an absent one.
func (s *SessionService) Verify(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	now := time.Now().UTC()

	if s.cache != nil {
		auth, err := s.cache.Get(ctx, token)
		switch {
		case err == nil && auth != nil:
			if !now.Before(auth.ExpiresAt) {
				_ = s.cache.Delete(ctx, token)
				return nil, domain.ErrAuthenticationRequired
			}
			return auth, nil
		case err != nil && !errors.Is(err, domain.ErrSessionNotFound):
			s.logger.Warn().Err(err).Msg("session cache lookup failed")
		}
	}

	session, err := s.repo.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrAuthenticationRequired
		}
		return nil, err
	}

	if session.Expired(now) {
		_ = s.repo.DeleteSession(ctx, token)
		return nil, domain.ErrAuthenticationRequired
	}

	user, err := s.repo.FindUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAuthenticationRequired
		}
		return nil, err
	}

	auth := &domain.AuthContext{
		UserID:    user.ID,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, auth); err != nil {
			s.logger.Warn().Err(err).Msg("session cache store failed")
		}
	}

	return auth, nil
}
