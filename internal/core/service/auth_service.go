package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

const (
	minPasswordLen  = 8
	verificationTTL = time.Hour
)

// AuthService implements sign-up, sign-in, sign-out and email verification
// on top of the four-table auth store.
type AuthService struct {
	repo       ports.AuthRepository
	cache      ports.SessionCache
	sessionTTL time.Duration
}

func NewAuthService(repo ports.AuthRepository, cache ports.SessionCache, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, cache: cache, sessionTTL: sessionTTL}
}

func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*ports.AuthResult, error) {
	if input.Name == "" || input.Email == "" || len(input.Password) < minPasswordLen {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindUserByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      domain.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		AccountID:    user.ID,
		ProviderID:   domain.ProviderCredential,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	code, err := verificationCode()
	if err != nil {
		return nil, err
	}
	verification := &domain.Verification{
		ID:         uuid.NewString(),
		Identifier: user.Email,
		Value:      code,
		ExpiresAt:  now.Add(verificationTTL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateVerification(ctx, verification); err != nil {
		return nil, err
	}

	return s.mintSession(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) SignIn(ctx context.Context, input ports.SignInInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	account, err := s.repo.FindCredentialAccount(ctx, user.ID)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.mintSession(ctx, user, input.IPAddress, input.UserAgent)
}

// SignOut revokes the session row and evicts its cache entry. Revoking an
// already-absent session is not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrAuthenticationRequired
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, token)
	}
	if err := s.repo.DeleteSession(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

// VerifyEmail consumes a verification code for the given email. The code is
// single-use: it is deleted whether expired or accepted.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return domain.ErrVerificationInvalid
	}

	verification, err := s.repo.FindVerification(ctx, email)
	if err != nil {
		return domain.ErrVerificationInvalid
	}

	if time.Now().UTC().After(verification.ExpiresAt) {
		_ = s.repo.DeleteVerification(ctx, verification.ID)
		return domain.ErrVerificationInvalid
	}
	if verification.Value != code {
		return domain.ErrVerificationInvalid
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repo.MarkEmailVerified(ctx, user.ID); err != nil {
		return err
	}
	return s.repo.DeleteVerification(ctx, verification.ID)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *AuthService) mintSession(ctx context.Context, user *domain.User, ip, userAgent string) (*ports.AuthResult, error) {
	token, err := sessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &ports.AuthResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// sessionToken returns a 256-bit URL-safe opaque token.
func sessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// verificationCode returns a zero-padded six-digit numeric code.
func verificationCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	n := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}
