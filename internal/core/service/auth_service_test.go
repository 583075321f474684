package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

// stubAuthRepo is an in-memory AuthRepository.
type stubAuthRepo struct {
	users         map[string]*domain.User // by id
	accounts      map[string]*domain.Account
	sessions      map[string]*domain.Session // by token
	verifications map[string]*domain.Verification
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		users:         make(map[string]*domain.User),
		accounts:      make(map[string]*domain.Account),
		sessions:      make(map[string]*domain.Session),
		verifications: make(map[string]*domain.Verification),
	}
}

func (r *stubAuthRepo) CreateUser(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubAuthRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) ListUsers(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubAuthRepo) MarkEmailVerified(_ context.Context, userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerified = true
	return nil
}

func (r *stubAuthRepo) CreateAccount(_ context.Context, account *domain.Account) error {
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *stubAuthRepo) FindCredentialAccount(_ context.Context, userID string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.UserID == userID && a.ProviderID == domain.ProviderCredential {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) CreateSession(_ context.Context, session *domain.Session) error {
	clone := *session
	r.sessions[session.Token] = &clone
	return nil
}

func (r *stubAuthRepo) FindSessionByToken(_ context.Context, token string) (*domain.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubAuthRepo) DeleteSession(_ context.Context, token string) error {
	if _, ok := r.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, token)
	return nil
}

func (r *stubAuthRepo) CreateVerification(_ context.Context, verification *domain.Verification) error {
	clone := *verification
	r.verifications[verification.ID] = &clone
	return nil
}

func (r *stubAuthRepo) FindVerification(_ context.Context, identifier string) (*domain.Verification, error) {
	for _, v := range r.verifications {
		if v.Identifier == identifier {
			clone := *v
			return &clone, nil
		}
	}
	return nil, domain.ErrVerificationInvalid
}

func (r *stubAuthRepo) DeleteVerification(_ context.Context, id string) error {
	delete(r.verifications, id)
	return nil
}

// stubSessionCache records cache interactions.
type stubSessionCache struct {
	entries map[string]*domain.AuthContext
	deleted []string
	getErr  error
	setErr  error
}

func newStubSessionCache() *stubSessionCache {
	return &stubSessionCache{entries: make(map[string]*domain.AuthContext)}
}

func (c *stubSessionCache) Get(_ context.Context, token string) (*domain.AuthContext, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	auth, ok := c.entries[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return auth, nil
}

func (c *stubSessionCache) Set(_ context.Context, auth *domain.AuthContext) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[auth.Token] = auth
	return nil
}

func (c *stubSessionCache) Delete(_ context.Context, token string) error {
	c.deleted = append(c.deleted, token)
	delete(c.entries, token)
	return nil
}

func signUp(t *testing.T, svc *AuthService, email string) *ports.AuthResult {
	t.Helper()
	result, err := svc.SignUp(context.Background(), ports.SignUpInput{
		Name:     "Alice",
		Email:    email,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	return result
}

func TestAuthService_SignUp_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubSessionCache(), time.Hour)

	result := signUp(t, svc, "alice@example.com")

	if result.Token == "" {
		t.Fatalf("expected a session token")
	}
	if result.User.Role != domain.RoleStudent {
		t.Fatalf("unexpected role: %s", result.User.Role)
	}
	if result.User.EmailVerified {
		t.Fatalf("new user must not be verified")
	}

	account, err := repo.FindCredentialAccount(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("credential account not created: %v", err)
	}
	if account.PasswordHash == "correct-horse" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("correct-horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if _, err := repo.FindVerification(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("verification code not created: %v", err)
	}
	if _, err := repo.FindSessionByToken(context.Background(), result.Token); err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubSessionCache(), time.Hour)

	signUp(t, svc, "alice@example.com")

	_, err := svc.SignUp(context.Background(), ports.SignUpInput{
		Name:     "Other Alice",
		Email:    "alice@example.com",
		Password: "another-pass",
	})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignUp_WeakPassword(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), newStubSessionCache(), time.Hour)

	_, err := svc.SignUp(context.Background(), ports.SignUpInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubSessionCache(), time.Hour)
	signUp(t, svc, "alice@example.com")

	result, err := svc.SignIn(context.Background(), ports.SignInInput{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a session token")
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Fatalf("session already expired: %v", result.ExpiresAt)
	}
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubSessionCache(), time.Hour)
	signUp(t, svc, "alice@example.com")

	_, err := svc.SignIn(context.Background(), ports.SignInInput{
		Email:    "alice@example.com",
		Password: "wrong-horse",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), newStubSessionCache(), time.Hour)

	_, err := svc.SignIn(context.Background(), ports.SignInInput{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignOut_RevokesSessionAndCache(t *testing.T) {
	repo := newStubAuthRepo()
	cache := newStubSessionCache()
	svc := NewAuthService(repo, cache, time.Hour)
	result := signUp(t, svc, "alice@example.com")

	if err := svc.SignOut(context.Background(), result.Token); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}

	if _, err := repo.FindSessionByToken(context.Background(), result.Token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session to be deleted, got %v", err)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != result.Token {
		t.Fatalf("expected cache eviction for token, got %v", cache.deleted)
	}

	// A second sign-out of the same token is a no-op, not an error.
	if err := svc.SignOut(context.Background(), result.Token); err != nil {
		t.Fatalf("repeated SignOut returned error: %v", err)
	}
}

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubSessionCache(), time.Hour)
	result := signUp(t, svc, "alice@example.com")

	verification, err := repo.FindVerification(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("verification not found: %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), "alice@example.com", verification.Value); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}

	user, err := repo.FindUserByID(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if !user.EmailVerified {
		t.Fatalf("expected emailVerified to be set")
	}

	// The code is single-use.
	if err := svc.VerifyEmail(context.Background(), "alice@example.com", verification.Value); err != domain.ErrVerificationInvalid {
		t.Fatalf("expected ErrVerificationInvalid on reuse, got %v", err)
	}
}

func TestAuthService_VerifyEmail_WrongCode(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubSessionCache(), time.Hour)
	signUp(t, svc, "alice@example.com")

	if err := svc.VerifyEmail(context.Background(), "alice@example.com", "000000X"); err != domain.ErrVerificationInvalid {
		t.Fatalf("expected ErrVerificationInvalid, got %v", err)
	}
}

func TestAuthService_VerifyEmail_Expired(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubSessionCache(), time.Hour)
	signUp(t, svc, "alice@example.com")

	verification, err := repo.FindVerification(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("verification not found: %v", err)
	}
	repo.verifications[verification.ID].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	if err := svc.VerifyEmail(context.Background(), "alice@example.com", verification.Value); err != domain.ErrVerificationInvalid {
		t.Fatalf("expected ErrVerificationInvalid, got %v", err)
	}
	// Expired codes are consumed.
	if _, err := repo.FindVerification(context.Background(), "alice@example.com"); err != domain.ErrVerificationInvalid {
		t.Fatalf("expected expired code to be deleted, got %v", err)
	}
}
