package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func tableSchemas(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()
	rows, err := db.Query(`SELECT name, sql FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		t.Fatalf("sqlite_master: %v", err)
	}
	defer rows.Close()

	schemas := make(map[string]string)
	for rows.Next() {
		var name, ddl string
		if err := rows.Scan(&name, &ddl); err != nil {
			t.Fatalf("scan: %v", err)
		}
		schemas[name] = ddl
	}
	return schemas
}

func TestEnsureSchema_CreatesFourTables(t *testing.T) {
	db := openTestDB(t)

	schemas := tableSchemas(t, db)
	for _, table := range []string{"user", "session", "account", "verification"} {
		if _, ok := schemas[table]; !ok {
			t.Fatalf("missing table %q, have %v", table, schemas)
		}
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before := tableSchemas(t, db)

	// Second run against the same file: no error, identical schema.
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("second run: %v", err)
	}
	after := tableSchemas(t, db)

	if len(before) != len(after) {
		t.Fatalf("table count changed: %d != %d", len(before), len(after))
	}
	for name, ddl := range before {
		if after[name] != ddl {
			t.Fatalf("schema for %q changed:\n%s\n%s", name, ddl, after[name])
		}
	}
}

func seedUser(t *testing.T, repo *AuthRepository, id, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	user := &domain.User{
		ID:        id,
		Name:      "Alice",
		Email:     email,
		Role:      domain.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestAuthRepository_UserRoundTrip(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))
	seedUser(t, repo, "user-1", "alice@example.com")

	byEmail, err := repo.FindUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != "user-1" || byEmail.Role != domain.RoleStudent || byEmail.EmailVerified {
		t.Fatalf("unexpected user: %+v", byEmail)
	}

	byID, err := repo.FindUserByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", byID)
	}
}

func TestAuthRepository_DuplicateEmail(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))
	seedUser(t, repo, "user-1", "alice@example.com")

	now := time.Now().UTC()
	err := repo.CreateUser(context.Background(), &domain.User{
		ID:        "user-2",
		Name:      "Other Alice",
		Email:     "alice@example.com",
		Role:      domain.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthRepository_UnknownUser(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))

	if _, err := repo.FindUserByEmail(context.Background(), "ghost@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthRepository_MarkEmailVerified(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))
	seedUser(t, repo, "user-1", "alice@example.com")

	if err := repo.MarkEmailVerified(context.Background(), "user-1"); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	user, err := repo.FindUserByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !user.EmailVerified {
		t.Fatalf("expected emailVerified to be set")
	}

	if err := repo.MarkEmailVerified(context.Background(), "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthRepository_CredentialAccount(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))
	user := seedUser(t, repo, "user-1", "alice@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	account := &domain.Account{
		ID:           "acc-1",
		UserID:       user.ID,
		AccountID:    user.ID,
		ProviderID:   domain.ProviderCredential,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}

	got, err := repo.FindCredentialAccount(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	if got.PasswordHash != account.PasswordHash || got.ProviderID != domain.ProviderCredential {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestAuthRepository_SessionRoundTrip(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))
	user := seedUser(t, repo, "user-1", "alice@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	session := &domain.Session{
		ID:        "session-1",
		Token:     "tok-1",
		UserID:    user.ID,
		ExpiresAt: now.Add(time.Hour),
		IPAddress: "127.0.0.1",
		UserAgent: "go-test",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := repo.FindSessionByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if got.UserID != user.ID || got.IPAddress != "127.0.0.1" || got.UserAgent != "go-test" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v != %v", got.ExpiresAt, session.ExpiresAt)
	}

	if err := repo.DeleteSession(context.Background(), "tok-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := repo.FindSessionByToken(context.Background(), "tok-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := repo.DeleteSession(context.Background(), "tok-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound on repeat delete, got %v", err)
	}
}

func TestAuthRepository_CascadeDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuthRepository(db)
	user := seedUser(t, repo, "user-1", "alice@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.CreateSession(context.Background(), &domain.Session{
		ID: "session-1", Token: "tok-1", UserID: user.ID,
		ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := repo.CreateAccount(context.Background(), &domain.Account{
		ID: "acc-1", UserID: user.ID, AccountID: user.ID,
		ProviderID: domain.ProviderCredential, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if _, err := db.Exec(`DELETE FROM "user" WHERE "id" = ?`, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := repo.FindSessionByToken(context.Background(), "tok-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session cascade delete, got %v", err)
	}
	if _, err := repo.FindCredentialAccount(context.Background(), user.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected account cascade delete, got %v", err)
	}
}

func TestAuthRepository_VerificationRoundTrip(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))

	now := time.Now().UTC().Truncate(time.Second)
	verification := &domain.Verification{
		ID:         "ver-1",
		Identifier: "alice@example.com",
		Value:      "123456",
		ExpiresAt:  now.Add(time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.CreateVerification(context.Background(), verification); err != nil {
		t.Fatalf("create verification: %v", err)
	}

	got, err := repo.FindVerification(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("find verification: %v", err)
	}
	if got.Value != "123456" {
		t.Fatalf("unexpected verification: %+v", got)
	}

	if err := repo.DeleteVerification(context.Background(), "ver-1"); err != nil {
		t.Fatalf("delete verification: %v", err)
	}
	if _, err := repo.FindVerification(context.Background(), "alice@example.com"); err != domain.ErrVerificationInvalid {
		t.Fatalf("expected ErrVerificationInvalid, got %v", err)
	}
}

func TestAuthRepository_ListUsers(t *testing.T) {
	repo := NewAuthRepository(openTestDB(t))
	seedUser(t, repo, "user-1", "alice@example.com")
	seedUser(t, repo, "user-2", "bob@example.com")

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
