package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
)

// AuthRepository persists users, accounts, sessions and verifications in
// the four-table SQLite auth schema.
type AuthRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO "user" ("id", "name", "email", "emailVerified", "image", "role", "createdAt", "updatedAt")
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.EmailVerified, nullable(user.Image), user.Role, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `"id", "name", "email", "emailVerified", "image", "role", "createdAt", "updatedAt"`

func (r *AuthRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM "user" WHERE "email" = ?`, email)
	return scanUser(row)
}

func (r *AuthRepository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM "user" WHERE "id" = ?`, id)
	return scanUser(row)
}

func (r *AuthRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM "user" ORDER BY "createdAt"`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *AuthRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE "user" SET "emailVerified" = 1, "updatedAt" = CURRENT_TIMESTAMP WHERE "id" = ?`, userID)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AuthRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO "account" ("id", "userId", "accountId", "providerId", "accessToken", "refreshToken",
		 "idToken", "accessTokenExpiresAt", "refreshTokenExpiresAt", "scope", "password", "createdAt", "updatedAt")
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.UserID, account.AccountID, account.ProviderID,
		nullable(account.AccessToken), nullable(account.RefreshToken), nullable(account.IDToken),
		nullableTime(account.AccessTokenExpiresAt), nullableTime(account.RefreshTokenExpiresAt),
		nullable(account.Scope), nullable(account.PasswordHash), account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AuthRepository) FindCredentialAccount(ctx context.Context, userID string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT "id", "userId", "accountId", "providerId", "scope", "password", "createdAt", "updatedAt"
		 FROM "account" WHERE "userId" = ? AND "providerId" = ?`,
		userID, domain.ProviderCredential)

	var (
		account         domain.Account
		scope, password sql.NullString
	)
	err := row.Scan(&account.ID, &account.UserID, &account.AccountID, &account.ProviderID,
		&scope, &password, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	account.Scope = scope.String
	account.PasswordHash = password.String
	return &account, nil
}

func (r *AuthRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO "session" ("id", "token", "userId", "expiresAt", "ipAddress", "userAgent", "createdAt", "updatedAt")
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Token, session.UserID, session.ExpiresAt,
		nullable(session.IPAddress), nullable(session.UserAgent), session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *AuthRepository) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT "id", "token", "userId", "expiresAt", "ipAddress", "userAgent", "createdAt", "updatedAt"
		 FROM "session" WHERE "token" = ?`, token)

	var (
		session              domain.Session
		ipAddress, userAgent sql.NullString
	)
	err := row.Scan(&session.ID, &session.Token, &session.UserID, &session.ExpiresAt,
		&ipAddress, &userAgent, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	session.IPAddress = ipAddress.String
	session.UserAgent = userAgent.String
	return &session, nil
}

func (r *AuthRepository) DeleteSession(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM "session" WHERE "token" = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *AuthRepository) CreateVerification(ctx context.Context, verification *domain.Verification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO "verification" ("id", "identifier", "value", "expiresAt", "createdAt", "updatedAt")
		 VALUES (?, ?, ?, ?, ?, ?)`,
		verification.ID, verification.Identifier, verification.Value,
		verification.ExpiresAt, verification.CreatedAt, verification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// FindVerification returns the most recent verification for an identifier.
func (r *AuthRepository) FindVerification(ctx context.Context, identifier string) (*domain.Verification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT "id", "identifier", "value", "expiresAt", "createdAt", "updatedAt"
		 FROM "verification" WHERE "identifier" = ? ORDER BY "createdAt" DESC LIMIT 1`, identifier)

	var verification domain.Verification
	err := row.Scan(&verification.ID, &verification.Identifier, &verification.Value,
		&verification.ExpiresAt, &verification.CreatedAt, &verification.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVerificationInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("find verification: %w", err)
	}
	return &verification, nil
}

func (r *AuthRepository) DeleteVerification(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM "verification" WHERE "id" = ?`, id); err != nil {
		return fmt.Errorf("delete verification: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user  domain.User
		image sql.NullString
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.EmailVerified,
		&image, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Image = image.String
	return &user, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint &&
			strings.Contains(serr.Error(), "UNIQUE")
	}
	return false
}
