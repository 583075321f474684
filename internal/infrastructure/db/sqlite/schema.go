package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements is the table contract the authentication store expects:
// four tables, camelCase columns, cascade deletes from account and session
// to user. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		"id" TEXT NOT NULL PRIMARY KEY,
		"name" TEXT NOT NULL,
		"email" TEXT NOT NULL UNIQUE,
		"emailVerified" INTEGER NOT NULL DEFAULT 0,
		"image" TEXT,
		"role" TEXT NOT NULL DEFAULT 'student',
		"createdAt" DATE NOT NULL,
		"updatedAt" DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "session" (
		"id" TEXT NOT NULL PRIMARY KEY,
		"token" TEXT NOT NULL UNIQUE,
		"userId" TEXT NOT NULL REFERENCES "user" ("id") ON DELETE CASCADE,
		"expiresAt" DATE NOT NULL,
		"ipAddress" TEXT,
		"userAgent" TEXT,
		"createdAt" DATE NOT NULL,
		"updatedAt" DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "account" (
		"id" TEXT NOT NULL PRIMARY KEY,
		"userId" TEXT NOT NULL REFERENCES "user" ("id") ON DELETE CASCADE,
		"accountId" TEXT NOT NULL,
		"providerId" TEXT NOT NULL,
		"accessToken" TEXT,
		"refreshToken" TEXT,
		"idToken" TEXT,
		"accessTokenExpiresAt" DATE,
		"refreshTokenExpiresAt" DATE,
		"scope" TEXT,
		"password" TEXT,
		"createdAt" DATE NOT NULL,
		"updatedAt" DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "verification" (
		"id" TEXT NOT NULL PRIMARY KEY,
		"identifier" TEXT NOT NULL,
		"value" TEXT NOT NULL,
		"expiresAt" DATE NOT NULL,
		"createdAt" DATE NOT NULL,
		"updatedAt" DATE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS "idx_session_userId" ON "session" ("userId")`,
	`CREATE INDEX IF NOT EXISTS "idx_account_userId" ON "account" ("userId")`,
	`CREATE INDEX IF NOT EXISTS "idx_verification_identifier" ON "verification" ("identifier")`,
}

// EnsureSchema creates the auth tables if they do not exist. Safe to run
// any number of times against the same database file.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}
