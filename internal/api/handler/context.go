package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a handler behind Auth
// must always see a non-empty user id and session token. Their absence
// means the middleware did not run, which is a wiring bug reported as the
// normal unauthenticated outcome.
func ctxIdentity(c echo.Context) (userID, token string, err error) {
	userID, _ = c.Get("user_id").(string)
	token, _ = c.Get("session_token").(string)
	if userID == "" || token == "" {
		return "", "", domain.ErrAuthenticationRequired
	}
	return userID, token, nil
}

// ctxOptionalUserID returns the authenticated user id, or fallback when the
// request carries no session.
func ctxOptionalUserID(c echo.Context, fallback string) string {
	if userID, _ := c.Get("user_id").(string); userID != "" {
		return userID
	}
	return fallback
}
