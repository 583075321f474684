package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scholarbridge/assistant-api/internal/api/metrics"
	"github.com/scholarbridge/assistant-api/internal/core/domain"
	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

// Auth verifies the bearer session token and injects the caller's identity
// into context. Requests without a valid session are rejected with the
// unified 401 envelope via the central error handler.
func Auth(verifier ports.SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrAuthenticationRequired
			}

			auth, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrAuthenticationRequired) {
					metrics.AuthFailuresTotal.WithLabelValues("invalid_session").Inc()
				}
				return err
			}

			setIdentity(c, auth)
			return next(c)
		}
	}
}

// OptionalAuth resolves the caller's identity when a valid token is present
// but lets unauthenticated requests through untouched. Verifier rejections
// are treated as "no session"; only store failures propagate.
func OptionalAuth(verifier ports.SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}

			auth, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrAuthenticationRequired) {
					return next(c)
				}
				return err
			}

			setIdentity(c, auth)
			return next(c)
		}
	}
}

func setIdentity(c echo.Context, auth *domain.AuthContext) {
	c.Set("user_id", auth.UserID)
	c.Set("role", auth.Role)
	c.Set("session_token", auth.Token)
}

// bearerToken extracts the token from the Authorization header; an empty
// string means the request carries no usable credential.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
