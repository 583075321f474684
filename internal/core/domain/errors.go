package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired covers every "no valid session" outcome:
	// missing token, unknown token, expired session.
	ErrAuthenticationRequired = errors.New("authentication required")

	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrSessionNotFound     = errors.New("session not found")
	ErrVerificationInvalid = errors.New("invalid or expired verification code")
	ErrForbidden           = errors.New("access forbidden")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// UpstreamError is a non-2xx response received from the AI backend. The
// status code is relayed to the client verbatim.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}
