package handler

import (
	"time"

	"github.com/scholarbridge/assistant-api/internal/core/domain"
	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

type signUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
	Count int            `json:"count"`
}

// errorResponse documents the error envelope rendered by the central error
// handler; handlers never build it directly.
type errorResponse struct {
	Error string `json:"error"`
}

func toSessionResponse(result *ports.AuthResult) sessionResponse {
	return sessionResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	}
}
