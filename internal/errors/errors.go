package errors

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountInactive      = errors.New("account is not active")
	ErrIdentifierTaken      = errors.New("identifier already in use")
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts")

	ErrOTPNotFound          = errors.New("no active otp challenge")
	ErrOTPExpired           = errors.New("otp code expired")
	ErrOTPInvalid           = errors.New("invalid otp code")
	ErrOTPAttemptsExhausted = errors.New("otp attempts exhausted")
	ErrOTPAlreadyConsumed   = errors.New("otp code already used")
	ErrOTPRateLimited       = errors.New("otp requested too soon")

	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenReused  = errors.New("refresh token reuse detected")

	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("forbidden")
)

// ValidationError carries per-field messages for 400 responses.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
