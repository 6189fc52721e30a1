// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Token verification errors.
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrPurposeMismatch  = errors.New("token purpose mismatch")
	ErrTokenRevoked     = errors.New("token revoked")

	// Authentication errors. ErrInvalidCredentials deliberately covers both
	// "no such user" and "wrong password".
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email not confirmed")
	ErrUserNotFound       = errors.New("user not found")
)
