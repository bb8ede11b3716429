// Package shared defines constants and sentinel errors used across client and
// server layers of Grana, plus small helpers for random data and secure memory
// wiping. Callers should use errors.Is to match the sentinels.
package shared

import "errors"

var (
	// repository-level errors
	ErrorNotFound = errors.New("not found")

	// service-level errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// auth errors (invalid or malformed token)
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// validation errors
	ErrorValidation            = errors.New("validation error")
	ErrorEmailAlreadyExists    = errors.New("email already exists")
	ErrorInvalidPasswordFormat = errors.New("invalid password format")

	ErrorInvalidAuthHeaderFormat = errors.New("invalid auth header format")
)
