// Package common defines shared constants and sentinel errors used across
// the client and server halves of cartsync. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Transport-level errors the client maps backend failures to.
	ErrUnavailable = errors.New("server unavailable")

	// Validation errors, rejected before any network call.
	ErrorValidation         = errors.New("validation error")
	ErrorEmptyCart          = errors.New("cart is empty")
	ErrorInvalidQuantity    = errors.New("quantity must be positive")
	ErrorUserAlreadyExists  = errors.New("user already exists")
	ErrorInvalidCredentials = errors.New("invalid email/password")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
