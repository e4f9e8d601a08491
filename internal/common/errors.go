// Package common defines shared constants and sentinel errors used across
// the server layers of the issue tracker. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Error classes. Every error returned by the services wraps exactly one
	// of these, and transports map them to status codes.
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInternal            = errors.New("internal error")

	// Authorization causes.
	ErrMissingToken     = errors.New("missing token")
	ErrTokenInvalid     = errors.New("token invalid or expired")
	ErrPermissionDenied = errors.New("permission denied")

	// Credential causes.
	ErrEmailAlreadyRegistered = errors.New("email already in use")
	ErrUnknownEmail           = errors.New("no account registered with this email")
	ErrPasswordMismatch       = errors.New("password does not match")

	// Catalog causes.
	ErrNameAlreadyTaken = errors.New("name already in use")
)
