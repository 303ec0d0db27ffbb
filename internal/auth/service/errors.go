// Package service holds the session engine and the authentication facade
// on top of it.
package service

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP status codes;
// nothing below this layer leaks raw storage errors to callers.
var (
	// ErrValidation reports malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict reports a duplicate unique identity field.
	ErrConflict = errors.New("already exists")

	// ErrNotFound reports an unknown subject.
	ErrNotFound = errors.New("not found")

	// ErrSessionNotFound reports an unknown or stale session, typically a
	// refresh token that was already rotated or revoked.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnauthorized reports bad credentials, an invalid or expired
	// token, or missing auth material.
	ErrUnauthorized = errors.New("unauthorized")
)
