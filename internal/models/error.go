package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrStoreFailure wraps any persistence failure surfaced to callers
	ErrStoreFailure = errors.New("store failure")

	// Account state errors
	ErrEmailNotVerified = errors.New("email address not verified")
)
