package common

import "errors"

// Failure categories surfaced to the HTTP layer. Services classify
// store/auth failures into one of these; anything else reaches the
// handlers unclassified and is reported as a generic failure.
var (
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidDisplayName = errors.New("display name is required")
)
