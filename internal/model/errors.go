package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	// Stamp errors
	ErrStampNotFound = errors.New("stamp not found")

	// Auth errors
	ErrMissingCredentials = errors.New("must provide username and password")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrInvalidSession     = errors.New("invalid or expired session")

	// ErrValidation marks malformed or missing input; wrap it with the
	// field-specific message so handlers can pick flash text with errors.Is.
	ErrValidation = errors.New("validation failed")
)
