package service

import "errors"

var (
	// ErrInvalidCredentials is a rejected login. The current session, if
	// any, stays valid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is an update or delete against a vanished resource.
	ErrNotFound = errors.New("resource not found")

	// ErrNoChanges short-circuits an edit whose payload matches the
	// original record. No request is sent.
	ErrNoChanges = errors.New("no changes detected")

	// ErrPasswordMismatch rejects an admin create whose confirmation does
	// not match the password.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrResetTokenInvalid is a password reset with an expired or bogus token.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
)

// ValidationError is a client-side rejection tied to a single form field,
// raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
