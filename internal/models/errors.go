package models

import "errors"

var (
	// ErrInvalidCredentials covers every way credential verification can
	// yield "no identity": bad credentials, an unreachable backend, a
	// malformed response, or a creator record without a username.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProfileNotLinked is returned when a session token carries no
	// username claim. Callers must surface it, never substitute a value
	// derived from the email address.
	ErrProfileNotLinked = errors.New("session is missing a linked profile")

	ErrTokenRevoked = errors.New("token has been revoked")
)
