package session

import "errors"

var (
	// ErrNotFound is returned when no session has the requested id.
	ErrNotFound = errors.New("session not found")

	// ErrStoreFull is returned when the configured session limit is reached.
	ErrStoreFull = errors.New("session limit reached")
)

// Token errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("session token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("session token is missing")

	// ErrWrongSession indicates a valid token presented for another session
	ErrWrongSession = errors.New("session token does not match session")
)
