package service

import "errors"

// Domain errors returned by the service layer. The HTTP handler maps these
// to status codes; anything else is treated as an infrastructure failure
// and surfaced as an opaque server error.
var (
	// ErrUnauthenticated covers missing, unknown and stale access tokens.
	ErrUnauthenticated = errors.New("invalid or missing access token")

	// ErrInvalidCredentials is returned for both unknown users and wrong
	// passwords, so login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden means a valid identity acting outside its role or on a
	// resource it does not own.
	ErrForbidden = errors.New("access denied")

	// ErrAccountNotFound means the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUserNotFound means the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAmount rejects non-positive amounts and amounts with more
	// than two decimal places, before any row lock is taken.
	ErrInvalidAmount = errors.New("amount must be positive with at most 2 decimal places")
)
