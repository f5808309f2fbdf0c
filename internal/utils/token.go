package utils

import "github.com/google/uuid"

// NewAccessToken mints an opaque bearer token: a 36-character random UUID.
// Tokens carry no claims; they are resolved by exact database lookup.
func NewAccessToken() string {
	return uuid.NewString()
}
