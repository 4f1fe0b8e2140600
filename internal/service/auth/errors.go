package auth

import "errors"

// Authentication error types
var (
	// ErrInvalidToken indicates the token is malformed, has an invalid
	// signature, or otherwise failed validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's expiry time has passed.
	ErrExpiredToken = errors.New("token expired")
)
