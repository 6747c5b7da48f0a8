package common

import "errors"

// Callers should match these with errors.Is; wrapped causes are for logs only.
var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal = errors.New("internal error")
	ErrValidation = errors.New("validation error")
	ErrUpstream   = errors.New("upstream error")

	// auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// checkout errors
	ErrPaymentNotConfigured = errors.New("payment not configured")
)
