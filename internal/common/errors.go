// Package common defines shared constants and sentinel errors used across
// the secureportal core. Callers should use errors.Is to match these values.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorStorage      = errors.New("storage unavailable")

	// input rejected before it reaches crypto or storage
	ErrorValidation = errors.New("validation error")

	// credential endpoints
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// session lifecycle errors
	ErrSessionExpired = errors.New("session expired")

	// anti-forgery token missing or not matching the session-bound value
	ErrCSRFTokenInvalid = errors.New("csrf token invalid")

	// protected-field errors. Callers must treat a decryption failure
	// exactly like an integrity failure.
	ErrDecryptionFailed = errors.New("decryption failed")
)
