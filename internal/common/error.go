// Package common defines shared constants and sentinel errors used across
// the server and client layers of Anonboard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorBackendUnavailable = errors.New("backend unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorConfigMissing = errors.New("remote backend not configured")

	// Auth / moderation errors.
	ErrorAuthRejected = errors.New("invalid credentials")
	ErrorBanned       = errors.New("account is banned")
	ErrorUserExists   = errors.New("username already exists")

	// Validation errors.
	ErrorEmptyMessage   = errors.New("empty message")
	ErrorMissingFields  = errors.New("missing required fields")
	ErrorInvalidSession = errors.New("invalid session")
)
