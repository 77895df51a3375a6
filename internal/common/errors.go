// Package common defines shared sentinel errors used across the legacy
// session subsystem. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session lifecycle errors. ErrSessionExpired is distinct from
	// ErrUnknownSession so callers can prompt a re-login instead of
	// reporting a bad link.
	ErrUnknownSession        = errors.New("unknown session")
	ErrSessionExpired        = errors.New("session expired")
	ErrSessionCreationFailed = errors.New("session creation failed")

	// Wire-input errors (malformed or unverifiable client data).
	ErrInvalidCookie = errors.New("invalid cookie")
	ErrInvalidToken  = errors.New("invalid token")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Store-backend faults unrelated to business logic (connectivity etc.).
	// Backend driver error types never cross the store boundary; they are
	// wrapped into this one.
	ErrIO = errors.New("storage i/o error")
)
