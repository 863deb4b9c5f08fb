package session

import "errors"

var (
	// ErrNotConfigured is returned when sessions are used but no store is configured.
	ErrNotConfigured = errors.New("session: not configured")

	ErrNotFound = errors.New("session: not found")
	ErrExpired  = errors.New("session: expired")

	ErrEncode = errors.New("session: failed to encode")
	ErrDecode = errors.New("session: failed to decode")
)
